package game

import (
	"github.com/charmbracelet/log"

	"github.com/lox/flip7/internal/deck"
)

// DefaultTargetScore ends the game once any total reaches it
const DefaultTargetScore = 200

// Rules are the table rules that vary between games
type Rules struct {
	// TargetScore ends the game after the round in which a total reaches it
	TargetScore int

	// ConfirmSecondChance asks before spending a held second chance on a
	// duplicate; otherwise it is spent automatically
	ConfirmSecondChance bool

	// DealerLeads starts the deal and turn order left of the dealer instead
	// of at seat 0
	DealerLeads bool

	// MaxRounds stops the game after this many rounds; 0 means no limit
	MaxRounds int
}

// DefaultRules returns the standard rules
func DefaultRules() Rules {
	return Rules{TargetScore: DefaultTargetScore}
}

// Option configures an Engine during creation.
type Option func(*engineConfig)

type engineConfig struct {
	deck      *deck.Deck
	rules     Rules
	carrier   CarrierPolicy
	announcer Announcer
	logger    *log.Logger
	fallback  Decider
	id        string
	budget    int
	dealer    int
}

// WithDeck uses a prepared deck instead of a freshly shuffled one
func WithDeck(d *deck.Deck) Option {
	return func(c *engineConfig) {
		c.deck = d
	}
}

// WithRules overrides the default rules
func WithRules(r Rules) Option {
	return func(c *engineConfig) {
		c.rules = r
	}
}

// WithCarrier sets how set-aside flip-three actions are handed out.
// Default is FirstActive.
func WithCarrier(p CarrierPolicy) Option {
	return func(c *engineConfig) {
		c.carrier = p
	}
}

// WithAnnouncer sets where game narration goes
func WithAnnouncer(a Announcer) Option {
	return func(c *engineConfig) {
		c.announcer = a
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(l *log.Logger) Option {
	return func(c *engineConfig) {
		c.logger = l
	}
}

// WithDefaultDecider answers for any player without a decider of their own
func WithDefaultDecider(d Decider) Option {
	return func(c *engineConfig) {
		c.fallback = d
	}
}

// WithGameID sets the identifier reported in results
func WithGameID(id string) Option {
	return func(c *engineConfig) {
		c.id = id
	}
}

// WithBudget limits how many card applications a single resolution chain
// may perform. Default is deck.Size.
func WithBudget(n int) Option {
	return func(c *engineConfig) {
		c.budget = n
	}
}

// WithDealer sets the seat of the first dealer
func WithDealer(seat int) Option {
	return func(c *engineConfig) {
		c.dealer = seat
	}
}
