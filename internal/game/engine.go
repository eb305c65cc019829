package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/flip7/internal/advisor"
	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/hand"
)

var (
	// ErrTooFewPlayers is returned when a game has fewer than two players
	ErrTooFewPlayers = errors.New("at least 2 players required")

	// ErrNoDecider is returned when a prompt has nobody to answer it
	ErrNoDecider = errors.New("no decider for player")
)

// Engine runs a Flip 7 game. It owns the deck and every player's state; all
// mutation happens on the goroutine calling Play, PlayRound or Apply.
type Engine struct {
	id        string
	players   []*Player
	deciders  map[string]Decider
	fallback  Decider
	deck      *deck.Deck
	rules     Rules
	carrier   CarrierPolicy
	announcer Announcer
	logger    *log.Logger
	budget    int

	round   int
	dealer  int
	history []RoundResult
}

// NewEngine creates an engine for the named players in seat order. Each
// player is answered by deciders[name], or by the WithDefaultDecider
// fallback. The RNG is required so shuffles are reproducible.
func NewEngine(rng *rand.Rand, names []string, deciders map[string]Decider, opts ...Option) (*Engine, error) {
	if rng == nil {
		return nil, errors.New("rng is required for engine creation")
	}
	if len(names) < 2 {
		return nil, ErrTooFewPlayers
	}

	cfg := &engineConfig{
		rules:     DefaultRules(),
		carrier:   FirstActive,
		announcer: Discard,
		budget:    deck.Size,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.deck == nil {
		cfg.deck = deck.New(rng)
	}
	if cfg.rules.TargetScore <= 0 {
		cfg.rules.TargetScore = DefaultTargetScore
	}
	if cfg.dealer < 0 || cfg.dealer >= len(names) {
		return nil, fmt.Errorf("dealer seat %d out of range", cfg.dealer)
	}

	seen := make(map[string]bool, len(names))
	players := make([]*Player, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("player %d has no name", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate player name %q", name)
		}
		seen[name] = true
		if deciders[name] == nil && cfg.fallback == nil {
			return nil, fmt.Errorf("%w %q", ErrNoDecider, name)
		}
		players[i] = &Player{Seat: i, Name: name, Round: hand.New()}
	}

	return &Engine{
		id:        cfg.id,
		players:   players,
		deciders:  deciders,
		fallback:  cfg.fallback,
		deck:      cfg.deck,
		rules:     cfg.rules,
		carrier:   cfg.carrier,
		announcer: cfg.announcer,
		logger:    cfg.logger.WithPrefix("engine"),
		budget:    cfg.budget,
		dealer:    cfg.dealer,
	}, nil
}

// ID returns the game identifier
func (e *Engine) ID() string {
	return e.id
}

// Players returns the seats in order. Callers must treat them as read-only.
func (e *Engine) Players() []*Player {
	return e.players
}

// Player returns the named player
func (e *Engine) Player(name string) (*Player, bool) {
	for _, p := range e.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Rules returns the rules in force
func (e *Engine) Rules() Rules {
	return e.rules
}

// Round returns the number of the current or last played round
func (e *Engine) Round() int {
	return e.round
}

// Dealer returns the seat of the dealer for the next round
func (e *Engine) Dealer() int {
	return e.dealer
}

// Remaining returns the draw pile census
func (e *Engine) Remaining() deck.Census {
	return e.deck.Census()
}

// Advise runs the advisor for the named player against the live draw pile
func (e *Engine) Advise(name string) (advisor.Advice, bool) {
	p, ok := e.Player(name)
	if !ok {
		return advisor.Advice{}, false
	}
	return advisor.Compute(p.Round, e.deck.Census()), true
}

// Play runs rounds until a total reaches the target score, then returns
// the result. It only stops early if ctx is cancelled between rounds.
func (e *Engine) Play(ctx context.Context) (*Result, error) {
	e.logger.Debug("Starting game", "id", e.id, "players", len(e.players), "target", e.rules.TargetScore)

	for {
		rr, err := e.PlayRound(ctx)
		if err != nil {
			return e.result(), err
		}

		if e.targetReached() {
			break
		}
		if e.rules.MaxRounds > 0 && rr.Number >= e.rules.MaxRounds {
			e.announce("Round limit of %d reached", e.rules.MaxRounds)
			break
		}
	}

	res := e.result()
	e.announce("Game over after %d rounds. %s", e.round, res.winnerText())
	e.logger.Debug("Game finished", "id", e.id, "rounds", e.round, "winners", res.Winners)
	return res, nil
}

func (e *Engine) targetReached() bool {
	for _, p := range e.players {
		if p.Total >= e.rules.TargetScore {
			return true
		}
	}
	return false
}

// draw takes the top card, recycling the discard pile when the draw pile is
// empty. ok is false only when both piles are empty.
func (e *Engine) draw() (deck.Card, bool) {
	if c, ok := e.deck.Draw(); ok {
		return c, true
	}
	n := e.deck.Discarded()
	if !e.deck.Recycle() {
		return nil, false
	}
	e.announce("Draw pile empty, reshuffling %d discarded cards", n)
	return e.deck.Draw()
}

// ask routes a prompt to the player's decider
func (e *Engine) ask(ctx context.Context, p Prompt) (string, error) {
	d := e.deciders[p.Player]
	if d == nil {
		d = e.fallback
	}
	if d == nil {
		return "", fmt.Errorf("%w %q", ErrNoDecider, p.Player)
	}
	answer, err := d.Decide(ctx, p)
	if err != nil {
		e.logger.Warn("Decider failed", "player", p.Player, "kind", p.Kind, "error", err)
	}
	return answer, err
}

func (e *Engine) announce(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	e.logger.Debug(text)
	e.announcer.Announce(text)
}

// view snapshots the table for the player at seat acting
func (e *Engine) view(acting int) View {
	players := make([]PlayerView, len(e.players))
	for i, p := range e.players {
		players[i] = p.view()
	}
	return View{
		Round:     e.round,
		Dealer:    e.dealer,
		Players:   players,
		Acting:    acting,
		Remaining: e.deck.Census(),
	}
}

func (e *Engine) anyActive() bool {
	for _, p := range e.players {
		if p.IsActive() {
			return true
		}
	}
	return false
}

func (e *Engine) activeSeats() []int {
	var seats []int
	for i, p := range e.players {
		if p.IsActive() {
			seats = append(seats, i)
		}
	}
	return seats
}
