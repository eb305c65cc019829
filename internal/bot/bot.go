// Package bot provides computer players that answer engine prompts.
package bot

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/game"
)

// Strategy decides whether a player should draw another card
type Strategy interface {
	Name() string
	Hit(self game.PlayerView, remaining deck.Census) (bool, string)
}

// Bot is a game.Decider driven by a Strategy. Targets are picked the same way
// for every strategy: freeze the opponent with the most to lose, make the
// opponent most likely to bust flip three, and always spend a second chance.
type Bot struct {
	strategy Strategy
	logger   *log.Logger
}

var _ game.Decider = (*Bot)(nil)

// Strategies lists the names accepted by New
func Strategies() []string {
	return []string{"advisor", "cautious", "random"}
}

// New creates a bot for a named strategy. rng is only used by strategies
// that need randomness and may be nil otherwise.
func New(strategy string, rng *rand.Rand, logger *log.Logger) (*Bot, error) {
	var s Strategy
	switch strategy {
	case "", "advisor":
		s = AdvisorStrategy{}
	case "cautious":
		s = CautiousStrategy{Threshold: DefaultCautiousThreshold}
	case "random":
		if rng == nil {
			return nil, fmt.Errorf("strategy %q requires a random source", strategy)
		}
		s = NewRandomStrategy(rng)
	default:
		return nil, fmt.Errorf("unknown bot strategy %q (want one of %v)", strategy, Strategies())
	}
	return NewWithStrategy(s, logger), nil
}

// NewWithStrategy wraps a strategy
func NewWithStrategy(s Strategy, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Bot{strategy: s, logger: logger.WithPrefix("bot")}
}

// NewAdvisor returns a bot that follows the advisor
func NewAdvisor() *Bot {
	return NewWithStrategy(AdvisorStrategy{}, nil)
}

// Strategy returns the bot's strategy
func (b *Bot) Strategy() Strategy {
	return b.strategy
}

// Decide answers a prompt
func (b *Bot) Decide(ctx context.Context, p game.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch p.Kind {
	case game.HitOrStay:
		self := p.View.Self()
		hit, reasoning := b.strategy.Hit(self, p.View.Remaining)
		b.logger.Debug("Bot decision made",
			"player", p.Player,
			"strategy", b.strategy.Name(),
			"numbers", self.Round.Numbers,
			"hit", hit,
			"reasoning", reasoning)
		if hit {
			return "h", nil
		}
		return "s", nil

	case game.ChooseTarget:
		choice := chooseTarget(p.Player, p.View)
		b.logger.Debug("Bot target chosen",
			"player", p.Player,
			"action", p.View.Action,
			"target", p.View.Targets[choice])
		return strconv.Itoa(choice + 1), nil

	case game.UseSecondChance:
		return "y", nil

	default:
		return "", fmt.Errorf("unsupported prompt kind %s", p.Kind)
	}
}

// chooseTarget returns an index into v.Targets. Opponents are preferred over
// the acting player.
func chooseTarget(self string, v game.View) int {
	best, bestScore := -1, 0
	for i, name := range v.Targets {
		if name == self {
			continue
		}
		pv, ok := v.Player(name)
		if !ok {
			continue
		}

		var score int
		if v.Action == deck.FlipThree {
			// more numbers means a better chance of a duplicate, unless a
			// second chance covers it or they are one number away from seven
			score = pv.Round.Numbers.Len() * 10
			if pv.Round.SecondChance || pv.Round.Numbers.Len() >= 5 {
				score = 0
			}
		} else {
			score = pv.Round.Score(false) + pv.Total/10
		}

		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}

	if best >= 0 {
		return best
	}
	return max(0, slices.Index(v.Targets, self))
}
