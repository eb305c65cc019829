package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/lox/flip7/internal/advisor"
	"github.com/lox/flip7/internal/console"
	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/hand"
)

// AdviseCmd runs the one-draw advisor on a hand described on the command line
type AdviseCmd struct {
	Hand    string `kong:"arg,optional,help='Cards in front of the player, e.g. 3,8,x2,+4,second-chance'"`
	Seen    string `kong:"help='Other cards already out of the draw pile'"`
	Details bool   `kong:"short='d',help='List every possible draw'"`
}

func (c *AdviseCmd) Run(out io.Writer) error {
	st, held, err := parseHand(c.Hand)
	if err != nil {
		return err
	}

	remaining := deck.FullCensus()
	if err := remaining.Remove(held...); err != nil {
		return fmt.Errorf("hand: %w", err)
	}
	if c.Seen != "" {
		seen, err := deck.ParseCards(c.Seen)
		if err != nil {
			return fmt.Errorf("seen: %w", err)
		}
		if err := remaining.Remove(seen...); err != nil {
			return fmt.Errorf("seen: %w", err)
		}
	}

	advice := advisor.Compute(st, remaining)
	_, _ = fmt.Fprintf(out, "Hand: %s, scoring %d\n", console.RenderHand(st), st.Score(false))
	_, _ = fmt.Fprintln(out, console.InfoStyle.Render(advice.String()))

	if c.Details {
		_, _ = fmt.Fprintln(out)
		for _, o := range advisor.Outcomes(st, remaining) {
			_, _ = fmt.Fprintf(out, "%-14s %2d  %5.1f%%  %4d\n", o.Card, o.Count, o.Weight*100, o.Score)
		}
	}
	return nil
}

// parseHand builds an active round state from card tokens. Freeze and flip
// three never stay in front of a player, so they are rejected.
func parseHand(s string) (hand.State, []deck.Card, error) {
	st := hand.New()
	if strings.TrimSpace(s) == "" {
		return st, nil, nil
	}

	cards, err := deck.ParseCards(s)
	if err != nil {
		return st, nil, err
	}
	for _, c := range cards {
		switch c := c.(type) {
		case deck.Number:
			if st.Numbers.Has(int(c)) {
				return st, nil, fmt.Errorf("duplicate number %d in hand", c)
			}
			st.Numbers = st.Numbers.With(int(c))
		case deck.Modifier:
			if c.Kind == deck.Double {
				st.Doubler = true
			} else {
				st.Bonus += c.Amount
			}
		case deck.Action:
			if c != deck.SecondChance {
				return st, nil, fmt.Errorf("%s cannot be held in a hand", c)
			}
			if st.SecondChance {
				return st, nil, fmt.Errorf("a hand holds at most one second chance")
			}
			st.SecondChance = true
		}
	}
	return st, cards, nil
}
