// Package advisor computes a one-draw hit/stay recommendation from a
// player's round state and the cards left in the draw pile.
//
// The model looks exactly one card ahead. Every distinct card remaining in
// the pile is weighted by its share of the pile and scored by applying the
// number and modifier rules to a copy of the player's state. Action cards are
// scored as if nothing happened.
package advisor

import (
	"fmt"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/hand"
)

// Suggestion is the advisor's recommendation
type Suggestion int

const (
	Stay Suggestion = iota
	Hit
)

// String returns "HIT" or "STAY"
func (s Suggestion) String() string {
	if s == Hit {
		return "HIT"
	}
	return "STAY"
}

// Advice is the result of Compute. When Detailed is false the player cannot
// draw (eliminated, inactive or empty pile) and only Suggestion is set.
type Advice struct {
	Suggestion  Suggestion
	Detailed    bool
	PBust       float64
	ScoreStay   int
	ExpectedHit float64
	Remaining   int
}

// String renders the advice for announcements
func (a Advice) String() string {
	if !a.Detailed {
		return fmt.Sprintf("%s (no draw possible)", a.Suggestion)
	}
	return fmt.Sprintf("%s: bust %.1f%%, stay %d, expected hit %.2f over %d cards",
		a.Suggestion, a.PBust*100, a.ScoreStay, a.ExpectedHit, a.Remaining)
}

// Outcome scores a single candidate draw
type Outcome struct {
	Card   deck.Card
	Count  int
	Weight float64
	Score  int
}

// Compute returns the advice for st against the draw pile census. It never
// modifies its inputs.
func Compute(st hand.State, remaining deck.Census) Advice {
	if st.Eliminated || !st.Active {
		return Advice{Suggestion: Stay}
	}

	n := remaining.Total()
	if n == 0 {
		return Advice{Suggestion: Stay}
	}

	a := Advice{
		Detailed:  true,
		ScoreStay: st.Score(false),
		Remaining: n,
	}

	busts := 0
	for _, v := range st.Numbers.Values() {
		busts += remaining[deck.Number(v)]
	}
	a.PBust = float64(busts) / float64(n)

	for _, o := range Outcomes(st, remaining) {
		a.ExpectedHit += o.Weight * float64(o.Score)
	}

	if a.ExpectedHit > float64(a.ScoreStay) {
		a.Suggestion = Hit
	}
	return a
}

// Outcomes lists every distinct remaining card with its draw probability and
// the round score after drawing it. Weights sum to 1 for a non-empty census.
func Outcomes(st hand.State, remaining deck.Census) []Outcome {
	n := remaining.Total()
	if n == 0 {
		return nil
	}

	stay := st.Score(false)
	cards := remaining.Cards()
	outcomes := make([]Outcome, 0, len(cards))
	for _, c := range cards {
		count := remaining[c]
		outcomes = append(outcomes, Outcome{
			Card:   c,
			Count:  count,
			Weight: float64(count) / float64(n),
			Score:  scoreAfter(st, c, stay),
		})
	}
	return outcomes
}

// scoreAfter applies c to a copy of st. st is passed by value so the
// caller's state is never touched.
func scoreAfter(st hand.State, c deck.Card, stay int) int {
	switch v := c.(type) {
	case deck.Number:
		if st.Numbers.Has(int(v)) {
			if st.SecondChance {
				return stay
			}
			return 0
		}
		st.Numbers = st.Numbers.With(int(v))
		return st.Score(st.Numbers.Len() >= hand.SevenCount)
	case deck.Modifier:
		if v.Kind == deck.Double {
			st.Doubler = true
		} else {
			st.Bonus += v.Amount
		}
		return st.Score(false)
	case deck.Action:
		return stay
	default:
		return stay
	}
}
