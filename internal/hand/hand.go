// Package hand models what a single player holds during one Flip 7 round and
// how that holding scores.
package hand

import (
	"math/bits"
	"strconv"
	"strings"
)

const (
	// SevenCount is the number of distinct numbers that ends a round
	SevenCount = 7

	// SevenBonus is awarded to the player who reaches SevenCount
	SevenBonus = 15
)

// NumberSet is a set of number card values in [0,12]
type NumberSet uint16

// Has reports whether v is in the set
func (s NumberSet) Has(v int) bool {
	if v < 0 || v > 15 {
		return false
	}
	return s&(1<<v) != 0
}

// With returns the set with v added
func (s NumberSet) With(v int) NumberSet {
	return s | 1<<v
}

// Len returns the number of distinct values
func (s NumberSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Sum returns the sum of the values
func (s NumberSet) Sum() int {
	sum := 0
	for _, v := range s.Values() {
		sum += v
	}
	return sum
}

// Values returns the values in ascending order
func (s NumberSet) Values() []int {
	values := make([]int, 0, s.Len())
	for v := 0; v < 16; v++ {
		if s.Has(v) {
			values = append(values, v)
		}
	}
	return values
}

// SetOf builds a set from values
func SetOf(values ...int) NumberSet {
	var s NumberSet
	for _, v := range values {
		s = s.With(v)
	}
	return s
}

// String renders the set as "{3 5 9}"
func (s NumberSet) String() string {
	parts := make([]string, 0, s.Len())
	for _, v := range s.Values() {
		parts = append(parts, strconv.Itoa(v))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// State is a player's per-round holding. The zero value is not a fresh
// round; use New or Reset.
type State struct {
	Numbers      NumberSet
	Doubler      bool
	Bonus        int
	SecondChance bool
	Active       bool // may still act this round
	Eliminated   bool // busted or frozen; round score is 0
}

// New returns the state at the start of a round
func New() State {
	return State{Active: true}
}

// Reset restores round-start defaults
func (s *State) Reset() {
	*s = New()
}

// Bust eliminates the player for the round
func (s *State) Bust() {
	s.Eliminated = true
	s.Active = false
}

// Freeze zeroes the round contribution and ends the player's round
func (s *State) Freeze() {
	*s = State{Eliminated: true}
}

// Score returns the round score. sevenTrigger adds SevenBonus for the player
// who ended the round by reaching SevenCount distinct numbers.
func (s State) Score(sevenTrigger bool) int {
	if s.Eliminated {
		return 0
	}
	score := s.Numbers.Sum()
	if s.Doubler {
		score *= 2
	}
	score += s.Bonus
	if sevenTrigger {
		score += SevenBonus
	}
	return score
}
