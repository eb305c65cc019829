package deck

import (
	"fmt"
	"slices"
	"strings"
)

// Census counts remaining copies of each distinct card
type Census map[Card]int

// CensusOf counts the cards in a pile
func CensusOf(cards []Card) Census {
	c := make(Census, 32)
	for _, card := range cards {
		c[card]++
	}
	return c
}

// FullCensus returns the census of a freshly built supply
func FullCensus() Census {
	return CensusOf(Build())
}

// Total returns the number of cards counted
func (c Census) Total() int {
	n := 0
	for _, count := range c {
		n += count
	}
	return n
}

// Cards returns the distinct cards with a positive count in Order
func (c Census) Cards() []Card {
	cards := make([]Card, 0, len(c))
	for card, count := range c {
		if count > 0 {
			cards = append(cards, card)
		}
	}
	slices.SortFunc(cards, func(a, b Card) int {
		return Order(a) - Order(b)
	})
	return cards
}

// Clone returns an independent copy
func (c Census) Clone() Census {
	out := make(Census, len(c))
	for card, count := range c {
		out[card] = count
	}
	return out
}

// Remove takes the given cards out of the census. It fails if a card is not
// present often enough, leaving the census partially updated.
func (c Census) Remove(cards ...Card) error {
	for _, card := range cards {
		if c[card] == 0 {
			return fmt.Errorf("%w: no %s left to remove", ErrUnknownCard, card)
		}
		c[card]--
		if c[card] == 0 {
			delete(c, card)
		}
	}
	return nil
}

// String renders the census as "card×count" pairs in Order
func (c Census) String() string {
	parts := make([]string, 0, len(c))
	for _, card := range c.Cards() {
		parts = append(parts, fmt.Sprintf("%s×%d", card, c[card]))
	}
	return strings.Join(parts, " ")
}
