package deck

import (
	rand "math/rand/v2"
	"slices"
)

const (
	// MaxNumber is the highest number card value
	MaxNumber = 12

	// NumberCards counts one 0 plus v copies of every v in [1,MaxNumber]
	NumberCards = 1 + MaxNumber*(MaxNumber+1)/2

	// ActionCards is three each of freeze, flip three and second chance
	ActionCards = 9

	// ModifierCards is one Double plus one card per AddAmounts entry
	ModifierCards = 6

	// Size is the number of cards in a freshly built supply
	Size = NumberCards + ActionCards + ModifierCards
)

// AddAmounts lists the Add modifier values, one card each
var AddAmounts = []int{2, 4, 6, 8, 10}

// Build returns the full Size-card supply in a fixed order: value v in [1,12]
// appears v times, 0 once, three of each action, one Double and one of each
// Add modifier.
func Build() []Card {
	cards := make([]Card, 0, Size)

	cards = append(cards, Number(0))
	for v := 1; v <= MaxNumber; v++ {
		for range v {
			cards = append(cards, Number(v))
		}
	}

	for _, a := range []Action{Freeze, FlipThree, SecondChance} {
		for range 3 {
			cards = append(cards, a)
		}
	}

	cards = append(cards, DoubleMod)
	for _, n := range AddAmounts {
		cards = append(cards, AddN(n))
	}

	return cards
}

// Deck is the draw pile plus the discard pile. Cards are drawn from the end
// of the draw slice.
type Deck struct {
	cards   []Card
	discard []Card
	rng     *rand.Rand
}

// New creates a shuffled deck holding the full supply
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{
		cards: Build(),
		rng:   rng,
	}
	d.Shuffle()
	return d
}

// Stacked creates a deck whose draw order is exactly the given cards, first
// card drawn first. It does not shuffle; rng is only used if the deck is
// later recycled.
func Stacked(rng *rand.Rand, cards ...Card) *Deck {
	pile := slices.Clone(cards)
	slices.Reverse(pile)
	return &Deck{cards: pile, rng: rng}
}

// Shuffle randomizes the order of the draw pile
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. ok is false when the draw pile is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return nil, false
	}
	top := len(d.cards) - 1
	card := d.cards[top]
	d.cards[top] = nil
	d.cards = d.cards[:top]
	return card, true
}

// Discard places resolved cards on the discard pile
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// Recycle turns the discard pile into the new draw pile and shuffles it.
// It returns false, leaving the deck untouched, when there is nothing to recycle.
func (d *Deck) Recycle() bool {
	if len(d.discard) == 0 {
		return false
	}
	d.cards = append(d.cards[:0], d.discard...)
	d.discard = d.discard[:0]
	d.Shuffle()
	return true
}

// Remaining returns the number of cards in the draw pile
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Discarded returns the number of cards in the discard pile
func (d *Deck) Discarded() int {
	return len(d.discard)
}

// Census returns how many copies of each distinct card remain in the draw pile
func (d *Deck) Census() Census {
	return CensusOf(d.cards)
}
