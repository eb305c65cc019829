package deck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownCard is returned when a card token cannot be parsed
var ErrUnknownCard = errors.New("unknown card")

// Card is a single card from the Flip 7 supply. It is a closed variant:
// the only implementations are Number, Modifier and Action, and resolution
// code switches over those three types.
type Card interface {
	fmt.Stringer
	card()
}

// Number is a number card in [0,12]
type Number int

func (Number) card() {}

// String returns the face value (e.g., "7")
func (n Number) String() string {
	return strconv.Itoa(int(n))
}

// ModifierKind distinguishes the two modifier families
type ModifierKind int

const (
	Add ModifierKind = iota
	Double
)

// Modifier is a score modifier card. Amount is only meaningful for Add.
type Modifier struct {
	Kind   ModifierKind
	Amount int
}

func (Modifier) card() {}

// String returns "x2" for Double and "+N" for Add
func (m Modifier) String() string {
	if m.Kind == Double {
		return "x2"
	}
	return "+" + strconv.Itoa(m.Amount)
}

// AddN returns an Add modifier worth n points
func AddN(n int) Modifier {
	return Modifier{Kind: Add, Amount: n}
}

// DoubleMod is the single Double modifier
var DoubleMod = Modifier{Kind: Double}

// Action is an action card
type Action int

const (
	Freeze Action = iota
	FlipThree
	SecondChance
)

func (Action) card() {}

// String returns the action name
func (a Action) String() string {
	switch a {
	case Freeze:
		return "freeze"
	case FlipThree:
		return "flip3"
	case SecondChance:
		return "second-chance"
	default:
		return "?"
	}
}

// IsAction reports whether c is an action card
func IsAction(c Card) bool {
	_, ok := c.(Action)
	return ok
}

// Order gives every distinct card a stable sort position: numbers first,
// then Add modifiers by amount, Double, and finally actions.
func Order(c Card) int {
	switch v := c.(type) {
	case Number:
		return int(v)
	case Modifier:
		if v.Kind == Double {
			return 200
		}
		return 100 + v.Amount
	case Action:
		return 300 + int(v)
	default:
		return 1000
	}
}

// ParseCard parses a single card token. Accepted forms are a number
// ("0".."12"), "x2", "+N", "freeze", "flip3" and "second-chance".
func ParseCard(s string) (Card, error) {
	tok := strings.ToLower(strings.TrimSpace(s))
	switch tok {
	case "x2", "double":
		return DoubleMod, nil
	case "freeze", "fr":
		return Freeze, nil
	case "flip3", "flipthree", "flip-three", "f3":
		return FlipThree, nil
	case "second-chance", "secondchance", "sc":
		return SecondChance, nil
	}

	if strings.HasPrefix(tok, "+") {
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCard, s)
		}
		return AddN(n), nil
	}

	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 || n > MaxNumber {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}
	return Number(n), nil
}

// ParseCards parses a comma or whitespace separated list of card tokens
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
