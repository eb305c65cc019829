package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flip7/internal/randutil"
)

func TestBuildComposition(t *testing.T) {
	cards := Build()
	require.Len(t, cards, Size)

	census := CensusOf(cards)
	assert.Equal(t, 1, census[Number(0)])
	for v := 1; v <= MaxNumber; v++ {
		assert.Equal(t, v, census[Number(v)], "copies of %d", v)
	}
	for _, a := range []Action{Freeze, FlipThree, SecondChance} {
		assert.Equal(t, 3, census[a], "copies of %s", a)
	}
	assert.Equal(t, 1, census[DoubleMod])
	for _, n := range AddAmounts {
		assert.Equal(t, 1, census[AddN(n)], "copies of +%d", n)
	}

	numbers := 0
	for card, count := range census {
		if _, ok := card.(Number); ok {
			numbers += count
		}
	}
	assert.Equal(t, NumberCards, numbers)
	assert.Equal(t, 79, NumberCards)
	assert.Equal(t, ModifierCards, len(AddAmounts)+1)
	assert.Equal(t, 94, Size)
}

func TestBuildIsDeterministic(t *testing.T) {
	assert.Equal(t, Build(), Build())
}

func TestShufflePreservesMultiset(t *testing.T) {
	d := New(randutil.New(7))
	require.Equal(t, Size, d.Remaining())
	assert.Equal(t, FullCensus(), d.Census())

	d.Shuffle()
	assert.Equal(t, FullCensus(), d.Census())
}

func TestShufflePositionUniformity(t *testing.T) {
	// Track where the single 0 card lands across many shuffles of a fresh deck.
	const trials = 46500
	rng := randutil.New(1234)
	positions := make([]int, Size)

	for range trials {
		d := &Deck{cards: Build(), rng: rng}
		d.Shuffle()
		for i, c := range d.cards {
			if c == Number(0) {
				positions[i]++
				break
			}
		}
	}

	expected := float64(trials) / float64(Size)
	chi2 := 0.0
	for _, observed := range positions {
		diff := float64(observed) - expected
		chi2 += diff * diff / expected
	}
	// 93 degrees of freedom; anything past 160 is far outside the tail.
	assert.Less(t, chi2, 160.0, "chi-square statistic %.1f", chi2)
}

func TestDrawAndRecycle(t *testing.T) {
	d := Stacked(randutil.New(1), Number(3), Freeze, AddN(4))

	c, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, Number(3), c)
	d.Discard(c)

	c, ok = d.Draw()
	require.True(t, ok)
	assert.Equal(t, Freeze, c)
	d.Discard(c)

	c, ok = d.Draw()
	require.True(t, ok)
	assert.Equal(t, AddN(4), c)

	_, ok = d.Draw()
	assert.False(t, ok, "empty draw pile yields no card")
	assert.Equal(t, 2, d.Discarded())

	require.True(t, d.Recycle())
	assert.Equal(t, 2, d.Remaining())
	assert.Equal(t, 0, d.Discarded())
	assert.Equal(t, Census{Number(3): 1, Freeze: 1}, d.Census())

	d.Draw()
	d.Draw()
	assert.False(t, d.Recycle(), "nothing left to recycle")
	_, ok = d.Draw()
	assert.False(t, ok)
}

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:     "numbers and modifiers",
			input:    "0, 12 x2 +4",
			expected: []Card{Number(0), Number(12), DoubleMod, AddN(4)},
		},
		{
			name:     "actions",
			input:    "freeze,flip3,second-chance",
			expected: []Card{Freeze, FlipThree, SecondChance},
		},
		{
			name:     "case insensitive",
			input:    "FREEZE SC",
			expected: []Card{Freeze, SecondChance},
		},
		{
			name:    "number out of range",
			input:   "13",
			wantErr: true,
		},
		{
			name:    "bad modifier",
			input:   "+x",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	for _, c := range CensusOf(Build()).Cards() {
		parsed, err := ParseCard(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestCensusRemove(t *testing.T) {
	c := FullCensus()
	require.NoError(t, c.Remove(Number(1), Freeze))
	assert.Equal(t, 0, c[Number(1)])
	assert.Equal(t, 2, c[Freeze])
	assert.Equal(t, Size-2, c.Total())

	assert.ErrorIs(t, c.Remove(Number(1)), ErrUnknownCard)
}
