package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/hand"
)

func active(numbers ...int) hand.State {
	st := hand.New()
	st.Numbers = hand.SetOf(numbers...)
	return st
}

func TestAllDuplicatesSaysStay(t *testing.T) {
	st := active(5)
	census := deck.Census{deck.Number(5): 2}

	a := Compute(st, census)
	require.True(t, a.Detailed)
	assert.Equal(t, Stay, a.Suggestion)
	assert.Equal(t, 5, a.ScoreStay)
	assert.InDelta(t, 1.0, a.PBust, 1e-9)
	assert.InDelta(t, 0.0, a.ExpectedHit, 1e-9)
	assert.Equal(t, 2, a.Remaining)
}

func TestSecondChanceCoversDuplicates(t *testing.T) {
	st := active(5)
	st.SecondChance = true
	census := deck.Census{deck.Number(5): 2}

	a := Compute(st, census)
	assert.InDelta(t, 1.0, a.PBust, 1e-9, "bust probability ignores the second chance")
	assert.InDelta(t, 5.0, a.ExpectedHit, 1e-9)
	assert.Equal(t, Stay, a.Suggestion, "ties favour stay")
}

func TestBruteForceExpectation(t *testing.T) {
	st := active(2, 9)
	st.Bonus = 4
	census := deck.Census{
		deck.Number(9): 3, // bust: 0
		deck.Number(6): 2, // 2+9+6+4 = 21
		deck.DoubleMod: 1, // (2+9)*2+4 = 26
		deck.AddN(10):  1, // 11+14 = 25
		deck.Freeze:    2, // unchanged: 15
		deck.FlipThree: 1, // unchanged: 15
	}

	want := (3*0.0 + 2*21.0 + 26.0 + 25.0 + 2*15.0 + 15.0) / 10.0
	a := Compute(st, census)
	assert.Equal(t, 15, a.ScoreStay)
	assert.InDelta(t, 0.3, a.PBust, 1e-9)
	assert.InDelta(t, want, a.ExpectedHit, 1e-9)
	assert.Equal(t, Stay, a.Suggestion, "13.8 expected against 15 banked")
}

func TestSeventhNumberAddsBonus(t *testing.T) {
	st := active(1, 2, 3, 4, 5, 6)
	census := deck.Census{deck.Number(7): 1}

	a := Compute(st, census)
	assert.InDelta(t, float64(1+2+3+4+5+6+7+hand.SevenBonus), a.ExpectedHit, 1e-9)
	assert.Equal(t, Hit, a.Suggestion)
}

func TestNoDetailWhenPlayerCannotDraw(t *testing.T) {
	full := deck.FullCensus()

	busted := active(3)
	busted.Bust()
	assert.Equal(t, Advice{Suggestion: Stay}, Compute(busted, full))

	stayed := active(3)
	stayed.Active = false
	assert.Equal(t, Advice{Suggestion: Stay}, Compute(stayed, full))

	assert.Equal(t, Advice{Suggestion: Stay}, Compute(active(3), deck.Census{}))
}

func TestWeightsSumToOne(t *testing.T) {
	censuses := []deck.Census{
		deck.FullCensus(),
		{deck.Number(4): 1},
		{deck.Number(12): 12, deck.Freeze: 1, deck.AddN(2): 1},
	}
	for _, c := range censuses {
		sum := 0.0
		for _, o := range Outcomes(active(1, 2), c) {
			sum += o.Weight
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestComputeDoesNotMutate(t *testing.T) {
	st := active(4, 8)
	census := deck.FullCensus()
	before := census.Clone()

	Compute(st, census)
	assert.Equal(t, active(4, 8), st)
	assert.Equal(t, before, census)
}

func TestFreshHandOnFullDeckHits(t *testing.T) {
	a := Compute(hand.New(), deck.FullCensus())
	assert.Equal(t, Hit, a.Suggestion)
	assert.Zero(t, a.PBust)
	assert.Equal(t, deck.Size, a.Remaining)
}
