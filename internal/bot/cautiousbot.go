package bot

import (
	"fmt"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/game"
)

// DefaultCautiousThreshold is the round score a cautious bot banks at
const DefaultCautiousThreshold = 25

// CautiousStrategy hits until its round score reaches Threshold, but always
// hits while a second chance covers the next duplicate.
type CautiousStrategy struct {
	Threshold int
}

// Name returns "cautious"
func (CautiousStrategy) Name() string { return "cautious" }

// Hit applies the threshold
func (s CautiousStrategy) Hit(self game.PlayerView, _ deck.Census) (bool, string) {
	score := self.Round.Score(false)
	switch {
	case self.Round.SecondChance:
		return true, "second chance covers a duplicate"
	case score >= s.Threshold:
		return false, fmt.Sprintf("round score %d reached threshold %d", score, s.Threshold)
	default:
		return true, fmt.Sprintf("round score %d below threshold %d", score, s.Threshold)
	}
}
