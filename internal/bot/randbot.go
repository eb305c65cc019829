package bot

import (
	rand "math/rand/v2"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/game"
)

// RandomStrategy hits with a fixed probability
type RandomStrategy struct {
	rng *rand.Rand
	p   float64
}

// NewRandomStrategy creates a strategy that hits half the time
func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	return &RandomStrategy{rng: rng, p: 0.5}
}

// Name returns "random"
func (*RandomStrategy) Name() string { return "random" }

// Hit flips a coin
func (r *RandomStrategy) Hit(game.PlayerView, deck.Census) (bool, string) {
	return r.rng.Float64() < r.p, "rand-bot coin flip"
}
