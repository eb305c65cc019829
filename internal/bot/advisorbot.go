package bot

import (
	"github.com/lox/flip7/internal/advisor"
	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/game"
)

// AdvisorStrategy hits whenever the advisor's expected score beats staying
type AdvisorStrategy struct{}

// Name returns "advisor"
func (AdvisorStrategy) Name() string { return "advisor" }

// Hit follows advisor.Compute
func (AdvisorStrategy) Hit(self game.PlayerView, remaining deck.Census) (bool, string) {
	a := advisor.Compute(self.Round, remaining)
	return a.Suggestion == advisor.Hit, a.String()
}
