package game

import (
	"github.com/lox/flip7/internal/hand"
)

// Player is a seat in the game. Round is reset every round; Total carries
// across rounds and is only changed by scoring.
type Player struct {
	Seat  int
	Name  string
	Round hand.State
	Total int
}

// IsActive returns true if the player can still act this round
func (p *Player) IsActive() bool {
	return p.Round.Active
}

func (p *Player) view() PlayerView {
	return PlayerView{Name: p.Name, Round: p.Round, Total: p.Total}
}
