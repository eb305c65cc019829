package game

// CarrierPolicy picks which player receives an action card that was set
// aside during a flip-three sequence. target is the index of the flip-three
// target. It returns -1 when nobody can take the card.
type CarrierPolicy func(players []*Player, target int) int

// FirstActive hands deferred actions to the first active player in seat order
func FirstActive(players []*Player, _ int) int {
	for i, p := range players {
		if p.IsActive() {
			return i
		}
	}
	return -1
}

// FlipTarget hands deferred actions back to the flip-three target while it
// is still active, otherwise to the first active player
func FlipTarget(players []*Player, target int) int {
	if target >= 0 && target < len(players) && players[target].IsActive() {
		return target
	}
	return FirstActive(players, target)
}

// CarrierByName resolves a configured carrier policy name
func CarrierByName(name string) (CarrierPolicy, bool) {
	switch name {
	case "", "first-active":
		return FirstActive, true
	case "flip-target":
		return FlipTarget, true
	default:
		return nil, false
	}
}
