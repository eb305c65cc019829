package game

import (
	"context"
)

// PlayRound plays one round: reset, deal one card to each active player,
// loop hit/stay decisions until nobody is active or someone flips seven,
// then score and pass the deal.
func (e *Engine) PlayRound(ctx context.Context) (RoundResult, error) {
	if err := ctx.Err(); err != nil {
		return RoundResult{}, err
	}

	e.round++
	for _, p := range e.players {
		p.Round.Reset()
	}

	dealer := e.players[e.dealer]
	e.announce("Round %d begins, %s deals (%d cards in the draw pile)", e.round, dealer.Name, e.deck.Remaining())
	e.logger.Debug("Round start", "round", e.round, "dealer", dealer.Name, "remaining", e.deck.Remaining())

	order := e.turnOrder()
	seven := e.deal(ctx, order)
	if seven == nil {
		seven = e.activeLoop(ctx, order)
	}

	result := e.score(seven)
	e.history = append(e.history, result)
	e.dealer = (e.dealer + 1) % len(e.players)
	return result, nil
}

// turnOrder lists seats in the order they are dealt and asked
func (e *Engine) turnOrder() []int {
	n := len(e.players)
	order := make([]int, n)
	start := 0
	if e.rules.DealerLeads {
		start = e.dealer + 1
	}
	for i := range order {
		order[i] = (start + i) % n
	}
	return order
}

// deal gives every player still active one card. It returns the player who
// flipped seven, if any.
func (e *Engine) deal(ctx context.Context, order []int) *Player {
	for _, seat := range order {
		p := e.players[seat]
		if !p.IsActive() {
			continue
		}
		if out := e.drawAndApply(ctx, p); out.Seven {
			return out.Trigger
		}
	}
	return nil
}

// activeLoop asks active players in turn until none remain or someone flips
// seven. Players cut off by a seven do not act again.
func (e *Engine) activeLoop(ctx context.Context, order []int) *Player {
	for e.anyActive() {
		for _, seat := range order {
			p := e.players[seat]
			if !p.IsActive() {
				continue
			}

			if !e.askHitOrStay(ctx, p) {
				p.Round.Active = false
				e.announce("%s stays on %d", p.Name, p.Round.Score(false))
				continue
			}

			if out := e.drawAndApply(ctx, p); out.Seven {
				return out.Trigger
			}
		}
	}
	return nil
}

// drawAndApply draws a card for p, forcing p out of the round when no card
// is left anywhere
func (e *Engine) drawAndApply(ctx context.Context, p *Player) Outcome {
	c, ok := e.draw()
	if !ok {
		p.Round.Active = false
		e.announce("No cards left for %s, their round is over", p.Name)
		return Outcome{}
	}
	return e.Apply(ctx, p, c)
}

// score adds every round score to the totals and drops unused second chances
func (e *Engine) score(seven *Player) RoundResult {
	result := RoundResult{
		Number: e.round,
		Dealer: e.players[e.dealer].Name,
		Scores: make([]RoundScore, len(e.players)),
	}
	if seven != nil {
		result.EndedBySeven = true
		result.Trigger = seven.Name
	}

	for i, p := range e.players {
		trigger := p == seven
		points := p.Round.Score(trigger)
		p.Total += points
		p.Round.SecondChance = false

		result.Scores[i] = RoundScore{
			Player:  p.Name,
			Numbers: p.Round.Numbers.Values(),
			Doubler: p.Round.Doubler,
			Bonus:   p.Round.Bonus,
			Busted:  p.Round.Eliminated,
			Seven:   trigger,
			Score:   points,
			Total:   p.Total,
		}
		e.announce("%s scores %d this round, %d total", p.Name, points, p.Total)
	}
	return result
}
