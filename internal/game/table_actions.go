package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/flip7/internal/advisor"
	"github.com/lox/flip7/internal/deck"
)

// chooseTarget returns the seat picked by actor from eligible. A single
// eligible seat is picked automatically; invalid answers are re-asked and a
// failing decider gets the first eligible seat.
func (e *Engine) chooseTarget(ctx context.Context, actor *Player, action deck.Action, eligible []int) int {
	if len(eligible) == 1 {
		return eligible[0]
	}

	names := make([]string, len(eligible))
	options := make([]string, len(eligible))
	for i, seat := range eligible {
		names[i] = e.players[seat].Name
		options[i] = fmt.Sprintf("%d) %s", i+1, names[i])
	}

	v := e.view(actor.Seat)
	v.Action = action
	v.Targets = names
	prompt := Prompt{
		Kind:   ChooseTarget,
		Player: actor.Name,
		Text:   fmt.Sprintf("Choose a target for %s: %s", action, strings.Join(options, " ")),
		View:   v,
	}

	for {
		if ctx.Err() != nil {
			return eligible[0]
		}

		answer, err := e.ask(ctx, prompt)
		if err != nil {
			e.announce("%s did not choose, %s is picked", actor.Name, names[0])
			return eligible[0]
		}

		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || n < 1 || n > len(eligible) {
			e.announce("Invalid choice %q from %s, enter a number from 1 to %d", answer, actor.Name, len(eligible))
			continue
		}
		return eligible[n-1]
	}
}

// askHitOrStay asks p whether to draw. The advice token announces the
// advisor's recommendation and asks again. A failing decider stays.
func (e *Engine) askHitOrStay(ctx context.Context, p *Player) bool {
	prompt := Prompt{
		Kind:   HitOrStay,
		Player: p.Name,
		Text:   fmt.Sprintf("%s, round score %d: hit or stay? (h/s, a for advice)", p.Name, p.Round.Score(false)),
		View:   e.view(p.Seat),
	}

	for {
		if ctx.Err() != nil {
			return false
		}

		answer, err := e.ask(ctx, prompt)
		if err != nil {
			e.announce("No answer from %s, staying", p.Name)
			return false
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "h", "hit":
			return true
		case "s", "stay":
			return false
		case "a", "?", "advice":
			e.announce("Advice for %s: %s", p.Name, advisor.Compute(p.Round, e.deck.Census()))
		default:
			e.announce("Invalid input %q from %s, enter h, s or a", answer, p.Name)
		}
	}
}
