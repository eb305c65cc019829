package game

import (
	"context"
	"strings"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/hand"
)

// Outcome is the result of applying a card to a player, including every
// card drawn as a consequence.
type Outcome struct {
	// Alive is true while the player may keep acting this round
	Alive bool

	// Seven is true when someone reached seven distinct numbers; the round
	// ends immediately
	Seven bool

	// Trigger is the player who reached seven, which is not necessarily the
	// player the card was applied to
	Trigger *Player
}

// frame is one pending step of a resolution. A frame that has more work to
// do pushes itself back before pushing the steps it waits on.
type frame interface {
	resume(r *resolution)
}

// resolution drains a stack of frames. Second-chance bonus draws, flip-three
// sequences and set-aside actions all become frames instead of recursive
// calls, so a seven stops every further draw while the stack unwinds.
type resolution struct {
	e       *Engine
	ctx     context.Context
	stack   []frame
	applied int
	seven   *Player
}

// Apply applies card c to player p and resolves everything it causes.
func (e *Engine) Apply(ctx context.Context, p *Player, c deck.Card) Outcome {
	r := &resolution{e: e, ctx: ctx}
	r.push(&applyFrame{player: p, card: c})
	r.run()

	return Outcome{
		Alive:   p.IsActive(),
		Seven:   r.seven != nil,
		Trigger: r.seven,
	}
}

func (r *resolution) push(frames ...frame) {
	r.stack = append(r.stack, frames...)
}

func (r *resolution) run() {
	for len(r.stack) > 0 {
		top := len(r.stack) - 1
		f := r.stack[top]
		r.stack[top] = nil
		r.stack = r.stack[:top]

		if r.seven != nil {
			if f = r.unwind(f); f == nil {
				continue
			}
		}

		if af, ok := f.(*applyFrame); ok {
			if r.applied >= r.e.budget {
				r.e.announce("Resolution limit of %d cards reached, abandoning the rest of the chain", r.e.budget)
				r.e.logger.Warn("Resolution budget exhausted", "budget", r.e.budget, "pending", len(r.stack)+1)
				af.discard(r)
				r.abandon()
				return
			}
			r.applied++
		}
		f.resume(r)
	}
}

// unwind filters the frames left once someone has reached seven. Nothing is
// drawn any more, but actions set aside by an interrupted flip-three still
// go to their carrier. It returns nil for frames that are skipped.
func (r *resolution) unwind(f frame) frame {
	switch f := f.(type) {
	case *flipFrame:
		if len(f.deferred) == 0 {
			return nil
		}
		return &deferredFrame{cards: f.deferred, target: f.target}
	case *deferredFrame:
		return f
	case *applyFrame:
		if f.discarded {
			return f
		}
		f.discard(r)
		return nil
	default:
		return nil
	}
}

// abandon clears the stack, sending any drawn card that has not been
// applied yet to the discard pile
func (r *resolution) abandon() {
	for _, f := range r.stack {
		if af, ok := f.(*applyFrame); ok {
			af.discard(r)
		}
	}
	r.stack = nil
}

// applyFrame applies one card to one player. discarded is set for cards
// that already went to the discard pile when they were set aside.
type applyFrame struct {
	player    *Player
	card      deck.Card
	discarded bool
}

func (f *applyFrame) discard(r *resolution) {
	if !f.discarded {
		r.e.deck.Discard(f.card)
		f.discarded = true
	}
}

func (f *applyFrame) resume(r *resolution) {
	switch c := f.card.(type) {
	case deck.Number:
		r.applyNumber(f, c)
	case deck.Modifier:
		r.applyModifier(f, c)
	case deck.Action:
		r.applyAction(f, c)
	default:
		f.discard(r)
		r.e.logger.Error("Unknown card type", "card", f.card)
	}
}

func (r *resolution) applyNumber(f *applyFrame, n deck.Number) {
	p := f.player
	v := int(n)
	f.discard(r)

	if p.Round.Numbers.Has(v) {
		if p.Round.SecondChance && r.confirmSecondChance(p, n) {
			p.Round.SecondChance = false
			r.e.announce("%s draws a duplicate %d and spends a second chance", p.Name, v)
			return
		}
		p.Round.Bust()
		r.e.announce("%s draws a duplicate %d and busts", p.Name, v)
		return
	}

	p.Round.Numbers = p.Round.Numbers.With(v)
	r.e.announce("%s draws %d, holding %s", p.Name, v, p.Round.Numbers)

	if p.Round.Numbers.Len() >= hand.SevenCount {
		r.seven = p
		r.e.announce("Flip 7! %s has %d different numbers", p.Name, p.Round.Numbers.Len())
	}
}

func (r *resolution) applyModifier(f *applyFrame, m deck.Modifier) {
	p := f.player
	f.discard(r)

	if m.Kind == deck.Double {
		p.Round.Doubler = true
		r.e.announce("%s draws x2, numbers will count double", p.Name)
		return
	}
	p.Round.Bonus += m.Amount
	r.e.announce("%s draws %s, bonus now %d", p.Name, m, p.Round.Bonus)
}

func (r *resolution) applyAction(f *applyFrame, a deck.Action) {
	switch a {
	case deck.Freeze:
		r.applyFreeze(f)
	case deck.SecondChance:
		r.applySecondChance(f)
	case deck.FlipThree:
		r.applyFlipThree(f)
	default:
		f.discard(r)
	}
}

func (r *resolution) applyFreeze(f *applyFrame) {
	e := r.e
	f.discard(r)

	eligible := e.activeSeats()
	if len(eligible) == 0 {
		e.announce("%s draws freeze but nobody is left to freeze", f.player.Name)
		return
	}

	target := e.players[e.chooseTarget(r.ctx, f.player, deck.Freeze, eligible)]
	target.Round.Freeze()
	e.announce("%s freezes %s, their round ends with nothing", f.player.Name, target.Name)
}

func (r *resolution) applySecondChance(f *applyFrame) {
	e := r.e
	p := f.player
	f.discard(r)

	if !p.Round.SecondChance {
		p.Round.SecondChance = true
		e.announce("%s takes a second chance and must draw again", p.Name)
		r.push(&drawFrame{player: p})
		return
	}

	for _, other := range e.players {
		if other != p && other.IsActive() && !other.Round.SecondChance {
			other.Round.SecondChance = true
			e.announce("%s already holds a second chance and passes this one to %s", p.Name, other.Name)
			return
		}
	}
	e.announce("%s already holds a second chance and nobody can take another, it is discarded", p.Name)
}

func (r *resolution) applyFlipThree(f *applyFrame) {
	e := r.e
	f.discard(r)

	eligible := e.activeSeats()
	if len(eligible) == 0 {
		eligible = make([]int, len(e.players))
		for i := range e.players {
			eligible[i] = i
		}
	}

	target := e.chooseTarget(r.ctx, f.player, deck.FlipThree, eligible)
	e.announce("%s makes %s flip three", f.player.Name, e.players[target].Name)
	r.push(&flipFrame{target: target})
}

// confirmSecondChance asks whether to spend a second chance when the rules
// require confirmation
func (r *resolution) confirmSecondChance(p *Player, n deck.Number) bool {
	e := r.e
	if !e.rules.ConfirmSecondChance {
		return true
	}

	answer, err := e.ask(r.ctx, Prompt{
		Kind:   UseSecondChance,
		Player: p.Name,
		Text:   "Duplicate " + n.String() + ": use your second chance? (y/n)",
		View:   e.view(p.Seat),
	})
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// drawFrame is the mandatory extra draw after taking a second chance
type drawFrame struct {
	player *Player
}

func (f *drawFrame) resume(r *resolution) {
	c, ok := r.e.draw()
	if !ok {
		f.player.Round.Active = false
		r.e.announce("No cards left for %s, their round is over", f.player.Name)
		return
	}
	r.push(&applyFrame{player: f.player, card: c})
}

// flipFrame draws up to three cards for a target. Actions drawn during the
// sequence are discarded and set aside until the sequence ends.
type flipFrame struct {
	target    int
	drawn     int
	deferred  []deck.Card
	exhausted bool
}

func (f *flipFrame) resume(r *resolution) {
	e := r.e
	t := e.players[f.target]

	if f.drawn == 3 || f.exhausted || t.Round.Eliminated {
		if len(f.deferred) > 0 {
			r.push(&deferredFrame{cards: f.deferred, target: f.target})
		}
		return
	}

	c, ok := e.draw()
	if !ok {
		t.Round.Active = false
		f.exhausted = true
		e.announce("No cards left for %s to flip, their round is over", t.Name)
		r.push(f)
		return
	}
	f.drawn++

	if deck.IsAction(c) {
		e.deck.Discard(c)
		f.deferred = append(f.deferred, c)
		e.announce("%s flips %s (%d/3), set aside until the flips are done", t.Name, c, f.drawn)
		r.push(f)
		return
	}

	r.push(f, &applyFrame{player: t, card: c})
}

// deferredFrame resolves set-aside actions one at a time through the
// engine's carrier policy
type deferredFrame struct {
	cards  []deck.Card
	next   int
	target int
}

func (f *deferredFrame) resume(r *resolution) {
	if f.next >= len(f.cards) {
		return
	}
	e := r.e
	c := f.cards[f.next]
	f.next++

	carrier := e.carrier(e.players, f.target)
	if carrier < 0 {
		e.announce("Nobody is active to take the set-aside %s", c)
		r.push(f)
		return
	}

	e.announce("%s resolves the set-aside %s", e.players[carrier].Name, c)
	r.push(f, &applyFrame{player: e.players[carrier], card: c, discarded: true})
}
