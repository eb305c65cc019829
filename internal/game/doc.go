// Package game implements the Flip 7 round engine.
//
// The main type is Engine, which owns the deck and every player's round
// state, applies drawn cards, runs the deal and hit/stay loop of each round,
// scores rounds and stops once a total reaches the target score.
//
// # Basic Usage
//
// Create an engine with a decider per player and play a full game:
//
//	rng := randutil.New(42)
//	deciders := map[string]game.Decider{
//	    "Alice": bot.NewAdvisor(),
//	    "Bob":   console.NewDecider(os.Stdin, os.Stdout),
//	}
//	e, err := game.NewEngine(rng, []string{"Alice", "Bob"}, deciders,
//	    game.WithAnnouncer(console.NewAnnouncer(os.Stdout)))
//	res, err := e.Play(ctx)
//
// # Decisions
//
// The engine never reads input itself. Whenever it needs a choice it sends
// a Prompt to the player's Decider and parses the string answer:
//   - HitOrStay: "h" or "s"; "a" announces the advisor's recommendation
//     and asks again
//   - ChooseTarget: a 1-based index into View.Targets
//   - UseSecondChance: "y" to spend the second chance (only when
//     Rules.ConfirmSecondChance is set)
//
// Malformed answers are announced and asked again. A Decider that returns
// an error gets the default answer: stay, the first eligible target, or
// not spending the second chance.
//
// # Resolution
//
// Apply resolves a card and every card it causes to be drawn using an
// explicit stack of frames rather than recursion. A second chance forces an
// extra draw, a flip three draws up to three cards for its target and sets
// any actions aside until the flips are done, and set-aside actions go to
// the player picked by the CarrierPolicy. Reaching seven distinct numbers
// clears the stack and ends the round. The number of cards a single chain
// may apply is capped at deck.Size.
//
// # Deterministic Testing
//
// Use randutil.New with a fixed seed, or supply a stacked deck whose draw
// order is known:
//
//	d := deck.Stacked(rng, deck.Number(3), deck.Freeze, deck.Number(7))
//	e, _ := game.NewEngine(rng, names, deciders, game.WithDeck(d))
package game
