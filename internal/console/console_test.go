package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/hand"
	"github.com/lox/flip7/internal/randutil"
)

func TestMain(m *testing.M) {
	SetColor(false)
	os.Exit(m.Run())
}

func testView() game.View {
	alice := hand.New()
	alice.Numbers = hand.SetOf(3, 8)
	alice.Doubler = true
	alice.Bonus = 4
	alice.SecondChance = true

	bob := hand.New()
	bob.Numbers = hand.SetOf(9)
	bob.Active = false

	return game.View{
		Round: 2,
		Players: []game.PlayerView{
			{Name: "alice", Round: alice, Total: 40},
			{Name: "bob", Round: bob, Total: 12},
		},
		Acting:    0,
		Dealer:    1,
		Remaining: deck.Census{deck.Number(5): 2, deck.Freeze: 1},
	}
}

func TestRenderHand(t *testing.T) {
	v := testView()
	assert.Equal(t, "[3 8 x2 +4 second-chance]", RenderHand(v.Players[0].Round))
	assert.Equal(t, "[9] stayed on 9", RenderHand(v.Players[1].Round))
	assert.Equal(t, "[] out", RenderHand(hand.State{Eliminated: true}))
}

func TestRenderView(t *testing.T) {
	out := RenderView(testView())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Round 2, 3 cards in the draw pile", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], ">   alice"))
	assert.True(t, strings.HasPrefix(lines[2], "  D bob"))
	assert.Contains(t, lines[1], "40")
}

func TestDeciderReadsLines(t *testing.T) {
	var out bytes.Buffer
	d := NewDecider(strings.NewReader("h\n  2  \n"), &out)
	ctx := context.Background()

	answer, err := d.Decide(ctx, game.Prompt{Kind: game.HitOrStay, Text: "hit or stay?", View: testView()})
	require.NoError(t, err)
	assert.Equal(t, "h", answer)
	assert.Contains(t, out.String(), "hit or stay?")
	assert.Contains(t, out.String(), "alice")

	answer, err = d.Decide(ctx, game.Prompt{Kind: game.ChooseTarget, Text: "target?", View: testView()})
	require.NoError(t, err)
	assert.Equal(t, "2", answer)

	_, err = d.Decide(ctx, game.Prompt{Kind: game.UseSecondChance, Text: "use it?"})
	assert.ErrorIs(t, err, io.EOF)
}

func TestDeciderCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	d := NewDecider(r, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := d.Decide(ctx, game.Prompt{Kind: game.UseSecondChance})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnnouncer(t *testing.T) {
	var out bytes.Buffer
	a := NewAnnouncer(&out)
	a.Announce("Round 1 begins, alice deals")
	a.Announce("bob draws a duplicate 4 and busts")

	assert.Equal(t, "\n Round 1 begins, alice deals \nbob draws a duplicate 4 and busts\n", out.String())
}

func TestConsoleGame(t *testing.T) {
	var out bytes.Buffer
	rng := randutil.New(5)
	d := deck.Stacked(rng, deck.Number(4), deck.Number(6), deck.Number(10))
	deciders := map[string]game.Decider{
		"alice": NewDecider(strings.NewReader("a\nh\ns\n"), &out),
		"bob":   game.Script(),
	}

	e, err := game.NewEngine(rng, []string{"alice", "bob"}, deciders,
		game.WithDeck(d), game.WithAnnouncer(NewAnnouncer(&out)), game.WithRules(game.Rules{TargetScore: 1}))
	require.NoError(t, err)

	res, err := e.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, res.Winners)
	assert.Contains(t, out.String(), "Advice for alice")
	assert.Contains(t, out.String(), "alice wins with 14")
}
