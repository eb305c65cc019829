package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flip7/internal/console"
	"github.com/lox/flip7/internal/deck"
	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/hand"
)

func TestMain(m *testing.M) {
	console.SetColor(false)
	os.Exit(m.Run())
}

func TestParseHand(t *testing.T) {
	st, cards, err := parseHand("3, 8 x2 +4 second-chance")
	require.NoError(t, err)
	assert.Equal(t, hand.SetOf(3, 8), st.Numbers)
	assert.True(t, st.Doubler)
	assert.Equal(t, 4, st.Bonus)
	assert.True(t, st.SecondChance)
	assert.Len(t, cards, 5)

	_, _, err = parseHand("3,3")
	assert.ErrorContains(t, err, "duplicate number 3")

	_, _, err = parseHand("freeze")
	assert.ErrorContains(t, err, "cannot be held")

	_, _, err = parseHand("banana")
	assert.ErrorIs(t, err, deck.ErrUnknownCard)

	st, cards, err = parseHand("")
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Equal(t, 0, st.Numbers.Len())
}

func TestAdviseCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := &AdviseCmd{Hand: "12,11", Details: true}
	require.NoError(t, cmd.Run(&buf))

	out := buf.String()
	assert.Contains(t, out, "Hand: [11 12], scoring 23")
	assert.Contains(t, out, "bust")
	assert.Contains(t, out, "over 92 cards")
}

func TestAdviseCmdSeenCards(t *testing.T) {
	var buf bytes.Buffer
	cmd := &AdviseCmd{Hand: "1", Seen: "2,x2"}
	require.NoError(t, cmd.Run(&buf))
	assert.Contains(t, buf.String(), "over 91 cards")

	// there is only one 1 in the deck
	cmd = &AdviseCmd{Hand: "1", Seen: "1"}
	assert.ErrorContains(t, cmd.Run(&buf), "seen")
}

func TestHistoryCmd(t *testing.T) {
	res := &game.Result{
		ID:          "01jabcdefghjkmnpqrstvwxyz0",
		TargetScore: 200,
		Rounds: []game.RoundResult{{
			Number:       1,
			Dealer:       "alice",
			EndedBySeven: true,
			Trigger:      "alice",
			Scores: []game.RoundScore{
				{Player: "alice", Numbers: []int{0, 1, 2, 3, 4, 5, 6}, Seven: true, Score: 36, Total: 36},
				{Player: "bob", Numbers: []int{9}, Doubler: true, Bonus: 4, Score: 22, Total: 22},
			},
		}},
		Standings: []game.Standing{{Player: "alice", Total: 36}, {Player: "bob", Total: 22}},
		Winners:   []string{"alice"},
	}
	path := filepath.Join(t.TempDir(), "game.json")
	require.NoError(t, game.NewFileHistoryWriter(path).WriteHistory(res))

	var buf bytes.Buffer
	require.NoError(t, (&HistoryCmd{File: path, Rounds: true}).Run(&buf))

	out := buf.String()
	assert.Contains(t, out, "first to 200")
	assert.Contains(t, out, "Round 1, dealt by alice, Flip 7 by alice")
	assert.Contains(t, out, "[9 x2 +4]")
	assert.Contains(t, out, "* 1. alice")
	assert.Contains(t, out, "  2. bob")
	assert.Contains(t, out, "1 rounds played")
}

func TestSimulateCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := &SimulateCmd{
		Games:      6,
		Strategies: []string{"advisor", "cautious"},
		Seed:       5,
		Workers:    2,
		Target:     60,
	}
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	require.NoError(t, cmd.run(context.Background(), &buf, logger))

	assert.Contains(t, buf.String(), "Games played: 6 (target 60)")
	assert.Contains(t, buf.String(), "advisor vs cautious")
}

func TestPlayCmdLoadsBots(t *testing.T) {
	cmd := &PlayCmd{
		Config: filepath.Join(t.TempDir(), "missing.hcl"),
		Target: 50,
		Bots:   []string{"cautious", "random"},
	}
	cfg, err := cmd.load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Game.TargetScore)
	assert.Equal(t, []string{"you", "cautious-1", "random-2"}, cfg.Names())

	cmd.Bots = []string{"reckless"}
	_, err = cmd.load()
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRunTableWithBots(t *testing.T) {
	cmd := &PlayCmd{
		Config: filepath.Join(t.TempDir(), "missing.hcl"),
		Target: 40,
		Bots:   []string{"advisor", "cautious"},
	}
	cfg, err := cmd.load()
	require.NoError(t, err)
	cfg.Players = cfg.Players[1:]

	dir := t.TempDir()
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	res, err := runTable(context.Background(), cfg, tableOptions{Seed: 11, HistoryDir: dir, Headless: true}, logger)
	require.NoError(t, err)
	require.NotEmpty(t, res.Winners)

	saved, err := game.ReadHistory(filepath.Join(dir, res.ID+".json"))
	require.NoError(t, err)
	assert.Equal(t, res, saved)
}
