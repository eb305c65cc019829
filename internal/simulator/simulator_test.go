package simulator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flip7/internal/game"
)

func TestNew(t *testing.T) {
	simulator, err := New(Config{Games: 100, Seed: 12345})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	cfg := simulator.Config()
	if cfg.Players != 3 {
		t.Errorf("Expected 3 players from the default strategies, got %d", cfg.Players)
	}
	if cfg.Workers != 1 {
		t.Errorf("Expected 1 worker, got %d", cfg.Workers)
	}
	if cfg.Rules.TargetScore != game.DefaultTargetScore {
		t.Errorf("Expected target %d, got %d", game.DefaultTargetScore, cfg.Rules.TargetScore)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Games: 0})
	assert.Error(t, err)

	_, err = New(Config{Games: 1, Strategies: []string{"reckless"}})
	assert.ErrorContains(t, err, "unknown bot strategy")

	_, err = New(Config{Games: 1, Strategies: []string{"advisor"}})
	assert.ErrorIs(t, err, game.ErrTooFewPlayers)
}

func TestSeatStrategiesRotate(t *testing.T) {
	s, err := New(Config{Games: 3, Players: 4, Strategies: []string{"advisor", "cautious"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"advisor", "cautious", "advisor", "cautious"}, s.seatStrategies(0))
	assert.Equal(t, []string{"cautious", "advisor", "cautious", "advisor"}, s.seatStrategies(1))
}

func TestRun(t *testing.T) {
	s, err := New(Config{
		Games:   20,
		Seed:    42,
		Workers: 4,
		Timeout: 10 * time.Second,
		Rules:   game.Rules{TargetScore: 100},
	})
	require.NoError(t, err)

	stats, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, stats.Games)
	assert.Len(t, stats.Seats, 3)
	assert.Equal(t, []string{"advisor", "cautious", "random"}, stats.StrategyNames())
	assert.GreaterOrEqual(t, stats.MeanWinningTotal(), 100.0)
	assert.Greater(t, stats.Mean(), 0.0)

	wins := 0.0
	for _, name := range stats.StrategyNames() {
		wins += stats.Strategies[name].Wins
	}
	assert.InDelta(t, 20, wins, 1e-9)
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	run := func(workers int) []float64 {
		s, err := New(Config{Games: 12, Seed: 7, Workers: workers, Rules: game.Rules{TargetScore: 80}})
		require.NoError(t, err)
		stats, err := s.Run(context.Background())
		require.NoError(t, err)
		return stats.Rounds
	}

	assert.Equal(t, run(1), run(6))
}

func TestRunCancelled(t *testing.T) {
	s, err := New(Config{Games: 50, Workers: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummary(t *testing.T) {
	s, err := New(Config{Games: 4, Seed: 1, Rules: game.Rules{TargetScore: 60}})
	require.NoError(t, err)
	stats, err := s.Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, s.Config())

	out := buf.String()
	assert.Contains(t, out, "advisor vs cautious vs random")
	assert.Contains(t, out, "Games played: 4 (target 60)")
	assert.Contains(t, out, "Bust rate:")
	assert.Contains(t, out, "Seat 3:")
}
