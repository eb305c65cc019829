package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/flip7/cmd/flip7/shared"
	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/randutil"
	"github.com/lox/flip7/internal/simulator"
)

// SimulateCmd plays many bot-only games
type SimulateCmd struct {
	Games      int           `kong:"default='1000',help='Number of games to simulate'"`
	Strategies []string      `kong:"default='advisor,cautious,random',help='Bot strategies, rotated across seats'"`
	Players    int           `kong:"help='Seats per game (defaults to the number of strategies)'"`
	Seed       int64         `kong:"help='RNG seed (0 for random)'"`
	Workers    int           `kong:"default='4',help='Games played in parallel'"`
	Timeout    time.Duration `kong:"default='10s',help='Per-game timeout'"`
	Target     int           `kong:"default='200',help='Target score'"`
	MaxRounds  int           `kong:"name='max-rounds',help='Stop a game after this many rounds (0 for no limit)'"`
}

func (c *SimulateCmd) Run(globals *Globals, out io.Writer) error {
	logger := shared.SetupLogger(os.Stderr, globals.Debug)
	if !globals.Debug {
		logger.SetLevel(log.WarnLevel)
	}
	ctx := shared.SetupSignalHandler()
	return c.run(ctx, out, logger)
}

func (c *SimulateCmd) run(ctx context.Context, out io.Writer, logger *log.Logger) error {
	seed := randutil.Seed(c.Seed)
	sim, err := simulator.New(simulator.Config{
		Games:      c.Games,
		Players:    c.Players,
		Strategies: c.Strategies,
		Seed:       seed,
		Workers:    c.Workers,
		Timeout:    c.Timeout,
		Rules:      game.Rules{TargetScore: c.Target, MaxRounds: c.MaxRounds},
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(out, stats, sim.Config())
	logger.Info("Simulation complete", "games", stats.Games, "seed", seed, "elapsed", time.Since(start))
	return nil
}
