// Package simulator plays many bot-only games in parallel and aggregates the
// outcomes.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/flip7/internal/bot"
	"github.com/lox/flip7/internal/game"
	"github.com/lox/flip7/internal/randutil"
	"github.com/lox/flip7/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Games      int
	Players    int      // seats per game; defaults to len(Strategies)
	Strategies []string // rotated across seats game by game
	Seed       int64
	Workers    int
	Timeout    time.Duration // per game; 0 means no limit
	Rules      game.Rules
	Logger     *log.Logger
}

// Simulator runs Flip 7 game simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", config.Games)
	}
	if len(config.Strategies) == 0 {
		config.Strategies = bot.Strategies()
	}
	for _, s := range config.Strategies {
		if _, err := bot.New(s, randutil.New(0), nil); err != nil {
			return nil, err
		}
	}
	if config.Players == 0 {
		config.Players = len(config.Strategies)
	}
	if config.Players < 2 {
		return nil, game.ErrTooFewPlayers
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Rules.TargetScore <= 0 {
		config.Rules.TargetScore = game.DefaultTargetScore
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{config: config}, nil
}

// Config returns the effective configuration
func (s *Simulator) Config() Config {
	return s.config
}

// Run plays every game and returns the aggregate. Results are added in game
// order, so a seed produces the same statistics for any worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	results := make([]statistics.GameResult, s.config.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range s.config.Games {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := s.playGameWithTimeout(gctx, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playGameWithTimeout runs a single game with timeout protection
func (s *Simulator) playGameWithTimeout(ctx context.Context, index int) (statistics.GameResult, error) {
	seed := randutil.Derive(s.config.Seed, index)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	r, err := s.playGame(ctx, index, seed)
	if errors.Is(err, context.DeadlineExceeded) {
		return r, fmt.Errorf("timed out after %v (seed: %d)", s.config.Timeout, seed)
	}
	return r, err
}

// seatStrategies rotates the strategy list so every strategy visits every
// seat over a run
func (s *Simulator) seatStrategies(index int) []string {
	out := make([]string, s.config.Players)
	for seat := range out {
		out[seat] = s.config.Strategies[(seat+index)%len(s.config.Strategies)]
	}
	return out
}

func (s *Simulator) playGame(ctx context.Context, index int, seed int64) (statistics.GameResult, error) {
	strategies := s.seatStrategies(index)
	names := make([]string, len(strategies))
	deciders := make(map[string]game.Decider, len(strategies))
	for seat, strategy := range strategies {
		names[seat] = fmt.Sprintf("%s-%d", strategy, seat+1)
		b, err := bot.New(strategy, randutil.New(randutil.Derive(seed, seat+1)), s.config.Logger)
		if err != nil {
			return statistics.GameResult{}, err
		}
		deciders[names[seat]] = b
	}

	engine, err := game.NewEngine(randutil.New(seed), names, deciders,
		game.WithRules(s.config.Rules),
		game.WithLogger(s.config.Logger))
	if err != nil {
		return statistics.GameResult{}, err
	}

	res, err := engine.Play(ctx)
	if err != nil {
		return statistics.GameResult{}, err
	}

	result := statistics.GameResult{
		Seed:       seed,
		Strategies: strategies,
		Totals:     make([]int, len(names)),
		Rounds:     len(res.Rounds),
	}
	for seat, p := range engine.Players() {
		result.Totals[seat] = p.Total
		if res.IsWinner(p.Name) {
			result.Winners = append(result.Winners, seat)
		}
	}
	for _, round := range res.Rounds {
		if round.EndedBySeven {
			result.Sevens++
		}
		for _, score := range round.Scores {
			if score.Busted {
				result.Busts++
			}
		}
	}

	s.config.Logger.Debug("Game simulated",
		"game", index+1,
		"seed", seed,
		"rounds", result.Rounds,
		"winners", res.Winners)
	return result, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, cfg Config) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS: %s ===\n", strings.Join(cfg.Strategies, " vs "))
	fmt.Fprintf(w, "Games played: %d (target %d)\n", stats.Games, cfg.Rules.TargetScore)

	fmt.Fprintf(w, "\n=== ROUNDS PER GAME ===\n")
	fmt.Fprintf(w, "Mean: %.2f\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.2f\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== ROUND OUTCOMES ===\n")
	fmt.Fprintf(w, "Bust rate: %.1f%% of player-rounds\n", stats.BustRate()*100)
	fmt.Fprintf(w, "Flip 7 rate: %.1f%% of rounds\n", stats.SevenRate()*100)
	fmt.Fprintf(w, "Mean winning total: %.1f\n", stats.MeanWinningTotal())
	fmt.Fprintf(w, "Shared wins: %d\n", stats.SharedWins)

	fmt.Fprintf(w, "\n=== STRATEGY ANALYSIS ===\n")
	for _, name := range stats.StrategyNames() {
		st := stats.Strategies[name]
		fmt.Fprintf(w, "%-10s %5.1f%% wins, %.1f mean total\n", name, st.WinShare()*100, st.MeanTotal())
	}

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for seat, st := range stats.Seats {
		fmt.Fprintf(w, "Seat %d: %5.1f%% wins, %.1f mean total\n", seat+1, st.WinShare()*100, st.MeanTotal())
	}
}
