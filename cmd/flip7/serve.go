package main

import (
	"fmt"
	"os"

	"github.com/lox/flip7/cmd/flip7/shared"
	"github.com/lox/flip7/internal/config"
)

// ServeCmd hosts a game where every human seat connects over websocket
type ServeCmd struct {
	Config  string   `kong:"short='c',default='flip7.hcl',type='path',help='Game configuration file (HCL)'"`
	Addr    string   `kong:"help='Listen address (overrides the config file)'"`
	Seats   []string `kong:"help='Remote seat names, replacing the configured players'"`
	Bots    []string `kong:"help='Bot strategies to seat after the remote players'"`
	Seed    int64    `kong:"help='Deterministic RNG seed (0 for random)'"`
	Target  int      `kong:"help='Override the target score'"`
	History string   `kong:"type='path',help='Directory to save the finished game to'"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Target > 0 {
		cfg.Game.TargetScore = c.Target
	}
	if len(c.Seats) > 0 || len(c.Bots) > 0 {
		var players []config.PlayerConfig
		for _, name := range c.Seats {
			players = append(players, config.PlayerConfig{Name: name, Kind: config.KindRemote})
		}
		for i, strategy := range c.Bots {
			players = append(players, config.PlayerConfig{
				Name:     fmt.Sprintf("%s-%d", strategy, i+1),
				Kind:     config.KindBot,
				Strategy: strategy,
			})
		}
		cfg.Players = players
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := shared.SetupLoggerWithLevel(os.Stderr, cfg.Log.Level, globals.Debug)
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	res, err := runTable(ctx, cfg, tableOptions{
		Seed:       c.Seed,
		HistoryDir: c.History,
		Addr:       c.Addr,
		Headless:   true,
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("Game finished", "winners", res.Winners, "rounds", len(res.Rounds))
	return nil
}
