package main

import (
	"fmt"
	"os"

	"github.com/lox/flip7/cmd/flip7/shared"
	"github.com/lox/flip7/internal/config"
)

// PlayCmd plays a game at this terminal
type PlayCmd struct {
	Config  string   `kong:"short='c',default='flip7.hcl',type='path',help='Game configuration file (HCL); defaults apply when missing'"`
	Target  int      `kong:"help='Override the target score'"`
	Seed    int64    `kong:"help='Deterministic RNG seed (0 for random)'"`
	Bots    []string `kong:"help='Replace the configured opponents with these bot strategies'"`
	History string   `kong:"type='path',help='Directory to save the finished game to'"`
	Addr    string   `kong:"help='Listen address for remote seats'"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	logger := shared.SetupLoggerWithLevel(os.Stderr, cfg.Log.Level, globals.Debug)
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	_, err = runTable(ctx, cfg, tableOptions{
		Seed:       c.Seed,
		HistoryDir: c.History,
		Addr:       c.Addr,
	}, logger)
	return err
}

func (c *PlayCmd) load() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Target > 0 {
		cfg.Game.TargetScore = c.Target
	}
	if len(c.Bots) > 0 {
		players := cfg.PlayersOfKind(config.KindLocal)
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
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
