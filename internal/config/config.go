// Package config loads game configuration from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/flip7/internal/bot"
	"github.com/lox/flip7/internal/game"
)

// Player kinds
const (
	KindLocal  = "local"
	KindBot    = "bot"
	KindRemote = "remote"
)

const (
	defaultAddress         = ":8080"
	defaultDecisionTimeout = 30 * time.Second
	defaultLogLevel        = "info"
)

// Config is a complete game configuration
type Config struct {
	Game    GameSettings
	Server  ServerSettings
	Log     LogSettings
	Players []PlayerConfig
}

// GameSettings are the table rules
type GameSettings struct {
	TargetScore         int    `hcl:"target_score,optional"`
	Seed                int64  `hcl:"seed,optional"`
	Carrier             string `hcl:"carrier,optional"`
	ConfirmSecondChance bool   `hcl:"confirm_second_chance,optional"`
	DealerLeads         bool   `hcl:"dealer_leads,optional"`
	MaxRounds           int    `hcl:"max_rounds,optional"`
}

// ServerSettings configure remote play
type ServerSettings struct {
	Address         string `hcl:"address,optional"`
	DecisionTimeout string `hcl:"decision_timeout,optional"`
}

// LogSettings configure diagnostics
type LogSettings struct {
	Level string `hcl:"level,optional"`
}

// PlayerConfig is one seat
type PlayerConfig struct {
	Name     string `hcl:"name,label"`
	Kind     string `hcl:"kind,optional"`
	Strategy string `hcl:"strategy,optional"`
}

// file mirrors the HCL layout; every block is optional
type file struct {
	Game    *GameSettings   `hcl:"game,block"`
	Server  *ServerSettings `hcl:"server,block"`
	Log     *LogSettings    `hcl:"log,block"`
	Players []PlayerConfig  `hcl:"player,block"`
}

// Default returns a game of one local player against an advisor bot
func Default() *Config {
	c := &Config{
		Players: []PlayerConfig{
			{Name: "you", Kind: KindLocal},
			{Name: "robo", Kind: KindBot, Strategy: "advisor"},
		},
	}
	c.applyDefaults()
	return c
}

// Load reads an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults. filename is only used in
// diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c := &Config{Players: raw.Players}
	if raw.Game != nil {
		c.Game = *raw.Game
	}
	if raw.Server != nil {
		c.Server = *raw.Server
	}
	if raw.Log != nil {
		c.Log = *raw.Log
	}
	if len(c.Players) == 0 {
		c.Players = Default().Players
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Game.TargetScore == 0 {
		c.Game.TargetScore = game.DefaultTargetScore
	}
	if c.Game.Carrier == "" {
		c.Game.Carrier = "first-active"
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.DecisionTimeout == "" {
		c.Server.DecisionTimeout = defaultDecisionTimeout.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	for i := range c.Players {
		if c.Players[i].Kind == "" {
			c.Players[i].Kind = KindLocal
		}
		if c.Players[i].Kind == KindBot && c.Players[i].Strategy == "" {
			c.Players[i].Strategy = "advisor"
		}
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Game.TargetScore <= 0 {
		return fmt.Errorf("target score must be positive, got %d", c.Game.TargetScore)
	}
	if c.Game.MaxRounds < 0 {
		return fmt.Errorf("max rounds cannot be negative, got %d", c.Game.MaxRounds)
	}
	if _, ok := game.CarrierByName(c.Game.Carrier); !ok {
		return fmt.Errorf("invalid carrier %q (want first-active or flip-target)", c.Game.Carrier)
	}
	if d, err := time.ParseDuration(c.Server.DecisionTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid decision timeout %q", c.Server.DecisionTimeout)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	if len(c.Players) < 2 {
		return game.ErrTooFewPlayers
	}
	seen := map[string]bool{}
	for _, p := range c.Players {
		if p.Name == "" {
			return errors.New("player name cannot be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player %q", p.Name)
		}
		seen[p.Name] = true

		switch p.Kind {
		case KindLocal, KindRemote:
		case KindBot:
			if !slices.Contains(bot.Strategies(), p.Strategy) {
				return fmt.Errorf("player %s: invalid strategy %q", p.Name, p.Strategy)
			}
		default:
			return fmt.Errorf("player %s: invalid kind %q", p.Name, p.Kind)
		}
	}
	return nil
}

// Rules returns the engine rules
func (c *Config) Rules() game.Rules {
	return game.Rules{
		TargetScore:         c.Game.TargetScore,
		ConfirmSecondChance: c.Game.ConfirmSecondChance,
		DealerLeads:         c.Game.DealerLeads,
		MaxRounds:           c.Game.MaxRounds,
	}
}

// Carrier returns the configured carrier policy, FirstActive if unknown
func (c *Config) Carrier() game.CarrierPolicy {
	p, ok := game.CarrierByName(c.Game.Carrier)
	if !ok {
		return game.FirstActive
	}
	return p
}

// DecisionTimeout returns how long a remote seat may take to answer
func (c *Config) DecisionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.DecisionTimeout)
	if err != nil || d <= 0 {
		return defaultDecisionTimeout
	}
	return d
}

// Names returns player names in seat order
func (c *Config) Names() []string {
	names := make([]string, len(c.Players))
	for i, p := range c.Players {
		names[i] = p.Name
	}
	return names
}

// PlayersOfKind returns the seats of one kind
func (c *Config) PlayersOfKind(kind string) []PlayerConfig {
	var out []PlayerConfig
	for _, p := range c.Players {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}
