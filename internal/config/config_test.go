package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/flip7/internal/game"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, game.DefaultTargetScore, c.Game.TargetScore)
	assert.Equal(t, []string{"you", "robo"}, c.Names())
	assert.Equal(t, 30*time.Second, c.DecisionTimeout())
	assert.Equal(t, ":8080", c.Server.Address)
}

func TestParse(t *testing.T) {
	src := `
game {
  target_score          = 150
  seed                  = 42
  carrier               = "flip-target"
  confirm_second_chance = true
  dealer_leads          = true
  max_rounds            = 20
}

server {
  address          = "127.0.0.1:9000"
  decision_timeout = "5s"
}

log {
  level = "debug"
}

player "alice" {}

player "robo" {
  kind     = "bot"
  strategy = "cautious"
}

player "bob" {
  kind = "remote"
}
`
	c, err := Parse([]byte(src), "game.hcl")
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, GameSettings{
		TargetScore:         150,
		Seed:                42,
		Carrier:             "flip-target",
		ConfirmSecondChance: true,
		DealerLeads:         true,
		MaxRounds:           20,
	}, c.Game)
	assert.Equal(t, game.Rules{TargetScore: 150, ConfirmSecondChance: true, DealerLeads: true, MaxRounds: 20}, c.Rules())
	assert.Equal(t, 5*time.Second, c.DecisionTimeout())
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, []string{"alice", "robo", "bob"}, c.Names())
	assert.Equal(t, KindLocal, c.Players[0].Kind)
	assert.Equal(t, []PlayerConfig{{Name: "bob", Kind: KindRemote}}, c.PlayersOfKind(KindRemote))
	assert.NotNil(t, c.Carrier())
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	c, err := Parse([]byte(""), "empty.hcl")
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, Default(), c)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("game {"), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = Parse([]byte(`game { colour = "red" }`), "unknown.hcl")
	assert.ErrorContains(t, err, "failed to decode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"target", func(c *Config) { c.Game.TargetScore = -1 }, "target score"},
		{"max rounds", func(c *Config) { c.Game.MaxRounds = -1 }, "max rounds"},
		{"carrier", func(c *Config) { c.Game.Carrier = "dealer" }, "invalid carrier"},
		{"timeout", func(c *Config) { c.Server.DecisionTimeout = "soon" }, "decision timeout"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"too few", func(c *Config) { c.Players = c.Players[:1] }, "at least 2 players"},
		{"duplicate", func(c *Config) { c.Players[1].Name = "you" }, "duplicate player"},
		{"kind", func(c *Config) { c.Players[0].Kind = "ghost" }, "invalid kind"},
		{"strategy", func(c *Config) { c.Players[1].Strategy = "psychic" }, "invalid strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	path := filepath.Join(t.TempDir(), "flip7.hcl")
	require.NoError(t, os.WriteFile(path, []byte("game {\n  target_score = 50\n}\n"), 0o644))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, c.Game.TargetScore)
}

func TestExampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "flip7.example.hcl"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, []string{"you", "robo", "friend"}, c.Names())
	assert.Len(t, c.PlayersOfKind(KindRemote), 1)
	assert.Equal(t, "first-active", c.Game.Carrier)
	assert.Equal(t, 30*time.Second, c.DecisionTimeout())
}
