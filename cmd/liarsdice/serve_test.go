package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdice/internal/config"
	"github.com/lox/liarsdice/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeFlagsOverrideConfig(t *testing.T) {
	seed := int64(99)
	cmd := ServeCmd{Addr: "0.0.0.0", Port: 9090, Debug: true, Seed: &seed, AccessLog: true}

	cfg := config.Default()
	cmd.apply(cfg)

	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, log.DebugLevel, cfg.Level())
	require.NotNil(t, cfg.Game.Seed)
	assert.Equal(t, int64(99), *cfg.Game.Seed)
	assert.True(t, cfg.Server.AccessLog)
}

func TestServeWithoutFlagsKeepsConfig(t *testing.T) {
	cfg := config.Default()
	(&ServeCmd{}).apply(cfg)
	assert.Equal(t, config.Default(), cfg)
}

func TestNewSessionIsDeterministicWithSeed(t *testing.T) {
	seed := int64(7)
	cfg := config.Default()
	cfg.Game.Seed = &seed
	logger := log.New(io.Discard)

	a := newSession(cfg, logger).GameState().View
	b := newSession(cfg, logger).GameState().View

	assert.Equal(t, a.HumanDice, b.HumanDice)
	assert.Len(t, a.HumanDice, game.MaxDicePerPlayer)
	assert.Equal(t, game.PlayerTurn{}, a.Phase)
}

func TestLevel(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, log.InfoLevel, level(cfg, false))
	assert.Equal(t, log.DebugLevel, level(cfg, true))
}

func TestMatchSeed(t *testing.T) {
	configured := int64(7)
	seed, ok := matchSeed(&configured)
	assert.True(t, ok)
	assert.Equal(t, int64(7), seed)

	_, ok = matchSeed(nil)
	assert.False(t, ok)
}
