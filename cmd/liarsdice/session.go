package main

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/liarsdice/internal/config"
	"github.com/lox/liarsdice/internal/dice"
	"github.com/lox/liarsdice/internal/game"
	"github.com/lox/liarsdice/internal/opponent"
	"github.com/lox/liarsdice/internal/randutil"
	"github.com/lox/liarsdice/internal/session"
)

// newSession wires dice, opponent and engine into the process's session
func newSession(cfg *config.Config, logger *log.Logger) *session.Session {
	seed, fixed := matchSeed(cfg.Game.Seed)
	if fixed {
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		logger.Info("Using random seed", "seed", seed)
	}

	roller := dice.NewRoller(randutil.New(seed), game.MaxDicePerPlayer,
		dice.WithDistinctReroll(cfg.RerollDistinctHands()))
	engine := game.NewEngine(roller, opponent.NewPolicy(logger), logger)
	return session.New(engine, quartz.NewReal(), logger)
}

// matchSeed returns the configured seed when present, otherwise one derived
// from the wall clock. The second value reports whether it was configured.
func matchSeed(configured *int64) (int64, bool) {
	if configured != nil {
		return *configured, true
	}
	return time.Now().UnixNano(), false
}
