package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/liarsdice/cmd/liarsdice/shared"
	"github.com/lox/liarsdice/internal/config"
	"github.com/lox/liarsdice/internal/tui"
)

// PlayCmd runs a match in this process
type PlayCmd struct {
	LogFile string `kong:"default='liarsdice.log',help='Log file, the terminal is used by the game'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
	Seed    *int64 `kong:"help='Deterministic RNG seed for dice rolls (optional)'"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}

	logger, closer, err := shared.SetupFileLogger(c.LogFile, level(cfg, c.Debug))
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	sess := newSession(cfg, logger)
	return runTUI(context.Background(), tui.NewLocalBackend(sess), logger)
}

func runTUI(ctx context.Context, backend tui.Backend, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(ctx, backend, logger)
	model.AddLogEntry("=== Liar's Dice ===")
	model.AddLogEntry("Type 'help' for commands")

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

func level(cfg *config.Config, debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return cfg.Level()
}
