package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/liarsdice/cmd/liarsdice/shared"
	"github.com/lox/liarsdice/internal/config"
	"github.com/lox/liarsdice/internal/server"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd runs the HTTP and websocket server. Flags override the config file
// and environment.
type ServeCmd struct {
	Addr      string `kong:"help='Listen host, overrides server.address'"`
	Port      int    `kong:"help='Listen port, overrides server.port'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed for dice rolls (optional)'"`
	AccessLog bool   `kong:"help='Write an access log line per request to stdout'"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	c.apply(cfg)

	logger := shared.SetupLogger(os.Stderr, cfg.Level())
	sess := newSession(cfg, logger)

	opts := []server.Option{server.WithAllowedOrigins(cfg.Server.AllowedOrigins)}
	if cfg.Server.AccessLog {
		opts = append(opts, server.WithAccessLog(os.Stdout))
	}
	s := server.NewServer(sess, logger, opts...)

	logger.Info("Starting Liar's Dice server",
		"address", cfg.Address(),
		"origins", cfg.Server.AllowedOrigins,
		"access_log", cfg.Server.AccessLog,
		"reroll_distinct", cfg.RerollDistinctHands())

	ctx, cancel := shared.SetupSignalHandler(context.Background(), logger)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(cfg.Address())
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (c *ServeCmd) apply(cfg *config.Config) {
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.Debug {
		cfg.Server.LogLevel = log.DebugLevel.String()
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	if c.AccessLog {
		cfg.Server.AccessLog = true
	}
}
