package main

import (
	"context"
	"strings"
	"time"

	"github.com/lox/liarsdice/cmd/liarsdice/shared"
	"github.com/lox/liarsdice/internal/client"
	"github.com/lox/liarsdice/internal/config"
)

const connectTimeout = 10 * time.Second

// ClientCmd plays against a server started with serve
type ClientCmd struct {
	Server  string `kong:"default='http://localhost:8080',help='Server URL'"`
	LogFile string `kong:"default='liarsdice-client.log',help='Log file, the terminal is used by the game'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *ClientCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	logger, closer, err := shared.SetupFileLogger(c.LogFile, level(cfg, c.Debug))
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	wsClient := client.NewClient(strings.TrimSpace(c.Server), logger)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	err = wsClient.Connect(ctx)
	cancel()
	if err != nil {
		return err
	}
	defer func() { _ = wsClient.Close() }()

	return runTUI(context.Background(), wsClient, logger)
}
