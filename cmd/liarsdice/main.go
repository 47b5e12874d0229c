package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" default:"liarsdice.hcl" type:"path" help:"HCL configuration file (optional)"`
	Serve   ServeCmd         `cmd:"" help:"Run the game server"`
	Play    PlayCmd          `cmd:"" default:"1" help:"Play against the computer in the terminal"`
	Client  ClientCmd        `cmd:"" help:"Play in the terminal against a running server"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("liarsdice"),
		kong.Description("Liar's Dice against a computer opponent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
