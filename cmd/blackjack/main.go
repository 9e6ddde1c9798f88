package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals `embed:""`

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play blackjack in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve the table over HTTP and websockets"`
	Simulate SimulateCmd      `cmd:"" help:"Play many automated sessions and report results"`
	Stats    StatsCmd         `cmd:"" help:"Show the saved balance and stats"`
	Reset    ResetCmd         `cmd:"" help:"Reset the saved balance and stats"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack against a house dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
