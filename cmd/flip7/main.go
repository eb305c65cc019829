package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lox/flip7/internal/console"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Debug   bool `kong:"help='Enable debug logging'"`
	NoColor bool `kong:"name='no-color',env='NO_COLOR',help='Disable colored output'"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play a game at this terminal"`
	Serve    ServeCmd         `cmd:"" help:"Host a game for remote players"`
	Join     JoinCmd          `cmd:"" help:"Join a hosted game"`
	Simulate SimulateCmd      `cmd:"" help:"Play many bot games and report statistics"`
	Advise   AdviseCmd        `cmd:"" help:"Ask the advisor about a hand"`
	History  HistoryCmd       `cmd:"" help:"Show a saved game"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("flip7"),
		kong.Description("Flip 7, the push-your-luck card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
		kong.BindTo(io.Writer(os.Stdout), (*io.Writer)(nil)),
	)
	console.SetColor(!cli.NoColor)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
