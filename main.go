package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/PixPMusic/gopher-remap/internal/subcmd"
)

var version string

func init() {
	if version == "" {
		version = "unknown"
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "gopher-remap"
	app.Version = version
	app.Usage = "Translates MIDI controller input and drives its LEDs"
	app.HelpName = "gopher-remap"

	app.Commands = []cli.Command{
		subcmd.Ports,
		subcmd.Init,
		subcmd.Check,
		subcmd.Translate,
		subcmd.Run,
	}

	app.Action = func(ctx *cli.Context) error {
		cli.ShowAppHelp(ctx)
		return nil
	}

	app.Run(os.Args)
}
