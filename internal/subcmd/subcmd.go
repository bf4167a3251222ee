// Package subcmd holds the command line subcommands.
package subcmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/PixPMusic/gopher-remap/internal/config"
	"github.com/PixPMusic/gopher-remap/internal/log"
)

var commonFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: `Config file (.json|.yaml), defaults to the user config directory`,
	},
	cli.BoolFlag{
		Name:  "debug, d",
		Usage: `Show debug messages`,
	},
	cli.BoolFlag{
		Name:  "quiet, q",
		Usage: `Suppress information messages`,
	},
	cli.BoolFlag{
		Name:  "silent, Q",
		Usage: `Do not output any messages`,
	},
}

func flags(extra ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag(nil), extra...), commonFlags...)
}

func setLogLevel(ctx *cli.Context) {
	log.SetFlags(ctx.Bool("debug"), ctx.Bool("quiet"), ctx.Bool("silent"))
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if path := ctx.String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func saveConfig(ctx *cli.Context, cfg *config.Config) error {
	if path := ctx.String("config"); path != "" {
		return cfg.SaveFile(path)
	}
	return cfg.Save()
}

// findDevice looks a device up by ID, then by name
func findDevice(cfg *config.Config, ref string) (*config.DeviceConfig, error) {
	if d := cfg.FindDevice(ref); d != nil {
		return d, nil
	}
	for i := range cfg.Devices {
		if cfg.Devices[i].Name == ref {
			return &cfg.Devices[i], nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", ref)
}
