package subcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/PixPMusic/gopher-remap/internal/config"
)

var Check = cli.Command{
	Name:  "check",
	Usage: "Validates the config and lists every input",
	Flags: flags(),
	Action: func(ctx *cli.Context) error {
		setLogLevel(ctx)
		cfg, err := loadConfig(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if n := check(cfg, os.Stdout); n > 0 {
			return cli.NewExitError(fmt.Errorf("%d inputs failed to load", n), 1)
		}
		return nil
	},
}

// check prints one line per input and returns the number that failed
func check(cfg *config.Config, w io.Writer) int {
	failed := 0
	for _, in := range cfg.Inputs {
		dev := "?"
		if d := cfg.FindDevice(in.DeviceID); d != nil {
			dev = d.Name
		}
		rv, err := in.Revive()
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s %s/%s: %v\n", in.ID, dev, in.Name, err)
			continue
		}
		fb := ""
		if rv.Feedback != nil {
			fb = fmt.Sprintf(" +feedback(%d)", rv.Feedback.States())
		}
		fmt.Fprintf(w, "ok   %s %s/%s: %s %s->%s%s\n", in.ID, dev, in.Name,
			rv.Propagator.Kind(), rv.Propagator.Hardware(), rv.Propagator.Output(), fb)
	}
	return failed
}
