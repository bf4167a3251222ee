package subcmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/log"
	"github.com/PixPMusic/gopher-remap/internal/remap"
)

var Translate = cli.Command{
	Name:      "translate",
	Aliases:   []string{"t"},
	Usage:     "Translates hex messages read from stdin, one per line",
	ArgsUsage: "<device>",
	Flags: flags(
		cli.BoolFlag{
			Name:  "save, s",
			Usage: `Save translator state afterwards`,
		},
	),
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() < 1 {
			cli.ShowCommandHelp(ctx, "translate")
			os.Exit(1)
		}
		setLogLevel(ctx)
		cfg, err := loadConfig(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		dev, err := findDevice(cfg, ctx.Args()[0])
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		revived, errs := cfg.Revive()
		for _, err := range errs {
			log.Warnf("%v", err)
		}
		router := remap.New(revived)
		if err := translate(router, dev.ID, os.Stdin, os.Stdout); err != nil {
			return cli.NewExitError(err, 1)
		}

		if ctx.Bool("save") {
			router.Store(cfg)
			if err := saveConfig(ctx, cfg); err != nil {
				return cli.NewExitError(err, 1)
			}
		}
		return nil
	},
}

// translate feeds every line of r to the router and prints what comes out.
// Blank lines and lines starting with # are ignored; malformed lines are
// reported and skipped.
func translate(router *remap.Router, deviceID string, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		e, err := event.Parse(text)
		if err != nil {
			log.Warnf("line %d: %v", line, err)
			continue
		}
		for _, o := range router.Handle(deviceID, e) {
			dest := "out"
			if o.Feedback {
				dest = "led"
			}
			fmt.Fprintf(w, "%s %s\n", dest, o.Event)
		}
	}
	return sc.Err()
}
