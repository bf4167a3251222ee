package subcmd

import (
	"sync"

	"github.com/urfave/cli"
	"github.com/xlab/closer"

	"github.com/PixPMusic/gopher-remap/internal/log"
	"github.com/PixPMusic/gopher-remap/internal/midi"
	"github.com/PixPMusic/gopher-remap/internal/remap"
)

var Run = cli.Command{
	Name:    "run",
	Aliases: []string{"r"},
	Usage:   "Translates live device input until interrupted",
	Flags: flags(
		cli.BoolFlag{
			Name:  "no-save",
			Usage: `Do not save translator state on exit`,
		},
	),
	Action: func(ctx *cli.Context) error {
		setLogLevel(ctx)
		cfg, err := loadConfig(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		revived, errs := cfg.Revive()
		for _, err := range errs {
			log.Warnf("%v", err)
		}
		router := remap.New(revived)

		m := midi.NewManager()
		bridge := midi.NewBridge(m, cfg, router)

		shutdown := stopper(bridge.Close, m.Close, func() error {
			if ctx.Bool("no-save") {
				return nil
			}
			router.Store(cfg)
			return saveConfig(ctx, cfg)
		})
		// bound before any port opens; Hold exits the process once it has run
		closer.Bind(func() { shutdown(true) })

		if err := bridge.Start(); err != nil {
			shutdown(false)
			return cli.NewExitError(err, 1)
		}
		log.Infof("sending to %s, press Ctrl+C to stop", cfg.VirtualOut)
		closer.Hold()
		return nil
	},
}

// stopper returns a shutdown function that closes the bridge and the driver
// once, then saves when asked to. Later calls do nothing.
func stopper(closeBridge, closeDriver func(), save func() error) func(keep bool) {
	var once sync.Once
	return func(keep bool) {
		once.Do(func() {
			closeBridge()
			closeDriver()
			if !keep {
				return
			}
			if err := save(); err != nil {
				log.Warnf("failed to save state: %v", err)
			}
		})
	}
}
