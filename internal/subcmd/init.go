package subcmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/PixPMusic/gopher-remap/internal/config"
	"github.com/PixPMusic/gopher-remap/internal/log"
	"github.com/PixPMusic/gopher-remap/internal/midi"
)

var Init = cli.Command{
	Name:      "init",
	Usage:     "Adds a device with a toggle on every pad",
	ArgsUsage: "<classic|colorful|generic> <in-port> [out-port]",
	Flags: flags(
		cli.StringFlag{
			Name:  "name, n",
			Usage: `Device name`,
		},
		cli.StringFlag{
			Name:  "virtual-out, o",
			Usage: `Port translated events are sent to`,
		},
		cli.IntSliceFlag{
			Name:  "color",
			Usage: `LED colour of toggled pads as R,G,B (0..127)`,
		},
	),
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() < 2 {
			cli.ShowCommandHelp(ctx, "init")
			os.Exit(1)
		}
		setLogLevel(ctx)

		cfg, err := loadConfig(ctx)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		on, err := padColor(ctx.IntSlice("color"))
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		dev, inputs, err := addDevice(cfg, config.DeviceType(ctx.Args()[0]), ctx.Args()[1], ctx.Args().Get(2), on)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if name := ctx.String("name"); name != "" {
			dev.Name = name
			cfg.UpdateDevice(dev)
		}
		if out := ctx.String("virtual-out"); out != "" {
			cfg.VirtualOut = out
		}
		if err := saveConfig(ctx, cfg); err != nil {
			return cli.NewExitError(err, 1)
		}
		log.Infof("added %s (%s) with %d inputs", dev.ID, dev.Type, inputs)
		return nil
	},
}

func padColor(rgb []int) (midi.PadColor, error) {
	if len(rgb) == 0 {
		return midi.PadColor{G: 127}, nil
	}
	if len(rgb) != 3 {
		return midi.PadColor{}, fmt.Errorf("colour needs three components, got %d", len(rgb))
	}
	for _, v := range rgb {
		if v < 0 || v > 127 {
			return midi.PadColor{}, fmt.Errorf("colour component %d out of range", v)
		}
	}
	return midi.PadColor{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2])}, nil
}

func addDevice(cfg *config.Config, t config.DeviceType, in, out string, on midi.PadColor) (config.DeviceConfig, int, error) {
	switch t {
	case config.DeviceTypeClassic, config.DeviceTypeColorful, config.DeviceTypeGeneric:
	default:
		return config.DeviceConfig{}, 0, fmt.Errorf("unknown device type: %s", t)
	}
	dev := config.NewDeviceConfig()
	dev.Name = in
	dev.Type = t
	dev.InPort = in
	dev.OutPort = out

	inputs, err := midi.DefaultInputs(dev, on)
	if err != nil {
		return config.DeviceConfig{}, 0, err
	}
	cfg.AddDevice(dev)
	for _, input := range inputs {
		cfg.AddInput(input)
	}
	return dev, len(inputs), nil
}
