package subcmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/PixPMusic/gopher-remap/internal/midi"
)

var Ports = cli.Command{
	Name:  "ports",
	Usage: "Lists MIDI input and output ports",
	Flags: flags(),
	Action: func(ctx *cli.Context) error {
		setLogLevel(ctx)
		m := midi.NewManager()
		defer m.Close()

		fmt.Println("in:")
		for _, name := range m.ListInPorts() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("out:")
		for _, name := range m.ListOutPorts() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	},
}
