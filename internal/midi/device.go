package midi

import (
	"github.com/PixPMusic/gopher-remap/internal/config"
	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/propagator"
)

// Device describes how a controller model hands its LEDs to the host and how
// its pads are addressed
type Device interface {
	// ProgrammerMode returns the events that put the device under host control
	ProgrammerMode() []event.Event

	// ClearAll returns the events that turn every LED off
	ClearAll() []event.Event

	// GridSize returns the rows and columns PadAt accepts
	GridSize() (rows, cols int)

	// PadAt returns the address of the pad at a grid position
	PadAt(row, col int) PadMapping

	// Locate maps an incoming event to its grid position
	Locate(e event.Event) (row, col int, ok bool)

	// Color returns the feedback colour that lights pad with c
	Color(name string, pad PadMapping, c PadColor) (propagator.Color, error)
}

// NewDevice returns the Device implementation for the given type
func NewDevice(deviceType config.DeviceType) Device {
	switch deviceType {
	case config.DeviceTypeClassic:
		return &ClassicDevice{}
	case config.DeviceTypeColorful:
		return &ColorfulDevice{}
	default:
		return &GenericDevice{}
	}
}

// padEvent builds the event that addresses pad with value
func padEvent(pad PadMapping, value uint8) (event.Event, error) {
	t := event.TypeNoteOn
	if pad.IsCC {
		t = event.TypeControlChange
	}
	return event.Build(t, 0, pad.Number, value)
}

func mustSysex(payload ...byte) event.Event {
	e, err := event.Sysex(payload)
	if err != nil {
		panic(err)
	}
	return e
}
