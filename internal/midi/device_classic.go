package midi

import (
	"github.com/pkg/errors"

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/propagator"
)

// ClassicDevice implements Device for Launchpad S
type ClassicDevice struct{}

// classicEffect lives in the copy and clear flag bits of the velocity.
// Both set is a steady colour; clear alone makes the LED flash.
var classicEffect = propagator.Effect{Byte: 2, Mask: 0x0C, Shift: 2, Default: 3, Max: 3}

func (d *ClassicDevice) ProgrammerMode() []event.Event {
	// Launchpad S - reset to default state: B0 00 00
	return []event.Event{event.MustDecode(event.StatusControlChange, 0, 0)}
}

func (d *ClassicDevice) ClearAll() []event.Event {
	return d.ProgrammerMode()
}

func (d *ClassicDevice) GridSize() (int, int) {
	return 9, 9 // 8x8 grid + top row of CC buttons, (0, 8) doesn't exist
}

func (d *ClassicDevice) PadAt(row, col int) PadMapping {
	if row < 0 || row > 8 || col < 0 || col > 8 || (row == 0 && col == 8) {
		return PadMapping{Exists: false}
	}
	if row == 0 {
		// Top row: Control Change 104 + col
		return PadMapping{IsCC: true, Number: uint8(104 + col), Exists: true}
	}
	// Grid and right column: Note messages
	// Row 1 = notes 0-8, Row 2 = notes 16-24, etc.
	return PadMapping{Number: uint8((row-1)*16 + col), Exists: true}
}

func (d *ClassicDevice) Locate(e event.Event) (row, col int, ok bool) {
	switch {
	case e.IsNoteOn() || e.IsNoteOff():
		key := e.Number()
		row = int(key/16) + 1
		col = int(key % 16)
		if row >= 1 && row <= 8 && col >= 0 && col <= 8 {
			return row, col, true
		}
	case e.IsControlChange():
		// Top row buttons (104-111)
		if key := e.Number(); key >= 104 && key <= 111 {
			return 0, int(key - 104), true
		}
	}
	return 0, 0, false
}

// Color encodes c into a Launchpad S velocity.
// Bits: 5-4=green, 3-2=flags, 1-0=red
func (d *ClassicDevice) Color(name string, pad PadMapping, c PadColor) (propagator.Color, error) {
	if !pad.Exists {
		return propagator.Color{}, errors.Wrapf(ErrNoSuchPad, "colour %q", name)
	}
	base, err := padEvent(pad, classicVelocity(c))
	if err != nil {
		return propagator.Color{}, err
	}
	fx := classicEffect
	return propagator.Color{Name: name, Base: base, Effect: &fx}, nil
}

func classicVelocity(c PadColor) uint8 {
	if c.Off() {
		return 0x0C // flags only, no color = off
	}
	// Blue has no LED; it adds mostly to green, a little to red for brightness
	effectiveR := min(int(c.R)+int(c.B)/4, 127)
	effectiveG := min(int(c.G)+(int(c.B)*3)/4, 127)

	redLevel := colorTo4Level(uint8(effectiveR))
	greenLevel := colorTo4Level(uint8(effectiveG))
	return (greenLevel << 4) | 0x0C | redLevel
}

// colorTo4Level converts 0-127 color value to 0-3 intensity for Launchpad S
func colorTo4Level(value uint8) uint8 {
	if value < 32 {
		return 0
	} else if value < 64 {
		return 1
	} else if value < 96 {
		return 2
	}
	return 3
}
