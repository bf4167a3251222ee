package midi

import (
	"github.com/pkg/errors"

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/propagator"
)

// ColorfulDevice implements Device for Launchpad Mini Mk3 and Launchpad X
type ColorfulDevice struct{}

// Palette colours take their lighting mode from the MIDI channel:
// 0 static, 1 flashing, 2 pulsing.
var paletteEffect = propagator.Effect{Byte: 0, Mask: 0x0F, Shift: 0, Default: 0, Max: 2}

var novationHeader = []byte{0x00, 0x20, 0x29, 0x02, 0x0D}

func (d *ColorfulDevice) sysex(body ...byte) event.Event {
	return mustSysex(append(append([]byte(nil), novationHeader...), body...)...)
}

func (d *ColorfulDevice) ProgrammerMode() []event.Event {
	// SysEx for programmer mode: 00 20 29 02 0D 0E 01
	return []event.Event{d.sysex(0x0E, 0x01)}
}

func (d *ColorfulDevice) ClearAll() []event.Event {
	// One LED entry per pad: static mode, index, palette colour 0
	body := []byte{0x03}
	for i := 11; i <= 99; i++ {
		if i%10 >= 1 && i%10 <= 9 {
			body = append(body, 0x00, uint8(i), 0x00)
		}
	}
	return []event.Event{d.sysex(body...)}
}

func (d *ColorfulDevice) GridSize() (int, int) {
	return 9, 9 // Full 9x9 grid
}

// PadAt follows the programmer mode layout: bottom-left is 11, top-right is 99.
// The top row and right column send Control Change.
func (d *ColorfulDevice) PadAt(row, col int) PadMapping {
	if row < 0 || row > 8 || col < 0 || col > 8 {
		return PadMapping{Exists: false}
	}
	return PadMapping{
		IsCC:   row == 0 || col == 8,
		Number: uint8((8-row)*10 + col + 11),
		Exists: true,
	}
}

func (d *ColorfulDevice) Locate(e event.Event) (row, col int, ok bool) {
	key := e.Number()
	switch {
	case e.IsNoteOn() || e.IsNoteOff():
		row, col = noteToGrid(key)
		if row >= 0 && col >= 0 {
			return row, col, true
		}
	case e.IsControlChange():
		if key >= 91 && key <= 98 {
			return 0, int(key - 91), true
		} else if key%10 == 9 && key >= 19 && key <= 89 {
			// 19 is bottom right (Row 8), 89 is top right (Row 1)
			return 8 - int((key-19)/10), 8, true
		}
	}
	return 0, 0, false
}

func noteToGrid(note uint8) (int, int) {
	// Invert: row = 8 - (note-11)/10, col = (note-11)%10
	if note >= 11 && note <= 99 {
		row := 8 - int((note-11)/10)
		col := int((note - 11) % 10)
		if row >= 0 && row <= 8 && col >= 0 && col <= 8 {
			return row, col
		}
	}
	return -1, -1
}

// Color lights pad with the nearest palette entry to c. The lighting mode
// is the colour's effect.
func (d *ColorfulDevice) Color(name string, pad PadMapping, c PadColor) (propagator.Color, error) {
	if !pad.Exists {
		return propagator.Color{}, errors.Wrapf(ErrNoSuchPad, "colour %q", name)
	}
	base, err := padEvent(pad, nearestPalette(c))
	if err != nil {
		return propagator.Color{}, err
	}
	fx := paletteEffect
	return propagator.Color{Name: name, Base: base, Effect: &fx}, nil
}

// RGBColor lights pad with the exact colour through SysEx. RGB colours have
// no lighting mode.
func (d *ColorfulDevice) RGBColor(name string, pad PadMapping, c PadColor) (propagator.Color, error) {
	if !pad.Exists {
		return propagator.Color{}, errors.Wrapf(ErrNoSuchPad, "colour %q", name)
	}
	// F0 00 20 29 02 0D 03 03 <led> <r> <g> <b> F7
	base := d.sysex(0x03, 0x03, pad.Number,
		scaleColor(c.R)&0x7F, scaleColor(c.G)&0x7F, scaleColor(c.B)&0x7F)
	return propagator.Color{Name: name, Base: base}, nil
}

// scaleColor applies a power curve so mid-range values stay distinct
func scaleColor(value uint8) uint8 {
	if value == 0 {
		return 0
	}
	f := float64(value) / 127.0
	scaled := f * f * 127.0
	if scaled < 1 {
		scaled = 1 // non-zero input gives non-zero output
	}
	return uint8(scaled)
}

// palette holds approximate RGB values (0-127) of key palette entries.
// Format: {velocity, R, G, B}
var palette = [][4]uint8{
	{0, 0, 0, 0},         // off
	{5, 127, 0, 0},       // red
	{6, 127, 40, 40},     // bright red
	{7, 90, 30, 30},      // dim red
	{9, 127, 50, 0},      // orange
	{11, 90, 40, 20},     // dim orange
	{13, 127, 100, 0},    // yellow
	{17, 0, 90, 0},       // green
	{19, 0, 50, 0},       // dim green
	{21, 0, 127, 0},      // bright green
	{37, 0, 100, 100},    // cyan
	{43, 20, 30, 60},     // dim blue
	{45, 0, 50, 127},     // blue
	{47, 40, 75, 127},    // bright blue
	{49, 75, 0, 100},     // purple
	{53, 127, 40, 90},    // pink
	{78, 50, 50, 127},    // light blue
	{84, 127, 75, 25},    // bright orange
	{87, 75, 127, 50},    // lime
	{97, 90, 90, 30},     // dim yellow
	{119, 127, 127, 127}, // white
}

// nearestPalette finds the palette entry closest to c
func nearestPalette(c PadColor) uint8 {
	bestMatch := uint8(0)
	bestDist := 1 << 30

	r, g, b := int(c.R), int(c.G), int(c.B)
	for _, p := range palette {
		pr, pg, pb := int(p[1]), int(p[2]), int(p[3])
		dist := (r-pr)*(r-pr) + (g-pg)*(g-pg) + (b-pb)*(b-pb)
		if dist < bestDist {
			bestDist = dist
			bestMatch = p[0]
		}
	}
	return bestMatch
}
