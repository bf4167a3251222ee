package midi

import "github.com/pkg/errors"

// ErrNoSuchPad is returned when a grid position has no pad on the device
var ErrNoSuchPad = errors.New("no such pad")

// PadColor represents an RGB color for a pad
type PadColor struct {
	R, G, B uint8 // 0-127 for each channel
}

// Off reports whether the colour is too dark to light an LED
func (c PadColor) Off() bool {
	return c.R < 5 && c.G < 5 && c.B < 5
}

// PadMapping describes how to address a pad on a specific device
type PadMapping struct {
	IsCC   bool  // true = Control Change, false = Note
	Number uint8 // CC number or Note number, which is also the LED index
	Exists bool  // false if this pad doesn't exist on the device
}
