package midi

import (
	"fmt"

	"github.com/PixPMusic/gopher-remap/internal/config"
	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/propagator"
)

// DefaultInputs lays a toggle over every pad of dev's grid. Each pad sends a
// Control Change on channel 0, numbered in grid order, and lights in on while
// toggled on.
func DefaultInputs(dev config.DeviceConfig, on PadColor) ([]config.InputConfig, error) {
	model := NewDevice(dev.Type)
	rows, cols := model.GridSize()

	var inputs []config.InputConfig
	cc := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			pad := model.PadAt(row, col)
			if !pad.Exists || cc > 127 {
				continue
			}
			in, err := padInput(dev, model, pad, uint8(cc), on)
			if err != nil {
				return nil, fmt.Errorf("pad %d,%d: %w", row, col, err)
			}
			in.Name = fmt.Sprintf("Pad %d,%d", row, col)
			inputs = append(inputs, in)
			cc++
		}
	}
	return inputs, nil
}

func padInput(dev config.DeviceConfig, model Device, pad PadMapping, cc uint8, on PadColor) (config.InputConfig, error) {
	m := config.Match{Type: event.TypeNoteOnOff, Channel: -1, Number: int(pad.Number)}
	if pad.IsCC {
		m.Type = event.TypeControlChange
	}

	p, err := propagator.NewGate(propagator.Toggle, propagator.NewOverride(event.TypeControlChange, 0, cc))
	if err != nil {
		return config.InputConfig{}, err
	}

	lit, err := model.Color("on", pad, on)
	if err != nil {
		return config.InputConfig{}, err
	}
	dark, err := model.Color("off", pad, PadColor{})
	if err != nil {
		return config.InputConfig{}, err
	}
	fb, err := propagator.NewFeedback(propagator.Gate, propagator.Toggle, 2, &dark)
	if err != nil {
		return config.InputConfig{}, err
	}
	if err := fb.SetColor(1, lit); err != nil {
		return config.InputConfig{}, err
	}

	in := config.NewInputConfig(dev.ID, m, p)
	in.SetFeedback(fb)
	return in, nil
}
