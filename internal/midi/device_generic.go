package midi

import (
	"github.com/pkg/errors"

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/propagator"
)

// GenericDevice implements Device for controllers without a known layout.
// It has no grid; pads are addressed by the caller and lit by brightness.
type GenericDevice struct{}

func (d *GenericDevice) ProgrammerMode() []event.Event { return nil }

func (d *GenericDevice) ClearAll() []event.Event { return nil }

func (d *GenericDevice) GridSize() (int, int) { return 0, 0 }

func (d *GenericDevice) PadAt(row, col int) PadMapping {
	return PadMapping{Exists: false}
}

func (d *GenericDevice) Locate(e event.Event) (int, int, bool) {
	return 0, 0, false
}

// Color sends the brightest channel of c as the velocity
func (d *GenericDevice) Color(name string, pad PadMapping, c PadColor) (propagator.Color, error) {
	if !pad.Exists {
		return propagator.Color{}, errors.Wrapf(ErrNoSuchPad, "colour %q", name)
	}
	base, err := padEvent(pad, max(c.R, c.G, c.B))
	if err != nil {
		return propagator.Color{}, err
	}
	return propagator.Color{Name: name, Base: base}, nil
}
