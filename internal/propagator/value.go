package propagator

import (
	"github.com/pkg/errors"

	"github.com/PixPMusic/gopher-remap/internal/event"
)

// DefaultValue is the value constant outputs emit unless overridden
const DefaultValue uint8 = 127

// ErrInvalidOverride is returned for overrides that cannot produce an event
var ErrInvalidOverride = errors.New("invalid override")

// Encoder selects how a continuous control reports its position
type Encoder string

const (
	Absolute Encoder = "absolute" // raw value is the position
	Endless  Encoder = "endless"  // raw value is a signed delta around 64
)

// Override configures the outgoing event independently of the incoming one
type Override struct {
	Type    event.Type `json:"type" yaml:"type"`
	Channel uint8      `json:"channel" yaml:"channel"`
	Number  uint8      `json:"number" yaml:"number"`
	Value   uint8      `json:"value" yaml:"value"`
}

// NewOverride returns an override with the default constant value
func NewOverride(t event.Type, channel, number uint8) Override {
	return Override{Type: t, Channel: channel, Number: number, Value: DefaultValue}
}

func (o Override) validate() error {
	if !o.Type.Buildable() {
		return errors.Wrapf(ErrInvalidOverride, "type %q", o.Type)
	}
	if o.Channel > 15 {
		return errors.Wrapf(ErrInvalidOverride, "channel %d", o.Channel)
	}
	if o.Number > 127 || o.Value > 127 {
		return errors.Wrapf(ErrInvalidOverride, "number %d value %d", o.Number, o.Value)
	}
	return nil
}

type valueState struct {
	on       bool
	encoder  Encoder
	baseline uint8
	last     event.Event
}

func newValue(kind Kind, hardware, output Response, o Override) (*Propagator, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	p, err := newPropagator(kind, hardware, output)
	if err != nil {
		return nil, err
	}
	p.override = o
	p.value = &valueState{encoder: Absolute}
	return p, nil
}

// NewGate creates a translator for controls that send press and release
func NewGate(output Response, o Override) (*Propagator, error) {
	return newValue(KindGate, Gate, output, o)
}

// NewToggle creates a translator for controls that send one edge per action
func NewToggle(output Response, o Override) (*Propagator, error) {
	return newValue(KindToggle, Toggle, output, o)
}

// NewConstant creates a translator for controls that only signal activation
func NewConstant(output Response, o Override) (*Propagator, error) {
	return newValue(KindConstant, Constant, output, o)
}

// NewContinuous creates a translator for faders, knobs and encoders
func NewContinuous(output Response, o Override, enc Encoder) (*Propagator, error) {
	if enc != Absolute && enc != Endless {
		return nil, errors.Wrapf(ErrInvalidOverride, "encoder %q", enc)
	}
	p, err := newValue(KindContinuous, Continuous, output, o)
	if err != nil {
		return nil, err
	}
	p.value.encoder = enc
	return p, nil
}

// NewPitchBend creates a continuous translator that re-emits pitch bend on channel
func NewPitchBend(output Response, channel uint8) (*Propagator, error) {
	return newValue(KindPitchBend, Continuous, output, NewOverride(event.TypePitchBend, channel, 0))
}

func (p *Propagator) Override() Override { return p.override }

// SetOverride replaces the outgoing event configuration
func (p *Propagator) SetOverride(o Override) error {
	if p.value == nil {
		return p.wrongVariant("SetOverride")
	}
	if p.kind == KindPitchBend && o.Type != event.TypePitchBend {
		return errors.Wrapf(ErrInvalidOverride, "pitch bend cannot emit %q", o.Type)
	}
	if err := o.validate(); err != nil {
		return err
	}
	p.override = o
	return nil
}

// On returns the internal on/off flag of value translators
func (p *Propagator) On() bool {
	return p.value != nil && p.value.on
}

// Last returns the last event emitted by a value translator or seen by a
// keyed lookup translator
func (p *Propagator) Last() event.Event {
	switch {
	case p.value != nil:
		return p.value.last
	case p.lookup != nil:
		return p.lookup.last
	}
	return event.Event{}
}

func (p *Propagator) Encoder() Encoder {
	if p.value == nil {
		return ""
	}
	return p.value.encoder
}

func (p *Propagator) SetEncoder(enc Encoder) error {
	if p.kind != KindContinuous {
		return p.wrongVariant("SetEncoder")
	}
	if enc != Absolute && enc != Endless {
		return errors.Wrapf(ErrInvalidOverride, "encoder %q", enc)
	}
	p.value.encoder = enc
	return nil
}

// Baseline returns the last absolute value of a continuous translator
func (p *Propagator) Baseline() uint8 {
	if p.value == nil {
		return 0
	}
	return p.value.baseline
}

// SetBaseline sets the value endless deltas are applied to
func (p *Propagator) SetBaseline(v uint8) error {
	if p.kind != KindContinuous {
		return p.wrongVariant("SetBaseline")
	}
	if v > 127 {
		v = 127
	}
	p.value.baseline = v
	return nil
}

// emit builds the outgoing event. Overrides are validated on every path that
// sets them, so a build failure means the translator state is corrupt.
func (p *Propagator) emit(t event.Type, number, value uint8) (event.Event, bool) {
	e, err := event.Build(t, p.override.Channel, number, value)
	if err != nil {
		panic(errors.Wrapf(err, "%s translator holds an unbuildable override", p.kind))
	}
	p.value.last = e
	return e, true
}

// toggleOutput emits 127 when the flag is on and 0 when it is off
func (p *Propagator) toggleOutput() (event.Event, bool) {
	var v uint8
	if p.value.on {
		v = 127
	}
	return p.emit(p.override.Type.Half(p.value.on), p.override.Number, v)
}

// constantOutput always emits the configured value. The flag still flips so
// the merged note type alternates between its on and off halves.
func (p *Propagator) constantOutput() (event.Event, bool) {
	p.value.on = !p.value.on
	return p.emit(p.override.Type.Half(p.value.on), p.override.Number, p.override.Value)
}

func (p *Propagator) gateResponse(msg event.Event) (event.Event, bool) {
	switch p.output {
	case Gate:
		p.value.on = !p.value.on
		return p.emit(p.override.Type.Half(msg.IsOnIsh(true)), p.override.Number, msg.Value())
	case Toggle:
		p.value.on = !p.value.on
		return p.toggleOutput()
	}
	return p.constantOutput()
}

func (p *Propagator) toggleResponse(msg event.Event) (event.Event, bool) {
	if p.output == Constant {
		return p.constantOutput()
	}
	p.value.on = msg.IsOnIsh(!p.value.on)
	v := p.override.Value
	if msg.HasValue() {
		v = msg.Value()
	}
	return p.emit(p.override.Type.Half(p.value.on), p.override.Number, v)
}

func (p *Propagator) constantHardwareResponse() (event.Event, bool) {
	if p.output == Toggle {
		p.value.on = !p.value.on
		return p.toggleOutput()
	}
	return p.constantOutput()
}

func (p *Propagator) continuousResponse(msg event.Event) (event.Event, bool) {
	if p.output == Constant {
		return p.constantOutput()
	}
	next := msg.Value()
	if p.value.encoder == Endless {
		next = applyDelta(p.value.baseline, msg.Value())
	}
	p.value.baseline = next
	p.value.on = next > 0
	return p.emit(p.override.Type.Half(p.value.on), p.override.Number, next)
}

func (p *Propagator) pitchBendResponse(msg event.Event) (event.Event, bool) {
	if p.output == Constant {
		return p.constantOutput()
	}
	return p.emit(event.TypePitchBend, msg.Number(), msg.Value())
}

// applyDelta decodes raw as an offset from the nearest multiple of 64 and
// adds it to base, clamped to 0..127
func applyDelta(base, raw uint8) uint8 {
	r := int(raw)
	delta := r - 64*((r+32)/64)
	next := int(base) + delta
	switch {
	case next < 0:
		return 0
	case next > 127:
		return 127
	}
	return uint8(next)
}
