package propagator

import (
	"github.com/pkg/errors"

	"github.com/PixPMusic/gopher-remap/internal/event"
)

// Effect describes where a colour's effect value (flash, pulse, ...) lives
// inside its bytes: Value is shifted left by Shift and written under Mask
// into byte Byte.
type Effect struct {
	Byte    int   `json:"byte" yaml:"byte"`
	Mask    uint8 `json:"mask" yaml:"mask"`
	Shift   uint8 `json:"shift" yaml:"shift"`
	Default uint8 `json:"default" yaml:"default"`
	Max     uint8 `json:"max" yaml:"max"`
}

// Color is an LED state on a device: the event that lights it plus an
// optional effect slot
type Color struct {
	Name   string      `json:"name" yaml:"name"`
	Base   event.Event `json:"base" yaml:"base"`
	Effect *Effect     `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// EffectCapable reports whether the colour accepts an effect value
func (c Color) EffectCapable() bool {
	return c.Effect != nil
}

// Render merges value into the colour's base bytes. Colours without an
// effect ignore value.
func (c Color) Render(value uint8) (event.Event, error) {
	if c.Effect == nil {
		return c.Base, nil
	}
	b := c.Base.Bytes()
	fx := c.Effect
	b[fx.Byte] = b[fx.Byte]&^fx.Mask | (value<<fx.Shift)&fx.Mask
	return event.Decode(b)
}

func (c Color) validate() error {
	if c.Base.IsZero() {
		return errors.Wrapf(event.ErrMalformedEvent, "colour %q has no event", c.Name)
	}
	if c.Effect == nil {
		return nil
	}
	fx := c.Effect
	if fx.Byte < 0 || fx.Byte >= c.Base.Len() {
		return errors.Wrapf(event.ErrMalformedEvent, "colour %q effect byte %d", c.Name, fx.Byte)
	}
	if fx.Default > fx.Max {
		return errors.Wrapf(ErrNotEffectCapable, "colour %q default effect %d exceeds %d", c.Name, fx.Default, fx.Max)
	}
	// every value up to Max must still decode
	for v := 0; v <= int(fx.Max); v++ {
		if _, err := c.Render(uint8(v)); err != nil {
			return errors.Wrapf(err, "colour %q effect %d", c.Name, v)
		}
	}
	return nil
}

type feedbackState struct {
	states       int
	defaultColor *Color
	colors       map[int]Color
	effects      map[int]uint8
	current      int
}

// NewFeedback creates a device-facing translator that lights an LED
// according to a logical state in 0..states-1. def may be nil.
func NewFeedback(hardware, output Response, states int, def *Color) (*Propagator, error) {
	if states < 1 {
		return nil, errors.Wrapf(ErrStateOutOfRange, "feedback needs at least one state, got %d", states)
	}
	if def != nil {
		if err := def.validate(); err != nil {
			return nil, err
		}
	}
	p, err := newPropagator(KindFeedback, hardware, output)
	if err != nil {
		return nil, err
	}
	p.feedback = &feedbackState{
		states:       states,
		defaultColor: def,
		colors:       map[int]Color{},
		effects:      map[int]uint8{},
	}
	return p, nil
}

// feedbackResponse mirrors the incoming edge for gate outputs and otherwise
// advances to the next state
func (p *Propagator) feedbackResponse(msg event.Event) (event.Event, bool) {
	fb := p.feedback
	if p.output == Gate {
		fb.current = 0
		if msg.IsOnIsh(true) {
			fb.current = min(1, fb.states-1)
		}
	} else {
		fb.current = (fb.current + 1) % fb.states
	}
	return p.ResponseForState(fb.current)
}

// States returns the number of logical states
func (p *Propagator) States() int {
	if p.feedback == nil {
		return 0
	}
	return p.feedback.states
}

func (p *Propagator) checkState(op string, state int) error {
	if p.feedback == nil {
		return p.wrongVariant(op)
	}
	if state < 0 || state >= p.feedback.states {
		return errors.Wrapf(ErrStateOutOfRange, "%d of %d", state, p.feedback.states)
	}
	return nil
}

// SetState moves the feedback cursor without emitting
func (p *Propagator) SetState(state int) error {
	if err := p.checkState("SetState", state); err != nil {
		return err
	}
	p.feedback.current = state
	return nil
}

// ColorFor resolves the colour of state: its override, else the default
func (p *Propagator) ColorFor(state int) (Color, bool) {
	if p.feedback == nil {
		return Color{}, false
	}
	if c, ok := p.feedback.colors[state]; ok {
		return c, true
	}
	if p.feedback.defaultColor != nil {
		return *p.feedback.defaultColor, true
	}
	return Color{}, false
}

// EffectFor resolves the effect value of state. It is only present when the
// resolved colour is effect capable.
func (p *Propagator) EffectFor(state int) (uint8, bool) {
	c, ok := p.ColorFor(state)
	if !ok || !c.EffectCapable() {
		return 0, false
	}
	if v, ok := p.feedback.effects[state]; ok {
		return v, true
	}
	return c.Effect.Default, true
}

// SetColor overrides the colour of state and drops its effect override,
// since the new colour's effect range may differ
func (p *Propagator) SetColor(state int, c Color) error {
	if err := p.checkState("SetColor", state); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	p.feedback.colors[state] = c
	delete(p.feedback.effects, state)
	return nil
}

// ClearColor removes the colour override of state
func (p *Propagator) ClearColor(state int) {
	if p.feedback != nil {
		delete(p.feedback.colors, state)
		delete(p.feedback.effects, state)
	}
}

func (p *Propagator) SetDefaultColor(c *Color) error {
	if p.feedback == nil {
		return p.wrongVariant("SetDefaultColor")
	}
	if c != nil {
		if err := c.validate(); err != nil {
			return err
		}
	}
	p.feedback.defaultColor = c
	return nil
}

func (p *Propagator) DefaultColor() *Color {
	if p.feedback == nil {
		return nil
	}
	return p.feedback.defaultColor
}

// SetEffectValue overrides the effect value of state
func (p *Propagator) SetEffectValue(state int, v uint8) error {
	if err := p.checkState("SetEffectValue", state); err != nil {
		return err
	}
	c, ok := p.ColorFor(state)
	if !ok || !c.EffectCapable() {
		return errors.Wrapf(ErrNotEffectCapable, "state %d", state)
	}
	if v > c.Effect.Max {
		return errors.Wrapf(ErrNotEffectCapable, "state %d: effect %d exceeds %d", state, v, c.Effect.Max)
	}
	if _, err := c.Render(v); err != nil {
		return errors.Wrapf(err, "state %d: effect %d", state, v)
	}
	p.feedback.effects[state] = v
	return nil
}

// RestoreDefaults clears every per-state colour and effect override
func (p *Propagator) RestoreDefaults() {
	if p.feedback == nil {
		return
	}
	p.feedback.colors = map[int]Color{}
	p.feedback.effects = map[int]uint8{}
}

// ResponseForState renders the event lighting state without moving the cursor
func (p *Propagator) ResponseForState(state int) (event.Event, bool) {
	c, ok := p.ColorFor(state)
	if !ok {
		return event.Event{}, false
	}
	v, _ := p.EffectFor(state)
	e, err := c.Render(v)
	if err != nil {
		return event.Event{}, false
	}
	return e, true
}
