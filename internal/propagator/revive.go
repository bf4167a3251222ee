package propagator

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/tagged"
)

// valueArgs is the mutable state of the value translators
type valueArgs struct {
	On       bool        `json:"on" yaml:"on"`
	Encoder  Encoder     `json:"encoder,omitempty" yaml:"encoder,omitempty"`
	Baseline uint8       `json:"baseline" yaml:"baseline"`
	Last     event.Event `json:"last" yaml:"last"`
}

// StateColor is a persisted per-state colour override
type StateColor struct {
	State int   `json:"state" yaml:"state"`
	Color Color `json:"color" yaml:"color"`
}

// StateEffect is a persisted per-state effect override
type StateEffect struct {
	State int   `json:"state" yaml:"state"`
	Value uint8 `json:"value" yaml:"value"`
}

type feedbackArgs struct {
	States  int           `json:"states" yaml:"states"`
	Default *Color        `json:"default,omitempty" yaml:"default,omitempty"`
	Colors  []StateColor  `json:"colors" yaml:"colors"`
	Effects []StateEffect `json:"effects" yaml:"effects"`
	Current int           `json:"current" yaml:"current"`
}

var registry = tagged.NewRegistry[*Propagator]()

var valueConstructors = map[Kind]func(Response, Override) (*Propagator, error){
	KindGate:     NewGate,
	KindToggle:   NewToggle,
	KindConstant: NewConstant,
}

func init() {
	for kind := range valueConstructors {
		registry.Register(string(kind), reviveValue)
	}
	registry.Register(string(KindContinuous), reviveValue)
	registry.Register(string(KindPitchBend), reviveValue)
	registry.Register(string(KindStepCycle), reviveStepCycle)
	registry.Register(string(KindStepLookup), reviveStepLookup)
	registry.Register(string(KindFeedback), reviveFeedback)
}

// Revive reconstructs a propagator from its tagged form. The concrete
// variant is chosen by the tag.
func Revive(t tagged.Tagged) (*Propagator, error) {
	return registry.Revive(t)
}

// Tags returns the tags Revive understands
func Tags() []string {
	return registry.Tags()
}

// Tagged returns the tagged form of p, including its mutable state
func (p *Propagator) Tagged() tagged.Tagged {
	switch p.kind {
	case KindGate, KindToggle, KindConstant, KindContinuous, KindPitchBend:
		return tagged.New(string(p.kind), p.output, p.override, valueArgs{
			On:       p.value.on,
			Encoder:  p.value.encoder,
			Baseline: p.value.baseline,
			Last:     p.value.last,
		})
	case KindStepCycle:
		return tagged.New(string(p.kind), p.hardware, p.output, p.Steps(), p.cycle.current)
	case KindStepLookup:
		return tagged.New(string(p.kind), p.hardware, p.output, p.Bindings(), p.lookup.last)
	case KindFeedback:
		fb := p.feedback
		args := feedbackArgs{States: fb.states, Default: fb.defaultColor, Current: fb.current}
		for state, c := range fb.colors {
			args.Colors = append(args.Colors, StateColor{State: state, Color: c})
		}
		for state, v := range fb.effects {
			args.Effects = append(args.Effects, StateEffect{State: state, Value: v})
		}
		sort.Slice(args.Colors, func(i, j int) bool { return args.Colors[i].State < args.Colors[j].State })
		sort.Slice(args.Effects, func(i, j int) bool { return args.Effects[i].State < args.Effects[j].State })
		return tagged.New(string(p.kind), p.hardware, p.output, args)
	}
	return tagged.Tagged{}
}

func reviveValue(t tagged.Tagged) (*Propagator, error) {
	var (
		output Response
		o      Override
		state  valueArgs
	)
	if err := t.Decode(&output, &o, &state); err != nil {
		return nil, err
	}

	var (
		p   *Propagator
		err error
	)
	switch kind := Kind(t.Type); kind {
	case KindContinuous:
		p, err = NewContinuous(output, o, state.Encoder)
	case KindPitchBend:
		p, err = NewPitchBend(output, o.Channel)
		if err == nil {
			err = p.SetOverride(o)
		}
	default:
		p, err = valueConstructors[kind](output, o)
	}
	if err != nil {
		return nil, err
	}
	p.value.on = state.On
	p.value.baseline = state.Baseline
	p.value.last = state.Last
	return p, nil
}

func reviveStepCycle(t tagged.Tagged) (*Propagator, error) {
	var (
		hardware, output Response
		steps            []event.Event
		current          int
	)
	if err := t.Decode(&hardware, &output, &steps, &current); err != nil {
		return nil, err
	}
	if current < 0 || (len(steps) > 0 && current >= len(steps)) || (len(steps) == 0 && current != 0) {
		return nil, errors.Wrapf(ErrStepOutOfRange, "cursor %d of %d", current, len(steps))
	}
	p, err := NewStepCycle(hardware, output, steps...)
	if err != nil {
		return nil, err
	}
	p.cycle.current = current
	return p, nil
}

func reviveStepLookup(t tagged.Tagged) (*Propagator, error) {
	var (
		hardware, output Response
		bindings         []Binding
		last             event.Event
	)
	if err := t.Decode(&hardware, &output, &bindings, &last); err != nil {
		return nil, err
	}
	p, err := NewStepLookup(hardware, output, bindings...)
	if err != nil {
		return nil, err
	}
	p.lookup.last = last
	return p, nil
}

func reviveFeedback(t tagged.Tagged) (*Propagator, error) {
	var (
		hardware, output Response
		args             feedbackArgs
	)
	if err := t.Decode(&hardware, &output, &args); err != nil {
		return nil, err
	}
	p, err := NewFeedback(hardware, output, args.States, args.Default)
	if err != nil {
		return nil, err
	}
	for _, sc := range args.Colors {
		if err := p.SetColor(sc.State, sc.Color); err != nil {
			return nil, err
		}
	}
	for _, se := range args.Effects {
		if err := p.SetEffectValue(se.State, se.Value); err != nil {
			return nil, err
		}
	}
	if err := p.SetState(args.Current); err != nil {
		return nil, err
	}
	return p, nil
}
