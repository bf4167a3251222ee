package propagator

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/PixPMusic/gopher-remap/internal/event"
)

type cycleState struct {
	steps   []event.Event
	current int
}

// NewStepCycle creates a translator that answers each event with the next
// step of an ordered sequence, wrapping around at the end. The cursor starts
// on step 0, so the first event emits step 1 (or step 0 for a single step).
func NewStepCycle(hardware, output Response, steps ...event.Event) (*Propagator, error) {
	for i, s := range steps {
		if s.IsZero() {
			return nil, errors.Wrapf(event.ErrMalformedEvent, "step %d is empty", i)
		}
	}
	p, err := newPropagator(KindStepCycle, hardware, output)
	if err != nil {
		return nil, err
	}
	p.cycle = &cycleState{steps: append([]event.Event(nil), steps...)}
	return p, nil
}

func (p *Propagator) cycleResponse() (event.Event, bool) {
	n := len(p.cycle.steps)
	if n == 0 {
		return event.Event{}, false
	}
	p.cycle.current = (p.cycle.current + 1) % n
	return p.cycle.steps[p.cycle.current], true
}

// SetStep replaces step i without moving the cursor. i may equal the step
// count to append.
func (p *Propagator) SetStep(i int, e event.Event) error {
	if p.cycle == nil {
		return p.wrongVariant("SetStep")
	}
	if e.IsZero() {
		return errors.Wrapf(event.ErrMalformedEvent, "step %d is empty", i)
	}
	switch {
	case i < 0 || i > len(p.cycle.steps):
		return errors.Wrapf(ErrStepOutOfRange, "%d of %d", i, len(p.cycle.steps))
	case i == len(p.cycle.steps):
		p.cycle.steps = append(p.cycle.steps, e)
	default:
		p.cycle.steps[i] = e
	}
	return nil
}

func (p *Propagator) AppendStep(e event.Event) error {
	if p.cycle == nil {
		return p.wrongVariant("AppendStep")
	}
	return p.SetStep(len(p.cycle.steps), e)
}

// RemoveStep deletes step i. The cursor is kept inside the shorter sequence.
func (p *Propagator) RemoveStep(i int) error {
	if p.cycle == nil {
		return p.wrongVariant("RemoveStep")
	}
	if i < 0 || i >= len(p.cycle.steps) {
		return errors.Wrapf(ErrStepOutOfRange, "%d of %d", i, len(p.cycle.steps))
	}
	p.cycle.steps = append(p.cycle.steps[:i], p.cycle.steps[i+1:]...)
	if p.cycle.current >= len(p.cycle.steps) {
		p.cycle.current = 0
	}
	return nil
}

// ResponseForStep returns step i without moving the cursor
func (p *Propagator) ResponseForStep(i int) (event.Event, bool) {
	if p.cycle == nil || i < 0 || i >= len(p.cycle.steps) {
		return event.Event{}, false
	}
	return p.cycle.steps[i], true
}

// Steps returns a copy of the sequence
func (p *Propagator) Steps() []event.Event {
	if p.cycle == nil {
		return nil
	}
	return append([]event.Event(nil), p.cycle.steps...)
}

// CurrentStep returns the cursor of a step cycle, or of a feedback translator
func (p *Propagator) CurrentStep() int {
	switch {
	case p.cycle != nil:
		return p.cycle.current
	case p.feedback != nil:
		return p.feedback.current
	}
	return 0
}

// Binding maps an event identity to the event emitted for it
type Binding struct {
	Match event.Key   `json:"match" yaml:"match"`
	Event event.Event `json:"event" yaml:"event"`
}

type lookupState struct {
	bindings map[event.Key]event.Event
	last     event.Event
}

// NewStepLookup creates a translator for controls that report a discrete
// position directly, such as a three-way switch
func NewStepLookup(hardware, output Response, bindings ...Binding) (*Propagator, error) {
	p, err := newPropagator(KindStepLookup, hardware, output)
	if err != nil {
		return nil, err
	}
	p.lookup = &lookupState{bindings: map[event.Key]event.Event{}}
	for _, b := range bindings {
		if err := p.BindKey(b.Match, b.Event); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Propagator) lookupResponse(msg event.Event) (event.Event, bool) {
	p.lookup.last = msg
	out, ok := p.lookup.bindings[msg.Key()]
	return out, ok
}

// Bind maps the identity of match (value ignored) to out
func (p *Propagator) Bind(match, out event.Event) error {
	return p.BindKey(match.Key(), out)
}

func (p *Propagator) BindKey(key event.Key, out event.Event) error {
	if p.lookup == nil {
		return p.wrongVariant("Bind")
	}
	if out.IsZero() {
		return errors.Wrapf(event.ErrMalformedEvent, "binding for %+v is empty", key)
	}
	p.lookup.bindings[key] = out
	return nil
}

func (p *Propagator) Unbind(match event.Event) {
	if p.lookup != nil {
		delete(p.lookup.bindings, match.Key())
	}
}

// Lookup returns the event bound to msg's identity without recording msg
func (p *Propagator) Lookup(msg event.Event) (event.Event, bool) {
	if p.lookup == nil {
		return event.Event{}, false
	}
	out, ok := p.lookup.bindings[msg.Key()]
	return out, ok
}

// Bindings returns the lookup table ordered by status, channel and number
func (p *Propagator) Bindings() []Binding {
	if p.lookup == nil {
		return nil
	}
	out := make([]Binding, 0, len(p.lookup.bindings))
	for k, e := range p.lookup.bindings {
		out = append(out, Binding{Match: k, Event: e})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Match, out[j].Match
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.Number < b.Number
	})
	return out
}
