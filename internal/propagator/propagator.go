// Package propagator translates the events of one physical control into the
// behaviour the user asked for. A Propagator holds the fields every
// translator shares plus the state of exactly one variant, selected by Kind.
package propagator

import (
	"github.com/pkg/errors"

	"github.com/PixPMusic/gopher-remap/internal/event"
)

var (
	// ErrIllegalResponsePairing is returned when a hardware/output response
	// pair is not in the compatibility table
	ErrIllegalResponsePairing = errors.New("illegal response pairing")
	// ErrWrongVariant is returned when an editor is called on a propagator of another kind
	ErrWrongVariant = errors.New("operation not supported by this propagator kind")
	// ErrStepOutOfRange is returned for step indexes past the end of the sequence
	ErrStepOutOfRange = errors.New("step index out of range")
	// ErrStateOutOfRange is returned for feedback states outside 0..states-1
	ErrStateOutOfRange = errors.New("state out of range")
	// ErrNotEffectCapable is returned when an effect value is set on a colour without an effect
	ErrNotEffectCapable = errors.New("colour is not effect capable")
)

// Kind tags the variant a propagator implements
type Kind string

const (
	KindGate       Kind = "gate"
	KindToggle     Kind = "toggle"
	KindConstant   Kind = "constant"
	KindContinuous Kind = "continuous"
	KindPitchBend  Kind = "pitchbend"
	KindStepCycle  Kind = "stepcycle"
	KindStepLookup Kind = "steplookup"
	KindFeedback   Kind = "feedback"
)

// Kinds returns every variant tag
func Kinds() []Kind {
	return []Kind{
		KindGate, KindToggle, KindConstant, KindContinuous, KindPitchBend,
		KindStepCycle, KindStepLookup, KindFeedback,
	}
}

// Propagator is the translator bound to one logical input. It is not safe
// for concurrent use; events for one input must be handled in arrival order.
type Propagator struct {
	kind     Kind
	hardware Response
	output   Response
	override Override

	// exactly one of these is set, matching kind
	value    *valueState
	cycle    *cycleState
	lookup   *lookupState
	feedback *feedbackState
}

func newPropagator(kind Kind, hardware, output Response) (*Propagator, error) {
	if !Compatible(hardware, output) {
		return nil, errors.Wrapf(ErrIllegalResponsePairing, "%s hardware cannot output %s", hardware, output)
	}
	return &Propagator{kind: kind, hardware: hardware, output: output}, nil
}

func (p *Propagator) Kind() Kind { return p.kind }

// Hardware returns the response the physical control was created with
func (p *Propagator) Hardware() Response { return p.hardware }

func (p *Propagator) Output() Response { return p.output }

// SetOutput changes the output response. Illegal pairings leave p unchanged.
func (p *Propagator) SetOutput(output Response) error {
	if !Compatible(p.hardware, output) {
		return errors.Wrapf(ErrIllegalResponsePairing, "%s hardware cannot output %s", p.hardware, output)
	}
	p.output = output
	return nil
}

// HandleMessage translates msg, returning false when nothing is emitted.
// Gate hardware drops release events unless the output is also a gate.
func (p *Propagator) HandleMessage(msg event.Event) (event.Event, bool) {
	if p.hardware == Gate && p.output != Gate && !msg.IsOnIsh(true) {
		return event.Event{}, false
	}
	return p.Response(msg)
}

// Response runs the variant behaviour without the gate filter
func (p *Propagator) Response(msg event.Event) (event.Event, bool) {
	switch p.kind {
	case KindGate:
		return p.gateResponse(msg)
	case KindToggle:
		return p.toggleResponse(msg)
	case KindConstant:
		return p.constantHardwareResponse()
	case KindContinuous:
		return p.continuousResponse(msg)
	case KindPitchBend:
		return p.pitchBendResponse(msg)
	case KindStepCycle:
		return p.cycleResponse()
	case KindStepLookup:
		return p.lookupResponse(msg)
	case KindFeedback:
		return p.feedbackResponse(msg)
	}
	return event.Event{}, false
}

func (p *Propagator) wrongVariant(op string) error {
	return errors.Wrapf(ErrWrongVariant, "%s on %s", op, p.kind)
}
