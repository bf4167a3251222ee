package event

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gopkg.in/yaml.v3"
)

// Status bytes with the channel nibble cleared
const (
	StatusNoteOff         uint8 = 0x80
	StatusNoteOn          uint8 = 0x90
	StatusKeyPressure     uint8 = 0xA0
	StatusControlChange   uint8 = 0xB0
	StatusProgramChange   uint8 = 0xC0
	StatusChannelPressure uint8 = 0xD0
	StatusPitchBend       uint8 = 0xE0
	StatusSysex           uint8 = 0xF0
	SysexEnd              uint8 = 0xF7
)

// SustainController is the control-change number of the sustain pedal
const SustainController uint8 = 64

var (
	// ErrMalformedEvent is returned when raw bytes do not form a supported MIDI message
	ErrMalformedEvent = errors.New("malformed midi event")
	// ErrUnknownType is returned when an event type name cannot be built
	ErrUnknownType = errors.New("unknown event type")
)

// Event is one immutable wire message. Two events are equal when their
// bytes are equal, so Event can be compared with == and used as a map key.
type Event struct {
	raw string
}

// Key identifies an event by status family, channel and number. The value
// byte is not part of the identity.
type Key struct {
	Status  uint8 `json:"status" yaml:"status"`
	Channel uint8 `json:"channel" yaml:"channel"`
	Number  uint8 `json:"number" yaml:"number"`
}

// dataLength returns the number of data bytes that follow a channel status byte
func dataLength(status uint8) (int, bool) {
	switch status {
	case StatusNoteOff, StatusNoteOn, StatusKeyPressure, StatusControlChange, StatusPitchBend:
		return 2, true
	case StatusProgramChange, StatusChannelPressure:
		return 1, true
	}
	return 0, false
}

// Decode validates b and returns the event it encodes
func Decode(b []byte) (Event, error) {
	if len(b) < 2 {
		return Event{}, errors.Wrapf(ErrMalformedEvent, "length %d", len(b))
	}

	if b[0] == StatusSysex {
		if b[len(b)-1] != SysexEnd {
			return Event{}, errors.Wrapf(ErrMalformedEvent, "sysex without terminator (% X)", b)
		}
		return Event{raw: string(b)}, nil
	}

	if b[0]&0x80 == 0 {
		return Event{}, errors.Wrapf(ErrMalformedEvent, "first byte 0x%02X is not a status byte", b[0])
	}

	n, ok := dataLength(b[0] & 0xF0)
	if !ok {
		return Event{}, errors.Wrapf(ErrMalformedEvent, "unsupported status 0x%02X", b[0])
	}
	if len(b) != n+1 {
		return Event{}, errors.Wrapf(ErrMalformedEvent, "status 0x%02X expects %d bytes, got %d", b[0], n+1, len(b))
	}
	for _, d := range b[1:] {
		if d&0x80 != 0 {
			return Event{}, errors.Wrapf(ErrMalformedEvent, "data byte 0x%02X out of range", d)
		}
	}
	return Event{raw: string(b)}, nil
}

// MustDecode is like Decode but panics on malformed input. It is meant for
// fixed tables of known-good messages.
func MustDecode(b ...byte) Event {
	e, err := Decode(b)
	if err != nil {
		panic(err)
	}
	return e
}

// Encode returns a fresh copy of the event's bytes
func Encode(e Event) []byte {
	return []byte(e.raw)
}

// FromMessage decodes a gomidi message
func FromMessage(msg midi.Message) (Event, error) {
	return Decode([]byte(msg))
}

// Parse decodes the hex text form, e.g. "90 3C 7F" or "903c7f"
func Parse(s string) (Event, error) {
	clean := strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(clean)
	if err != nil {
		return Event{}, errors.Wrapf(ErrMalformedEvent, "invalid hex %q", s)
	}
	return Decode(b)
}

// Build creates a channel message of the given type. For the merged
// "noteon/noteoff" type the note-on half is built.
func Build(t Type, channel, number, value uint8) (Event, error) {
	ch, n, v := channel&0x0F, number&0x7F, value&0x7F

	var msg midi.Message
	switch t {
	case TypeNoteOn, TypeNoteOnOff:
		msg = midi.NoteOn(ch, n, v)
	case TypeNoteOff:
		msg = midi.NoteOffVelocity(ch, n, v)
	case TypeControlChange:
		msg = midi.ControlChange(ch, n, v)
	case TypeProgramChange:
		msg = midi.ProgramChange(ch, n)
	case TypeChannelPressure:
		msg = midi.AfterTouch(ch, n)
	case TypeKeyPressure:
		msg = midi.PolyAfterTouch(ch, n, v)
	case TypePitchBend:
		// number and value are the raw LSB and MSB
		msg = midi.Message{StatusPitchBend | ch, n, v}
	default:
		return Event{}, errors.Wrapf(ErrUnknownType, "cannot build %q", t)
	}
	return Decode(msg)
}

// Sysex wraps payload in the sysex start and end bytes
func Sysex(payload []byte) (Event, error) {
	b := make([]byte, 0, len(payload)+2)
	b = append(b, StatusSysex)
	b = append(b, payload...)
	b = append(b, SysexEnd)
	return Decode(b)
}

// IsZero reports whether e holds no message
func (e Event) IsZero() bool { return e.raw == "" }

// Len returns the number of bytes on the wire
func (e Event) Len() int { return len(e.raw) }

// Bytes returns a copy of the raw bytes
func (e Event) Bytes() []byte { return Encode(e) }

// Message returns the event as a gomidi message for sending
func (e Event) Message() midi.Message { return midi.Message(e.Bytes()) }

func (e Event) IsSysex() bool {
	return !e.IsZero() && e.raw[0] == StatusSysex
}

// Status returns the status family (high nibble) of the first byte
func (e Event) Status() uint8 {
	if e.IsZero() {
		return 0
	}
	if e.IsSysex() {
		return StatusSysex
	}
	return e.raw[0] & 0xF0
}

// Channel returns the channel (0-15); sysex messages report 0
func (e Event) Channel() uint8 {
	if e.IsZero() || e.IsSysex() {
		return 0
	}
	return e.raw[0] & 0x0F
}

// Number returns the first data byte (note, controller, program, or
// pitch-bend LSB)
func (e Event) Number() uint8 {
	if e.Len() < 2 || e.IsSysex() {
		return 0
	}
	return e.raw[1]
}

// HasValue reports whether the event is a three-byte channel message
func (e Event) HasValue() bool {
	return e.Len() == 3 && !e.IsSysex()
}

// Value returns the second data byte, or 0 for two-byte and sysex messages
func (e Event) Value() uint8 {
	if !e.HasValue() {
		return 0
	}
	return e.raw[2]
}

// Payload returns the bytes between the sysex start and end markers
func (e Event) Payload() []byte {
	if !e.IsSysex() {
		return nil
	}
	return []byte(e.raw[1 : len(e.raw)-1])
}

// Key returns the identity of the event with its value ignored
func (e Event) Key() Key {
	return Key{Status: e.Status(), Channel: e.Channel(), Number: e.Number()}
}

// Type returns the configuration name of the event's status family
func (e Event) Type() Type {
	return TypeOf(e.Status())
}

func (e Event) IsNoteOn() bool {
	return e.Status() == StatusNoteOn && e.Value() > 0
}

// IsNoteOff is true for note-off messages and for note-on with velocity 0
func (e Event) IsNoteOff() bool {
	s := e.Status()
	return s == StatusNoteOff || (s == StatusNoteOn && e.Value() == 0)
}

func (e Event) IsControlChange() bool {
	return e.Status() == StatusControlChange
}

func (e Event) IsSustain() bool {
	return e.IsControlChange() && e.Number() == SustainController
}

func (e Event) IsPitchBend() bool {
	return e.Status() == StatusPitchBend
}

// IsOnIsh reports whether the event is an activating edge. Families with no
// on/off meaning return def.
func (e Event) IsOnIsh(def bool) bool {
	switch e.Status() {
	case StatusNoteOn, StatusControlChange:
		return e.Value() > 0
	case StatusNoteOff:
		return false
	}
	return def
}

// String returns the spaced hex form, e.g. "90 3C 7F"
func (e Event) String() string {
	return fmt.Sprintf("% X", []byte(e.raw))
}

// Describe returns a human readable description from gomidi
func (e Event) Describe() string {
	if e.IsZero() {
		return "none"
	}
	return e.Message().String()
}

func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText accepts the hex form; an empty string yields the zero Event
func (e *Event) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*e = Event{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Event) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

func (e *Event) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return e.UnmarshalText([]byte(s))
}
