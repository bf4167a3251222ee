package event

// Type names an event family as it is written in configuration files
type Type string

const (
	TypeNoteOn          Type = "noteon"
	TypeNoteOff         Type = "noteoff"
	TypeNoteOnOff       Type = "noteon/noteoff" // merged; resolves to one half per emission
	TypeControlChange   Type = "controlchange"
	TypeProgramChange   Type = "programchange"
	TypeChannelPressure Type = "channelpressure"
	TypeKeyPressure     Type = "keypressure"
	TypePitchBend       Type = "pitchbend"
	TypeSysex           Type = "sysex"
)

// TypeOf maps a status family to its type name
func TypeOf(status uint8) Type {
	switch status & 0xF0 {
	case StatusNoteOn:
		return TypeNoteOn
	case StatusNoteOff:
		return TypeNoteOff
	case StatusControlChange:
		return TypeControlChange
	case StatusProgramChange:
		return TypeProgramChange
	case StatusChannelPressure:
		return TypeChannelPressure
	case StatusKeyPressure:
		return TypeKeyPressure
	case StatusPitchBend:
		return TypePitchBend
	case StatusSysex:
		return TypeSysex
	}
	return ""
}

// Buildable reports whether Build accepts t
func (t Type) Buildable() bool {
	switch t {
	case TypeNoteOn, TypeNoteOff, TypeNoteOnOff, TypeControlChange, TypeProgramChange,
		TypeChannelPressure, TypeKeyPressure, TypePitchBend:
		return true
	}
	return false
}

// Paired reports whether t alternates between two status families
func (t Type) Paired() bool {
	return t == TypeNoteOnOff
}

// Half resolves a merged type to the half matching on. Unpaired types are
// returned unchanged.
func (t Type) Half(on bool) Type {
	if !t.Paired() {
		return t
	}
	if on {
		return TypeNoteOn
	}
	return TypeNoteOff
}

// Matches reports whether e belongs to the family named by t. The merged
// note type matches both note-on and note-off.
func (t Type) Matches(e Event) bool {
	if t.Paired() {
		s := e.Status()
		return s == StatusNoteOn || s == StatusNoteOff
	}
	return e.Type() == t
}
