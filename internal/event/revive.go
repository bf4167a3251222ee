package event

import (
	"fmt"

	"github.com/PixPMusic/gopher-remap/internal/tagged"
)

// Tags of the three wire shapes
const (
	TagSysex     = "sysex"
	TagTwoByte   = "twobyte"
	TagThreeByte = "threebyte"
)

var registry = tagged.NewRegistry[Event]()

func init() {
	registry.Register(TagThreeByte, func(t tagged.Tagged) (Event, error) {
		var status, number, value uint8
		if err := t.Decode(&status, &number, &value); err != nil {
			return Event{}, err
		}
		return Decode([]byte{status, number, value})
	})
	registry.Register(TagTwoByte, func(t tagged.Tagged) (Event, error) {
		var status, number uint8
		if err := t.Decode(&status, &number); err != nil {
			return Event{}, err
		}
		return Decode([]byte{status, number})
	})
	registry.Register(TagSysex, func(t tagged.Tagged) (Event, error) {
		var payload string
		if err := t.Decode(&payload); err != nil {
			return Event{}, err
		}
		body, err := Parse(fmt.Sprintf("F0 %s F7", payload))
		if err != nil {
			return Event{}, err
		}
		return body, nil
	})
}

// Tagged returns the tagged form of e
func (e Event) Tagged() tagged.Tagged {
	b := e.Bytes()
	switch {
	case e.IsSysex():
		return tagged.New(TagSysex, fmt.Sprintf("% X", e.Payload()))
	case len(b) == 2:
		return tagged.New(TagTwoByte, b[0], b[1])
	case len(b) == 3:
		return tagged.New(TagThreeByte, b[0], b[1], b[2])
	}
	return tagged.Tagged{}
}

// Revive reconstructs an event from its tagged form
func Revive(t tagged.Tagged) (Event, error) {
	return registry.Revive(t)
}
