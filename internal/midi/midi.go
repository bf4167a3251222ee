package midi

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/log"
)

// SendFunc writes one event to an output port
type SendFunc func(event.Event) error

// Ports opens MIDI ports by name
type Ports interface {
	Sender(name string) (SendFunc, error)
	Listen(name string, fn func(event.Event)) (stop func(), err error)
}

// Manager handles MIDI port discovery through the system driver
type Manager struct {
	mu sync.RWMutex
}

// NewManager creates a new MIDI manager
func NewManager() *Manager {
	return &Manager{}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetInPort returns an input port by name
func (m *Manager) GetInPort(name string) (drivers.In, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, in := range midi.GetInPorts() {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("input port not found: %s", name)
}

// GetOutPort returns an output port by name
func (m *Manager) GetOutPort(name string) (drivers.Out, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, out := range midi.GetOutPorts() {
		if out.String() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("output port not found: %s", name)
}

// Sender opens an output port for events
func (m *Manager) Sender(name string) (SendFunc, error) {
	outPort, err := m.GetOutPort(name)
	if err != nil {
		return nil, err
	}
	send, err := midi.SendTo(outPort)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}
	return func(e event.Event) error {
		return send(e.Message())
	}, nil
}

// Listen passes every event arriving on an input port to fn. Messages that
// do not decode are logged and dropped.
func (m *Manager) Listen(name string, fn func(event.Event)) (func(), error) {
	inPort, err := m.GetInPort(name)
	if err != nil {
		return nil, err
	}
	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		e, err := event.FromMessage(msg)
		if err != nil {
			log.Warnf("%s: dropping % X: %v", name, []byte(msg), err)
			return
		}
		fn(e)
	}, midi.UseSysEx())
	if err != nil {
		return nil, fmt.Errorf("failed to start listening: %w", err)
	}
	return stop, nil
}
