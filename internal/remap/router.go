// Package remap delivers device events to the translators of the inputs they
// address and collects what those translators emit.
package remap

import (
	"sync"

	"github.com/PixPMusic/gopher-remap/internal/config"
	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/propagator"
)

// Output is one event produced by an input
type Output struct {
	InputID  string
	Event    event.Event
	Feedback bool // true when the event lights the device rather than the output port
}

type route struct {
	input      config.InputConfig
	propagator *propagator.Propagator
	feedback   *propagator.Propagator
}

// deviceRoutes keeps one device's inputs in config order. The mutex
// serialises events per device so translators see them in arrival order.
type deviceRoutes struct {
	mu     sync.Mutex
	routes []*route
}

// Router dispatches events per device. Devices are independent and may be
// driven from different goroutines.
type Router struct {
	devices map[string]*deviceRoutes
	order   []string
}

// New creates a router over revived inputs
func New(revived []config.Revived) *Router {
	r := &Router{devices: map[string]*deviceRoutes{}}
	for _, rv := range revived {
		r.add(rv)
	}
	return r
}

func (r *Router) add(rv config.Revived) {
	id := rv.Input.DeviceID
	d, ok := r.devices[id]
	if !ok {
		d = &deviceRoutes{}
		r.devices[id] = d
		r.order = append(r.order, id)
	}
	d.routes = append(d.routes, &route{input: rv.Input, propagator: rv.Propagator, feedback: rv.Feedback})
}

// Devices returns the IDs of devices with at least one input
func (r *Router) Devices() []string {
	return append([]string(nil), r.order...)
}

// Handle passes ev to every input of deviceID whose match accepts it and
// returns the resulting events in input order
func (r *Router) Handle(deviceID string, ev event.Event) []Output {
	d, ok := r.devices[deviceID]
	if !ok {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []Output
	for _, rt := range d.routes {
		if !rt.input.Match.Matches(ev) {
			continue
		}
		if e, ok := rt.propagator.HandleMessage(ev); ok {
			out = append(out, Output{InputID: rt.input.ID, Event: e})
		}
		if rt.feedback == nil {
			continue
		}
		if e, ok := rt.feedback.HandleMessage(ev); ok {
			out = append(out, Output{InputID: rt.input.ID, Event: e, Feedback: true})
		}
	}
	return out
}

// InitialFeedback renders the current state of every feedback translator of
// deviceID, so LEDs match the translators when a device connects
func (r *Router) InitialFeedback(deviceID string) []Output {
	d, ok := r.devices[deviceID]
	if !ok {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []Output
	for _, rt := range d.routes {
		if rt.feedback == nil {
			continue
		}
		if e, ok := rt.feedback.ResponseForState(rt.feedback.CurrentStep()); ok {
			out = append(out, Output{InputID: rt.input.ID, Event: e, Feedback: true})
		}
	}
	return out
}

// Store writes every translator's current state back into cfg
func (r *Router) Store(cfg *config.Config) {
	for _, id := range r.order {
		d := r.devices[id]
		d.mu.Lock()
		for _, rt := range d.routes {
			in := cfg.GetInput(rt.input.ID)
			if in == nil {
				continue
			}
			in.Store(rt.propagator, rt.feedback)
		}
		d.mu.Unlock()
	}
}
