package midi

import (
	"fmt"
	"sync"

	"github.com/PixPMusic/gopher-remap/internal/config"
	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/log"
	"github.com/PixPMusic/gopher-remap/internal/remap"
)

type link struct {
	device config.DeviceConfig
	model  Device
	send   SendFunc // nil when the device has no usable output port
	stop   func()
}

// Bridge connects configured devices to the router. Translated events go to
// the configured output port and feedback goes back to the device it came from.
type Bridge struct {
	ports  Ports
	cfg    *config.Config
	router *remap.Router

	life  sync.Mutex // serialises Start and Close
	mu    sync.Mutex // serialises sends
	out   SendFunc
	links []*link
}

// NewBridge creates a bridge; nothing is opened until Start
func NewBridge(ports Ports, cfg *config.Config, router *remap.Router) *Bridge {
	return &Bridge{ports: ports, cfg: cfg, router: router}
}

// Start opens the output port and every device. Devices that cannot be
// opened are reported and skipped. Call Close even when Start fails.
func (b *Bridge) Start() error {
	b.life.Lock()
	defer b.life.Unlock()

	if b.cfg.VirtualOut == "" {
		return fmt.Errorf("no output port configured")
	}
	out, err := b.ports.Sender(b.cfg.VirtualOut)
	if err != nil {
		return fmt.Errorf("output %s: %w", b.cfg.VirtualOut, err)
	}
	b.out = out

	listening := 0
	for _, dev := range b.cfg.Devices {
		l := &link{device: dev, model: NewDevice(dev.Type)}
		if dev.OutPort != "" {
			send, err := b.ports.Sender(dev.OutPort)
			if err != nil {
				log.Warnf("%s: no LED feedback: %v", dev.Name, err)
			} else {
				l.send = send
				b.light(l, l.model.ProgrammerMode())
				for _, o := range b.router.InitialFeedback(dev.ID) {
					b.light(l, []event.Event{o.Event})
				}
			}
		}
		// tracked even if listening fails so Close turns its LEDs off again
		b.links = append(b.links, l)
		if dev.InPort == "" {
			log.Warnf("%s: no input port configured", dev.Name)
			continue
		}
		stop, err := b.ports.Listen(dev.InPort, func(e event.Event) {
			b.dispatch(l, e)
		})
		if err != nil {
			log.Warnf("%s: %v", dev.Name, err)
			continue
		}
		l.stop = stop
		listening++
		log.Infof("listening to %s on %s", dev.Name, dev.InPort)
	}

	if listening == 0 {
		return fmt.Errorf("no device could be opened")
	}
	return nil
}

func (b *Bridge) dispatch(l *link, e event.Event) {
	if row, col, ok := l.model.Locate(e); ok {
		log.Debugf("%s: pad %d,%d %s", l.device.Name, row, col, e.Describe())
	} else {
		log.Debugf("%s: %s", l.device.Name, e.Describe())
	}

	for _, o := range b.router.Handle(l.device.ID, e) {
		if o.Feedback {
			b.light(l, []event.Event{o.Event})
			continue
		}
		b.mu.Lock()
		err := b.out(o.Event)
		b.mu.Unlock()
		if err != nil {
			log.Warnf("input %s: send %s: %v", o.InputID, o.Event, err)
		}
	}
}

func (b *Bridge) light(l *link, events []event.Event) {
	if l.send == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range events {
		if err := l.send(e); err != nil {
			log.Warnf("%s: LED %s: %v", l.device.Name, e, err)
		}
	}
}

// Close stops every listener and turns the device LEDs off. It is safe to
// call more than once.
func (b *Bridge) Close() {
	b.life.Lock()
	defer b.life.Unlock()

	for _, l := range b.links {
		if l.stop != nil {
			l.stop()
		}
		b.light(l, l.model.ClearAll())
	}
	b.links = nil
}
