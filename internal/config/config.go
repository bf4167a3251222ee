package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/propagator"
	"github.com/PixPMusic/gopher-remap/internal/tagged"
)

// DeviceType represents the type of MIDI device
type DeviceType string

const (
	DeviceTypeClassic  DeviceType = "classic"  // Launchpad S
	DeviceTypeColorful DeviceType = "colorful" // Launchpad Mini Mk3 / X
	DeviceTypeGeneric  DeviceType = "generic"  // Any other controller
)

// DeviceConfig holds configuration for a single MIDI device
type DeviceConfig struct {
	ID      string     `json:"id" yaml:"id"`             // Unique identifier
	Name    string     `json:"name" yaml:"name"`         // User-friendly name
	InPort  string     `json:"in_port" yaml:"in_port"`   // MIDI input port name
	OutPort string     `json:"out_port" yaml:"out_port"` // MIDI output port name, used for LED feedback
	Type    DeviceType `json:"type" yaml:"type"`
}

// NewDeviceConfig creates a new device config with a generated ID
func NewDeviceConfig() DeviceConfig {
	return DeviceConfig{
		ID:   uuid.New().String(),
		Name: "New Device",
		Type: DeviceTypeGeneric,
	}
}

// Match selects the events an input receives
type Match struct {
	Type    event.Type `json:"type" yaml:"type"`
	Channel int        `json:"channel" yaml:"channel"` // 0-15, or -1 for any channel
	Number  int        `json:"number" yaml:"number"`   // Note/CC number (0-127), or -1 for any
}

// Matches reports whether e is addressed to this input
func (m Match) Matches(e event.Event) bool {
	if !m.Type.Matches(e) {
		return false
	}
	if m.Channel >= 0 && int(e.Channel()) != m.Channel {
		return false
	}
	if m.Number >= 0 && int(e.Number()) != m.Number {
		return false
	}
	return true
}

// InputConfig binds one physical control to its translator and, optionally,
// to an LED feedback translator
type InputConfig struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	DeviceID   string         `json:"device_id" yaml:"device_id"`
	Match      Match          `json:"match" yaml:"match"`
	Propagator tagged.Tagged  `json:"propagator" yaml:"propagator"`
	Feedback   *tagged.Tagged `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

// NewInputConfig creates an input for deviceID translated by p
func NewInputConfig(deviceID string, m Match, p *propagator.Propagator) InputConfig {
	return InputConfig{
		ID:         uuid.New().String(),
		Name:       "New Input",
		DeviceID:   deviceID,
		Match:      m,
		Propagator: p.Tagged(),
	}
}

// SetFeedback attaches (or with nil, removes) an LED feedback translator
func (in *InputConfig) SetFeedback(p *propagator.Propagator) {
	if p == nil {
		in.Feedback = nil
		return
	}
	t := p.Tagged()
	in.Feedback = &t
}

// Store writes the current state of the revived translators back
func (in *InputConfig) Store(p, feedback *propagator.Propagator) {
	in.Propagator = p.Tagged()
	in.SetFeedback(feedback)
}

// Config holds application configuration
type Config struct {
	Devices    []DeviceConfig `json:"devices" yaml:"devices"`
	Inputs     []InputConfig  `json:"inputs" yaml:"inputs"`
	VirtualOut string         `json:"virtual_out" yaml:"virtual_out"` // port translated events are sent to
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-remap"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Default returns an empty configuration
func Default() *Config {
	return &Config{
		Devices: []DeviceConfig{},
		Inputs:  []InputConfig{},
	}
}

// Load reads the config from disk, returning defaults if not found
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFile reads a JSON or YAML (by extension) config, returning defaults if
// the file does not exist
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Ensure slices are not nil
	if cfg.Devices == nil {
		cfg.Devices = []DeviceConfig{}
	}
	if cfg.Inputs == nil {
		cfg.Inputs = []InputConfig{}
	}
	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(configPath)
}

// SaveFile writes the config as JSON or YAML depending on the extension
func (c *Config) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AddDevice adds a new device to the config
func (c *Config) AddDevice(device DeviceConfig) {
	c.Devices = append(c.Devices, device)
}

// RemoveDevice removes a device by ID together with its inputs
func (c *Config) RemoveDevice(id string) {
	for i, d := range c.Devices {
		if d.ID == id {
			c.Devices = append(c.Devices[:i], c.Devices[i+1:]...)
			break
		}
	}
	kept := c.Inputs[:0]
	for _, in := range c.Inputs {
		if in.DeviceID != id {
			kept = append(kept, in)
		}
	}
	c.Inputs = kept
}

// UpdateDevice updates an existing device by ID
func (c *Config) UpdateDevice(device DeviceConfig) {
	for i, d := range c.Devices {
		if d.ID == device.ID {
			c.Devices[i] = device
			return
		}
	}
}

// FindDevice returns a device by ID, or nil if not found
func (c *Config) FindDevice(id string) *DeviceConfig {
	for i := range c.Devices {
		if c.Devices[i].ID == id {
			return &c.Devices[i]
		}
	}
	return nil
}

// AddInput adds an input to the config
func (c *Config) AddInput(in InputConfig) {
	c.Inputs = append(c.Inputs, in)
}

// RemoveInput removes an input by ID
func (c *Config) RemoveInput(id string) {
	for i, in := range c.Inputs {
		if in.ID == id {
			c.Inputs = append(c.Inputs[:i], c.Inputs[i+1:]...)
			return
		}
	}
}

// UpdateInput updates an existing input by ID
func (c *Config) UpdateInput(in InputConfig) {
	for i := range c.Inputs {
		if c.Inputs[i].ID == in.ID {
			c.Inputs[i] = in
			return
		}
	}
}

// GetInput returns an input by ID, or nil if not found
func (c *Config) GetInput(id string) *InputConfig {
	for i := range c.Inputs {
		if c.Inputs[i].ID == id {
			return &c.Inputs[i]
		}
	}
	return nil
}

// InputsForDevice returns the inputs bound to a device in config order
func (c *Config) InputsForDevice(deviceID string) []InputConfig {
	var out []InputConfig
	for _, in := range c.Inputs {
		if in.DeviceID == deviceID {
			out = append(out, in)
		}
	}
	return out
}
