package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/propagator"
	"github.com/PixPMusic/gopher-remap/internal/tagged"
)

func sampleConfig(t *testing.T) *Config {
	t.Helper()
	cfg := Default()
	dev := NewDeviceConfig()
	dev.Name = "Pads"
	dev.InPort = "Launchpad In"
	dev.OutPort = "Launchpad Out"
	dev.Type = DeviceTypeColorful
	cfg.AddDevice(dev)

	gate, err := propagator.NewGate(propagator.Toggle, propagator.NewOverride(event.TypeControlChange, 0, 20))
	require.NoError(t, err)
	gate.HandleMessage(event.MustDecode(0x90, 0x51, 0x7F))

	fb, err := propagator.NewFeedback(propagator.Gate, propagator.Toggle, 2, &propagator.Color{
		Name: "green",
		Base: event.MustDecode(0x90, 0x51, 21),
	})
	require.NoError(t, err)

	in := NewInputConfig(dev.ID, Match{Type: event.TypeNoteOnOff, Channel: -1, Number: 0x51}, gate)
	in.SetFeedback(fb)
	cfg.AddInput(in)

	cycle, err := propagator.NewStepCycle(propagator.Gate, propagator.Toggle,
		event.MustDecode(0xC0, 1), event.MustDecode(0xC0, 2))
	require.NoError(t, err)
	cfg.AddInput(NewInputConfig(dev.ID, Match{Type: event.TypeNoteOn, Channel: 0, Number: 0x52}, cycle))
	return cfg
}

func TestSaveLoadFormats(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := sampleConfig(t)
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, cfg.SaveFile(path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			require.Len(t, loaded.Devices, 1)
			require.Len(t, loaded.Inputs, 2)
			assert.Equal(t, cfg.Devices, loaded.Devices)

			want, errs := cfg.Revive()
			require.Empty(t, errs)
			got, errs := loaded.Revive()
			require.Empty(t, errs)
			require.Len(t, got, 2)
			for i := range want {
				assert.Equal(t, want[i].Propagator, got[i].Propagator)
				assert.Equal(t, want[i].Feedback, got[i].Feedback)
			}
			assert.True(t, got[0].Propagator.On(), "toggle flag survives the round trip")
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.NotNil(t, cfg.Devices)
	assert.NotNil(t, cfg.Inputs)
}

func TestReviveIsolatesFailures(t *testing.T) {
	cfg := sampleConfig(t)
	bad := InputConfig{ID: "broken", Propagator: tagged.New("theremin")}
	cfg.Inputs = append([]InputConfig{cfg.Inputs[0], bad}, cfg.Inputs[1:]...)

	revived, errs := cfg.Revive()
	require.Len(t, errs, 1)
	assert.Len(t, revived, 2)

	var inErr *InputError
	require.True(t, errors.As(errs[0], &inErr))
	assert.Equal(t, "broken", inErr.InputID)
	assert.True(t, errors.Is(errs[0], tagged.ErrUnknownVariantTag))
}

func TestMatch(t *testing.T) {
	m := Match{Type: event.TypeNoteOnOff, Channel: -1, Number: 60}
	assert.True(t, m.Matches(event.MustDecode(0x93, 60, 1)))
	assert.True(t, m.Matches(event.MustDecode(0x80, 60, 0)))
	assert.False(t, m.Matches(event.MustDecode(0x90, 61, 1)))
	assert.False(t, m.Matches(event.MustDecode(0xB0, 60, 1)))

	m = Match{Type: event.TypeControlChange, Channel: 2, Number: -1}
	assert.True(t, m.Matches(event.MustDecode(0xB2, 7, 1)))
	assert.False(t, m.Matches(event.MustDecode(0xB1, 7, 1)))
}

func TestDeviceAndInputEditing(t *testing.T) {
	cfg := sampleConfig(t)
	dev := cfg.Devices[0]

	dev.Name = "Renamed"
	cfg.UpdateDevice(dev)
	assert.Equal(t, "Renamed", cfg.FindDevice(dev.ID).Name)
	assert.Len(t, cfg.InputsForDevice(dev.ID), 2)

	in := cfg.Inputs[1]
	in.Name = "Scene"
	cfg.UpdateInput(in)
	assert.Equal(t, "Scene", cfg.GetInput(in.ID).Name)
	cfg.RemoveInput(in.ID)
	assert.Nil(t, cfg.GetInput(in.ID))

	cfg.RemoveDevice(dev.ID)
	assert.Empty(t, cfg.Devices)
	assert.Empty(t, cfg.Inputs, "inputs go with their device")
}
