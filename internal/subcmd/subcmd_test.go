package subcmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-remap/internal/config"
	"github.com/PixPMusic/gopher-remap/internal/log"
	"github.com/PixPMusic/gopher-remap/internal/midi"
	"github.com/PixPMusic/gopher-remap/internal/remap"
	"github.com/PixPMusic/gopher-remap/internal/tagged"
)

func quietLog(t *testing.T) {
	prev := log.Output
	log.Output = io.Discard
	t.Cleanup(func() { log.Output = prev })
}

func TestPadColor(t *testing.T) {
	c, err := padColor(nil)
	require.NoError(t, err)
	assert.Equal(t, midi.PadColor{G: 127}, c)

	c, err = padColor([]int{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, midi.PadColor{R: 10, G: 20, B: 30}, c)

	_, err = padColor([]int{1, 2})
	assert.Error(t, err)
	_, err = padColor([]int{1, 2, 128})
	assert.Error(t, err)
}

func TestAddDevice(t *testing.T) {
	cfg := config.Default()
	dev, n, err := addDevice(cfg, config.DeviceTypeClassic, "LP In", "LP Out", midi.PadColor{R: 127})
	require.NoError(t, err)
	assert.Equal(t, 80, n)
	assert.Equal(t, "LP In", dev.Name)
	assert.Len(t, cfg.InputsForDevice(dev.ID), 80)

	_, _, err = addDevice(cfg, "theremin", "x", "", midi.PadColor{})
	assert.Error(t, err)
	assert.Len(t, cfg.Devices, 1)
}

func TestFindDevice(t *testing.T) {
	cfg := config.Default()
	dev, _, err := addDevice(cfg, config.DeviceTypeGeneric, "Knobs", "", midi.PadColor{})
	require.NoError(t, err)

	got, err := findDevice(cfg, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, dev, *got)
	got, err = findDevice(cfg, "Knobs")
	require.NoError(t, err)
	assert.Equal(t, dev.ID, got.ID)
	_, err = findDevice(cfg, "missing")
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	quietLog(t)
	cfg := config.Default()
	dev, _, err := addDevice(cfg, config.DeviceTypeColorful, "LP", "LP", midi.PadColor{G: 127})
	require.NoError(t, err)
	revived, errs := cfg.Revive()
	require.Empty(t, errs)
	router := remap.New(revived)

	in := strings.Join([]string{
		"# bottom-left pad",
		"90 0B 7F",
		"80 0B 00",
		"",
		"zz",
		"900b7f",
	}, "\n")
	var out bytes.Buffer
	require.NoError(t, translate(router, dev.ID, strings.NewReader(in), &out))
	assert.Equal(t, "out B0 48 7F\nled 90 0B 15\nout B0 48 00\nled 90 0B 00\n", out.String())

	router.Store(cfg)
	rv, err := cfg.Inputs[72].Revive()
	require.NoError(t, err)
	assert.False(t, rv.Propagator.On())
}

func TestCheck(t *testing.T) {
	cfg := config.Default()
	_, _, err := addDevice(cfg, config.DeviceTypeColorful, "LP", "LP", midi.PadColor{G: 127})
	require.NoError(t, err)
	cfg.Inputs = cfg.Inputs[:1]
	cfg.AddInput(config.InputConfig{ID: "broken", Name: "Bad", Propagator: tagged.New("theremin")})

	var out bytes.Buffer
	assert.Equal(t, 1, check(cfg, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ok   "))
	assert.Contains(t, lines[0], "LP/Pad 0,0: gate gate->toggle +feedback(2)")
	assert.True(t, strings.HasPrefix(lines[1], "FAIL broken ?/Bad: "))
}

func TestStopperRunsOnce(t *testing.T) {
	var calls []string
	stop := stopper(
		func() { calls = append(calls, "bridge") },
		func() { calls = append(calls, "driver") },
		func() error { calls = append(calls, "save"); return nil },
	)
	stop(true)
	stop(true)
	stop(false)
	assert.Equal(t, []string{"bridge", "driver", "save"}, calls)

	calls = nil
	stop = stopper(
		func() { calls = append(calls, "bridge") },
		func() { calls = append(calls, "driver") },
		func() error { calls = append(calls, "save"); return nil },
	)
	stop(false)
	stop(true)
	assert.Equal(t, []string{"bridge", "driver"}, calls, "a failed start does not save")
}
