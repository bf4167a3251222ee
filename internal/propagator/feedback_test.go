package propagator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-remap/internal/event"
)

var (
	// Launchpad S style: effect lives in the velocity flag bits
	classicRed = Color{
		Name:   "red",
		Base:   event.MustDecode(0x90, 0x24, 0x0F),
		Effect: &Effect{Byte: 2, Mask: 0x0C, Shift: 2, Default: 3, Max: 3},
	}
	// palette style: effect lives in the channel nibble
	paletteGreen = Color{
		Name:   "green",
		Base:   event.MustDecode(0x90, 0x51, 21),
		Effect: &Effect{Byte: 0, Mask: 0x0F, Default: 0, Max: 2},
	}
	rgbBlue = Color{
		Name: "blue",
		Base: event.MustDecode(0xF0, 0x00, 0x20, 0x29, 0x02, 0x0D, 0x03, 0x03, 0x51, 0x00, 0x00, 0x7F, 0xF7),
	}
)

func TestColorRender(t *testing.T) {
	e, err := classicRed.Render(2)
	require.NoError(t, err)
	assert.Equal(t, event.MustDecode(0x90, 0x24, 0x0B), e)

	e, err = paletteGreen.Render(1)
	require.NoError(t, err)
	assert.Equal(t, event.MustDecode(0x91, 0x51, 21), e)

	e, err = rgbBlue.Render(3)
	require.NoError(t, err)
	assert.Equal(t, rgbBlue.Base, e)
}

func TestFeedbackResolution(t *testing.T) {
	p, err := NewFeedback(Gate, Toggle, 2, nil)
	require.NoError(t, err)

	_, ok := p.ResponseForState(0)
	assert.False(t, ok, "no colour anywhere")

	require.NoError(t, p.SetDefaultColor(&paletteGreen))
	e, ok := p.ResponseForState(0)
	require.True(t, ok)
	assert.Equal(t, paletteGreen.Base, e)

	require.NoError(t, p.SetColor(1, classicRed))
	c, ok := p.ColorFor(1)
	require.True(t, ok)
	assert.Equal(t, "red", c.Name)
	v, ok := p.EffectFor(1)
	require.True(t, ok)
	assert.Equal(t, uint8(3), v, "falls back to the colour default")

	require.NoError(t, p.SetEffectValue(1, 2))
	e, _ = p.ResponseForState(1)
	assert.Equal(t, event.MustDecode(0x90, 0x24, 0x0B), e)

	// a new colour drops the effect override
	require.NoError(t, p.SetColor(1, classicRed))
	v, _ = p.EffectFor(1)
	assert.Equal(t, uint8(3), v)

	require.NoError(t, p.SetColor(0, rgbBlue))
	_, ok = p.EffectFor(0)
	assert.False(t, ok)
	assert.True(t, errors.Is(p.SetEffectValue(0, 1), ErrNotEffectCapable))
	assert.True(t, errors.Is(p.SetEffectValue(1, 9), ErrNotEffectCapable))
	assert.True(t, errors.Is(p.SetColor(2, rgbBlue), ErrStateOutOfRange))

	p.RestoreDefaults()
	c, _ = p.ColorFor(0)
	assert.Equal(t, "green", c.Name)
	c, _ = p.ColorFor(1)
	assert.Equal(t, "green", c.Name)
}

func TestFeedbackRoundRobin(t *testing.T) {
	p, err := NewFeedback(Gate, Toggle, 2, nil)
	require.NoError(t, err)
	require.NoError(t, p.SetColor(0, rgbBlue))
	require.NoError(t, p.SetColor(1, paletteGreen))

	e, ok := p.HandleMessage(press)
	require.True(t, ok)
	assert.Equal(t, paletteGreen.Base, e)
	_, ok = p.HandleMessage(release)
	assert.False(t, ok)
	e, _ = p.HandleMessage(press)
	assert.Equal(t, rgbBlue.Base, e)
	e, _ = p.HandleMessage(press)
	assert.Equal(t, paletteGreen.Base, e)
}

func TestFeedbackGateMirrorsEdges(t *testing.T) {
	p, err := NewFeedback(Gate, Gate, 2, nil)
	require.NoError(t, err)
	require.NoError(t, p.SetColor(0, rgbBlue))
	require.NoError(t, p.SetColor(1, classicRed))

	e, _ := p.HandleMessage(press)
	assert.Equal(t, classicRed.Base, e)
	e, _ = p.HandleMessage(press)
	assert.Equal(t, classicRed.Base, e)
	e, _ = p.HandleMessage(release)
	assert.Equal(t, rgbBlue.Base, e)
	assert.Equal(t, 0, p.CurrentStep())
}

func TestFeedbackValidation(t *testing.T) {
	_, err := NewFeedback(Gate, Gate, 0, nil)
	assert.True(t, errors.Is(err, ErrStateOutOfRange))

	bad := Color{Name: "bad", Base: event.MustDecode(0xC0, 0x01), Effect: &Effect{Byte: 4, Mask: 0x0F}}
	_, err = NewFeedback(Gate, Gate, 1, &bad)
	assert.True(t, errors.Is(err, event.ErrMalformedEvent))

	// writing into the status high nibble would corrupt the message
	corrupt := Color{Name: "corrupt", Base: event.MustDecode(0x90, 0x01, 0x01), Effect: &Effect{Byte: 0, Mask: 0xF0, Shift: 4, Default: 1, Max: 1}}
	_, err = NewFeedback(Gate, Gate, 1, &corrupt)
	assert.True(t, errors.Is(err, event.ErrMalformedEvent))
}

func TestFeedbackEffectRange(t *testing.T) {
	// values above 7 would set the high bit of the velocity
	wide := Color{Name: "wide", Base: event.MustDecode(0x90, 0x01, 0x05), Effect: &Effect{Byte: 2, Mask: 0xF0, Shift: 4, Max: 15}}
	_, err := NewFeedback(Toggle, Toggle, 2, &wide)
	assert.True(t, errors.Is(err, event.ErrMalformedEvent))

	p, err := NewFeedback(Toggle, Toggle, 2, nil)
	require.NoError(t, err)
	assert.True(t, errors.Is(p.SetColor(1, wide), event.ErrMalformedEvent))

	inverted := classicRed
	inverted.Effect = &Effect{Byte: 2, Mask: 0x0C, Shift: 2, Default: 3, Max: 2}
	assert.True(t, errors.Is(p.SetColor(1, inverted), ErrNotEffectCapable))

	// a colour that slipped past validation still cannot take a bad value
	p.feedback.colors[1] = wide
	assert.True(t, errors.Is(p.SetEffectValue(1, 15), event.ErrMalformedEvent))
	_, ok := p.feedback.effects[1]
	assert.False(t, ok)

	require.NoError(t, p.SetEffectValue(1, 7))
	e, ok := p.ResponseForState(1)
	require.True(t, ok)
	assert.Equal(t, event.MustDecode(0x90, 0x01, 0x75), e)
}
