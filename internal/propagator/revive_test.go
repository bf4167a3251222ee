package propagator

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/PixPMusic/gopher-remap/internal/event"
	"github.com/PixPMusic/gopher-remap/internal/tagged"
)

// fixtures returns one propagator of every kind with non-default state
func fixtures(t *testing.T) map[Kind]*Propagator {
	t.Helper()
	out := map[Kind]*Propagator{}

	gate, err := NewGate(Toggle, NewOverride(event.TypeNoteOnOff, 2, 48))
	require.NoError(t, err)
	gate.HandleMessage(press)
	out[KindGate] = gate

	toggle, err := NewToggle(Constant, Override{Type: event.TypeControlChange, Channel: 1, Number: 9, Value: 33})
	require.NoError(t, err)
	toggle.HandleMessage(press)
	out[KindToggle] = toggle

	constant, err := NewConstant(Toggle, NewOverride(event.TypeProgramChange, 0, 4))
	require.NoError(t, err)
	out[KindConstant] = constant

	cont, err := NewContinuous(Continuous, NewOverride(event.TypeControlChange, 0, 74), Endless)
	require.NoError(t, err)
	require.NoError(t, cont.SetBaseline(69))
	cont.HandleMessage(event.MustDecode(0xB0, 10, 1))
	out[KindContinuous] = cont

	pb, err := NewPitchBend(Continuous, 5)
	require.NoError(t, err)
	pb.HandleMessage(bend)
	out[KindPitchBend] = pb

	cycle, err := NewStepCycle(Gate, Toggle, stepA, stepB, stepC)
	require.NoError(t, err)
	cycle.HandleMessage(press)
	out[KindStepCycle] = cycle

	lookup, err := NewStepLookup(Continuous, Continuous)
	require.NoError(t, err)
	require.NoError(t, lookup.Bind(event.MustDecode(0xB0, 1, 0), stepA))
	require.NoError(t, lookup.Bind(event.MustDecode(0xB0, 2, 0), stepB))
	lookup.HandleMessage(event.MustDecode(0xB0, 2, 9))
	out[KindStepLookup] = lookup

	fb, err := NewFeedback(Gate, Toggle, 3, &paletteGreen)
	require.NoError(t, err)
	require.NoError(t, fb.SetColor(1, classicRed))
	require.NoError(t, fb.SetEffectValue(1, 2))
	require.NoError(t, fb.SetColor(2, rgbBlue))
	fb.HandleMessage(press)
	out[KindFeedback] = fb

	return out
}

func TestFixturesCoverEveryKind(t *testing.T) {
	fx := fixtures(t)
	for _, kind := range Kinds() {
		assert.Contains(t, fx, kind)
	}
	assert.Len(t, Tags(), len(Kinds()))
}

func TestReviveInMemory(t *testing.T) {
	for kind, p := range fixtures(t) {
		t.Run(string(kind), func(t *testing.T) {
			got, err := Revive(p.Tagged())
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestReviveJSON(t *testing.T) {
	for kind, p := range fixtures(t) {
		t.Run(string(kind), func(t *testing.T) {
			data, err := json.Marshal(p.Tagged())
			require.NoError(t, err)

			var tg tagged.Tagged
			require.NoError(t, json.Unmarshal(data, &tg))
			got, err := Revive(tg)
			require.NoError(t, err)
			assert.Equal(t, p, got)

			// both continue identically
			e1, ok1 := p.HandleMessage(press)
			e2, ok2 := got.HandleMessage(press)
			assert.Equal(t, ok1, ok2)
			assert.Equal(t, e1, e2)
		})
	}
}

func TestReviveYAML(t *testing.T) {
	for kind, p := range fixtures(t) {
		t.Run(string(kind), func(t *testing.T) {
			data, err := yaml.Marshal(p.Tagged())
			require.NoError(t, err)

			var tg tagged.Tagged
			require.NoError(t, yaml.Unmarshal(data, &tg))
			got, err := Revive(tg)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestReviveFailures(t *testing.T) {
	_, err := Revive(tagged.New("arpeggiator"))
	assert.True(t, errors.Is(err, tagged.ErrUnknownVariantTag))

	_, err = Revive(tagged.New(string(KindGate), Continuous, NewOverride(event.TypeNoteOn, 0, 1), valueArgs{}))
	assert.True(t, errors.Is(err, ErrIllegalResponsePairing))

	_, err = Revive(tagged.New(string(KindStepCycle), Gate))
	assert.True(t, errors.Is(err, tagged.ErrBadArgs))

	steps := []event.Event{
		event.MustDecode(0xC0, 1),
		event.MustDecode(0xC0, 2),
		event.MustDecode(0xC0, 3),
	}
	for _, tc := range []struct {
		name    string
		steps   []event.Event
		current int
	}{
		{"negative cursor", steps, -2},
		{"cursor past the end", steps, 3},
		{"cursor into an empty cycle", nil, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Revive(tagged.New(string(KindStepCycle), Gate, Toggle, tc.steps, tc.current))
			assert.True(t, errors.Is(err, ErrStepOutOfRange))
		})
	}

	p, err := Revive(tagged.New(string(KindStepCycle), Gate, Toggle, steps, 2))
	require.NoError(t, err)
	e, ok := p.HandleMessage(press)
	require.True(t, ok)
	assert.Equal(t, steps[0], e)
}
