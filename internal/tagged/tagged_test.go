package tagged

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type point struct {
	X int    `json:"x" yaml:"x"`
	Y int    `json:"y" yaml:"y"`
	L string `json:"label" yaml:"label"`
}

func revivePoint(t Tagged) (point, error) {
	var p point
	var scale int
	if err := t.Decode(&p, &scale); err != nil {
		return point{}, err
	}
	p.X *= scale
	p.Y *= scale
	return p, nil
}

func TestArgsSurviveEncodings(t *testing.T) {
	in := New("point", point{X: 1, Y: 2, L: "a"}, 3)

	jsonData, err := json.Marshal(in)
	require.NoError(t, err)
	var fromJSON Tagged
	require.NoError(t, json.Unmarshal(jsonData, &fromJSON))

	yamlData, err := yaml.Marshal(in)
	require.NoError(t, err)
	var fromYAML Tagged
	require.NoError(t, yaml.Unmarshal(yamlData, &fromYAML))

	for name, tv := range map[string]Tagged{"memory": in, "json": fromJSON, "yaml": fromYAML} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "point", tv.Type)
			p, err := revivePoint(tv)
			require.NoError(t, err)
			assert.Equal(t, point{X: 3, Y: 6, L: "a"}, p)
		})
	}
}

func TestDecodeArgumentCount(t *testing.T) {
	var a, b int
	err := New("pair", 1).Decode(&a, &b)
	assert.True(t, errors.Is(err, ErrBadArgs))
	err = New("pair", 1, 2, 3).Decode(&a, &b)
	assert.True(t, errors.Is(err, ErrBadArgs))
	require.NoError(t, New("pair", 1, 2).Decode(&a, &b))
	assert.Equal(t, []int{1, 2}, []int{a, b})

	assert.True(t, errors.Is(New("x").Arg(0, &a), ErrBadArgs))
	var s string
	assert.True(t, errors.Is(New("x", 5).Arg(0, &s), ErrBadArgs))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[point]()
	r.Register("point", revivePoint)
	r.Register("origin", func(Tagged) (point, error) { return point{}, nil })
	assert.Equal(t, []string{"origin", "point"}, r.Tags())

	p, err := r.Revive(New("point", point{X: 1}, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, p.X)

	_, err = r.Revive(New("polygon"))
	assert.True(t, errors.Is(err, ErrUnknownVariantTag))
	assert.Contains(t, err.Error(), `"polygon"`)
}

// word keeps its bytes private and persists as hex text
type word struct{ b []byte }

func (w word) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(w.b)), nil
}

func (w *word) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	w.b = b
	return nil
}

func TestArgUsesTextMarshallers(t *testing.T) {
	var fromFile word
	require.NoError(t, New("w", "903c7f").Arg(0, &fromFile))
	assert.Equal(t, []byte{0x90, 0x3C, 0x7F}, fromFile.b)

	var fromMemory word
	require.NoError(t, New("w", word{b: []byte{0xC0, 0x01}}).Arg(0, &fromMemory))
	assert.Equal(t, []byte{0xC0, 0x01}, fromMemory.b)

	var list []word
	require.NoError(t, New("w", []word{{b: []byte{0x01}}, {b: []byte{0x02}}}).Arg(0, &list))
	require.Len(t, list, 2)
	assert.Equal(t, []byte{0x02}, list[1].b)

	assert.True(t, errors.Is(New("w", "zz").Arg(0, &fromFile), ErrBadArgs))
}
