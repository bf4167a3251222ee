// Package tagged holds the {type, args} form used to persist values whose
// concrete variant is only known once the data is read back.
package tagged

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownVariantTag is returned when no reviver is registered for a tag
	ErrUnknownVariantTag = errors.New("unknown variant tag")
	// ErrBadArgs is returned when the arguments of a tagged value do not fit its reviver
	ErrBadArgs = errors.New("bad variant arguments")
)

// Tagged is a variant tag plus its positional constructor arguments. Args
// hold plain values after JSON or YAML decoding and typed values when built
// in memory; Arg handles both.
type Tagged struct {
	Type string `json:"type" yaml:"type"`
	Args []any  `json:"args" yaml:"args"`
}

// New creates a tagged value
func New(tag string, args ...any) Tagged {
	return Tagged{Type: tag, Args: args}
}

// Arg decodes argument i into dst
func (t Tagged) Arg(i int, dst any) error {
	if i < 0 || i >= len(t.Args) {
		return errors.Wrapf(ErrBadArgs, "%s: missing argument %d", t.Type, i)
	}
	data, err := json.Marshal(t.Args[i])
	if err != nil {
		return errors.Wrapf(ErrBadArgs, "%s: argument %d: %v", t.Type, i, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.Wrapf(ErrBadArgs, "%s: argument %d: %v", t.Type, i, err)
	}
	return nil
}

// Decode decodes the arguments into dsts in order. Extra arguments are an error.
func (t Tagged) Decode(dsts ...any) error {
	if len(t.Args) != len(dsts) {
		return errors.Wrapf(ErrBadArgs, "%s: want %d arguments, got %d", t.Type, len(dsts), len(t.Args))
	}
	for i, dst := range dsts {
		if err := t.Arg(i, dst); err != nil {
			return err
		}
	}
	return nil
}

// ReviveFunc reconstructs a value from its tagged form
type ReviveFunc[T any] func(Tagged) (T, error)

// Registry maps tags to revive functions
type Registry[T any] struct {
	revivers map[string]ReviveFunc[T]
}

// NewRegistry creates an empty registry
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{revivers: map[string]ReviveFunc[T]{}}
}

// Register binds tag to fn, replacing any previous binding
func (r *Registry[T]) Register(tag string, fn ReviveFunc[T]) {
	r.revivers[tag] = fn
}

// Revive reconstructs the value t describes
func (r *Registry[T]) Revive(t Tagged) (T, error) {
	fn, ok := r.revivers[t.Type]
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrUnknownVariantTag, "%q", t.Type)
	}
	return fn(t)
}

// Tags returns the registered tags in sorted order
func (r *Registry[T]) Tags() []string {
	tags := make([]string, 0, len(r.revivers))
	for tag := range r.revivers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
