package config

import (
	"fmt"

	"github.com/PixPMusic/gopher-remap/internal/propagator"
)

// Revived is an input with its translators rebuilt
type Revived struct {
	Input      InputConfig
	Propagator *propagator.Propagator
	Feedback   *propagator.Propagator // nil when the input has no LED feedback
}

// InputError reports a revival failure for one input
type InputError struct {
	InputID string
	Err     error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.InputID, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Revive rebuilds a single input's translators
func (in InputConfig) Revive() (Revived, error) {
	p, err := propagator.Revive(in.Propagator)
	if err != nil {
		return Revived{}, &InputError{InputID: in.ID, Err: err}
	}
	r := Revived{Input: in, Propagator: p}
	if in.Feedback != nil {
		fb, err := propagator.Revive(*in.Feedback)
		if err != nil {
			return Revived{}, &InputError{InputID: in.ID, Err: fmt.Errorf("feedback: %w", err)}
		}
		r.Feedback = fb
	}
	return r, nil
}

// Revive rebuilds every input. Inputs that fail are reported and skipped;
// the rest are returned in config order.
func (c *Config) Revive() ([]Revived, []error) {
	var (
		out  []Revived
		errs []error
	)
	for _, in := range c.Inputs {
		r, err := in.Revive()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, r)
	}
	return out, errs
}
