package wml

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMethod is returned for a method name with no registered maker.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrUnknownHash is returned for a hash name missing from Hashes.
	ErrUnknownHash = errors.New("unknown hash function")
	// ErrInvalidWidth is returned when log2_width is outside [1, 30].
	ErrInvalidWidth = errors.New("log2 width must be in [1, 30]")
	// ErrInvalidCapacity is returned for a negative top-K capacity.
	ErrInvalidCapacity = errors.New("top-k capacity must not be negative")
	// ErrInvalidSchedule is returned for negative epochs or iterations.
	ErrInvalidSchedule = errors.New("epochs and iters must not be negative")
	// ErrInvalidRate is returned when lr_init or l2_reg would drive the decay scale to zero or below.
	ErrInvalidRate = errors.New("need lr_init > 0, l2_reg >= 0 and lr_init*l2_reg < 1")
)

// ConfigurationError reports a configuration value rejected before training starts.
//
// The underlying sentinel can be matched with errors.Is.
type ConfigurationError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
