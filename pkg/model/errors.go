package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is matched by every ConfigError.
var ErrInvalidConfig = errors.New("model: invalid dialog configuration")

// ConfigError reports a malformed field, step or button definition. It is the
// only error the engine raises synchronously at construction time.
type ConfigError struct {
	// Path locates the offending definition, e.g. "steps[1].fields[0]" or
	// "buttons[2]".
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("model: invalid configuration")
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
