// Package steps tracks the current wizard step and builds step indicator
// markers. Flat dialogs are driven as a single-step wizard.
package steps

import (
	"errors"
	"fmt"
)

var (
	// ErrNavigationDisabled is returned by GoTo when direct jumps are not
	// allowed for the dialog.
	ErrNavigationDisabled = errors.New("steps: direct step navigation disabled")
	// ErrStepOutOfRange is returned when a jump targets a step that does not
	// exist.
	ErrStepOutOfRange = errors.New("steps: step out of range")
)

// Controller holds the 1-based current step.
type Controller struct {
	current   int
	total     int
	allowJump bool
}

// New creates a controller positioned on step 1. total is clamped to at
// least 1.
func New(total int, allowJump bool) *Controller {
	if total < 1 {
		total = 1
	}
	return &Controller{current: 1, total: total, allowJump: allowJump}
}

// Current returns the 1-based current step.
func (c *Controller) Current() int { return c.current }

// Total returns the number of steps.
func (c *Controller) Total() int { return c.total }

// IsFirst reports whether the current step is the first.
func (c *Controller) IsFirst() bool { return c.current == 1 }

// IsLast reports whether the current step is the last.
func (c *Controller) IsLast() bool { return c.current == c.total }

// Next advances one step. It reports whether the step changed.
func (c *Controller) Next() bool {
	return c.Set(c.current + 1)
}

// Previous moves back one step. It reports whether the step changed.
func (c *Controller) Previous() bool {
	return c.Set(c.current - 1)
}

// GoTo jumps directly to step n when navigation is allowed.
func (c *Controller) GoTo(n int) (bool, error) {
	if !c.allowJump {
		return false, ErrNavigationDisabled
	}
	if n < 1 || n > c.total {
		return false, fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, n, c.total)
	}
	return c.Set(n), nil
}

// Set moves to n clamped to [1, Total]. It reports whether the step changed.
func (c *Controller) Set(n int) bool {
	n = Clamp(n, c.total)
	if n == c.current {
		return false
	}
	c.current = n
	return true
}

// Clamp limits n to [1, total].
func Clamp(n, total int) int {
	if total < 1 {
		total = 1
	}
	switch {
	case n < 1:
		return 1
	case n > total:
		return total
	default:
		return n
	}
}

// Size returns the step's size override, falling back to the dialog size.
func Size(stepSize, dialogSize string) string {
	if stepSize != "" {
		return stepSize
	}
	return dialogSize
}
