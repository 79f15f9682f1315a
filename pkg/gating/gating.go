// Package gating derives the enabled state of validation-gated buttons and
// debounces re-evaluation behind a single cancellable task.
package gating

import "github.com/goliatone/go-formdialog/pkg/model"

// Validity is the read-only view of a dialog that gating needs.
type Validity interface {
	Wizard() bool
	StepCount() int
	CurrentStep() int
	// StepValid reports whether 1-based step n has no visible, required and
	// empty field and passes its custom validator.
	StepValid(n int) bool
}

// Decision is the computed state of one gated button.
type Decision struct {
	Button   string
	Disabled bool
	// Blockers lists the 1-based steps that caused the button to be disabled.
	Blockers []int
}

// Gated reports whether the button is subject to automatic gating.
func Gated(b model.Button) bool {
	return b.RequiresValidation
}

// Decide computes the disabled state of one gated button.
func Decide(b model.Button, v Validity) Decision {
	d := Decision{Button: b.Key()}
	switch {
	case !v.Wizard():
		if !v.StepValid(1) {
			d.Blockers = []int{1}
		}
	case b.AllSteps():
		for n := 1; n <= v.StepCount(); n++ {
			if !v.StepValid(n) {
				d.Blockers = append(d.Blockers, n)
			}
		}
	default:
		if current := v.CurrentStep(); !v.StepValid(current) {
			d.Blockers = []int{current}
		}
	}
	d.Disabled = len(d.Blockers) > 0
	return d
}

// Evaluate decides every gated button in declaration order. Buttons without
// RequiresValidation are skipped.
func Evaluate(buttons []model.Button, v Validity) []Decision {
	var out []Decision
	for _, b := range buttons {
		if !Gated(b) {
			continue
		}
		out = append(out, Decide(b, v))
	}
	return out
}
