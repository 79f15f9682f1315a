package dialog

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formdialog/pkg/steps"
)

// CurrentStep returns the 1-based current step.
func (d *Dialog) CurrentStep() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.steps.Current()
}

// StepCount returns the number of steps; flat dialogs have one.
func (d *Dialog) StepCount() int {
	return d.index.StepCount()
}

// Wizard reports whether the dialog was declared with steps.
func (d *Dialog) Wizard() bool {
	return d.index.Wizard()
}

// StepLabel returns the label of 1-based step n.
func (d *Dialog) StepLabel(n int) string {
	step, ok := d.index.Step(n)
	if !ok {
		return ""
	}
	if step.Label != "" {
		return step.Label
	}
	return "Step " + strconv.Itoa(n)
}

// StepFieldIDs returns the leaf field ids of step n in tree order.
func (d *Dialog) StepFieldIDs(n int) []string {
	return d.index.LeafIDs(n)
}

// Next advances one step, clamped at the last.
func (d *Dialog) Next() error {
	return d.navigate(func() (bool, error) { return d.steps.Next(), nil })
}

// Previous moves back one step, clamped at the first.
func (d *Dialog) Previous() error {
	return d.navigate(func() (bool, error) { return d.steps.Previous(), nil })
}

// GoToStep jumps to a step by id, label or 1-based index. It requires
// AllowStepNavigation.
func (d *Dialog) GoToStep(ref string) error {
	n, ok := d.index.StepIndex(ref)
	if !ok {
		parsed, err := strconv.Atoi(ref)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownStep, ref)
		}
		n = parsed
	}
	return d.navigate(func() (bool, error) { return d.steps.GoTo(n) })
}

// UpdateProgress sets the current step (clamped), rebuilds the indicator and
// applies the step's size override.
func (d *Dialog) UpdateProgress(n int) error {
	return d.navigate(func() (bool, error) {
		d.steps.Set(n)
		return true, nil
	})
}

func (d *Dialog) navigate(move func() (bool, error)) error {
	d.mu.Lock()
	if err := d.shownErr(); err != nil {
		d.mu.Unlock()
		return err
	}
	changed, err := move()
	if err != nil {
		d.mu.Unlock()
		return err
	}
	var fx effects
	if changed {
		d.transitionLocked(&fx)
		d.gate.Trigger()
	}
	d.mu.Unlock()
	fx.run()
	return nil
}

// transitionLocked shows the current panel and rebuilds the indicator.
func (d *Dialog) transitionLocked(fx *effects) {
	n := d.steps.Current()
	step, _ := d.index.Step(n)
	size := steps.Size(step.Size, d.def.Size)
	markers := d.markersLocked()
	fx.add(func() {
		d.adapter.ShowStep(n, size)
		d.adapter.UpdateIndicator(markers)
	})
}

func (d *Dialog) markersLocked() []steps.Marker {
	statuses := make([]steps.Status, d.index.StepCount())
	for i := range statuses {
		n := i + 1
		statuses[i] = steps.Status{
			Label:   d.StepLabel(n),
			Valid:   d.stepValidLocked(n),
			Missing: d.missingLocked(n),
		}
	}
	return steps.Markers(d.steps.Current(), statuses)
}

// Markers returns a freshly built step indicator.
func (d *Dialog) Markers() []steps.Marker {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.markersLocked()
}

// Size returns the size applied to the current step.
func (d *Dialog) Size() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	step, _ := d.index.Step(d.steps.Current())
	return steps.Size(step.Size, d.def.Size)
}
