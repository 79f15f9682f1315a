package dialog

import (
	"github.com/goliatone/go-formdialog/pkg/gating"
	"github.com/goliatone/go-formdialog/pkg/validation"
)

// ValidateStep reports whether step n has no visible, required and empty
// field and passes the step's custom validator. Hidden fields never count.
func (d *Dialog) ValidateStep(n int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.liveErr(); err != nil {
		return false, err
	}
	return d.stepValidLocked(n), nil
}

// ValidateCurrentStep validates the current step.
func (d *Dialog) ValidateCurrentStep() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.liveErr(); err != nil {
		return false, err
	}
	return d.stepValidLocked(d.steps.Current()), nil
}

// ValidateAllFields reports whether no visible required field anywhere in
// the dialog is empty.
func (d *Dialog) ValidateAllFields() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.liveErr(); err != nil {
		return false, err
	}
	return d.tree().Valid(d.index.Roots()), nil
}

// MissingRequired lists the labels of visible required fields in step n
// that are still empty.
func (d *Dialog) MissingRequired(n int) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.liveErr(); err != nil {
		return nil, err
	}
	return d.missingLocked(n), nil
}

func (d *Dialog) tree() validation.Tree {
	return validation.Tree{Source: d.store}
}

func (d *Dialog) stepValidLocked(n int) bool {
	step, ok := d.index.Step(n)
	if !ok {
		return false
	}
	if !d.tree().Valid(step.Fields) {
		return false
	}
	if step.Validator != nil {
		return step.Validator(d.store.Snapshot())
	}
	return true
}

func (d *Dialog) missingLocked(n int) []string {
	step, ok := d.index.Step(n)
	if !ok {
		return nil
	}
	return d.tree().Missing(step.Fields)
}

// validity exposes the locked dialog to the gating package.
type validity struct{ d *Dialog }

func (v validity) Wizard() bool         { return v.d.index.Wizard() }
func (v validity) StepCount() int       { return v.d.index.StepCount() }
func (v validity) CurrentStep() int     { return v.d.steps.Current() }
func (v validity) StepValid(n int) bool { return v.d.stepValidLocked(n) }

var _ gating.Validity = validity{}

// runGating is the debounced task. It reads the store at fire time.
func (d *Dialog) runGating() {
	d.mu.Lock()
	if d.state != StateShown {
		d.mu.Unlock()
		return
	}
	var fx effects
	d.applyGatingLocked(&fx)
	markers := d.markersLocked()
	fx.add(func() { d.adapter.UpdateIndicator(markers) })
	d.mu.Unlock()
	fx.run()
}

func (d *Dialog) applyGatingLocked(fx *effects) {
	decisions := gating.Evaluate(d.def.Buttons, validity{d})
	byKey := make(map[string]bool, len(decisions))
	for _, dec := range decisions {
		byKey[dec.Button] = dec.Disabled
	}
	for _, b := range d.buttons {
		disabled, gated := byKey[b.def.Key()]
		if !gated {
			disabled = false
		}
		b.gated = disabled
		state := d.buttonStateLocked(b)
		fx.add(func() { d.adapter.UpdateButton(state) })
	}
}
