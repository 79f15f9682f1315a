package dialog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/validation"
)

// FieldValue returns the committed value of a leaf field.
func (d *Dialog) FieldValue(id string) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.liveErr(); err != nil {
		return nil, err
	}
	value, ok := d.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return value, nil
}

// SetFieldValue commits value for id and pushes it into the live control
// through the setter the adapter registered. Dependent visibility and
// required flags are re-evaluated immediately; gating is debounced.
func (d *Dialog) SetFieldValue(id string, value any) error {
	d.mu.Lock()
	if err := d.liveErr(); err != nil {
		d.mu.Unlock()
		return err
	}
	changed, err := d.store.Set(id, value)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	var fx effects
	if setter, ok := d.store.Setter(id); ok {
		fx.add(func() { setter(value) })
	}
	onChange := d.commitLocked(id, value, changed, &fx)
	d.mu.Unlock()

	fx.run()
	if onChange != nil {
		onChange(id, value)
	}
	return nil
}

// Values returns a snapshot of every committed value. It is empty once the
// dialog is closed.
func (d *Dialog) Values() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Snapshot()
}

// handleChange receives user-committed edits from the adapter.
func (d *Dialog) handleChange(id string, value any) {
	d.mu.Lock()
	if d.state != StateRendering && d.state != StateShown {
		d.mu.Unlock()
		return
	}
	changed, err := d.store.Set(id, value)
	if err != nil {
		d.mu.Unlock()
		d.logger.Warn("change for unknown field ignored", zap.String("field", id), zap.Error(err))
		return
	}
	d.store.Touch(id)
	var fx effects
	onChange := d.commitLocked(id, value, changed, &fx)
	d.mu.Unlock()

	fx.run()
	if onChange != nil {
		onChange(id, value)
	}
}

// commitLocked runs after the store accepted a value: it refreshes the
// field's error, propagates to dependents and schedules gating. It returns
// the field's change callback when the value actually changed.
func (d *Dialog) commitLocked(id string, value any, changed bool, fx *effects) model.ChangeFunc {
	field, _ := d.index.Field(id)
	d.refreshErrorLocked(field, fx)
	if !changed {
		return nil
	}
	for _, dep := range d.index.Dependents(id) {
		d.updateFlagsLocked(dep, fx)
		d.refreshErrorLocked(dep, fx)
	}
	d.gate.Trigger()
	return field.OnChange
}

// refreshErrorLocked records the field's current validation result and
// exposes it to the adapter only once the field was touched.
func (d *Dialog) refreshErrorLocked(field model.Field, fx *effects) {
	if field.Kind.IsContainer() || !d.store.Has(field.ID) {
		return
	}
	value, _ := d.store.Get(field.ID)
	res := validation.Check(field, value, d.required[field.ID])
	d.store.SetError(field.ID, res.Reason)
	if !d.store.Touched(field.ID) {
		return
	}
	id, msg := field.ID, ""
	if !res.Valid {
		msg = res.Message
	}
	fx.add(func() { d.adapter.SetError(id, msg) })
}

// VisibleError returns the validation reason for id once the user has
// interacted with the field, and "" otherwise.
func (d *Dialog) VisibleError(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.store.Touched(id) {
		return ""
	}
	return d.store.Error(id)
}

// IsVisible reports whether a field and every container around it are
// visible.
func (d *Dialog) IsVisible(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for {
		if !d.visible[id] {
			return false
		}
		parent, ok := d.index.Parent(id)
		if !ok {
			return true
		}
		id = parent
	}
}

// IsRequired reports the live required flag of a field.
func (d *Dialog) IsRequired(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.required[id]
}

// Options returns the resolved option list of a field.
func (d *Dialog) Options(id string) []model.Option {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Option(nil), d.options[id]...)
}
