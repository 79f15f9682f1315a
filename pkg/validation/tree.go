package validation

import (
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/rules"
)

// Tree walks field trees against live values. Hidden fields, and every
// descendant of a hidden container, are skipped; containers are never
// validated themselves.
type Tree struct {
	Source rules.Source
}

// Visible evaluates the field's visibleWhen condition.
func (t Tree) Visible(field model.Field) bool {
	return rules.Evaluate(field.VisibleWhen, t.Source)
}

// Required combines the static flag with requiredWhen.
func (t Tree) Required(field model.Field) bool {
	if field.Required {
		return true
	}
	return field.RequiredWhen != nil && rules.Evaluate(field.RequiredWhen, t.Source)
}

func (t Tree) value(id string) any {
	if t.Source == nil {
		return nil
	}
	v, _ := t.Source.Get(id)
	return v
}

// Valid reports whether no visible required field in the tree is empty. It
// stops at the first offender.
func (t Tree) Valid(fields []model.Field) bool {
	valid := true
	t.walk(fields, func(field model.Field) bool {
		if t.Required(field) && IsEmpty(t.value(field.ID)) {
			valid = false
			return false
		}
		return true
	})
	return valid
}

// Missing collects the display labels of visible required fields that are
// empty, in tree order.
func (t Tree) Missing(fields []model.Field) []string {
	var out []string
	t.walk(fields, func(field model.Field) bool {
		if t.Required(field) && IsEmpty(t.value(field.ID)) {
			out = append(out, field.DisplayLabel())
		}
		return true
	})
	return out
}

// Errors runs Check on every visible leaf and returns the failures keyed by
// field id.
func (t Tree) Errors(fields []model.Field) map[string]Result {
	out := make(map[string]Result)
	t.walk(fields, func(field model.Field) bool {
		if res := Check(field, t.value(field.ID), t.Required(field)); !res.Valid {
			out[field.ID] = res
		}
		return true
	})
	return out
}

// walk visits visible leaves in pre-order until visit returns false.
func (t Tree) walk(fields []model.Field, visit func(model.Field) bool) bool {
	for _, field := range fields {
		if !t.Visible(field) {
			continue
		}
		if field.Kind.IsContainer() {
			if !t.walk(field.Children, visit) {
				return false
			}
			continue
		}
		if !visit(field) {
			return false
		}
	}
	return true
}
