package model

import (
	"strings"

	pkgmodel "github.com/goliatone/go-formdialog/pkg/model"
)

// Step is a normalised wizard page. Flat dialogs are indexed as a single step.
type Step struct {
	ID        string
	Label     string
	Size      string
	Fields    []pkgmodel.Field
	Validator pkgmodel.StepValidator
}

// Index is the validated, normalised field tree of one dialog plus a flat
// pre-order view used for dependency scans and lookups by id.
type Index struct {
	wizard bool
	steps  []Step
	flat   []pkgmodel.Field
	pos    map[string]int
	stepOf map[string]int
	parent map[string]string
}

// Build normalises the definition (trimmed ids, default kinds and labels),
// validates it and indexes every field in the tree. The returned error is a
// *pkgmodel.ConfigError.
func Build(def pkgmodel.Dialog) (*Index, error) {
	def = normaliseDialog(def)
	if err := validateDialog(def); err != nil {
		return nil, err
	}

	idx := &Index{
		wizard: def.Wizard(),
		pos:    make(map[string]int),
		stepOf: make(map[string]int),
		parent: make(map[string]string),
	}
	if idx.wizard {
		for _, step := range def.Steps {
			idx.steps = append(idx.steps, Step{
				ID:        step.ID,
				Label:     step.Label,
				Size:      step.Size,
				Fields:    step.Fields,
				Validator: step.Validator,
			})
		}
	} else {
		idx.steps = []Step{{Label: def.Title, Size: def.Size, Fields: def.Fields}}
	}

	for i, step := range idx.steps {
		idx.collect(step.Fields, i+1, "")
	}
	return idx, nil
}

func (ix *Index) collect(fields []pkgmodel.Field, step int, parent string) {
	for _, field := range fields {
		ix.pos[field.ID] = len(ix.flat)
		ix.stepOf[field.ID] = step
		if parent != "" {
			ix.parent[field.ID] = parent
		}
		ix.flat = append(ix.flat, field)
		ix.collect(field.Children, step, field.ID)
	}
}

// Parent returns the id of the container holding id, if any.
func (ix *Index) Parent(id string) (string, bool) {
	p, ok := ix.parent[id]
	return p, ok
}

// Wizard reports whether the dialog was declared with steps.
func (ix *Index) Wizard() bool { return ix.wizard }

// StepCount is at least 1.
func (ix *Index) StepCount() int { return len(ix.steps) }

// Step returns the 1-based step n.
func (ix *Index) Step(n int) (Step, bool) {
	if n < 1 || n > len(ix.steps) {
		return Step{}, false
	}
	return ix.steps[n-1], true
}

// Flat returns every field in the tree in pre-order, containers included.
func (ix *Index) Flat() []pkgmodel.Field { return ix.flat }

// Roots returns the top-level fields of every step in order.
func (ix *Index) Roots() []pkgmodel.Field {
	var out []pkgmodel.Field
	for _, step := range ix.steps {
		out = append(out, step.Fields...)
	}
	return out
}

// Field looks up a field anywhere in the tree.
func (ix *Index) Field(id string) (pkgmodel.Field, bool) {
	i, ok := ix.pos[id]
	if !ok {
		return pkgmodel.Field{}, false
	}
	return ix.flat[i], true
}

// StepOf returns the 1-based step owning the field, or 0.
func (ix *Index) StepOf(id string) int { return ix.stepOf[id] }

// StepIndex resolves a step by id or label to its 1-based position.
func (ix *Index) StepIndex(ref string) (int, bool) {
	for i, step := range ix.steps {
		if step.ID != "" && step.ID == ref {
			return i + 1, true
		}
	}
	for i, step := range ix.steps {
		if step.Label != "" && strings.EqualFold(step.Label, ref) {
			return i + 1, true
		}
	}
	return 0, false
}

// LeafIDs returns the ids of leaf fields in step n, in pre-order.
func (ix *Index) LeafIDs(n int) []string {
	var out []string
	for _, field := range ix.flat {
		if ix.stepOf[field.ID] != n || field.Kind.IsContainer() {
			continue
		}
		out = append(out, field.ID)
	}
	return out
}

// Dependents scans the whole tree for fields whose visibleWhen or
// requiredWhen references id.
func (ix *Index) Dependents(id string) []pkgmodel.Field {
	var out []pkgmodel.Field
	for _, field := range ix.flat {
		if (field.VisibleWhen != nil && field.VisibleWhen.Field == id) ||
			(field.RequiredWhen != nil && field.RequiredWhen.Field == id) {
			out = append(out, field)
		}
	}
	return out
}

func normaliseDialog(def pkgmodel.Dialog) pkgmodel.Dialog {
	def.Fields = normaliseFields(def.Fields)
	if len(def.Steps) > 0 {
		steps := make([]pkgmodel.Step, len(def.Steps))
		for i, step := range def.Steps {
			step.ID = strings.TrimSpace(step.ID)
			step.Fields = normaliseFields(step.Fields)
			steps[i] = step
		}
		def.Steps = steps
	}
	if len(def.Buttons) > 0 {
		def.Buttons = append([]pkgmodel.Button(nil), def.Buttons...)
	}
	return def
}

func normaliseFields(fields []pkgmodel.Field) []pkgmodel.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]pkgmodel.Field, len(fields))
	for i, field := range fields {
		field.ID = strings.TrimSpace(field.ID)
		field.Kind = pkgmodel.Kind(strings.ToLower(strings.TrimSpace(string(field.Kind)))).OrDefault()
		if field.Label == "" {
			field.Label = Humanize(field.ID)
		}
		field.Children = normaliseFields(field.Children)
		out[i] = field
	}
	return out
}
