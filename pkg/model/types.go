package model

import (
	"context"
	"sort"
	"strings"
)

// Operator names a Condition comparison.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpTruthy      Operator = "truthy"
	OpFalsy       Operator = "falsy"
)

// Condition is a predicate over another field's live value.
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// Option is a label/value pair offered by select-like controls.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// OptionSource describes a remote option list resolved while the dialog is
// rendering. Name identifies static sources; URL selects the HTTP source.
type OptionSource struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	URL         string            `json:"url,omitempty" yaml:"url,omitempty"`
	Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
	ResultsPath string            `json:"resultsPath,omitempty" yaml:"resultsPath,omitempty"`
	LabelField  string            `json:"labelField,omitempty" yaml:"labelField,omitempty"`
	ValueField  string            `json:"valueField,omitempty" yaml:"valueField,omitempty"`
	Params      map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Key returns a stable identifier for caching fetched options.
func (s OptionSource) Key() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteString("|")
	b.WriteString(strings.ToUpper(s.Method))
	b.WriteString(" ")
	b.WriteString(s.URL)
	b.WriteString("|")
	b.WriteString(s.ResultsPath)
	b.WriteString("|")
	b.WriteString(s.LabelField)
	b.WriteString("|")
	b.WriteString(s.ValueField)
	if len(s.Params) > 0 {
		keys := make([]string, 0, len(s.Params))
		for k := range s.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(";")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(s.Params[k])
		}
	}
	return b.String()
}

// Constraints are optional declarative checks applied to non-empty values.
type Constraints struct {
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// ChangeFunc is invoked after a field's committed value changes.
type ChangeFunc func(id string, value any)

// Field describes one control, or a container of controls, in a dialog.
type Field struct {
	ID           string            `json:"id" yaml:"id"`
	Kind         Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder  string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Value        any               `json:"value,omitempty" yaml:"value,omitempty"`
	Required     bool              `json:"required,omitempty" yaml:"required,omitempty"`
	RequiredWhen *Condition        `json:"requiredWhen,omitempty" yaml:"requiredWhen,omitempty"`
	VisibleWhen  *Condition        `json:"visibleWhen,omitempty" yaml:"visibleWhen,omitempty"`
	Children     []Field           `json:"children,omitempty" yaml:"children,omitempty"`
	Options      []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	OptionSource *OptionSource     `json:"optionSource,omitempty" yaml:"optionSource,omitempty"`
	Constraints  Constraints       `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	OnChange     ChangeFunc        `json:"-" yaml:"-"`
}

// DisplayLabel falls back to the id when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// StepValidator adds a custom check on top of required-field validation.
type StepValidator func(values map[string]any) bool

// Step is one page of a wizard.
type Step struct {
	ID        string        `json:"id,omitempty" yaml:"id,omitempty"`
	Label     string        `json:"label,omitempty" yaml:"label,omitempty"`
	Size      string        `json:"size,omitempty" yaml:"size,omitempty"`
	Fields    []Field       `json:"fields" yaml:"fields"`
	Validator StepValidator `json:"-" yaml:"-"`
}

// Controller is the dialog surface handed to button callbacks.
type Controller interface {
	FieldValue(id string) (any, error)
	SetFieldValue(id string, value any) error
	Values() map[string]any
	CurrentStep() int
	Next() error
	Previous() error
}

// ButtonFunc runs when a button is activated. It may block; returning false
// vetoes closing the dialog.
type ButtonFunc func(ctx context.Context, c Controller) (bool, error)

// Button describes an action button.
type Button struct {
	ID                 string     `json:"id,omitempty" yaml:"id,omitempty"`
	Label              string     `json:"label" yaml:"label"`
	Callback           ButtonFunc `json:"-" yaml:"-"`
	Primary            bool       `json:"primary,omitempty" yaml:"primary,omitempty"`
	PreventClose       bool       `json:"preventClose,omitempty" yaml:"preventClose,omitempty"`
	Destructive        bool       `json:"destructive,omitempty" yaml:"destructive,omitempty"`
	RequiresValidation bool       `json:"requiresValidation,omitempty" yaml:"requiresValidation,omitempty"`
	// ValidateAllSteps defaults to true when nil.
	ValidateAllSteps *bool `json:"validateAllSteps,omitempty" yaml:"validateAllSteps,omitempty"`
}

// Key identifies the button, falling back to its label.
func (b Button) Key() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Label
}

// AllSteps reports whether gating considers every wizard step.
func (b Button) AllSteps() bool {
	return b.ValidateAllSteps == nil || *b.ValidateAllSteps
}

// Dialog is the full declarative definition of one dialog. Fields is used
// when Steps is empty (flat mode). Size and Layout are opaque to the engine.
type Dialog struct {
	Title               string         `json:"title,omitempty" yaml:"title,omitempty"`
	Size                string         `json:"size,omitempty" yaml:"size,omitempty"`
	Layout              map[string]any `json:"layout,omitempty" yaml:"layout,omitempty"`
	AllowStepNavigation bool           `json:"allowStepNavigation,omitempty" yaml:"allowStepNavigation,omitempty"`
	Fields              []Field        `json:"fields,omitempty" yaml:"fields,omitempty"`
	Steps               []Step         `json:"steps,omitempty" yaml:"steps,omitempty"`
	Buttons             []Button       `json:"buttons,omitempty" yaml:"buttons,omitempty"`
}

// Wizard reports whether the dialog is multi-step.
func (d Dialog) Wizard() bool {
	return len(d.Steps) > 0
}

// Response is the settle-once result of a dialog.
type Response struct {
	Button string         `json:"button"`
	Data   map[string]any `json:"data"`
}
