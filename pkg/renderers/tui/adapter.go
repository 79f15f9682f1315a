// Package tui renders dialogs in a terminal. The Adapter satisfies
// render.Adapter by keeping the rendered state in memory; Run then drives a
// live dialog step by step through interactive prompts.
package tui

import (
	"context"
	"io"
	"sync"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/steps"
)

// Name is the adapter's registry name.
const Name = "tui"

type control struct {
	field    model.Field
	value    any
	onChange render.ChangeFunc
	visible  bool
	required bool
	err      string
}

// Adapter is a terminal render.Adapter.
type Adapter struct {
	mu sync.Mutex

	driver    PromptDriver
	out       io.Writer
	styles    Styles
	editLabel string

	controls map[string]*control
	parent   map[string]string
	step     int
	size     string
	markers  []steps.Marker
	buttons  []render.ButtonState
	closed   bool
}

var _ render.Adapter = (*Adapter)(nil)

// New constructs an adapter with the survey driver and default styles.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		styles:    DefaultStyles(),
		editLabel: "Edit fields",
		controls:  make(map[string]*control),
		parent:    make(map[string]string),
		step:      1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.driver == nil {
		a.driver = NewSurveyDriver(a.out)
	}
	return a
}

// Factory adapts New to render.Factory.
func Factory(opts ...Option) render.Factory {
	return func() (render.Adapter, error) {
		return New(opts...), nil
	}
}

// Mount accepts any parent; a terminal has a single surface.
func (a *Adapter) Mount(ctx context.Context, _ any) error {
	return ctx.Err()
}

// RenderField records the control. Containers only register their children
// so visibility can be inherited.
func (a *Adapter) RenderField(field model.Field, value any, onChange render.ChangeFunc) (render.View, render.Setter, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if field.Kind.IsContainer() {
		for _, child := range field.Children {
			a.parent[child.ID] = field.ID
		}
	}
	c := &control{field: field, value: value, onChange: onChange, visible: true}
	a.controls[field.ID] = c
	setter := func(v any) {
		a.mu.Lock()
		c.value = v
		a.mu.Unlock()
	}
	return field.ID, setter, nil
}

func (a *Adapter) SetVisible(id string, visible bool) {
	a.with(id, func(c *control) { c.visible = visible })
}

func (a *Adapter) SetRequired(id string, required bool) {
	a.with(id, func(c *control) { c.required = required })
}

func (a *Adapter) SetError(id, message string) {
	a.with(id, func(c *control) { c.err = message })
}

func (a *Adapter) ShowStep(n int, size string) {
	a.mu.Lock()
	a.step, a.size = n, size
	a.mu.Unlock()
}

func (a *Adapter) UpdateIndicator(markers []steps.Marker) {
	a.mu.Lock()
	a.markers = append([]steps.Marker(nil), markers...)
	a.mu.Unlock()
}

// UpdateButton keeps buttons in the order they were first reported.
func (a *Adapter) UpdateButton(state render.ButtonState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.buttons {
		if a.buttons[i].ID == state.ID {
			a.buttons[i] = state
			return
		}
	}
	a.buttons = append(a.buttons, state)
}

// Close completes immediately.
func (a *Adapter) Close(done func()) {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	if done != nil {
		done()
	}
}

func (a *Adapter) with(id string, fn func(c *control)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.controls[id]; ok {
		fn(c)
	}
}

// shown reports whether the control and every enclosing container are
// visible.
func (a *Adapter) shown(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id != "" {
		c, ok := a.controls[id]
		if !ok || !c.visible {
			return false
		}
		id = a.parent[id]
	}
	return true
}

func (a *Adapter) snapshot(id string) (control, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.controls[id]
	if !ok {
		return control{}, false
	}
	return *c, true
}

// commit stores the value locally and reports it to the engine. The
// engine's callback may re-enter the adapter, so no lock is held.
func (a *Adapter) commit(id string, value any) {
	a.mu.Lock()
	c, ok := a.controls[id]
	var onChange render.ChangeFunc
	if ok {
		c.value = value
		onChange = c.onChange
	}
	a.mu.Unlock()
	if onChange != nil {
		onChange(value)
	}
}

func (a *Adapter) buttonStates() []render.ButtonState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]render.ButtonState(nil), a.buttons...)
}

func (a *Adapter) currentMarkers() []steps.Marker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]steps.Marker(nil), a.markers...)
}

// Step returns the step last shown and its size hint.
func (a *Adapter) Step() (int, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.step, a.size
}

// Closed reports whether the exit transition ran.
func (a *Adapter) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}
