package dialog

import (
	"context"
	"sync"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/steps"
)

// recordingAdapter captures every notification and lets tests simulate
// user edits through the registered change callbacks.
type recordingAdapter struct {
	mu        sync.Mutex
	changes   map[string]render.ChangeFunc
	pushed    map[string]any
	visible   map[string]bool
	required  map[string]bool
	errors    map[string]string
	buttons   map[string]render.ButtonState
	shown     []int
	sizes     []string
	markers   []steps.Marker
	mounts    []any
	mountErr  func(parent any) error
	dropClose bool
	closes    int
	onButton  func(render.ButtonState)
}

func newRecordingAdapter() *recordingAdapter {
	return &recordingAdapter{
		changes:  make(map[string]render.ChangeFunc),
		pushed:   make(map[string]any),
		visible:  make(map[string]bool),
		required: make(map[string]bool),
		errors:   make(map[string]string),
		buttons:  make(map[string]render.ButtonState),
	}
}

func (a *recordingAdapter) Mount(_ context.Context, parent any) error {
	a.mu.Lock()
	a.mounts = append(a.mounts, parent)
	fn := a.mountErr
	a.mu.Unlock()
	if fn != nil {
		return fn(parent)
	}
	return nil
}

func (a *recordingAdapter) RenderField(field model.Field, _ any, onChange render.ChangeFunc) (render.View, render.Setter, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if onChange != nil {
		a.changes[field.ID] = onChange
	}
	id := field.ID
	return field.ID, func(value any) {
		a.mu.Lock()
		a.pushed[id] = value
		a.mu.Unlock()
	}, nil
}

func (a *recordingAdapter) SetVisible(id string, visible bool) {
	a.mu.Lock()
	a.visible[id] = visible
	a.mu.Unlock()
}

func (a *recordingAdapter) SetRequired(id string, required bool) {
	a.mu.Lock()
	a.required[id] = required
	a.mu.Unlock()
}

func (a *recordingAdapter) SetError(id, message string) {
	a.mu.Lock()
	a.errors[id] = message
	a.mu.Unlock()
}

func (a *recordingAdapter) ShowStep(n int, size string) {
	a.mu.Lock()
	a.shown = append(a.shown, n)
	a.sizes = append(a.sizes, size)
	a.mu.Unlock()
}

func (a *recordingAdapter) UpdateIndicator(markers []steps.Marker) {
	a.mu.Lock()
	a.markers = markers
	a.mu.Unlock()
}

func (a *recordingAdapter) UpdateButton(state render.ButtonState) {
	a.mu.Lock()
	a.buttons[state.ID] = state
	hook := a.onButton
	a.mu.Unlock()
	if hook != nil {
		hook(state)
	}
}

func (a *recordingAdapter) Close(done func()) {
	a.mu.Lock()
	a.closes++
	drop := a.dropClose
	a.mu.Unlock()
	if !drop {
		done()
	}
}

// edit simulates a user-committed change.
func (a *recordingAdapter) edit(id string, value any) {
	a.mu.Lock()
	fn := a.changes[id]
	a.mu.Unlock()
	if fn != nil {
		fn(value)
	}
}

func (a *recordingAdapter) button(id string) render.ButtonState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buttons[id]
}

func (a *recordingAdapter) isVisible(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible[id]
}

func (a *recordingAdapter) errorFor(id string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errors[id]
}

func (a *recordingAdapter) pushedValue(id string) any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pushed[id]
}

func (a *recordingAdapter) lastMarkers() []steps.Marker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]steps.Marker(nil), a.markers...)
}

func (a *recordingAdapter) lastShown() (int, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.shown) == 0 {
		return 0, ""
	}
	return a.shown[len(a.shown)-1], a.sizes[len(a.sizes)-1]
}
