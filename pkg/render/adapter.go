// Package render defines the contract between the dialog engine and the
// component that turns field definitions into live controls.
package render

import (
	"context"
	"errors"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/steps"
)

// ErrParentUnavailable is returned by Mount when the requested parent context
// cannot be reached. The engine logs it and continues with the adapter's
// local context.
var ErrParentUnavailable = errors.New("render: parent context unavailable")

// View is an adapter-owned handle for a rendered control.
type View any

// Setter pushes an externally assigned value into a live control.
type Setter func(value any)

// ChangeFunc must be called synchronously on every user-committed edit.
type ChangeFunc func(value any)

// ButtonState is the rendered state of one button.
type ButtonState struct {
	ID          string
	Label       string
	Disabled    bool
	Hidden      bool
	Primary     bool
	Destructive bool
}

// Adapter renders a dialog. The engine calls adapter methods without holding
// its own lock, so adapters may call back into the dialog.
type Adapter interface {
	// Mount prepares the surface inside parent. A nil parent means the
	// adapter's default context.
	Mount(ctx context.Context, parent any) error
	// RenderField creates the control for field seeded with value. The
	// returned Setter is registered by the engine for external updates.
	RenderField(field model.Field, value any, onChange ChangeFunc) (View, Setter, error)
	SetVisible(id string, visible bool)
	SetRequired(id string, required bool)
	SetError(id, message string)
	// ShowStep makes step n the only visible panel and applies size.
	ShowStep(n int, size string)
	UpdateIndicator(markers []steps.Marker)
	UpdateButton(state ButtonState)
	// Close runs the exit transition and calls done when finished.
	Close(done func())
}

// Nop is a headless adapter. Fields render to nil views and Close completes
// immediately.
type Nop struct{}

var _ Adapter = Nop{}

func (Nop) Mount(context.Context, any) error { return nil }

func (Nop) RenderField(model.Field, any, ChangeFunc) (View, Setter, error) {
	return nil, func(any) {}, nil
}

func (Nop) SetVisible(string, bool)        {}
func (Nop) SetRequired(string, bool)       {}
func (Nop) SetError(string, string)        {}
func (Nop) ShowStep(int, string)           {}
func (Nop) UpdateIndicator([]steps.Marker) {}
func (Nop) UpdateButton(ButtonState)       {}
func (Nop) Close(done func()) {
	if done != nil {
		done()
	}
}
