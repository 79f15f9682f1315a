// Package formdialog builds dialogs and multi-step wizards from declarative
// definitions. The root package re-exports the types most callers need and
// wires the common path: load a definition, bind it to an adapter, wait for
// the response.
//
//	store, _ := formdialog.LoadDialogs(os.DirFS("dialogs"))
//	def, _ := store.Dialog("signup")
//	resp, err := formdialog.Show(ctx, def, formdialog.WithAdapter(tui.New()))
package formdialog

import (
	"context"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/options"
	"github.com/goliatone/go-formdialog/pkg/render"
)

// Definition is a resolved dialog definition.
type Definition = model.Dialog

// Field describes one form control.
type Field = model.Field

// Step groups fields into one wizard page.
type Step = model.Step

// Button describes a dialog button and its callback.
type Button = model.Button

// Condition drives visibleWhen and requiredWhen rules.
type Condition = model.Condition

// Response is what a resolved dialog returns.
type Response = model.Response

// Controller is the handle passed to button callbacks.
type Controller = model.Controller

// Dialog is a live dialog instance.
type Dialog = dialog.Dialog

// Option configures a Dialog.
type Option = dialog.Option

// New binds def to a live dialog without opening it.
func New(def Definition, opts ...Option) (*Dialog, error) {
	return dialog.New(def, opts...)
}

// Show opens def and blocks until a button resolves it, the dialog is
// closed or ctx is done.
func Show(ctx context.Context, def Definition, opts ...Option) (Response, error) {
	d, err := dialog.New(def, opts...)
	if err != nil {
		return Response{}, err
	}
	return d.Show(ctx)
}

// WithAdapter attaches a renderer adapter.
func WithAdapter(adapter render.Adapter) Option {
	return dialog.WithAdapter(adapter)
}

// WithOptionSource sets where lookup and select options are fetched from.
func WithOptionSource(src options.Source) Option {
	return dialog.WithOptionSource(src)
}
