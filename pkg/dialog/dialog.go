// Package dialog runs one configured dialog from construction to close.
//
// A Dialog serialises all state behind a single mutex: adapter change
// events, timer callbacks and the public API all observe the same value
// store. Adapter notifications are always delivered after the lock is
// released, so adapters and button callbacks may call back into the dialog.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	imodel "github.com/goliatone/go-formdialog/internal/model"
	"github.com/goliatone/go-formdialog/pkg/gating"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/options"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/rules"
	"github.com/goliatone/go-formdialog/pkg/steps"
	"github.com/goliatone/go-formdialog/pkg/store"
)

// Dialog is a live dialog instance. Create one with New.
type Dialog struct {
	mu sync.Mutex

	def   model.Dialog
	index *imodel.Index

	adapter      render.Adapter
	source       options.Source
	sched        gating.Scheduler
	debounce     time.Duration
	closeTimeout time.Duration
	logger       *zap.Logger
	parent       any

	state    State
	store    *store.Store
	steps    *steps.Controller
	visible  map[string]bool
	required map[string]bool
	options  map[string][]model.Option
	views    map[string]render.View
	buttons  []*button
	gate     *gating.Debouncer
	busy     bool

	settled  bool
	resolved bool
	response model.Response
	done     chan struct{}
}

var _ model.Controller = (*Dialog)(nil)

// New validates def and builds a dialog in the Constructing state. The value
// store is seeded with every leaf field's initial value. Malformed
// definitions return a *ConfigError.
func New(def model.Dialog, opts ...Option) (*Dialog, error) {
	index, err := imodel.Build(def)
	if err != nil {
		return nil, err
	}

	d := &Dialog{
		def:          def,
		index:        index,
		adapter:      render.Nop{},
		sched:        gating.SystemScheduler{},
		debounce:     DefaultDebounce,
		closeTimeout: DefaultCloseTimeout,
		logger:       zap.NewNop(),
		visible:      make(map[string]bool),
		required:     make(map[string]bool),
		options:      make(map[string][]model.Option),
		views:        make(map[string]render.View),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(d)
	}

	seed := make(map[string]any)
	for _, field := range index.Flat() {
		if field.Kind.IsContainer() {
			continue
		}
		seed[field.ID] = field.Value
		d.options[field.ID] = append([]model.Option(nil), field.Options...)
	}
	d.store = store.New(seed)
	d.steps = steps.New(index.StepCount(), def.AllowStepNavigation)
	for _, b := range def.Buttons {
		d.buttons = append(d.buttons, &button{def: b, label: b.Label})
	}
	d.gate = gating.NewDebouncer(d.sched, d.debounce, d.runGating)
	d.refreshFlagsLocked(nil)
	return d, nil
}

// Open performs the Rendering phase and shows the dialog: it mounts the
// adapter, resolves option sources concurrently, renders every field and
// computes the initial gating state. Option fetch failures degrade to empty
// lists. If the dialog is closed while Open is in flight, fetched results are
// discarded and ErrClosed is returned.
func (d *Dialog) Open(ctx context.Context) error {
	d.mu.Lock()
	switch d.state {
	case StateConstructing:
	case StateClosing, StateClosed:
		d.mu.Unlock()
		return ErrClosed
	default:
		d.mu.Unlock()
		return ErrAlreadyOpen
	}
	d.state = StateRendering
	d.mu.Unlock()
	d.logger.Debug("dialog rendering", zap.String("title", d.def.Title))

	if err := d.mount(ctx); err != nil {
		d.Close()
		return err
	}

	fetched := d.fetchOptions(ctx)

	d.mu.Lock()
	if d.state != StateRendering {
		d.mu.Unlock()
		return ErrClosed
	}
	for id, opts := range fetched {
		d.options[id] = append(d.options[id], opts...)
	}
	values := d.store.Snapshot()
	fields := make([]model.Field, 0, len(d.index.Flat()))
	for _, field := range d.index.Flat() {
		if !field.Kind.IsContainer() {
			field.Options = append([]model.Option(nil), d.options[field.ID]...)
		}
		fields = append(fields, field)
	}
	d.mu.Unlock()

	type rendered struct {
		view   render.View
		setter render.Setter
	}
	out := make(map[string]rendered, len(fields))
	for _, field := range fields {
		var onChange render.ChangeFunc
		if !field.Kind.IsContainer() {
			id := field.ID
			onChange = func(value any) { d.handleChange(id, value) }
		}
		view, setter, err := d.adapter.RenderField(field, values[field.ID], onChange)
		if err != nil {
			d.Close()
			return fmt.Errorf("dialog: render field %q: %w", field.ID, err)
		}
		out[field.ID] = rendered{view: view, setter: setter}
	}

	d.mu.Lock()
	if d.state != StateRendering {
		d.mu.Unlock()
		return ErrClosed
	}
	for id, r := range out {
		d.views[id] = r.view
		if r.setter != nil && d.store.Has(id) {
			d.store.Register(id, store.Setter(r.setter))
		}
	}
	var fx effects
	for _, field := range d.index.Flat() {
		id, visible, required := field.ID, d.visible[field.ID], d.required[field.ID]
		fx.add(func() {
			d.adapter.SetVisible(id, visible)
			d.adapter.SetRequired(id, required)
		})
	}
	d.state = StateShown
	d.transitionLocked(&fx)
	d.applyGatingLocked(&fx)
	d.mu.Unlock()

	fx.run()
	d.logger.Debug("dialog shown", zap.String("title", d.def.Title), zap.Int("steps", d.index.StepCount()))
	return nil
}

func (d *Dialog) mount(ctx context.Context) error {
	err := d.adapter.Mount(ctx, d.parent)
	if err == nil {
		return nil
	}
	if errors.Is(err, render.ErrParentUnavailable) && d.parent != nil {
		d.logger.Warn("parent context unavailable, mounting locally", zap.Error(err))
		if err = d.adapter.Mount(ctx, nil); err == nil {
			return nil
		}
	}
	return fmt.Errorf("dialog: mount: %w", err)
}

func (d *Dialog) fetchOptions(ctx context.Context) map[string][]model.Option {
	if d.source == nil {
		return nil
	}
	var (
		mu  sync.Mutex
		out = make(map[string][]model.Option)
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, field := range d.index.Flat() {
		if field.OptionSource == nil || field.Kind.IsContainer() {
			continue
		}
		id, desc := field.ID, *field.OptionSource
		g.Go(func() error {
			opts, err := d.source.Fetch(gctx, desc)
			if err != nil {
				d.logger.Warn("option source failed, using empty list",
					zap.String("field", id),
					zap.String("source", desc.Key()),
					zap.Error(err),
				)
				opts = nil
			}
			mu.Lock()
			out[id] = opts
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Wait blocks until the dialog settles. It returns the Response of the first
// resolving button, or ErrClosed if the dialog closed without one.
func (d *Dialog) Wait(ctx context.Context) (model.Response, error) {
	select {
	case <-ctx.Done():
		return model.Response{}, ctx.Err()
	case <-d.done:
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.resolved {
		return model.Response{}, ErrClosed
	}
	return copyResponse(d.response), nil
}

// Show opens the dialog and waits for it to settle.
func (d *Dialog) Show(ctx context.Context) (model.Response, error) {
	if err := d.Open(ctx); err != nil {
		return model.Response{}, err
	}
	return d.Wait(ctx)
}

// Done is closed once the dialog settles, resolved or not.
func (d *Dialog) Done() <-chan struct{} {
	return d.done
}

// Close starts the exit transition. Teardown happens when the adapter
// reports the transition finished or when the close timeout fires, whichever
// comes first. Closing an unresolved dialog settles it without a Response.
func (d *Dialog) Close() {
	d.mu.Lock()
	switch d.state {
	case StateClosing, StateClosed:
		d.mu.Unlock()
		return
	case StateConstructing:
		d.gate.Stop()
		d.teardownLocked()
		d.mu.Unlock()
		return
	}
	d.state = StateClosing
	d.gate.Stop()
	var once sync.Once
	finish := func() { once.Do(d.teardown) }
	timer := d.sched.AfterFunc(d.closeTimeout, func() {
		d.logger.Debug("close transition timed out, forcing teardown")
		finish()
	})
	d.mu.Unlock()

	d.logger.Debug("dialog closing", zap.String("title", d.def.Title))
	d.adapter.Close(func() {
		timer.Stop()
		finish()
	})
}

func (d *Dialog) teardown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teardownLocked()
	d.logger.Debug("dialog closed", zap.String("title", d.def.Title), zap.Bool("resolved", d.resolved))
}

func (d *Dialog) teardownLocked() {
	d.state = StateClosed
	d.store.Reset()
	d.views = map[string]render.View{}
	d.settleLocked()
}

// settleLocked closes done once. It reports whether this call settled it.
func (d *Dialog) settleLocked() bool {
	if d.settled {
		return false
	}
	d.settled = true
	close(d.done)
	return true
}

func (d *Dialog) resolveLocked(key string) bool {
	if d.settled {
		return false
	}
	d.resolved = true
	d.response = model.Response{Button: key, Data: d.store.Snapshot()}
	return d.settleLocked()
}

// State returns the lifecycle phase.
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Title returns the configured dialog title.
func (d *Dialog) Title() string { return d.def.Title }

// Layout returns the opaque layout options from the definition.
func (d *Dialog) Layout() map[string]any { return d.def.Layout }

// Flush runs a pending gating re-evaluation immediately.
func (d *Dialog) Flush() {
	d.gate.Flush()
}

func (d *Dialog) liveErr() error {
	switch d.state {
	case StateClosing, StateClosed:
		return ErrClosed
	default:
		return nil
	}
}

func (d *Dialog) shownErr() error {
	switch d.state {
	case StateShown:
		return nil
	case StateClosing, StateClosed:
		return ErrClosed
	default:
		return ErrNotOpen
	}
}

// refreshFlagsLocked recomputes visible/required for every field and queues
// adapter updates for flips when fx is non-nil.
func (d *Dialog) refreshFlagsLocked(fx *effects) bool {
	flipped := false
	for _, field := range d.index.Flat() {
		if d.updateFlagsLocked(field, fx) {
			flipped = true
		}
	}
	return flipped
}

func (d *Dialog) updateFlagsLocked(field model.Field, fx *effects) bool {
	id := field.ID
	visible := rules.Evaluate(field.VisibleWhen, d.store)
	required := field.Required || (field.RequiredWhen != nil && rules.Evaluate(field.RequiredWhen, d.store))

	prevVisible, seen := d.visible[id]
	prevRequired := d.required[id]
	d.visible[id] = visible
	d.required[id] = required
	if !seen {
		return false
	}

	flipped := false
	if prevVisible != visible {
		flipped = true
		if fx != nil {
			fx.add(func() { d.adapter.SetVisible(id, visible) })
		}
	}
	if prevRequired != required {
		flipped = true
		if fx != nil {
			fx.add(func() { d.adapter.SetRequired(id, required) })
		}
	}
	return flipped
}

func copyResponse(r model.Response) model.Response {
	data := make(map[string]any, len(r.Data))
	for k, v := range r.Data {
		data[k] = v
	}
	return model.Response{Button: r.Button, Data: data}
}
