package dialog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formdialog/pkg/gating"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/render"
)

type button struct {
	def    model.Button
	label  string
	manual bool
	gated  bool
	hidden bool
}

func (d *Dialog) buttonStateLocked(b *button) render.ButtonState {
	return render.ButtonState{
		ID:          b.def.Key(),
		Label:       b.label,
		Disabled:    b.manual || b.gated || d.busy,
		Hidden:      b.hidden,
		Primary:     b.def.Primary,
		Destructive: b.def.Destructive,
	}
}

func (d *Dialog) findButton(ref string) int {
	for i, b := range d.buttons {
		if b.def.ID != "" && b.def.ID == ref {
			return i
		}
	}
	for i, b := range d.buttons {
		if strings.EqualFold(b.label, ref) || strings.EqualFold(b.def.Label, ref) {
			return i
		}
	}
	return -1
}

// Buttons returns the rendered state of every button in declaration order.
func (d *Dialog) Buttons() []render.ButtonState {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]render.ButtonState, len(d.buttons))
	for i, b := range d.buttons {
		out[i] = d.buttonStateLocked(b)
	}
	return out
}

// Button looks a button up by id or label. Unknown references return a
// controller whose methods do nothing and whose Err reports
// ErrUnknownButton.
func (d *Dialog) Button(ref string) *ButtonController {
	d.mu.Lock()
	i := d.findButton(ref)
	d.mu.Unlock()
	if i < 0 {
		return &ButtonController{d: d, idx: -1, err: fmt.Errorf("%w: %q", ErrUnknownButton, ref)}
	}
	return &ButtonController{d: d, idx: i}
}

// ButtonAt looks a button up by 0-based declaration index.
func (d *Dialog) ButtonAt(i int) *ButtonController {
	if i < 0 || i >= len(d.buttons) {
		return &ButtonController{d: d, idx: -1, err: fmt.Errorf("%w: index %d", ErrUnknownButton, i)}
	}
	return &ButtonController{d: d, idx: i}
}

// ButtonController is a chainable handle on one button. Manual disabling
// is combined with validation gating: a gated button stays disabled until
// its validity holds even after Enable.
type ButtonController struct {
	d   *Dialog
	idx int
	err error
}

// Err reports a failed lookup.
func (c *ButtonController) Err() error { return c.err }

func (c *ButtonController) update(mutate func(b *button)) *ButtonController {
	if c.idx < 0 {
		return c
	}
	d := c.d
	d.mu.Lock()
	if d.liveErr() != nil {
		d.mu.Unlock()
		return c
	}
	b := d.buttons[c.idx]
	mutate(b)
	state := d.buttonStateLocked(b)
	d.mu.Unlock()
	d.adapter.UpdateButton(state)
	return c
}

// SetLabel changes the button text.
func (c *ButtonController) SetLabel(label string) *ButtonController {
	return c.update(func(b *button) { b.label = label })
}

// SetDisabled sets the manual disabled flag.
func (c *ButtonController) SetDisabled(disabled bool) *ButtonController {
	return c.update(func(b *button) { b.manual = disabled })
}

// SetVisible shows or hides the button.
func (c *ButtonController) SetVisible(visible bool) *ButtonController {
	return c.update(func(b *button) { b.hidden = !visible })
}

func (c *ButtonController) Enable() *ButtonController  { return c.SetDisabled(false) }
func (c *ButtonController) Disable() *ButtonController { return c.SetDisabled(true) }
func (c *ButtonController) Show() *ButtonController    { return c.SetVisible(true) }
func (c *ButtonController) Hide() *ButtonController    { return c.SetVisible(false) }

// State returns the button's rendered state.
func (c *ButtonController) State() render.ButtonState {
	if c.idx < 0 {
		return render.ButtonState{}
	}
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	return c.d.buttonStateLocked(c.d.buttons[c.idx])
}

// Click activates a button by id or label. While its callback runs every
// other activation fails with ErrBusy and all buttons render disabled. A
// callback returning false, or a PreventClose button, keeps the dialog open.
// Otherwise the dialog resolves with the button and a value snapshot taken
// after the callback, then closes. Only the first resolution counts.
func (c *ButtonController) Click(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	return c.d.click(ctx, c.idx)
}

// Click activates the button matching ref. See ButtonController.Click.
func (d *Dialog) Click(ctx context.Context, ref string) error {
	return d.Button(ref).Click(ctx)
}

func (d *Dialog) click(ctx context.Context, i int) error {
	d.mu.Lock()
	if err := d.shownErr(); err != nil {
		d.mu.Unlock()
		return err
	}
	if d.settled {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.busy {
		d.mu.Unlock()
		return ErrBusy
	}
	b := d.buttons[i]
	key := b.def.Key()
	// The debounced gating state may lag behind the store.
	if gating.Gated(b.def) {
		b.gated = gating.Decide(b.def, validity{d}).Disabled
	}
	if b.hidden || b.manual || b.gated {
		state := d.buttonStateLocked(b)
		d.mu.Unlock()
		d.adapter.UpdateButton(state)
		return fmt.Errorf("%w: %q", ErrButtonDisabled, key)
	}
	d.busy = true
	fx := d.allButtonsLocked()
	d.mu.Unlock()
	fx.run()

	proceed, err := b.def.Callback(ctx, d)

	d.mu.Lock()
	if err == nil && proceed && !b.def.PreventClose && d.state == StateShown && d.resolveLocked(key) {
		// busy stays set so nothing else activates before Close.
		d.mu.Unlock()
		d.logger.Debug("dialog resolved", zap.String("button", key))
		d.Close()
		return nil
	}
	d.busy = false
	fx = d.allButtonsLocked()
	switch {
	case err != nil:
		d.mu.Unlock()
		fx.run()
		d.logger.Warn("button callback failed", zap.String("button", key), zap.Error(err))
		return fmt.Errorf("dialog: button %q: %w", key, err)
	case !proceed:
		d.mu.Unlock()
		fx.run()
		d.logger.Debug("close vetoed by callback", zap.String("button", key))
		return nil
	}
	d.mu.Unlock()
	fx.run()
	return nil
}

func (d *Dialog) allButtonsLocked() effects {
	var fx effects
	for _, b := range d.buttons {
		state := d.buttonStateLocked(b)
		fx.add(func() { d.adapter.UpdateButton(state) })
	}
	return fx
}
