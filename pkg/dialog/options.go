package dialog

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formdialog/pkg/gating"
	"github.com/goliatone/go-formdialog/pkg/options"
	"github.com/goliatone/go-formdialog/pkg/render"
)

const (
	// DefaultDebounce is the gating re-evaluation window.
	DefaultDebounce = 50 * time.Millisecond
	// DefaultCloseTimeout bounds how long Close waits for the adapter's exit
	// transition before tearing down anyway.
	DefaultCloseTimeout = 300 * time.Millisecond
)

// Option customises a Dialog.
type Option func(*Dialog)

// WithAdapter sets the renderer adapter. Defaults to render.Nop.
func WithAdapter(adapter render.Adapter) Option {
	return func(d *Dialog) {
		if adapter != nil {
			d.adapter = adapter
		}
	}
}

// WithOptionSource sets the collaborator used to resolve field option
// sources during Open. Results are cached for the dialog's lifetime.
func WithOptionSource(src options.Source) Option {
	return func(d *Dialog) {
		if src != nil {
			d.source = options.NewCached(src)
		}
	}
}

// WithDebounce overrides the gating debounce window.
func WithDebounce(window time.Duration) Option {
	return func(d *Dialog) {
		if window >= 0 {
			d.debounce = window
		}
	}
}

// WithScheduler overrides the scheduler used for the debounce and the close
// fallback timer.
func WithScheduler(sched gating.Scheduler) Option {
	return func(d *Dialog) {
		if sched != nil {
			d.sched = sched
		}
	}
}

// WithCloseTimeout overrides the close fallback timer.
func WithCloseTimeout(timeout time.Duration) Option {
	return func(d *Dialog) {
		if timeout > 0 {
			d.closeTimeout = timeout
		}
	}
}

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dialog) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithParent asks the adapter to mount inside parent.
func WithParent(parent any) Option {
	return func(d *Dialog) {
		d.parent = parent
	}
}
