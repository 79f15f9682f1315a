package dialog

import (
	"errors"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/steps"
	"github.com/goliatone/go-formdialog/pkg/store"
)

var (
	// ErrClosed is returned by every operation once the dialog is closing or
	// closed, and by Wait when the dialog closed without a resolving button.
	ErrClosed = errors.New("dialog: closed")
	// ErrNotOpen is returned by interactive operations before Open completes.
	ErrNotOpen = errors.New("dialog: not open")
	// ErrAlreadyOpen is returned by a second Open call.
	ErrAlreadyOpen = errors.New("dialog: already open")
	// ErrBusy is returned by Click while another button callback is running.
	ErrBusy = errors.New("dialog: button callback in flight")
	// ErrButtonDisabled is returned by Click for disabled or hidden buttons.
	ErrButtonDisabled = errors.New("dialog: button disabled")
	// ErrUnknownButton is returned for button references that match nothing.
	ErrUnknownButton = errors.New("dialog: unknown button")
	// ErrUnknownStep is returned by GoToStep for references that match nothing.
	ErrUnknownStep = errors.New("dialog: unknown step")

	// ErrUnknownField is returned for field ids that hold no value.
	ErrUnknownField = store.ErrUnknownField
	// ErrNavigationDisabled is returned by GoToStep when direct navigation is
	// not allowed.
	ErrNavigationDisabled = steps.ErrNavigationDisabled
	// ErrInvalidConfig matches every ConfigError returned by New.
	ErrInvalidConfig = model.ErrInvalidConfig
)

// ConfigError describes a malformed definition rejected by New.
type ConfigError = model.ConfigError
