package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoButtons is returned by Run when the dialog shows no button to
	// activate.
	ErrNoButtons = errors.New("tui: dialog has no visible buttons")
)
