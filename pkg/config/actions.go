package config

import (
	"context"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// Built-in button actions.
const (
	ActionSubmit   = "submit"
	ActionCancel   = "cancel"
	ActionNext     = "next"
	ActionPrevious = "previous"
)

func defaultActions() map[string]model.ButtonFunc {
	return map[string]model.ButtonFunc{
		ActionSubmit: resolve,
		ActionCancel: resolve,
		ActionNext: func(_ context.Context, c model.Controller) (bool, error) {
			return false, c.Next()
		},
		ActionPrevious: func(_ context.Context, c model.Controller) (bool, error) {
			return false, c.Previous()
		},
	}
}

func resolve(context.Context, model.Controller) (bool, error) {
	return true, nil
}
