package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/dialog"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/render"
	"github.com/goliatone/go-formdialog/pkg/validation"
)

// Run opens d if needed and prompts until it settles. Each round prompts the
// visible fields of the current step, then offers the buttons. A disabled or
// vetoing button returns to the same step. d must have been created with
// this adapter.
func (a *Adapter) Run(ctx context.Context, d *dialog.Dialog) (model.Response, error) {
	if d.State() == dialog.StateConstructing {
		if err := d.Open(ctx); err != nil {
			return model.Response{}, err
		}
	}

	for {
		select {
		case <-d.Done():
			return d.Wait(ctx)
		default:
		}

		step := d.CurrentStep()
		if err := a.header(ctx, d); err != nil {
			return a.abort(d, err)
		}
		if err := a.promptStep(ctx, d, step); err != nil {
			return a.abort(d, err)
		}
		d.Flush()
		if err := a.reportErrors(ctx, d, step); err != nil {
			return a.abort(d, err)
		}
		if err := a.chooseButton(ctx, d, step); err != nil {
			return a.abort(d, err)
		}
	}
}

func (a *Adapter) abort(d *dialog.Dialog, err error) (model.Response, error) {
	d.Close()
	return model.Response{}, err
}

func (a *Adapter) header(ctx context.Context, d *dialog.Dialog) error {
	if title := d.Title(); title != "" {
		if err := a.driver.Info(ctx, a.styles.Title.Render(title)); err != nil {
			return err
		}
	}
	if !d.Wizard() {
		return nil
	}
	return a.driver.Info(ctx, a.styles.Indicator(a.currentMarkers()))
}

func (a *Adapter) promptStep(ctx context.Context, d *dialog.Dialog, step int) error {
	for _, id := range d.StepFieldIDs(step) {
		if !a.shown(id) {
			continue
		}
		c, ok := a.snapshot(id)
		if !ok {
			continue
		}
		value, err := a.prompt(ctx, c)
		if err != nil {
			return err
		}
		a.commit(id, value)
	}
	return nil
}

func (a *Adapter) reportErrors(ctx context.Context, d *dialog.Dialog, step int) error {
	for _, id := range d.StepFieldIDs(step) {
		if !a.shown(id) {
			continue
		}
		c, ok := a.snapshot(id)
		if !ok || c.err == "" {
			continue
		}
		line := a.styles.Error.Render(fmt.Sprintf("%s: %s", c.field.DisplayLabel(), c.err))
		if err := a.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// chooseButton offers the edit entry followed by every visible button and
// clicks the selection.
func (a *Adapter) chooseButton(ctx context.Context, d *dialog.Dialog, step int) error {
	choices := []string{a.editLabel}
	buttons := []render.ButtonState{{}}
	for _, b := range a.buttonStates() {
		if b.Hidden {
			continue
		}
		label := b.Label
		if b.Disabled {
			label = a.styles.Disabled.Render(label + " (disabled)")
		}
		choices = append(choices, label)
		buttons = append(buttons, b)
	}
	if len(buttons) == 1 {
		return ErrNoButtons
	}

	idx, err := a.driver.Choose(ctx, Choice{Question: Question{Message: "Action"}, Options: choices})
	if err != nil {
		return err
	}
	if idx <= 0 || idx >= len(buttons) {
		return nil
	}

	err = d.Click(ctx, buttons[idx].ID)
	switch {
	case err == nil, errors.Is(err, dialog.ErrClosed):
		return nil
	case errors.Is(err, dialog.ErrButtonDisabled):
		msg := fmt.Sprintf("%s is disabled", buttons[idx].Label)
		if missing, _ := d.MissingRequired(step); len(missing) > 0 {
			msg += ": complete " + strings.Join(missing, ", ")
		}
		return a.driver.Info(ctx, a.styles.Error.Render(msg))
	case errors.Is(err, ErrAborted):
		return err
	default:
		return a.driver.Info(ctx, a.styles.Error.Render(err.Error()))
	}
}

func (a *Adapter) prompt(ctx context.Context, c control) (any, error) {
	field := c.field
	q := Question{Message: field.DisplayLabel(), Help: field.Description, Default: stringValue(c.value)}
	if c.required {
		q.Message += " *"
	}

	switch field.Kind {
	case model.KindCheckbox:
		b, _ := c.value.(bool)
		return a.driver.Confirm(ctx, q, b)
	case model.KindSelect, model.KindLookup:
		if len(field.Options) > 0 {
			return a.promptSelect(ctx, c, q)
		}
	case model.KindMultiSelect:
		return a.promptMulti(ctx, c, q)
	case model.KindNumber:
		q.Check = formatCheck(field, parseNumber)
		text, err := a.driver.Text(ctx, EntryLine, q)
		if err != nil {
			return nil, err
		}
		return parseNumber(text), nil
	}

	entry := EntryLine
	switch field.Kind {
	case model.KindTextArea:
		entry = EntryMultiline
	case model.KindPassword:
		entry = EntrySecret
		q.Default = ""
	}
	q.Check = formatCheck(field, func(answer string) any { return answer })
	return a.driver.Text(ctx, entry, q)
}

// formatCheck rejects answers failing the field's format or constraint
// checks. Empty answers pass; required fields are left to button gating so
// the user can still reach the action menu.
func formatCheck(field model.Field, convert func(string) any) func(string) error {
	return func(answer string) error {
		if res := validation.Check(field, convert(answer), false); !res.Valid {
			return errors.New(res.Message)
		}
		return nil
	}
}

// pageSize reads the optional "pageSize" metadata of list fields.
func pageSize(field model.Field) int {
	n, err := strconv.Atoi(field.Metadata["pageSize"])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// promptSelect offers a "(none)" entry first for optional fields.
func (a *Adapter) promptSelect(ctx context.Context, c control, q Question) (any, error) {
	var labels, values []string
	if !c.required {
		labels = append(labels, "(none)")
		values = append(values, "")
	}
	for _, opt := range c.field.Options {
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
	}
	choice := Choice{Question: q, Options: labels, PageSize: pageSize(c.field)}
	current := stringValue(c.value)
	for i, v := range values {
		if v == current {
			choice.Selected = []int{i}
			break
		}
	}
	idx, err := a.driver.Choose(ctx, choice)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(values) {
		return c.value, nil
	}
	return values[idx], nil
}

func (a *Adapter) promptMulti(ctx context.Context, c control, q Question) (any, error) {
	selected := make(map[string]bool)
	for _, v := range listValue(c.value) {
		selected[v] = true
	}
	choice := Choice{Question: q, Options: make([]string, len(c.field.Options)), PageSize: pageSize(c.field)}
	for i, opt := range c.field.Options {
		choice.Options[i] = opt.Label
		if selected[opt.Value] {
			choice.Selected = append(choice.Selected, i)
		}
	}
	picked, err := a.driver.ChooseMany(ctx, choice)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(picked))
	for _, i := range picked {
		if i >= 0 && i < len(c.field.Options) {
			out = append(out, c.field.Options[i].Value)
		}
	}
	return out, nil
}

// parseNumber keeps unparseable input as text so the engine reports it.
func parseNumber(text string) any {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return text
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func listValue(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringValue(item))
		}
		return out
	default:
		return nil
	}
}
