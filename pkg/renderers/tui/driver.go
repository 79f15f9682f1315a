package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Entry selects how free text is read.
type Entry int

const (
	EntryLine Entry = iota
	EntrySecret
	EntryMultiline
)

// Question is one prompt shown for a field or for the action menu.
type Question struct {
	Message string
	Help    string
	Default string
	// Check rejects an answer so the driver asks again. Nil accepts anything.
	Check func(answer string) error
}

// Choice is a Question over a fixed option list. Selected holds the
// preselected positions; single choices use the first one.
type Choice struct {
	Question
	Options  []string
	Selected []int
	PageSize int
}

// PromptDriver is the terminal seam. Run only talks to the driver, so tests
// script answers through a stub.
type PromptDriver interface {
	Text(ctx context.Context, entry Entry, q Question) (string, error)
	Confirm(ctx context.Context, q Question, def bool) (bool, error)
	Choose(ctx context.Context, c Choice) (int, error)
	ChooseMany(ctx context.Context, c Choice) ([]int, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns the interactive driver. Info lines go to out, or
// stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Text(ctx context.Context, entry Entry, q Question) (string, error) {
	var p survey.Prompt
	switch entry {
	case EntrySecret:
		p = &survey.Password{Message: q.Message, Help: q.Help}
	case EntryMultiline:
		p = &survey.Multiline{Message: q.Message, Help: q.Help, Default: q.Default}
	default:
		p = &survey.Input{Message: q.Message, Help: q.Help, Default: q.Default}
	}
	var answer string
	err := ask(ctx, p, &answer, q.Check)
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, q Question, def bool) (bool, error) {
	var answer bool
	err := ask(ctx, &survey.Confirm{Message: q.Message, Help: q.Help, Default: def}, &answer, nil)
	return answer, err
}

func (d *surveyDriver) Choose(ctx context.Context, c Choice) (int, error) {
	p := &survey.Select{Message: c.Message, Help: c.Help, Options: c.Options, PageSize: c.PageSize}
	if picked := labelsAt(c.Options, c.Selected); len(picked) > 0 {
		p.Default = picked[0]
	}
	var answer string
	if err := ask(ctx, p, &answer, nil); err != nil {
		return -1, err
	}
	if at := positions(c.Options, []string{answer}); len(at) == 1 {
		return at[0], nil
	}
	return -1, nil
}

func (d *surveyDriver) ChooseMany(ctx context.Context, c Choice) ([]int, error) {
	p := &survey.MultiSelect{Message: c.Message, Help: c.Help, Options: c.Options, PageSize: c.PageSize}
	if picked := labelsAt(c.Options, c.Selected); len(picked) > 0 {
		p.Default = picked
	}
	var answer []string
	if err := ask(ctx, p, &answer, nil); err != nil {
		return nil, err
	}
	return positions(c.Options, answer), nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// ask runs one survey prompt. Ctrl-C becomes ErrAborted.
func ask(ctx context.Context, p survey.Prompt, answer any, check func(string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var opts []survey.AskOpt
	if check != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			text, _ := ans.(string)
			return check(text)
		}))
	}
	err := survey.AskOne(p, answer, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// positions maps picked labels back to option indices, in option order.
func positions(options, picked []string) []int {
	want := make(map[string]bool, len(picked))
	for _, label := range picked {
		want[label] = true
	}
	var at []int
	for i, label := range options {
		if want[label] {
			at = append(at, i)
		}
	}
	return at
}

func labelsAt(options []string, at []int) []string {
	var out []string
	for _, i := range at {
		if i >= 0 && i < len(options) {
			out = append(out, options[i])
		}
	}
	return out
}
