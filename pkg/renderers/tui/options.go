package tui

import "io"

// Option configures the terminal adapter.
type Option func(*Adapter)

// WithPromptDriver overrides the prompt driver used by the adapter.
func WithPromptDriver(driver PromptDriver) Option {
	return func(a *Adapter) {
		if driver != nil {
			a.driver = driver
		}
	}
}

// WithOutput sends the default driver's messages to out.
func WithOutput(out io.Writer) Option {
	return func(a *Adapter) {
		if out != nil {
			a.out = out
		}
	}
}

// WithStyles overrides the lipgloss styles used for headers, the step
// indicator and error lines.
func WithStyles(styles Styles) Option {
	return func(a *Adapter) {
		a.styles = styles
	}
}

// WithEditLabel renames the menu entry that re-prompts the current step.
func WithEditLabel(label string) Option {
	return func(a *Adapter) {
		if label != "" {
			a.editLabel = label
		}
	}
}
