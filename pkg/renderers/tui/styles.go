package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-formdialog/pkg/indicator"
	"github.com/goliatone/go-formdialog/pkg/steps"
)

// Styles holds the terminal styles applied to printed lines.
type Styles struct {
	Title      lipgloss.Style
	Current    lipgloss.Style
	Complete   lipgloss.Style
	Incomplete lipgloss.Style
	Pending    lipgloss.Style
	Error      lipgloss.Style
	Disabled   lipgloss.Style
}

// DefaultStyles returns coloured styles.
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true),
		Current:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Complete:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Incomplete: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Pending:    lipgloss.NewStyle().Faint(true),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Disabled:   lipgloss.NewStyle().Faint(true),
	}
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:      plain,
		Current:    plain,
		Complete:   plain,
		Incomplete: plain,
		Pending:    plain,
		Error:      plain,
		Disabled:   plain,
	}
}

func (s Styles) marker(state steps.MarkerState) lipgloss.Style {
	switch state {
	case steps.MarkerCurrent:
		return s.Current
	case steps.MarkerComplete:
		return s.Complete
	case steps.MarkerIncomplete:
		return s.Incomplete
	default:
		return s.Pending
	}
}

// Indicator renders the step indicator on one styled line.
func (s Styles) Indicator(markers []steps.Marker) string {
	parts := make([]string, len(markers))
	for i, m := range markers {
		parts[i] = s.marker(m.State).Render(indicator.Entry(m))
	}
	return strings.Join(parts, indicator.Separator)
}
