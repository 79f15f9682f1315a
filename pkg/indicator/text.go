package indicator

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/steps"
)

// Separator joins markers in Text.
const Separator = " > "

// Symbol returns the glyph used for a marker state.
func Symbol(state steps.MarkerState) string {
	switch state {
	case steps.MarkerCurrent:
		return "*"
	case steps.MarkerComplete:
		return "+"
	case steps.MarkerIncomplete:
		return "!"
	default:
		return "-"
	}
}

// Entry formats one marker, e.g. "! 1 Account (missing: Email)".
func Entry(m steps.Marker) string {
	var b strings.Builder
	b.WriteString(Symbol(m.State))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(m.Index))
	if m.Label != "" {
		b.WriteByte(' ')
		b.WriteString(m.Label)
	}
	if m.State == steps.MarkerIncomplete && len(m.Missing) > 0 {
		b.WriteString(" (missing: ")
		b.WriteString(strings.Join(m.Missing, ", "))
		b.WriteByte(')')
	}
	return b.String()
}

// Text renders the indicator on one line.
func Text(markers []steps.Marker) string {
	parts := make([]string, len(markers))
	for i, m := range markers {
		parts[i] = Entry(m)
	}
	return strings.Join(parts, Separator)
}
