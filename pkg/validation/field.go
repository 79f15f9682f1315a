// Package validation checks single field values and walks dialog field trees
// to compute step-level and whole-form validity.
//
// Per-field failures are never returned as errors. They are reported as a
// Result and recorded by the caller in the value store's error map.
package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/rules"
)

// Reason codes carried by a failed Result.
const (
	CodeRequired      = "required"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidType   = "invalid_type"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodePattern       = "pattern"
)

// MinPhoneDigits is the minimum number of digits a phone value must carry
// once formatting characters are stripped.
const MinPhoneDigits = 7

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneAllowedChars = regexp.MustCompile(`^[0-9+\-(). ]+$`)
)

// Result is the outcome of a single field check.
type Result struct {
	Valid   bool
	Reason  string
	Message string
}

var ok = Result{Valid: true}

func fail(reason, format string, args ...any) Result {
	return Result{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ValidateField applies the required check and the kind-specific format
// checks. Format checks run only on non-empty values and do not depend on
// required.
func ValidateField(value any, required bool, kind model.Kind) Result {
	if IsEmpty(value) {
		if required {
			return fail(CodeRequired, "required")
		}
		return ok
	}

	switch kind.OrDefault() {
	case model.KindEmail:
		if !emailPattern.MatchString(strings.TrimSpace(fmt.Sprint(value))) {
			return fail(CodeInvalidFormat, "must be a valid email address")
		}
	case model.KindURL:
		u, err := url.Parse(strings.TrimSpace(fmt.Sprint(value)))
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fail(CodeInvalidFormat, "must be an absolute URL")
		}
	case model.KindPhone:
		raw := strings.TrimSpace(fmt.Sprint(value))
		if !phoneAllowedChars.MatchString(raw) {
			return fail(CodeInvalidFormat, "contains characters not allowed in a phone number")
		}
		if countDigits(raw) < MinPhoneDigits {
			return fail(CodeInvalidFormat, "must contain at least %d digits", MinPhoneDigits)
		}
	case model.KindNumber:
		if _, isNum := Number(value); !isNum {
			return fail(CodeInvalidType, "must be a number")
		}
	}
	return ok
}

// Check runs ValidateField and then the field's declared constraints.
func Check(field model.Field, value any, required bool) Result {
	if res := ValidateField(value, required, field.Kind); !res.Valid || IsEmpty(value) {
		return res
	}
	return checkConstraints(field.Constraints, value)
}

func checkConstraints(c model.Constraints, value any) Result {
	if n, isNum := rules.Numeric(value); isNum {
		if c.Min != nil && n < *c.Min {
			return fail(CodeTooSmall, "must be at least %v", *c.Min)
		}
		if c.Max != nil && n > *c.Max {
			return fail(CodeTooBig, "must be at most %v", *c.Max)
		}
	}

	length, text, hasLen := measure(value)
	if hasLen {
		if c.MinLength != nil && length < *c.MinLength {
			return fail(CodeTooShort, "min length %d", *c.MinLength)
		}
		if c.MaxLength != nil && length > *c.MaxLength {
			return fail(CodeTooLong, "max length %d", *c.MaxLength)
		}
	}
	if c.Pattern != "" && text != "" {
		re, err := regexp.Compile(c.Pattern)
		if err == nil && !re.MatchString(text) {
			return fail(CodePattern, "does not match required pattern")
		}
	}
	return ok
}

// IsEmpty reports nil, "" and empty collections. Whitespace is a value, the
// same as for the falsy operator.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Number coerces numeric Go values and numeric strings.
func Number(value any) (float64, bool) {
	if n, isNum := rules.Numeric(value); isNum {
		return n, true
	}
	if s, isStr := value.(string); isStr {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

// measure returns a length for strings (in runes) and slices.
func measure(value any) (int, string, bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), v, true
	case []any:
		return len(v), "", true
	case []string:
		return len(v), "", true
	}
	return 0, "", false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
