// Package rules evaluates field Conditions against a dialog's live values.
// Evaluation is a pure read: it never mutates the source it inspects.
package rules

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// Source exposes committed field values by id.
type Source interface {
	Get(id string) (any, bool)
}

// Values adapts a plain map into a Source.
type Values map[string]any

// Get returns the value stored under id.
func (v Values) Get(id string) (any, bool) {
	value, ok := v[id]
	return value, ok
}

// Evaluate reports whether cond holds for the referenced field's value. A nil
// condition holds. Operators outside the known set also hold (fail-open).
func Evaluate(cond *model.Condition, src Source) bool {
	if cond == nil {
		return true
	}
	var value any
	if src != nil {
		value, _ = src.Get(cond.Field)
	}

	switch cond.Operator {
	case model.OpEquals:
		return StrictEqual(value, cond.Value)
	case model.OpNotEquals:
		return !StrictEqual(value, cond.Value)
	case model.OpContains:
		return strings.Contains(stringify(value), stringify(cond.Value))
	case model.OpGreaterThan:
		return toNumber(value) > toNumber(cond.Value)
	case model.OpLessThan:
		return toNumber(value) < toNumber(cond.Value)
	case model.OpTruthy:
		return Truthy(value)
	case model.OpFalsy:
		return !Truthy(value)
	default:
		return true
	}
}

// StrictEqual compares without coercion between strings, numbers and
// booleans. All numeric Go types are treated as one number type.
func StrictEqual(a, b any) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	an, aNum := Numeric(a)
	bn, bNum := Numeric(b)
	if aNum || bNum {
		return aNum && bNum && an == bn
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if reflect.TypeOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Truthy applies the falsy set {nil, false, 0, NaN, ""}; everything else,
// including empty non-nil collections, is truthy.
func Truthy(value any) bool {
	if isNil(value) {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	}
	if n, ok := Numeric(value); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Numeric converts any Go integer or float to float64. Strings are not
// parsed.
func Numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// toNumber coerces loosely: nil, "" and false are 0, true is 1, numeric
// strings parse, anything else is NaN so every comparison fails.
func toNumber(value any) float64 {
	if isNil(value) {
		return 0
	}
	if n, ok := Numeric(value); ok {
		return n
	}
	switch v := value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func stringify(value any) string {
	if isNil(value) {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(value)
	}
}
