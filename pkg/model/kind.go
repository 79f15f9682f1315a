package model

import (
	"errors"
	"fmt"
)

// Kind identifies the control a Field renders as.
type Kind string

const (
	KindText        Kind = "text"
	KindTextArea    Kind = "textarea"
	KindEmail       Kind = "email"
	KindURL         Kind = "url"
	KindPhone       Kind = "phone"
	KindNumber      Kind = "number"
	KindCheckbox    Kind = "checkbox"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
	KindDate        Kind = "date"
	KindPassword    Kind = "password"
	KindLookup      Kind = "lookup"

	KindGroup Kind = "group"
	KindTabs  Kind = "tabs"
)

// Class separates leaf controls from containers.
type Class int

const (
	ClassLeaf Class = iota + 1
	ClassContainer
)

// ErrUnknownKind is returned by Kind.Class for kinds outside the closed set.
var ErrUnknownKind = errors.New("model: unknown field kind")

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindText, KindTextArea, KindEmail, KindURL, KindPhone, KindNumber,
		KindCheckbox, KindSelect, KindMultiSelect, KindDate, KindPassword,
		KindLookup, KindGroup, KindTabs,
	}
}

// Class reports whether the kind is a leaf or a container. Adding a kind means
// adding it here; anything not listed is an error.
func (k Kind) Class() (Class, error) {
	switch k {
	case KindText, KindTextArea, KindEmail, KindURL, KindPhone, KindNumber,
		KindCheckbox, KindSelect, KindMultiSelect, KindDate, KindPassword, KindLookup:
		return ClassLeaf, nil
	case KindGroup, KindTabs:
		return ClassContainer, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownKind, string(k))
	}
}

// IsContainer reports whether the kind groups child fields.
func (k Kind) IsContainer() bool {
	class, err := k.Class()
	return err == nil && class == ClassContainer
}

// OrDefault maps the empty kind to KindText.
func (k Kind) OrDefault() Kind {
	if k == "" {
		return KindText
	}
	return k
}
