package model

import (
	"errors"
	"testing"
)

func TestKindsAreClassified(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		if _, err := kind.Class(); err != nil {
			t.Fatalf("kind %q has no class: %v", kind, err)
		}
	}
}

func TestKindContainers(t *testing.T) {
	t.Parallel()

	if !KindGroup.IsContainer() || !KindTabs.IsContainer() {
		t.Fatalf("group and tabs must be containers")
	}
	if KindText.IsContainer() || Kind("").IsContainer() {
		t.Fatalf("text and empty kinds are not containers")
	}
	if _, err := Kind("carousel").Class(); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if Kind("").OrDefault() != KindText {
		t.Fatalf("empty kind should default to text")
	}
}

func TestOptionSourceKeyIsStable(t *testing.T) {
	t.Parallel()

	a := OptionSource{URL: "https://api/x", Method: "get", Params: map[string]string{"b": "2", "a": "1"}}
	b := OptionSource{URL: "https://api/x", Method: "GET", Params: map[string]string{"a": "1", "b": "2"}}
	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys, got %q and %q", a.Key(), b.Key())
	}
}

func TestButtonDefaults(t *testing.T) {
	t.Parallel()

	off := false
	if !(Button{}).AllSteps() {
		t.Fatalf("validateAllSteps should default to true")
	}
	if (Button{ValidateAllSteps: &off}).AllSteps() {
		t.Fatalf("explicit false must be honoured")
	}
	if got := (Button{Label: "Save"}).Key(); got != "Save" {
		t.Fatalf("expected label fallback, got %q", got)
	}
}
