package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStore_SetAndGet(t *testing.T) {
	t.Parallel()

	s := New(map[string]any{"name": "", "tags": []any{"a"}})

	changed, err := s.Set("name", "abc")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !changed {
		t.Fatalf("expected change to be reported")
	}
	if got, _ := s.Get("name"); got != "abc" {
		t.Fatalf("expected abc, got %#v", got)
	}

	changed, err = s.Set("name", "abc")
	if err != nil || changed {
		t.Fatalf("re-setting the same value should not report a change (changed=%v err=%v)", changed, err)
	}

	changed, _ = s.Set("tags", []any{"a"})
	if changed {
		t.Fatalf("equal slices should not report a change")
	}
}

func TestStore_RejectsUnknownField(t *testing.T) {
	t.Parallel()

	s := New(map[string]any{"a": 1})
	if _, err := s.Set("ghost", 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestStore_SnapshotIsDetached(t *testing.T) {
	t.Parallel()

	seed := map[string]any{"nested": map[string]any{"k": "v"}}
	s := New(seed)
	seed["nested"].(map[string]any)["k"] = "mutated"

	snap := s.Snapshot()
	snap["nested"].(map[string]any)["k"] = "changed"

	want := map[string]any{"nested": map[string]any{"k": "v"}}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Fatalf("store leaked mutation (-want +got):\n%s", diff)
	}
}

func TestStore_ErrorsTouchedAndSetters(t *testing.T) {
	t.Parallel()

	s := New(map[string]any{"email": ""})
	s.SetError("email", "required")
	if s.Error("email") != "required" {
		t.Fatalf("error not recorded")
	}
	s.SetError("email", "")
	if len(s.Errors()) != 0 {
		t.Fatalf("empty reason should clear the error")
	}

	if s.Touched("email") {
		t.Fatalf("fields start pristine")
	}
	s.Touch("email")
	if !s.Touched("email") {
		t.Fatalf("touch not recorded")
	}

	var pushed any
	s.Register("email", func(v any) { pushed = v })
	setter, ok := s.Setter("email")
	if !ok {
		t.Fatalf("setter not registered")
	}
	setter("x@y.z")
	if pushed != "x@y.z" {
		t.Fatalf("setter not invoked, got %#v", pushed)
	}

	s.Reset()
	if s.Has("email") {
		t.Fatalf("reset should discard values")
	}
	if _, ok := s.Setter("email"); ok {
		t.Fatalf("reset should discard setters")
	}
}
