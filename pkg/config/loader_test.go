package config

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/model"
)

func TestLoadFS_Testdata(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"confirm_delete", "contact", "rename", "signup"}, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if store.Source("rename") != "nested/admin.yml" {
		t.Fatalf("unexpected source %q", store.Source("rename"))
	}

	signup, ok := store.Dialog("signup")
	if !ok {
		t.Fatalf("signup missing")
	}
	if !signup.Wizard() || len(signup.Steps) != 2 || signup.Steps[1].Size != "lg" {
		t.Fatalf("unexpected signup steps %+v", signup.Steps)
	}
	topics := signup.Steps[1].Fields[0].Children[1]
	if topics.VisibleWhen == nil || topics.VisibleWhen.Operator != model.OpTruthy {
		t.Fatalf("condition not decoded: %+v", topics.VisibleWhen)
	}
	if topics.OptionSource == nil || topics.OptionSource.Name != "topics" {
		t.Fatalf("option source not decoded: %+v", topics.OptionSource)
	}
	for _, b := range signup.Buttons {
		if b.Callback == nil {
			t.Fatalf("button %q has no callback", b.Key())
		}
	}

	contact, _ := store.Dialog("contact")
	if contact.Fields[0].Constraints.MaxLength == nil || *contact.Fields[0].Constraints.MaxLength != 40 {
		t.Fatalf("constraints not decoded from JSON")
	}
	if contact.Buttons[1].AllSteps() {
		t.Fatalf("validateAllSteps=false must survive decoding")
	}
}

func TestActions(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	signup, _ := store.Dialog("signup")

	ctrl := &fakeController{}
	keep, err := signup.Buttons[1].Callback(context.Background(), ctrl)
	if err != nil || keep || ctrl.next != 1 {
		t.Fatalf("next action must advance and veto close (keep=%v next=%d err=%v)", keep, ctrl.next, err)
	}
	keep, _ = signup.Buttons[0].Callback(context.Background(), ctrl)
	if keep || ctrl.prev != 1 {
		t.Fatalf("previous action must go back and veto close")
	}
	keep, _ = signup.Buttons[2].Callback(context.Background(), ctrl)
	if !keep {
		t.Fatalf("default submit action must resolve")
	}
}

func TestWithAction(t *testing.T) {
	t.Parallel()

	var called bool
	def, err := Parse([]byte(`
title: Export
fields: [{id: path}]
buttons: [{label: Export, action: export}]
`), WithAction("export", func(context.Context, model.Controller) (bool, error) {
		called = true
		return true, nil
	}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := def.Buttons[0].Callback(context.Background(), &fakeController{}); err != nil || !called {
		t.Fatalf("custom action not wired")
	}

	_, err = Parse([]byte(`{"fields":[{"id":"a"}],"buttons":[{"label":"X","action":"launch"}]}`))
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		fs   fstest.MapFS
		want error
	}{
		"duplicate dialog": {
			fs: fstest.MapFS{
				"a/form.yaml": {Data: []byte("fields: [{id: x}]")},
				"b/form.json": {Data: []byte(`{"fields":[{"id":"y"}]}`)},
			},
			want: ErrDuplicateDialog,
		},
		"invalid definition": {
			fs: fstest.MapFS{
				"bad.yaml": {Data: []byte("fields: [{id: x}, {id: x}]")},
			},
			want: model.ErrInvalidConfig,
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadFS(tc.fs); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	store, err := LoadFS(fstest.MapFS{"notes.txt": {Data: []byte("ignored")}})
	if err != nil || !store.Empty() {
		t.Fatalf("non-config files must be ignored (err=%v)", err)
	}
	if _, err := Parse([]byte("   ")); err == nil {
		t.Fatalf("empty document must fail")
	}
}

type fakeController struct {
	next, prev int
}

func (f *fakeController) FieldValue(string) (any, error)  { return nil, nil }
func (f *fakeController) SetFieldValue(string, any) error { return nil }
func (f *fakeController) Values() map[string]any          { return nil }
func (f *fakeController) CurrentStep() int                { return 1 }
func (f *fakeController) Next() error                     { f.next++; return nil }
func (f *fakeController) Previous() error                 { f.prev++; return nil }
