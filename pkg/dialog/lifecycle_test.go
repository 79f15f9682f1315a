package dialog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formdialog/pkg/gating"
	"github.com/goliatone/go-formdialog/pkg/model"
	"github.com/goliatone/go-formdialog/pkg/options"
	"github.com/goliatone/go-formdialog/pkg/render"
)

func TestClick_VetoAndPreventClose(t *testing.T) {
	t.Parallel()

	var applied int
	h := open(t, model.Dialog{
		Fields: []model.Field{{ID: "name"}},
		Buttons: []model.Button{
			{ID: "veto", Label: "Veto", Callback: func(context.Context, model.Controller) (bool, error) {
				return false, nil
			}},
			{ID: "apply", Label: "Apply", PreventClose: true, Callback: func(_ context.Context, c model.Controller) (bool, error) {
				applied++
				return true, c.SetFieldValue("name", "applied")
			}},
			{ID: "fail", Label: "Fail", Callback: func(context.Context, model.Controller) (bool, error) {
				return true, errors.New("boom")
			}},
		},
	})

	if err := h.d.Click(context.Background(), "veto"); err != nil {
		t.Fatalf("veto click: %v", err)
	}
	if err := h.d.Click(context.Background(), "Apply"); err != nil {
		t.Fatalf("apply click: %v", err)
	}
	if err := h.d.Click(context.Background(), "fail"); err == nil {
		t.Fatalf("expected callback error to surface")
	}
	if h.d.State() != StateShown || applied != 1 {
		t.Fatalf("dialog must stay open, state=%s applied=%d", h.d.State(), applied)
	}
	if v, _ := h.d.FieldValue("name"); v != "applied" {
		t.Fatalf("callback must reach the controller, got %#v", v)
	}
	if h.adapter.button("veto").Disabled {
		t.Fatalf("buttons must re-enable after the callback settles")
	}
}

func TestClose_WithoutResolution(t *testing.T) {
	t.Parallel()

	h := open(t, model.Dialog{Fields: []model.Field{{ID: "name", Value: "x"}}})
	h.d.Close()

	if _, err := h.d.Wait(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := h.d.FieldValue("name"); !errors.Is(err, ErrClosed) {
		t.Fatalf("queries after close must fail, got %v", err)
	}
	if len(h.d.Values()) != 0 {
		t.Fatalf("store must be discarded at close")
	}
	if err := h.d.Open(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("reopening must fail, got %v", err)
	}
	h.d.Close()
}

func TestClose_FallbackTimer(t *testing.T) {
	t.Parallel()

	h := harness{adapter: newRecordingAdapter(), sched: gating.NewManualScheduler()}
	h.adapter.dropClose = true
	d, err := New(model.Dialog{Fields: []model.Field{{ID: "a"}}}, WithAdapter(h.adapter), WithScheduler(h.sched), WithCloseTimeout(time.Second))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	d.Close()
	if d.State() != StateClosing {
		t.Fatalf("expected closing while the exit transition runs, got %s", d.State())
	}
	h.sched.Advance(500 * time.Millisecond)
	if d.State() != StateClosing {
		t.Fatalf("teardown must wait for the timeout")
	}
	h.sched.Advance(500 * time.Millisecond)
	if d.State() != StateClosed {
		t.Fatalf("fallback timer must force teardown, got %s", d.State())
	}
	select {
	case <-d.Done():
	default:
		t.Fatalf("done must be closed after teardown")
	}
}

func TestOpen_OptionSourceFailureDegrades(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	src := options.Router{Static: options.Static{
		"colors": {{Label: "Red", Value: "red"}},
	}}
	h := open(t, model.Dialog{Fields: []model.Field{
		{ID: "color", Kind: model.KindSelect, OptionSource: &model.OptionSource{Name: "colors"}},
		{ID: "size", Kind: model.KindSelect, OptionSource: &model.OptionSource{Name: "sizes"}},
		{ID: "fixed", Kind: model.KindSelect, Options: []model.Option{{Label: "A", Value: "a"}}},
	}}, WithOptionSource(src), WithLogger(zap.New(core)))

	if diff := cmp.Diff([]model.Option{{Label: "Red", Value: "red"}}, h.d.Options("color")); diff != "" {
		t.Fatalf("color options mismatch (-want +got):\n%s", diff)
	}
	if got := h.d.Options("size"); len(got) != 0 {
		t.Fatalf("failed source must degrade to an empty list, got %v", got)
	}
	if got := h.d.Options("fixed"); len(got) != 1 {
		t.Fatalf("static options must be kept, got %v", got)
	}
	if logs.FilterMessage("option source failed, using empty list").Len() != 1 {
		t.Fatalf("expected one warning for the failed source, got %v", logs.All())
	}
	if h.d.State() != StateShown {
		t.Fatalf("fetch failure must not abort the dialog")
	}
}

func TestOpen_DiscardsFetchAfterClose(t *testing.T) {
	t.Parallel()

	fetching := make(chan struct{})
	release := make(chan struct{})
	src := options.SourceFunc(func(ctx context.Context, _ model.OptionSource) ([]model.Option, error) {
		close(fetching)
		<-release
		return []model.Option{{Label: "late", Value: "late"}}, nil
	})
	adapter := newRecordingAdapter()
	d, err := New(model.Dialog{Fields: []model.Field{
		{ID: "pick", Kind: model.KindSelect, OptionSource: &model.OptionSource{Name: "slow"}},
	}}, WithAdapter(adapter), WithOptionSource(src), WithScheduler(gating.NewManualScheduler()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	openErr := make(chan error, 1)
	go func() { openErr <- d.Open(context.Background()) }()
	<-fetching
	d.Close()
	close(release)

	if err := <-openErr; !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from an open interrupted by close, got %v", err)
	}
	if got := d.Options("pick"); len(got) != 0 {
		t.Fatalf("late results must be discarded, got %v", got)
	}
	if len(adapter.changes) != 0 {
		t.Fatalf("no field may render after close")
	}
}

func TestOpen_ParentFallback(t *testing.T) {
	t.Parallel()

	adapter := newRecordingAdapter()
	adapter.mountErr = func(parent any) error {
		if parent != nil {
			return render.ErrParentUnavailable
		}
		return nil
	}
	d, err := New(model.Dialog{Fields: []model.Field{{ID: "a"}}}, WithAdapter(adapter), WithParent("frame-1"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("parent failure must not be fatal: %v", err)
	}
	if diff := cmp.Diff([]any{"frame-1", nil}, adapter.mounts); diff != "" {
		t.Fatalf("mount attempts mismatch (-want +got):\n%s", diff)
	}
	d.Close()
}

func TestButtonController_Chain(t *testing.T) {
	t.Parallel()

	h := open(t, model.Dialog{
		Fields: []model.Field{{ID: "a"}},
		Buttons: []model.Button{
			{ID: "save", Label: "Save", Callback: accept, Primary: true},
			{Label: "Cancel", Callback: accept},
		},
	})

	h.d.Button("save").SetLabel("Store").Disable().Hide()
	want := render.ButtonState{ID: "save", Label: "Store", Disabled: true, Hidden: true, Primary: true}
	if diff := cmp.Diff(want, h.adapter.button("save")); diff != "" {
		t.Fatalf("button state mismatch (-want +got):\n%s", diff)
	}
	if err := h.d.Click(context.Background(), "save"); !errors.Is(err, ErrButtonDisabled) {
		t.Fatalf("expected ErrButtonDisabled, got %v", err)
	}

	h.d.Button("Store").Show().Enable()
	if h.d.ButtonAt(0).State().Disabled {
		t.Fatalf("lookup by current label and index must reach the same button")
	}

	if err := h.d.Button("missing").SetLabel("x").Err(); !errors.Is(err, ErrUnknownButton) {
		t.Fatalf("expected ErrUnknownButton, got %v", err)
	}
	if err := h.d.ButtonAt(5).Err(); !errors.Is(err, ErrUnknownButton) {
		t.Fatalf("expected ErrUnknownButton for bad index, got %v", err)
	}

	if err := h.d.ButtonAt(1).Click(context.Background()); err != nil {
		t.Fatalf("cancel click: %v", err)
	}
	resp, err := h.d.Wait(context.Background())
	if err != nil || resp.Button != "Cancel" {
		t.Fatalf("expected Cancel resolution, got %+v (%v)", resp, err)
	}
}

func TestShow_ResolvesFromAnotherGoroutine(t *testing.T) {
	t.Parallel()

	d, err := New(model.Dialog{
		Fields:  []model.Field{{ID: "name", Required: true}},
		Buttons: []model.Button{{ID: "ok", Label: "OK", Callback: accept, RequiresValidation: true}},
	}, WithDebounce(time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		for d.State() != StateShown {
			time.Sleep(time.Millisecond)
		}
		_ = d.SetFieldValue("name", "Ada")
		d.Flush()
		for errors.Is(d.Click(ctx, "ok"), ErrButtonDisabled) {
			time.Sleep(time.Millisecond)
		}
	}()

	resp, err := d.Show(ctx)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if resp.Button != "ok" || resp.Data["name"] != "Ada" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestClick_BeforeOpen(t *testing.T) {
	t.Parallel()

	d, err := New(model.Dialog{Buttons: []model.Button{{Label: "OK", Callback: accept}}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := d.Click(context.Background(), "OK"); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
	if err := d.Next(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
}

func TestClick_GatingIsCurrentInsideDebounceWindow(t *testing.T) {
	t.Parallel()

	h := open(t, model.Dialog{
		Fields:  []model.Field{{ID: "name", Required: true}},
		Buttons: []model.Button{{ID: "ok", Label: "OK", Callback: accept, RequiresValidation: true}},
	})
	h.adapter.edit("name", "Ada")
	h.settle()
	if h.d.Button("ok").State().Disabled {
		t.Fatalf("OK should be enabled once name is filled")
	}

	// Cleared but not yet re-gated.
	h.adapter.edit("name", "")
	if err := h.d.Click(context.Background(), "ok"); !errors.Is(err, ErrButtonDisabled) {
		t.Fatalf("expected ErrButtonDisabled inside the debounce window, got %v", err)
	}
	if !h.adapter.button("ok").Disabled {
		t.Fatalf("refused click should push the disabled state")
	}
	if h.d.State() != StateShown {
		t.Fatalf("dialog must stay open, got %s", h.d.State())
	}

	// Filled again, still inside the window.
	h.adapter.edit("name", "Grace")
	if err := h.d.Click(context.Background(), "ok"); err != nil {
		t.Fatalf("click: %v", err)
	}
	resp, err := h.d.Wait(context.Background())
	if err != nil || resp.Data["name"] != "Grace" {
		t.Fatalf("unexpected response %+v, err %v", resp, err)
	}
}

func TestClick_NoSecondActivationAfterResolution(t *testing.T) {
	t.Parallel()

	var firstReturned, secondRan, tried bool
	var secondErr error
	h := open(t, model.Dialog{
		Buttons: []model.Button{
			{ID: "first", Label: "First", Callback: func(context.Context, model.Controller) (bool, error) {
				firstReturned = true
				return true, nil
			}},
			{ID: "second", Label: "Second", Callback: func(context.Context, model.Controller) (bool, error) {
				secondRan = true
				return true, nil
			}},
		},
	})
	h.adapter.mu.Lock()
	h.adapter.dropClose = true
	h.adapter.onButton = func(render.ButtonState) {
		if firstReturned && !tried {
			tried = true
			secondErr = h.d.Click(context.Background(), "second")
		}
	}
	h.adapter.mu.Unlock()

	if err := h.d.Click(context.Background(), "first"); err != nil {
		t.Fatalf("first click: %v", err)
	}
	if tried && secondErr == nil {
		t.Fatalf("a click between resolution and close must fail")
	}
	if h.d.State() != StateClosing {
		t.Fatalf("expected closing state, got %s", h.d.State())
	}
	if err := h.d.Click(context.Background(), "second"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed while closing, got %v", err)
	}
	if secondRan {
		t.Fatalf("second callback must never run")
	}
	resp, _ := h.d.Wait(context.Background())
	if resp.Button != "first" {
		t.Fatalf("expected first, got %q", resp.Button)
	}
}
