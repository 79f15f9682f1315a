package options

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/model"
)

func TestHTTPSource_MapsResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("active") != "true" {
			http.Error(w, "missing param", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"items":[
			{"id":1,"attrs":{"name":"Alpha"}},
			{"id":2,"attrs":{}},
			{"attrs":{"name":"NoID"}}
		]}}`))
	}))
	defer srv.Close()

	got, err := NewHTTPSource(srv.Client()).Fetch(context.Background(), model.OptionSource{
		URL:         srv.URL,
		ResultsPath: "data.items",
		LabelField:  "attrs.name",
		ValueField:  "id",
		Params:      map[string]string{"active": "true"},
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := []model.Option{{Label: "Alpha", Value: "1"}, {Label: "2", Value: "2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSource_StatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewHTTPSource(srv.Client()).Fetch(context.Background(), model.OptionSource{URL: srv.URL}); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestRouterAndStatic(t *testing.T) {
	t.Parallel()

	r := Router{Static: Static{"colors": {{Label: "Red", Value: "red"}}}}
	got, err := r.Fetch(context.Background(), model.OptionSource{Name: "colors"})
	if err != nil || len(got) != 1 || got[0].Value != "red" {
		t.Fatalf("unexpected static result %v (%v)", got, err)
	}
	if _, err := r.Fetch(context.Background(), model.OptionSource{Name: "sizes"}); !errors.Is(err, ErrUnknownStatic) {
		t.Fatalf("expected ErrUnknownStatic, got %v", err)
	}
	if _, err := r.Fetch(context.Background(), model.OptionSource{URL: "http://x"}); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestCached_FetchesOncePerKey(t *testing.T) {
	t.Parallel()

	var calls int32
	src := SourceFunc(func(context.Context, model.OptionSource) ([]model.Option, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("boom")
		}
		return []model.Option{{Label: "x", Value: "x"}}, nil
	})
	cached := NewCached(src)
	desc := model.OptionSource{Name: "broken"}

	if _, err := cached.Fetch(context.Background(), desc); err == nil {
		t.Fatalf("first fetch should surface the error")
	}
	got, err := cached.Fetch(context.Background(), desc)
	if err != nil || len(got) != 0 {
		t.Fatalf("failed fetch should be cached as empty, got %v (%v)", got, err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
}
