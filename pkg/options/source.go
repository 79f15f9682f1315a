// Package options resolves option lists for select-like fields while a dialog
// is rendering.
package options

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formdialog/pkg/model"
)

var (
	// ErrNoSource is returned when no source can serve a descriptor.
	ErrNoSource = errors.New("options: no source for descriptor")
	// ErrUnknownStatic is returned by Static for unregistered names.
	ErrUnknownStatic = errors.New("options: unknown static source")
)

// Source fetches label/value pairs for a descriptor.
type Source interface {
	Fetch(ctx context.Context, desc model.OptionSource) ([]model.Option, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(ctx context.Context, desc model.OptionSource) ([]model.Option, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, desc model.OptionSource) ([]model.Option, error) {
	return f(ctx, desc)
}

// Static serves fixed option lists by descriptor name.
type Static map[string][]model.Option

// Fetch returns a copy of the named list.
func (s Static) Fetch(ctx context.Context, desc model.OptionSource) ([]model.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, ok := s[desc.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatic, desc.Name)
	}
	return append([]model.Option(nil), opts...), nil
}

// Router sends URL descriptors to HTTP and named descriptors to Static.
type Router struct {
	Static Static
	HTTP   Source
}

// Fetch dispatches on the descriptor shape.
func (r Router) Fetch(ctx context.Context, desc model.OptionSource) ([]model.Option, error) {
	switch {
	case desc.URL != "" && r.HTTP != nil:
		return r.HTTP.Fetch(ctx, desc)
	case desc.Name != "" && r.Static != nil:
		return r.Static.Fetch(ctx, desc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoSource, desc.Key())
	}
}

// Cached memoises results per descriptor key. A failed fetch is cached as an
// empty list so one dialog never retries the same broken source.
type Cached struct {
	src   Source
	mu    sync.Mutex
	cache map[string][]model.Option
}

// NewCached wraps src with a fresh cache.
func NewCached(src Source) *Cached {
	return &Cached{src: src, cache: make(map[string][]model.Option)}
}

// Fetch returns the cached list or fetches it.
func (c *Cached) Fetch(ctx context.Context, desc model.OptionSource) ([]model.Option, error) {
	key := desc.Key()
	c.mu.Lock()
	opts, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return append([]model.Option(nil), opts...), nil
	}

	opts, err := c.src.Fetch(ctx, desc)
	c.mu.Lock()
	if err != nil {
		c.cache[key] = nil
	} else {
		c.cache[key] = opts
	}
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return append([]model.Option(nil), opts...), nil
}
