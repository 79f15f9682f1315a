// Package indicator renders the wizard step indicator outside of a live
// adapter: as an HTML fragment through pongo2 templates, or as a single line
// of plain text for terminals and logs.
package indicator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formdialog/pkg/steps"
)

// DefaultTemplate is the template name rendered by HTML.
const DefaultTemplate = "steps.tpl"

//go:embed templates/*
var embeddedTemplates embed.FS

// EmbeddedFS returns the bundled templates.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	name      string
}

// WithFS loads templates from files instead of the bundled set.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplate selects the template rendered by HTML.
func WithTemplate(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// Renderer renders markers to HTML. It is safe for concurrent use.
type Renderer struct {
	mu   sync.RWMutex
	tmpl *pongo2.Template
}

// New compiles the configured template.
func New(opts ...Option) (*Renderer, error) {
	cfg := &config{templates: EmbeddedFS(), name: DefaultTemplate}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	set := pongo2.NewSet("formdialog-indicator", pongo2.NewFSLoader(cfg.templates))
	tmpl, err := set.FromFile(cfg.name)
	if err != nil {
		return nil, fmt.Errorf("indicator: load template %q: %w", cfg.name, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// HTML renders the markers. Labels are stripped of markup before they
// reach the template.
func (r *Renderer) HTML(markers []steps.Marker) (string, error) {
	if r == nil || r.tmpl == nil {
		return "", errors.New("indicator: renderer is nil")
	}

	items := make([]pongo2.Context, 0, len(markers))
	for _, m := range markers {
		missing := make([]string, 0, len(m.Missing))
		for _, label := range m.Missing {
			if clean := sanitize(label); clean != "" {
				missing = append(missing, clean)
			}
		}
		items = append(items, pongo2.Context{
			"index":   m.Index,
			"label":   pongo2.AsSafeValue(sanitize(m.Label)),
			"state":   string(m.State),
			"missing": pongo2.AsSafeValue(strings.Join(missing, ", ")),
		})
	}

	var buf bytes.Buffer
	r.mu.RLock()
	err := r.tmpl.ExecuteWriter(pongo2.Context{"markers": items}, &buf)
	r.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("indicator: execute template: %w", err)
	}
	return buf.String(), nil
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
	defaultErr      error
)

// HTML renders markers with the bundled template.
func HTML(markers []steps.Marker) (string, error) {
	defaultOnce.Do(func() {
		defaultRenderer, defaultErr = New()
	})
	if defaultErr != nil {
		return "", defaultErr
	}
	return defaultRenderer.HTML(markers)
}

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitize strips every tag, dropping script and style content, and returns
// escaped text.
func sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(labelPolicy.Sanitize(trimmed))
}
