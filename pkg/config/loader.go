// Package config loads dialog definitions from JSON or YAML documents.
//
// A document either describes one dialog at the top level or several under
// a "dialogs" map keyed by name. Buttons name an action instead of carrying
// a callback; submit and cancel resolve the dialog, next and previous move
// between wizard steps. Callers can register more actions with WithAction.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	imodel "github.com/goliatone/go-formdialog/internal/model"
	"github.com/goliatone/go-formdialog/pkg/model"
)

var (
	// ErrUnknownAction is returned for buttons naming an unregistered action.
	ErrUnknownAction = errors.New("config: unknown button action")
	// ErrDuplicateDialog is returned when two files define the same name.
	ErrDuplicateDialog = errors.New("config: duplicate dialog")
)

// Option customises parsing.
type Option func(*loader)

// WithAction registers a named button callback, replacing a built-in one
// with the same name.
func WithAction(name string, fn model.ButtonFunc) Option {
	return func(l *loader) {
		if name != "" && fn != nil {
			l.actions[strings.ToLower(name)] = fn
		}
	}
}

type loader struct {
	actions map[string]model.ButtonFunc
}

func newLoader(opts []Option) *loader {
	l := &loader{actions: defaultActions()}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Store holds named dialog definitions.
type Store struct {
	dialogs map[string]model.Dialog
	sources map[string]string
}

// Dialog returns the named definition.
func (s *Store) Dialog(name string) (model.Dialog, bool) {
	if s == nil {
		return model.Dialog{}, false
	}
	def, ok := s.dialogs[name]
	return def, ok
}

// Source returns the file a dialog was loaded from.
func (s *Store) Source(name string) string {
	if s == nil {
		return ""
	}
	return s.sources[name]
}

// Names lists dialog names in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.dialogs))
	for name := range s.dialogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any dialogs.
func (s *Store) Empty() bool {
	return s == nil || len(s.dialogs) == 0
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file. A
// single-dialog file is named after its base name without extension. Every
// definition is validated; the first failure is returned.
func LoadFS(fsys fs.FS, opts ...Option) (*Store, error) {
	store := &Store{dialogs: make(map[string]model.Dialog), sources: make(map[string]string)}
	if fsys == nil {
		return store, nil
	}
	l := newLoader(opts)

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", p, err)
		}
		doc, err := parseDocument(data, p)
		if err != nil {
			return err
		}

		defs := doc.Dialogs
		if len(defs) == 0 {
			base := path.Base(p)
			defs = map[string]Definition{strings.TrimSuffix(base, path.Ext(base)): doc.Definition}
		}
		for rawName, raw := range defs {
			name := strings.TrimSpace(rawName)
			if _, exists := store.dialogs[name]; exists {
				return fmt.Errorf("%w: %q (file %s, first seen in %s)", ErrDuplicateDialog, name, p, store.sources[name])
			}
			def, err := l.build(raw, name, p)
			if err != nil {
				return err
			}
			store.dialogs[name] = def
			store.sources[name] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse reads a single-dialog document.
func Parse(data []byte, opts ...Option) (model.Dialog, error) {
	doc, err := parseDocument(data, "document")
	if err != nil {
		return model.Dialog{}, err
	}
	if len(doc.Dialogs) > 0 {
		return model.Dialog{}, fmt.Errorf("config: document defines %d dialogs, use LoadFS", len(doc.Dialogs))
	}
	return newLoader(opts).build(doc.Definition, "document", "document")
}

// Build resolves button actions and validates a definition built in code.
func Build(def Definition, opts ...Option) (model.Dialog, error) {
	return newLoader(opts).build(def, "definition", "code")
}

func (l *loader) build(raw Definition, name, source string) (model.Dialog, error) {
	def := model.Dialog{
		Title:               raw.Title,
		Size:                raw.Size,
		Layout:              raw.Layout,
		AllowStepNavigation: raw.AllowStepNavigation,
		Fields:              raw.Fields,
		Steps:               raw.Steps,
	}
	for i, b := range raw.Buttons {
		action := strings.ToLower(strings.TrimSpace(b.Action))
		if action == "" {
			action = ActionSubmit
		}
		fn, ok := l.actions[action]
		if !ok {
			return model.Dialog{}, fmt.Errorf("%w: %q on button %d of dialog %q (file %s)", ErrUnknownAction, b.Action, i, name, source)
		}
		def.Buttons = append(def.Buttons, model.Button{
			ID:                 b.ID,
			Label:              b.Label,
			Callback:           fn,
			Primary:            b.Primary,
			PreventClose:       b.PreventClose,
			Destructive:        b.Destructive,
			RequiresValidation: b.RequiresValidation,
			ValidateAllSteps:   b.ValidateAllSteps,
		})
	}
	if _, err := imodel.Build(def); err != nil {
		return model.Dialog{}, fmt.Errorf("config: dialog %q (file %s): %w", name, source, err)
	}
	return def, nil
}

type documentFile struct {
	Dialogs    map[string]Definition `json:"dialogs" yaml:"dialogs"`
	Definition `yaml:",inline"`
}

// Definition is the file form of one dialog. Buttons name an action instead
// of carrying a callback.
type Definition struct {
	Title               string             `json:"title,omitempty" yaml:"title,omitempty"`
	Size                string             `json:"size,omitempty" yaml:"size,omitempty"`
	Layout              map[string]any     `json:"layout,omitempty" yaml:"layout,omitempty"`
	AllowStepNavigation bool               `json:"allowStepNavigation,omitempty" yaml:"allowStepNavigation,omitempty"`
	Fields              []model.Field      `json:"fields,omitempty" yaml:"fields,omitempty"`
	Steps               []model.Step       `json:"steps,omitempty" yaml:"steps,omitempty"`
	Buttons             []ButtonDefinition `json:"buttons,omitempty" yaml:"buttons,omitempty"`
}

// ButtonDefinition is the file form of a button.
type ButtonDefinition struct {
	ID                 string `json:"id,omitempty" yaml:"id,omitempty"`
	Label              string `json:"label" yaml:"label"`
	Action             string `json:"action,omitempty" yaml:"action,omitempty"`
	Primary            bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
	PreventClose       bool   `json:"preventClose,omitempty" yaml:"preventClose,omitempty"`
	Destructive        bool   `json:"destructive,omitempty" yaml:"destructive,omitempty"`
	RequiresValidation bool   `json:"requiresValidation,omitempty" yaml:"requiresValidation,omitempty"`
	ValidateAllSteps   *bool  `json:"validateAllSteps,omitempty" yaml:"validateAllSteps,omitempty"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("config: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func isConfigFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
