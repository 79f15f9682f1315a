// Package openapi derives dialog definitions from OpenAPI 3 documents. Each
// operation with a request body can be turned into a dialog whose fields
// mirror the body schema: object properties become fields, nested objects
// become groups, enums become selects and schema constraints carry over.
//
// Properties may carry an "x-formdialog" extension to override the derived
// field (kind, label, placeholder, step, order, optionSource, visibleWhen,
// requiredWhen).
package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrEmptyDocument is returned for an empty payload.
	ErrEmptyDocument = errors.New("openapi: document payload is empty")
	// ErrOperationNotFound is returned for an unknown operation id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when an operation has no usable body schema.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
)

// Option customises loading and conversion.
type Option func(*options)

type options struct {
	validate     bool
	externalRefs bool
	submitLabel  string
	cancelLabel  string
}

// WithValidation validates the document after loading.
func WithValidation() Option {
	return func(o *options) { o.validate = true }
}

// WithExternalRefs allows $ref values pointing outside the document.
func WithExternalRefs() Option {
	return func(o *options) { o.externalRefs = true }
}

// WithButtonLabels overrides the submit and cancel button labels.
func WithButtonLabels(submit, cancel string) Option {
	return func(o *options) {
		if submit != "" {
			o.submitLabel = submit
		}
		if cancel != "" {
			o.cancelLabel = cancel
		}
	}
}

// Operation summarises one path operation.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
	HasBody bool

	op *openapi3.Operation
}

// Document is a loaded OpenAPI document.
type Document struct {
	spec *openapi3.T
	ops  map[string]Operation
	opts options
}

// Load parses an OpenAPI document from JSON or YAML.
func Load(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}

	cfg := options{submitLabel: "Submit", cancelLabel: "Cancel"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	doc := &Document{spec: spec, ops: make(map[string]Operation), opts: cfg}
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				doc.collect(method, path, op)
			}
		}
	}
	return doc, nil
}

// LoadFile reads name from fsys and loads it.
func LoadFile(ctx context.Context, fsys fs.FS, name string, opts ...Option) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return Load(ctx, data, opts...)
}

func (d *Document) collect(method, path string, op *openapi3.Operation) {
	if op == nil {
		return
	}
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	d.ops[id] = Operation{
		ID:      id,
		Method:  strings.ToUpper(method),
		Path:    path,
		Summary: op.Summary,
		HasBody: requestSchema(op) != nil,
		op:      op,
	}
}

// Title returns the document's info title.
func (d *Document) Title() string {
	if d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// Operations lists every operation sorted by id.
func (d *Document) Operations() []Operation {
	out := make([]Operation, 0, len(d.ops))
	for _, op := range d.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Operation looks up an operation by id.
func (d *Document) Operation(id string) (Operation, bool) {
	op, ok := d.ops[id]
	return op, ok
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}
