package openapi

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-formdialog/pkg/config"
	"github.com/goliatone/go-formdialog/pkg/model"
)

const extensionKey = "x-formdialog"

// fieldExtension is the decoded x-formdialog extension of one property.
type fieldExtension struct {
	Kind         model.Kind          `json:"kind"`
	Label        string              `json:"label"`
	Placeholder  string              `json:"placeholder"`
	Step         string              `json:"step"`
	Order        *int                `json:"order"`
	OptionSource *model.OptionSource `json:"optionSource"`
	VisibleWhen  *model.Condition    `json:"visibleWhen"`
	RequiredWhen *model.Condition    `json:"requiredWhen"`
}

// Definition converts the operation's request body into a dialog definition.
// Top-level properties that name a step in their extension split the dialog
// into wizard steps; the rest join the first step.
func (d *Document) Definition(operationID string) (config.Definition, error) {
	op, ok := d.ops[operationID]
	if !ok {
		return config.Definition{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	root := requestSchema(op.op)
	if root == nil {
		return config.Definition{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	title := op.Summary
	if title == "" {
		title = root.Title
	}
	def := config.Definition{Title: title}

	conv := converter{visiting: make(map[*openapi3.Schema]bool)}
	fields, stepOf, err := conv.properties(root, "")
	if err != nil {
		return config.Definition{}, fmt.Errorf("openapi: operation %q: %w", operationID, err)
	}

	steps := groupSteps(fields, stepOf)
	if len(steps) > 1 {
		def.Steps = steps
		def.Buttons = []config.ButtonDefinition{
			{ID: "back", Label: "Back", Action: config.ActionPrevious},
			{ID: "next", Label: "Next", Action: config.ActionNext, RequiresValidation: true, ValidateAllSteps: boolPtr(false)},
		}
	} else {
		def.Fields = fields
	}
	def.Buttons = append(def.Buttons,
		config.ButtonDefinition{ID: "cancel", Label: d.opts.cancelLabel, Action: config.ActionCancel},
		config.ButtonDefinition{ID: "submit", Label: d.opts.submitLabel, Action: config.ActionSubmit, Primary: true, RequiresValidation: true},
	)
	return def, nil
}

// Dialog converts the operation and resolves its button actions.
func (d *Document) Dialog(operationID string, opts ...config.Option) (model.Dialog, error) {
	def, err := d.Definition(operationID)
	if err != nil {
		return model.Dialog{}, err
	}
	return config.Build(def, opts...)
}

func groupSteps(fields []model.Field, stepOf map[string]string) []model.Step {
	var steps []model.Step
	index := make(map[string]int)
	for _, field := range fields {
		label := stepOf[field.ID]
		if label == "" {
			continue
		}
		if _, ok := index[label]; !ok {
			index[label] = len(steps)
			steps = append(steps, model.Step{ID: stepID(label), Label: label})
		}
	}
	if len(steps) == 0 {
		return nil
	}
	for _, field := range fields {
		i := index[stepOf[field.ID]]
		steps[i].Fields = append(steps[i].Fields, field)
	}
	return steps
}

func stepID(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

type converter struct {
	visiting map[*openapi3.Schema]bool
}

type property struct {
	name     string
	schema   *openapi3.Schema
	ext      fieldExtension
	required int
}

// properties converts an object schema's properties in display order:
// explicit order first, then required properties as listed, then the rest
// by name. The returned map holds the step label of each top-level field.
func (c converter) properties(schema *openapi3.Schema, prefix string) ([]model.Field, map[string]string, error) {
	if c.visiting[schema] {
		return nil, nil, nil
	}
	c.visiting[schema] = true
	defer delete(c.visiting, schema)

	requiredAt := make(map[string]int, len(schema.Required))
	for i, name := range schema.Required {
		requiredAt[name] = i
	}

	props := make([]property, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		ext, err := decodeExtension(ref.Value.Extensions)
		if err != nil {
			return nil, nil, fmt.Errorf("property %q: %w", prefix+name, err)
		}
		pos, ok := requiredAt[name]
		if !ok {
			pos = -1
		}
		props = append(props, property{name: name, schema: ref.Value, ext: ext, required: pos})
	}
	sort.Slice(props, func(i, j int) bool { return props[i].before(props[j]) })

	fields := make([]model.Field, 0, len(props))
	stepOf := make(map[string]string)
	for _, prop := range props {
		field, ok, err := c.field(prop, prefix)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		fields = append(fields, field)
		stepOf[field.ID] = prop.ext.Step
	}
	return fields, stepOf, nil
}

func (p property) before(other property) bool {
	switch {
	case p.ext.Order != nil && other.ext.Order != nil:
		if *p.ext.Order != *other.ext.Order {
			return *p.ext.Order < *other.ext.Order
		}
	case p.ext.Order != nil:
		return true
	case other.ext.Order != nil:
		return false
	}
	switch {
	case p.required >= 0 && other.required >= 0:
		return p.required < other.required
	case p.required >= 0:
		return true
	case other.required >= 0:
		return false
	}
	return p.name < other.name
}

// field maps one property. Arrays without an enumerated item type have no
// matching control and are skipped.
func (c converter) field(prop property, prefix string) (model.Field, bool, error) {
	schema := prop.schema
	field := model.Field{
		ID:           prefix + prop.name,
		Label:        firstNonEmpty(prop.ext.Label, schema.Title),
		Description:  schema.Description,
		Placeholder:  prop.ext.Placeholder,
		Value:        schema.Default,
		Required:     prop.required >= 0,
		OptionSource: prop.ext.OptionSource,
		VisibleWhen:  prop.ext.VisibleWhen,
		RequiredWhen: prop.ext.RequiredWhen,
	}

	kind := firstSchemaType(schema.Type)
	if kind == "" && len(schema.Properties) > 0 {
		kind = openapi3.TypeObject
	}

	switch kind {
	case openapi3.TypeObject:
		children, _, err := c.properties(schema, field.ID+".")
		if err != nil {
			return model.Field{}, false, err
		}
		if len(children) == 0 {
			return model.Field{}, false, nil
		}
		field.Kind = model.KindGroup
		field.Value = nil
		field.Required = false
		field.Children = children
		return field, true, nil
	case openapi3.TypeBoolean:
		field.Kind = model.KindCheckbox
	case openapi3.TypeInteger, openapi3.TypeNumber:
		field.Kind = model.KindNumber
		field.Constraints.Min = copyFloat(schema.Min)
		field.Constraints.Max = copyFloat(schema.Max)
	case openapi3.TypeArray:
		if schema.Items == nil || schema.Items.Value == nil || len(schema.Items.Value.Enum) == 0 {
			if prop.ext.OptionSource == nil {
				return model.Field{}, false, nil
			}
		} else {
			field.Options = enumOptions(schema.Items.Value.Enum)
		}
		field.Kind = model.KindMultiSelect
	default:
		field.Kind = stringKind(schema.Format)
		applyLength(&field.Constraints, schema)
	}

	if len(schema.Enum) > 0 && kind != openapi3.TypeArray {
		field.Kind = model.KindSelect
		field.Options = enumOptions(schema.Enum)
		field.Constraints = model.Constraints{}
	}
	if prop.ext.OptionSource != nil && field.Kind != model.KindMultiSelect {
		field.Kind = model.KindLookup
	}
	if prop.ext.Kind != "" {
		field.Kind = prop.ext.Kind
	}
	return field, true, nil
}

func stringKind(format string) model.Kind {
	switch strings.ToLower(format) {
	case "email", "idn-email":
		return model.KindEmail
	case "uri", "url", "iri":
		return model.KindURL
	case "date", "date-time":
		return model.KindDate
	case "password":
		return model.KindPassword
	case "phone", "tel":
		return model.KindPhone
	case "textarea", "markdown":
		return model.KindTextArea
	default:
		return model.KindText
	}
}

func applyLength(c *model.Constraints, schema *openapi3.Schema) {
	if schema.MinLength > 0 {
		c.MinLength = intPtr(schema.MinLength)
	}
	if schema.MaxLength != nil {
		c.MaxLength = intPtr(*schema.MaxLength)
	}
	c.Pattern = schema.Pattern
}

func enumOptions(values []any) []model.Option {
	out := make([]model.Option, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		text := enumString(value)
		out = append(out, model.Option{Label: text, Value: text})
	}
	return out
}

func enumString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// decodeExtension round-trips the raw extension through JSON so its nested
// maps land in typed fields.
func decodeExtension(extensions map[string]any) (fieldExtension, error) {
	var ext fieldExtension
	raw, ok := extensions[extensionKey]
	if !ok || raw == nil {
		return ext, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return ext, fmt.Errorf("encode %s: %w", extensionKey, err)
	}
	if err := json.Unmarshal(data, &ext); err != nil {
		return ext, fmt.Errorf("decode %s: %w", extensionKey, err)
	}
	return ext, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}

func intPtr(value uint64) *int {
	if value > math.MaxInt32 {
		value = math.MaxInt32
	}
	out := int(value)
	return &out
}

func boolPtr(value bool) *bool {
	return &value
}
