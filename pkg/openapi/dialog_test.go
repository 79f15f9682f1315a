package openapi

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdialog/pkg/config"
	"github.com/goliatone/go-formdialog/pkg/model"
)

const petstore = `
openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: ok
    post:
      operationId: createPet
      summary: Create pet
      requestBody:
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Pet"
      responses:
        "201":
          description: created
  /owners:
    put:
      summary: Register owner
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email]
              properties:
                email:
                  type: string
                  format: email
                  x-formdialog:
                    step: Contact
                    order: 0
                phone:
                  type: string
                  format: phone
                  x-formdialog:
                    step: Contact
                newsletter:
                  type: boolean
                  x-formdialog:
                    step: Preferences
                    order: 1
                topics:
                  type: array
                  items:
                    type: string
                    enum: [news, offers]
                  x-formdialog:
                    step: Preferences
                    order: 2
                    visibleWhen:
                      field: newsletter
                      operator: truthy
      responses:
        "204":
          description: done
components:
  schemas:
    Pet:
      type: object
      required: [name, species]
      properties:
        id:
          type: integer
          readOnly: true
        name:
          type: string
          title: Pet name
          minLength: 2
          maxLength: 40
        species:
          type: string
          enum: [cat, dog]
        age:
          type: integer
          minimum: 0
          maximum: 40
        notes:
          type: string
          x-formdialog:
            kind: textarea
            placeholder: Anything else?
        tags:
          type: array
          items:
            type: string
        owner:
          $ref: "#/components/schemas/Owner"
    Owner:
      type: object
      properties:
        homepage:
          type: string
          format: uri
        pet:
          $ref: "#/components/schemas/Pet"
`

func load(t *testing.T, opts ...Option) *Document {
	t.Helper()
	doc, err := Load(context.Background(), []byte(petstore), opts...)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return doc
}

func ids(fields []model.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.ID)
	}
	return out
}

func TestLoad_Operations(t *testing.T) {
	t.Parallel()

	doc := load(t)
	if doc.Title() != "Pets" {
		t.Fatalf("unexpected title %q", doc.Title())
	}

	var got []string
	for _, op := range doc.Operations() {
		got = append(got, op.ID)
	}
	want := []string{"createPet", "listPets", "put:/owners"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}

	list, _ := doc.Operation("listPets")
	if list.HasBody || list.Method != "GET" {
		t.Fatalf("unexpected listPets summary: %+v", list)
	}
	create, _ := doc.Operation("createPet")
	if !create.HasBody || create.Path != "/pets" {
		t.Fatalf("unexpected createPet summary: %+v", create)
	}
}

func TestDefinition_MapsRequestBody(t *testing.T) {
	t.Parallel()

	def, err := load(t).Definition("createPet")
	if err != nil {
		t.Fatalf("definition: %v", err)
	}
	if def.Title != "Create pet" || len(def.Steps) != 0 {
		t.Fatalf("expected flat dialog titled from summary, got %q with %d steps", def.Title, len(def.Steps))
	}

	wantOrder := []string{"name", "species", "age", "notes", "owner"}
	if diff := cmp.Diff(wantOrder, ids(def.Fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	name := def.Fields[0]
	if name.Kind != model.KindText || !name.Required || name.Label != "Pet name" {
		t.Fatalf("unexpected name field: %+v", name)
	}
	if name.Constraints.MinLength == nil || *name.Constraints.MinLength != 2 || *name.Constraints.MaxLength != 40 {
		t.Fatalf("length constraints not carried: %+v", name.Constraints)
	}

	species := def.Fields[1]
	wantOptions := []model.Option{{Label: "cat", Value: "cat"}, {Label: "dog", Value: "dog"}}
	if species.Kind != model.KindSelect {
		t.Fatalf("enum should map to select, got %q", species.Kind)
	}
	if diff := cmp.Diff(wantOptions, species.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	age := def.Fields[2]
	if age.Kind != model.KindNumber || age.Constraints.Min == nil || *age.Constraints.Max != 40 {
		t.Fatalf("unexpected age field: %+v", age)
	}

	notes := def.Fields[3]
	if notes.Kind != model.KindTextArea || notes.Placeholder != "Anything else?" {
		t.Fatalf("extension overrides not applied: %+v", notes)
	}

	owner := def.Fields[4]
	if owner.Kind != model.KindGroup {
		t.Fatalf("nested object should map to group, got %q", owner.Kind)
	}
	if diff := cmp.Diff([]string{"owner.homepage"}, ids(owner.Children)); diff != "" {
		t.Fatalf("cyclic reference should be cut (-want +got):\n%s", diff)
	}
	if owner.Children[0].Kind != model.KindURL {
		t.Fatalf("uri format should map to url, got %q", owner.Children[0].Kind)
	}

	var buttons []string
	for _, b := range def.Buttons {
		buttons = append(buttons, b.ID+":"+b.Action)
	}
	if diff := cmp.Diff([]string{"cancel:cancel", "submit:submit"}, buttons); diff != "" {
		t.Fatalf("buttons mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinition_StepsFromExtension(t *testing.T) {
	t.Parallel()

	def, err := load(t, WithButtonLabels("Register", "")).Definition("put:/owners")
	if err != nil {
		t.Fatalf("definition: %v", err)
	}
	if len(def.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(def.Steps))
	}
	if def.Steps[0].Label != "Contact" || def.Steps[1].ID != "preferences" {
		t.Fatalf("unexpected steps: %+v", def.Steps)
	}
	if diff := cmp.Diff([]string{"email", "phone"}, ids(def.Steps[0].Fields)); diff != "" {
		t.Fatalf("contact fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"newsletter", "topics"}, ids(def.Steps[1].Fields)); diff != "" {
		t.Fatalf("preference fields mismatch (-want +got):\n%s", diff)
	}

	topics := def.Steps[1].Fields[1]
	if topics.Kind != model.KindMultiSelect || topics.VisibleWhen == nil || topics.VisibleWhen.Field != "newsletter" {
		t.Fatalf("unexpected topics field: %+v", topics)
	}
	if def.Steps[0].Fields[1].Kind != model.KindPhone {
		t.Fatalf("phone format should map to phone kind")
	}

	last := def.Buttons[len(def.Buttons)-1]
	if last.Label != "Register" || def.Buttons[0].Action != config.ActionPrevious {
		t.Fatalf("unexpected wizard buttons: %+v", def.Buttons)
	}
}

func TestDialog_BuildsValidDefinition(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"api.yaml": &fstest.MapFile{Data: []byte(petstore)}}
	doc, err := LoadFile(context.Background(), fsys, "api.yaml")
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	def, err := doc.Dialog("put:/owners")
	if err != nil {
		t.Fatalf("dialog: %v", err)
	}
	for _, b := range def.Buttons {
		if b.Callback == nil {
			t.Fatalf("button %q has no callback", b.Key())
		}
	}
}

func TestDefinition_Errors(t *testing.T) {
	t.Parallel()

	doc := load(t)
	if _, err := doc.Definition("deletePet"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := doc.Definition("listPets"); !errors.Is(err, ErrNoRequestBody) {
		t.Fatalf("expected ErrNoRequestBody, got %v", err)
	}
	if _, err := Load(context.Background(), []byte("  ")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := Load(context.Background(), []byte("openapi: [")); err == nil {
		t.Fatalf("expected parse error")
	}
}
