package openapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/openapi"
	"github.com/goliatone/go-crudgrid/pkg/schema"
)

func loadOrders(t *testing.T) *openapi.Document {
	t.Helper()
	doc, err := openapi.LoadFile(context.Background(), "testdata/orders.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return doc
}

func TestLoad(t *testing.T) {
	doc := loadOrders(t)
	if doc.Title() != "Orders API" {
		t.Fatalf("title = %q", doc.Title())
	}
	if diff := cmp.Diff([]string{"Audit", "Order"}, doc.Schemas()); diff != "" {
		t.Fatalf("schemas mismatch (-want +got):\n%s", diff)
	}

	if _, err := openapi.Load(context.Background(), nil); !errors.Is(err, openapi.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := openapi.Load(context.Background(), []byte("openapi: [")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := doc.Fields("Missing"); !errors.Is(err, openapi.ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestFields(t *testing.T) {
	fields, err := loadOrders(t).Fields("Order")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	byName := make(map[string]model.FieldDescriptor, len(fields))
	names := make([]string, len(fields))
	for i, f := range fields {
		byName[f.Name] = f
		names[i] = f.Name
	}

	wantOrder := []string{"id", "sku", "qty", "color", "contact", "createdAt", "notes", "secret", "status", "urgent"}
	if diff := cmp.Diff(wantOrder, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	wantSKU := model.FieldDescriptor{
		Name:     "sku",
		Label:    "SKU",
		Type:     model.FieldTypeText,
		Required: true,
		Validation: &model.Validation{Rules: []model.ValidationRule{
			{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "2"}},
			{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "12"}},
			{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "^[A-Z]"}},
		}},
	}
	if diff := cmp.Diff(wantSKU, byName["sku"]); diff != "" {
		t.Fatalf("sku mismatch (-want +got):\n%s", diff)
	}

	checks := []struct {
		name string
		typ  model.FieldType
	}{
		{"qty", model.FieldTypeNumber},
		{"status", model.FieldTypeSelect},
		{"notes", model.FieldTypeTextarea},
		{"createdAt", model.FieldTypeDate},
		{"urgent", model.FieldTypeCheckbox},
		{"color", "colorpicker"},
	}
	for _, c := range checks {
		if got := byName[c.name].Type; got != c.typ {
			t.Errorf("%s type = %q, want %q", c.name, got, c.typ)
		}
	}
	if !byName["id"].Disabled || byName["qty"].Required != true {
		t.Fatalf("readOnly/required not mapped: %+v %+v", byName["id"], byName["qty"])
	}
	if byName["status"].DefaultValue != "open" || len(byName["status"].Options) != 2 {
		t.Fatalf("enum not mapped: %+v", byName["status"])
	}
	if byName["contact"].Validation == nil || byName["contact"].Validation.Tag != "email" {
		t.Fatalf("email format not mapped: %+v", byName["contact"])
	}
	if byName["secret"].Props["secret"] != true {
		t.Fatalf("password format not mapped: %+v", byName["secret"])
	}
}

func TestColumnsAndPage(t *testing.T) {
	page, err := loadOrders(t).Page("Order", "id")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	want := []schema.ColumnSpec{
		{ID: "id", AccessorKey: "id"},
		{ID: "sku", AccessorKey: "sku", Header: "SKU", Editable: true},
		{ID: "qty", AccessorKey: "qty", Header: "Quantity", Size: 80, Align: model.AlignRight, Editable: true},
		{ID: "contact", AccessorKey: "contact", Editable: true},
		{ID: "notes", AccessorKey: "notes", Editable: true},
		{ID: "status", AccessorKey: "status", Editable: true},
		{ID: "urgent", AccessorKey: "urgent", Editable: true},
	}
	if diff := cmp.Diff(want, page.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if page.Title != "Orders" || page.IDKey != "id" {
		t.Fatalf("unexpected page: %+v", page)
	}
}
