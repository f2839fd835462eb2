package tui_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudgrid/pkg/form"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/render"
	"github.com/goliatone/go-crudgrid/pkg/renderers/tui"
	"github.com/goliatone/go-crudgrid/pkg/table"
)

// stubDriver replays scripted answers keyed by prompt message.
type stubDriver struct {
	inputs   map[string][]string
	confirms map[string][]bool
	selects  map[string][]int
	asked    []string
	infos    []string
	fail     error
}

func (s *stubDriver) next(message string) error {
	s.asked = append(s.asked, message)
	return s.fail
}

func (s *stubDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	if err := s.next(cfg.Message); err != nil {
		return "", err
	}
	queue := s.inputs[cfg.Message]
	if len(queue) == 0 {
		return "", fmt.Errorf("no scripted input for %q", cfg.Message)
	}
	s.inputs[cfg.Message] = queue[1:]
	return queue[0], nil
}

func (s *stubDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *stubDriver) TextArea(ctx context.Context, cfg tui.TextAreaConfig) (string, error) {
	return s.Input(ctx, tui.InputConfig{Message: cfg.Message})
}

func (s *stubDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	if err := s.next(cfg.Message); err != nil {
		return false, err
	}
	queue := s.confirms[cfg.Message]
	if len(queue) == 0 {
		return false, fmt.Errorf("no scripted confirm for %q", cfg.Message)
	}
	s.confirms[cfg.Message] = queue[1:]
	return queue[0], nil
}

func (s *stubDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	if err := s.next(cfg.Message); err != nil {
		return -1, err
	}
	queue := s.selects[cfg.Message]
	if len(queue) == 0 {
		return -1, fmt.Errorf("no scripted select for %q", cfg.Message)
	}
	s.selects[cfg.Message] = queue[1:]
	return queue[0], nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func orderForm(t *testing.T) *form.Form {
	t.Helper()
	f, err := form.New([]model.FieldDescriptor{
		{Name: "name", Label: "Name", Type: model.FieldTypeText, Required: true},
		{Name: "qty", Label: "Qty", Type: model.FieldTypeNumber, Validation: &model.Validation{
			Rules: []model.ValidationRule{{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "1"}}},
		}},
		{Name: "kind", Label: "Kind", Type: model.FieldTypeSelect, Options: []model.Option{
			{Value: "vendor", Label: "Vendor"},
			{Value: "customer", Label: "Customer"},
		}},
		{Name: "vendorCode", Label: "Vendor code", Type: model.FieldTypeText, Required: true, Visible: `kind == "vendor"`},
		{Name: "active", Label: "Active", Type: model.FieldTypeCheckbox},
	}, form.WithInitialValues(model.Record{"kind": "customer"}))
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	return f
}

func TestFillForm_RepromptsInvalidAndNewlyVisibleFields(t *testing.T) {
	driver := &stubDriver{
		inputs: map[string][]string{
			"Name *":        {"", "Acme"},
			"Qty":           {"0", "5"},
			"Vendor code *": {"V-1"},
		},
		selects:  map[string][]int{"Kind": {0}},
		confirms: map[string][]bool{"Active": {true}},
	}
	r := tui.New(tui.WithPromptDriver(driver))

	got, err := r.FillForm(context.Background(), orderForm(t))
	if err != nil {
		t.Fatalf("fill form: %v", err)
	}

	want := model.Record{"name": "Acme", "qty": 5, "kind": "vendor", "vendorCode": "V-1", "active": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantAsked := []string{"Name *", "Qty", "Kind", "Active", "Name *", "Qty", "Vendor code *"}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infos) != 3 {
		t.Fatalf("expected one notice per failing field, got %v", driver.infos)
	}
	if !strings.HasPrefix(driver.infos[0], "! name: ") {
		t.Fatalf("notices should be sorted by field, got %v", driver.infos)
	}
}

func TestFillForm_GivesUpAfterMaxRounds(t *testing.T) {
	driver := &stubDriver{
		inputs:   map[string][]string{"Name *": {""}, "Qty": {""}},
		selects:  map[string][]int{"Kind": {1}},
		confirms: map[string][]bool{"Active": {false}},
	}
	r := tui.New(tui.WithPromptDriver(driver), tui.WithMaxRounds(1))

	_, err := r.FillForm(context.Background(), orderForm(t))
	var verr *tui.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := verr.Errors["name"]; !ok || len(verr.Errors) != 1 {
		t.Fatalf("unexpected errors: %v", verr.Errors)
	}
}

func TestFillForm_Aborted(t *testing.T) {
	r := tui.New(tui.WithPromptDriver(&stubDriver{fail: tui.ErrAborted}))
	if _, err := r.FillForm(context.Background(), orderForm(t)); !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := r.FillForm(context.Background(), nil); !errors.Is(err, tui.ErrNilForm) {
		t.Fatalf("expected ErrNilForm, got %v", err)
	}
}

func TestRenderTable(t *testing.T) {
	rows := []model.Record{
		{"sku": "A-1", "qty": 5},
		{"sku": "B-2", "qty": 12},
		{"sku": "C-3", "qty": 7},
	}
	columns := []table.Column[model.Record]{
		{AccessorKey: "sku", Header: "SKU"},
		{AccessorKey: "qty", Align: model.AlignRight},
	}
	ctrl, err := table.New(rows, columns, table.ClientMaterialized{PageSize: 2})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	ctrl.ToggleRowSelection("1")

	r := tui.New(tui.WithPromptDriver(&stubDriver{}))
	out, err := r.RenderTable(context.Background(), render.TableFromView(ctrl.View()), render.RenderOptions{Title: "Stock"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	for _, fragment := range []string{"Stock", "SKU", "Qty", "A-1", "B-2", "[x]", "[ ]", "Page 1 of 2 (3 rows)"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("output missing %q\n---\n%s", fragment, text)
		}
	}
	if strings.Contains(text, "C-3") {
		t.Fatalf("row from the next page leaked into output:\n%s", text)
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected title, header, rule, two rows and summary, got %d lines:\n%s", len(lines), text)
	}
}

func TestRenderTable_EmptySingleSelect(t *testing.T) {
	r := tui.New(tui.WithPromptDriver(&stubDriver{}))
	out, err := r.RenderTable(context.Background(), render.Table{
		Headers:      []table.Header{{ID: "sku", Label: "SKU"}},
		SingleSelect: true,
		Stale:        []string{"9"},
	}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	for _, fragment := range []string{"No rows", "Page 1 of 1 (0 rows)", "not on this page: 9"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("output missing %q\n---\n%s", fragment, text)
		}
	}
}

func TestRenderForm(t *testing.T) {
	f := orderForm(t)
	_ = f.SetValue("active", true)
	f.Validate()
	snapshot, err := render.FormFromEngine(f)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	r := tui.New(tui.WithPromptDriver(&stubDriver{}))
	out, err := r.RenderForm(context.Background(), snapshot, render.RenderOptions{FormErrors: []string{"stale version"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	for _, fragment := range []string{"! stale version", "Name *: ", "! Name is required", "Kind: Customer", "Active: yes"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("output missing %q\n---\n%s", fragment, text)
		}
	}
}

func TestSerialize(t *testing.T) {
	values := model.Record{"name": "Acme", "qty": 5, "tags": []any{"a", "b"}}
	cases := []struct {
		format tui.OutputFormat
		want   string
	}{
		{tui.OutputFormatJSON, `{"name":"Acme","qty":5,"tags":["a","b"]}`},
		{tui.OutputFormatFormURLEncoded, "name=Acme&qty=5&tags%5B%5D=a&tags%5B%5D=b"},
		{tui.OutputFormatPrettyText, "name=Acme\nqty=5\ntags[0]=a\ntags[1]=b\n"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.format), func(t *testing.T) {
			t.Parallel()
			r := tui.New(tui.WithPromptDriver(&stubDriver{}), tui.WithOutputFormat(tc.format))
			got, err := r.Serialize(values)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			if diff := cmp.Diff(tc.want, string(got)); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
