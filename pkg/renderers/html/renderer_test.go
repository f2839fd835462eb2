package html_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-crudgrid/pkg/form"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/render"
	"github.com/goliatone/go-crudgrid/pkg/renderers/html"
	"github.com/goliatone/go-crudgrid/pkg/table"
	"github.com/goliatone/go-crudgrid/pkg/testsupport"
)

func newRenderer(t *testing.T) *html.Renderer {
	t.Helper()
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("output missing %q\n---\n%s", fragment, output)
		}
	}
}

func testTheme() *theme.RendererConfig {
	return &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		Tokens:  map[string]string{"brand": "#123456"},
		CSSVars: map[string]string{"--brand": "#123456", "bad": "x"},
		AssetURL: func(key string) string {
			return "/themes/acme/" + key
		},
	}
}

func TestRenderTable(t *testing.T) {
	rows := []model.Record{
		{"name": "<script>alert(1)</script>", "qty": 5, "status": "open"},
		{"name": "Bolt", "qty": 7, "status": "closed"},
		{"name": "Nut", "qty": 9, "status": "open"},
	}
	columns := []table.Column[model.Record]{
		{AccessorKey: "name"},
		{AccessorKey: "qty", Size: 80, Align: model.AlignRight},
		{AccessorKey: "status", Cell: func(ctx table.CellContext[model.Record]) any {
			return render.Markup("<b>" + render.Format(ctx.GetValue()) + "</b><script>bad()</script>")
		}},
	}
	c := table.MustNew(rows, columns, table.ClientMaterialized{PageSize: 2})
	c.ToggleRowSelection("1")

	out, err := newRenderer(t).RenderTable(testsupport.Context(), render.TableFromView(c.View()), render.RenderOptions{
		Title:   "Orders",
		Theme:   testTheme(),
		PageURL: func(i int) string { return fmt.Sprintf("?page=%d", i) },
	})
	if err != nil {
		t.Fatalf("render table: %v", err)
	}
	got := string(out)

	assertContains(t, got,
		`<section class="crudgrid" data-theme="acme" data-theme-variant="dark">`,
		`<link rel="stylesheet" href="/themes/acme/crudgrid.stylesheet">`,
		`<style>:root { --brand: #123456; }</style>`,
		`<h2 class="crudgrid-title">Orders</h2>`,
		`<th scope="col" data-column="qty" style="width: 80px">Qty</th>`,
		`&lt;script&gt;alert(1)&lt;/script&gt;`,
		`<tr data-row-id="1" class="is-selected" aria-selected="true">`,
		`<input type="checkbox" name="selection" value="1" checked>`,
		`<td data-column="qty" class="align-right">7</td>`,
		`<td data-column="status" class="align-left"><b>closed</b></td>`,
		`Page 1 of 2 (3 rows)`,
		`<button type="button" data-page="-1" disabled>Previous</button>`,
		`<a href="?page=0" data-page="0" aria-current="page">1</a>`,
		`<a href="?page=1" data-page="1">Next</a>`,
	)
	if strings.Contains(got, "bad()") || strings.Contains(got, "<script>") {
		t.Fatalf("unsafe markup leaked into output:\n%s", got)
	}
}

func TestRenderTable_EmptyAndSingleSelect(t *testing.T) {
	c := table.MustNew(nil, []table.Column[model.Record]{{AccessorKey: "qty"}}, table.ClientMaterialized{}, table.WithSingleSelect(true))
	c.ToggleRowSelection("3")

	out, err := newRenderer(t).RenderTable(context.Background(), render.TableFromView(c.View()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render table: %v", err)
	}
	got := string(out)
	assertContains(t, got,
		`data-single-select="True"`,
		`<td colspan="2" class="crudgrid-empty">No rows</td>`,
		`data-stale="3"`,
	)
	if strings.Contains(got, "<nav") {
		t.Fatalf("single page must not render pagination")
	}
}

func TestRenderForm(t *testing.T) {
	f := form.MustNew([]model.FieldDescriptor{
		{Name: "code", Type: model.FieldTypeText, Required: true, Placeholder: "WO-1"},
		{Name: "qty", Type: model.FieldTypeNumber, Validation: &model.Validation{Rules: []model.ValidationRule{
			{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "1"}},
		}}},
		{Name: "kind", Type: model.FieldTypeSelect, Required: true, Options: []model.Option{
			{Value: "internal", Label: "Internal"},
			{Value: "vendor", Label: "Vendor & Co"},
		}},
		{Name: "active", Type: model.FieldTypeCheckbox},
		{Name: "notes", Type: model.FieldTypeTextarea, Description: "Shown on the traveler"},
	}, form.WithInitialValues(model.Record{"code": "", "qty": 3, "kind": "vendor", "active": true, "notes": "a < b"}))
	f.Validate()

	snapshot, err := render.FormFromEngine(f)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	out, err := newRenderer(t).RenderForm(testsupport.Context(), snapshot, render.RenderOptions{
		Action:     "/orders/1",
		Method:     "patch",
		Hidden:     map[string]string{"_csrf": "tok"},
		FormErrors: []string{"stale version"},
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	got := string(out)

	assertContains(t, got,
		`<form class="crudgrid-form" method="POST" action="/orders/1" novalidate>`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<input type="hidden" name="_method" value="PATCH">`,
		`<li>stale version</li>`,
		`<div class="crudgrid-field has-error" data-field="code" data-widget="text">`,
		`<input type="text" id="cg-code" name="code" value="" placeholder="WO-1" required aria-invalid="true" aria-describedby="cg-code-error">`,
		`<p class="crudgrid-field-error" id="cg-code-error" data-error-type="required">Code is required</p>`,
		`<input type="number" id="cg-qty" name="qty" value="3" min="1">`,
		`<option value="vendor" selected>Vendor &amp; Co</option>`,
		`<input type="checkbox" id="cg-active" name="active" value="true" checked>`,
		`<textarea id="cg-notes" name="notes">a &lt; b</textarea>`,
		`<p class="crudgrid-help">Shown on the traveler</p>`,
		`<button type="submit">Save</button>`,
	)
}

func TestRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newRenderer(t).RenderTable(ctx, render.Table{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}
