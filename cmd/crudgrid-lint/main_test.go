package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLintFile(t *testing.T) {
	doc := `pages:
  good:
    columns: [{accessorKey: qty, editable: true}]
    fields: [{name: qty, type: number}]
  bad:
    columns:
      - accessorKey: qty
        editable: true
    fields:
      - name: total
        type: money
    derive:
      - target: total
        op: sum
        of: [qty, tax]
`
	path := filepath.Join(t.TempDir(), "pages.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	violations, err := lintFile(path)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	var buf bytes.Buffer
	if !report(&buf, violations) {
		t.Fatalf("expected violations")
	}
	out := buf.String()
	for _, fragment := range []string{
		"pages.bad.fields -> ",
		`pages.bad.columns.qty -> editable column has no field named "qty"`,
		`pages.bad.derive.total -> input "tax" is neither a field nor a column`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("report missing %q\n%s", fragment, out)
		}
	}
	if strings.Contains(out, "pages.good") {
		t.Fatalf("good page reported:\n%s", out)
	}
}
