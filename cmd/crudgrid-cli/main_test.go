package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const pageDoc = `pages:
  items:
    idKey: id
    pageSize: 1
    columns:
      - accessorKey: name
      - accessorKey: qty
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun_RendersRequestedPage(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		schemaPath: writeFile(t, dir, "page.yaml", pageDoc),
		dataPath:   writeFile(t, dir, "rows.json", `[{"id":"a","name":"Anchor","qty":1},{"id":"b","name":"Buoy","qty":2}]`),
		format:     "text",
		pageIndex:  1,
		selectIDs:  "b",
		outputPath: filepath.Join(dir, "out.txt"),
	}
	if err := run(context.Background(), opts, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := os.ReadFile(opts.outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "Buoy") || strings.Contains(text, "Anchor") || !strings.Contains(text, "Page 2 of 2") {
		t.Fatalf("unexpected output:\n%s", text)
	}
}

func TestRun_ExportsXLSX(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		schemaPath: writeFile(t, dir, "page.yaml", pageDoc),
		dataPath:   writeFile(t, dir, "rows.json", `[{"id":"a","name":"Anchor","qty":1}]`),
		xlsxPath:   filepath.Join(dir, "out.xlsx"),
	}
	if err := run(context.Background(), opts, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if info, err := os.Stat(opts.xlsxPath); err != nil || info.Size() == 0 {
		t.Fatalf("xlsx not written: %v", err)
	}
}

func TestRun_RequiresSource(t *testing.T) {
	if err := run(context.Background(), options{}, zap.NewNop()); err == nil {
		t.Fatalf("expected an error without -schema or -openapi")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("splitList = %q", got)
	}
}
