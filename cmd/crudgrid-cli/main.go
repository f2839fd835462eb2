package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	crudgrid "github.com/goliatone/go-crudgrid"
	"github.com/goliatone/go-crudgrid/pkg/export"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/openapi"
	"github.com/goliatone/go-crudgrid/pkg/renderers/tui"
	"github.com/goliatone/go-crudgrid/pkg/schema"
)

type options struct {
	schemaPath  string
	openapiPath string
	pageID      string
	idKey       string
	dataPath    string
	format      string
	pageIndex   int
	pageSize    int
	selectIDs   string
	xlsxPath    string
	fillForm    bool
	editRow     string
	outputPath  string
	outputForm  string
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.schemaPath, "schema", "", "page document (YAML or JSON)")
	flag.StringVar(&opts.openapiPath, "openapi", "", "OpenAPI document; -page names a component schema")
	flag.StringVar(&opts.pageID, "page", "", "page id (or component schema name with -openapi)")
	flag.StringVar(&opts.idKey, "id-key", "id", "row id field when reading an OpenAPI schema")
	flag.StringVar(&opts.dataPath, "data", "", "JSON array of rows")
	flag.StringVar(&opts.format, "format", "text", "renderer: text or html")
	flag.IntVar(&opts.pageIndex, "page-index", 0, "zero-based page to show")
	flag.IntVar(&opts.pageSize, "page-size", 0, "override the page size")
	flag.StringVar(&opts.selectIDs, "select", "", "comma separated row ids to select")
	flag.StringVar(&opts.xlsxPath, "xlsx", "", "export the page to this xlsx file instead of printing it")
	flag.BoolVar(&opts.fillForm, "form", false, "fill the page form interactively")
	flag.StringVar(&opts.editRow, "row", "", "with -form, seed the form from this row id")
	flag.StringVar(&opts.outputPath, "output", "", "output file (stdout if empty)")
	flag.StringVar(&opts.outputForm, "values", "json", "form values format: json, form or pretty")
	flag.BoolVar(&opts.verbose, "verbose", false, "debug logging")
	flag.Parse()

	logger := newLogger(opts.verbose)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		logger.Error("crudgrid failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	page, err := loadPage(ctx, opts)
	if err != nil {
		return err
	}
	if opts.pageSize > 0 {
		page.PageSize = opts.pageSize
	}
	rows, err := loadRows(opts.dataPath)
	if err != nil {
		return err
	}
	logger.Debug("page loaded",
		zap.String("page", page.ID),
		zap.String("source", page.Source),
		zap.Int("rows", len(rows)),
	)

	grid, err := crudgrid.NewGrid(page, rows, crudgrid.WithLogger(logger))
	if err != nil {
		return err
	}
	ctrl := grid.Controller()
	if opts.pageIndex > 0 {
		if err := ctrl.TogglePage(ctx, opts.pageIndex); err != nil {
			return err
		}
	}
	for _, id := range splitList(opts.selectIDs) {
		ctrl.ToggleRowSelection(id)
	}

	if opts.fillForm {
		return fillForm(ctx, grid, opts, logger)
	}

	if opts.xlsxPath != "" {
		var buf bytes.Buffer
		if err := grid.Export(&buf, export.Options{SelectedOnly: opts.selectIDs != ""}); err != nil {
			return err
		}
		if err := os.WriteFile(opts.xlsxPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.xlsxPath, err)
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", opts.xlsxPath)
		return nil
	}

	out, err := grid.RenderTable(ctx, opts.format, crudgrid.RenderOptions{})
	if err != nil {
		return err
	}
	return writeOutput(opts.outputPath, out)
}

func fillForm(ctx context.Context, grid *crudgrid.Grid, opts options, logger *zap.Logger) error {
	var initial model.Record
	if opts.editRow != "" {
		row, ok := grid.Controller().Row(opts.editRow)
		if !ok {
			return fmt.Errorf("row %q is not on the current page", opts.editRow)
		}
		initial = row
	}
	f, err := grid.Form(initial, crudgrid.FieldSubset{})
	if err != nil {
		return err
	}
	r := tui.New(
		tui.WithOutputFormat(tui.OutputFormat(opts.outputForm)),
		tui.WithLogger(logger),
	)
	values, err := r.FillForm(ctx, f)
	if err != nil {
		return err
	}
	out, err := r.Serialize(values)
	if err != nil {
		return err
	}
	return writeOutput(opts.outputPath, out)
}

func loadPage(ctx context.Context, opts options) (schema.Page, error) {
	switch {
	case opts.openapiPath != "":
		doc, err := openapi.LoadFile(ctx, opts.openapiPath)
		if err != nil {
			return schema.Page{}, err
		}
		if opts.pageID == "" {
			return schema.Page{}, fmt.Errorf("-page is required; schemas: %s", strings.Join(doc.Schemas(), ", "))
		}
		return doc.Page(opts.pageID, opts.idKey)
	case opts.schemaPath != "":
		store, err := schema.LoadFile(opts.schemaPath)
		if err != nil {
			return schema.Page{}, err
		}
		ids := store.IDs()
		id := opts.pageID
		if id == "" && len(ids) == 1 {
			id = ids[0]
		}
		page, ok := store.Page(id)
		if !ok {
			return schema.Page{}, fmt.Errorf("unknown page %q; pages: %s", id, strings.Join(ids, ", "))
		}
		return page, nil
	}
	return schema.Page{}, errors.New("one of -schema or -openapi is required")
}

func loadRows(path string) ([]model.Record, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rows []model.Record
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rows, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
