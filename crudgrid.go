// Package crudgrid wires the table controller, the form engine and the
// renderers around a page declaration. Callers that need finer control use
// the pkg/* packages directly.
package crudgrid

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-crudgrid/pkg/export"
	"github.com/goliatone/go-crudgrid/pkg/form"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/render"
	"github.com/goliatone/go-crudgrid/pkg/renderers/html"
	"github.com/goliatone/go-crudgrid/pkg/renderers/tui"
	"github.com/goliatone/go-crudgrid/pkg/schema"
	"github.com/goliatone/go-crudgrid/pkg/table"
	"github.com/goliatone/go-crudgrid/pkg/widgets"
)

// RenderOptions aliases render.RenderOptions for callers of the facade.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset.
type FieldSubset = render.FieldSubset

// DefaultRegistry returns a registry holding the html and text renderers.
func DefaultRegistry(logger *zap.Logger) (*render.Registry, error) {
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(htmlRenderer, tui.New(tui.WithLogger(logger)))
}

// Option configures a Grid.
type Option func(*Grid)

// WithRegistry replaces the default renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(g *Grid) {
		g.registry = registry
	}
}

// WithWidgets supplies the widget registry forms resolve custom types with.
func WithWidgets(registry *widgets.Registry) Option {
	return func(g *Grid) {
		g.widgets = registry
	}
}

// WithLogger attaches a logger to the grid, its controller and its forms.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Grid) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithCommit is called with the full row set after every inline edit. The
// grid has already swapped in the new rows when it runs.
func WithCommit(fn func(rows []model.Record) error) Option {
	return func(g *Grid) {
		g.commit = fn
	}
}

// Grid is a client-paged CRUD screen over model.Record rows.
type Grid struct {
	page       schema.Page
	controller *table.Controller[model.Record]
	registry   *render.Registry
	widgets    *widgets.Registry
	logger     *zap.Logger
	commit     func([]model.Record) error

	mu   sync.Mutex
	rows []model.Record
}

// NewGrid builds the controller for page over rows. Cell edits recompute the
// page's derivations and replace the affected row.
func NewGrid(page schema.Page, rows []model.Record, opts ...Option) (*Grid, error) {
	g := &Grid{page: page, rows: rows, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.registry == nil {
		registry, err := DefaultRegistry(g.logger)
		if err != nil {
			return nil, err
		}
		g.registry = registry
	}

	locate := func(rowID string) (int, bool) { return g.controller.RowIndex(rowID) }
	reducer := table.RecordReducer(g.Rows, locate, page.RecordRules(), g.replaceRows)
	tableOpts := append(page.TableOptions(), table.WithCellUpdate(reducer), table.WithLogger(g.logger))
	controller, err := table.New(rows, page.RecordColumns(), page.Paging(), tableOpts...)
	if err != nil {
		return nil, fmt.Errorf("crudgrid: page %q: %w", page.ID, err)
	}
	g.controller = controller
	return g, nil
}

// Controller exposes the underlying table controller.
func (g *Grid) Controller() *table.Controller[model.Record] {
	return g.controller
}

// Rows returns the current row set.
func (g *Grid) Rows() []model.Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.Record(nil), g.rows...)
}

func (g *Grid) replaceRows(rows []model.Record) error {
	g.mu.Lock()
	g.rows = rows
	g.mu.Unlock()
	if err := g.controller.Update(rows, nil); err != nil {
		return err
	}
	if g.commit != nil {
		return g.commit(rows)
	}
	return nil
}

// Form builds a form for the page's fields, seeded with initial (which may
// be nil). subset narrows the fields, as for create versus edit screens.
func (g *Grid) Form(initial model.Record, subset FieldSubset) (*form.Form, error) {
	fields := g.page.FieldSubset(subset)
	opts := append(g.page.FormOptionsFor(fields),
		form.WithInitialValues(initial),
		form.WithRegistry(g.widgets),
		form.WithLogger(g.logger),
	)
	return form.New(fields, opts...)
}

// EditForm builds a form seeded from the row with the given id.
func (g *Grid) EditForm(rowID string, subset FieldSubset) (*form.Form, error) {
	row, ok := g.controller.Row(rowID)
	if !ok {
		return nil, fmt.Errorf("crudgrid: %w: %q", table.ErrUnknownRow, rowID)
	}
	return g.Form(row, subset)
}

// RenderTable renders the current page with the named renderer.
func (g *Grid) RenderTable(ctx context.Context, renderer string, opts RenderOptions) ([]byte, error) {
	r, err := g.registry.Get(renderer)
	if err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = g.page.Title
	}
	return r.RenderTable(ctx, render.TableFromView(g.controller.View()), opts)
}

// RenderForm renders f with the named renderer.
func (g *Grid) RenderForm(ctx context.Context, renderer string, f *form.Form, opts RenderOptions) ([]byte, error) {
	r, err := g.registry.Get(renderer)
	if err != nil {
		return nil, err
	}
	snapshot, err := render.FormFromEngine(f)
	if err != nil {
		return nil, err
	}
	return r.RenderForm(ctx, snapshot, opts)
}

// Export writes the current page as an xlsx workbook.
func (g *Grid) Export(w io.Writer, opts export.Options) error {
	if opts.SheetName == "" {
		opts.SheetName = g.page.Title
	}
	return export.WriteXLSX(w, render.TableFromView(g.controller.View()), opts)
}
