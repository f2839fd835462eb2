package table

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Controller owns pagination, selection and inline edit dispatch for a list
// of rows rendered through a column list. It never inspects rows except
// through its columns. All methods are safe for concurrent use; callbacks
// run outside the internal lock so they may call back into the controller.
type Controller[R any] struct {
	mu sync.Mutex

	columns     []Column[R]
	columnIndex map[string]int

	data       []R
	controlled *Controlled
	client     ClientMaterialized

	selection    map[string]struct{}
	singleSelect bool

	rowID      func(R, int) string
	cellUpdate CellUpdateFunc
	logger     *zap.Logger
}

// New builds a controller. Column defects and a missing controlled callback
// are returned as errors. Inconsistent controlled counts are logged and can
// be checked with CheckControlled; Update reports them on every cycle.
func New[R any](data []R, columns []Column[R], paging Paging, opts ...Option) (*Controller[R], error) {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	compiled, index, err := compileColumns(columns)
	if err != nil {
		return nil, err
	}

	c := &Controller[R]{
		columns:      compiled,
		columnIndex:  index,
		selection:    make(map[string]struct{}),
		singleSelect: cfg.singleSelect,
		cellUpdate:   cfg.cellUpdate,
		logger:       cfg.logger,
	}
	if cfg.rowID != nil {
		fn, ok := cfg.rowID.(func(R, int) string)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrRowIDType, cfg.rowID)
		}
		c.rowID = fn
	}

	switch p := normalizePaging(paging).(type) {
	case Controlled:
		if p.OnPageChange == nil {
			return nil, ErrNoPageChange
		}
		c.controlled = &p
		if err := CheckControlled(p, len(data)); err != nil {
			c.logger.Warn("controlled paging is inconsistent", zap.Error(err))
		}
	case ClientMaterialized:
		c.client = p
	default:
		return nil, ErrNilPaging
	}
	c.data = append([]R(nil), data...)
	return c, nil
}

// MustNew is New for column lists known to be valid.
func MustNew[R any](data []R, columns []Column[R], paging Paging, opts ...Option) *Controller[R] {
	c, err := New(data, columns, paging, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Columns returns the compiled columns (ids and headers filled in).
func (c *Controller[R]) Columns() []Column[R] {
	return append([]Column[R](nil), c.columns...)
}

// IsControlled reports whether the caller owns pagination.
func (c *Controller[R]) IsControlled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controlled != nil
}

// TogglePage requests a page. In controlled mode the request is forwarded
// as-is, without clamping, and the controller state is left untouched until
// the owner calls Update. In client mode the cursor moves directly; an out
// of range index materializes no rows.
func (c *Controller[R]) TogglePage(ctx context.Context, pageIndex int) error {
	c.mu.Lock()
	if c.controlled != nil {
		req := PageRequest{PageIndex: pageIndex, PageSize: c.controlled.PageSize}
		callback := c.controlled.OnPageChange
		c.mu.Unlock()

		c.logger.Debug("forwarding page request",
			zap.Int("page_index", req.PageIndex),
			zap.Int("page_size", req.PageSize),
		)
		if err := ctx.Err(); err != nil {
			return err
		}
		return callback(ctx, req)
	}
	c.client.PageIndex = pageIndex
	c.mu.Unlock()

	c.logger.Debug("client page changed", zap.Int("page_index", pageIndex))
	return nil
}

// Update re-supplies data, and optionally a new paging value, for the next
// render cycle. A nil paging keeps the current mode. A Controlled value
// without OnPageChange inherits the previous callback. Contract violations
// come back as *PaginationError; the data is applied regardless so the page
// still renders what the server sent.
func (c *Controller[R]) Update(data []R, paging Paging) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch p := normalizePaging(paging).(type) {
	case Controlled:
		if p.OnPageChange == nil && c.controlled != nil {
			p.OnPageChange = c.controlled.OnPageChange
		}
		if p.OnPageChange == nil {
			return ErrNoPageChange
		}
		c.controlled = &p
	case ClientMaterialized:
		c.controlled = nil
		c.client = p
	}
	return c.applyLocked(data)
}

// normalizePaging dereferences pointer variants; nil pointers become nil.
func normalizePaging(paging Paging) Paging {
	switch p := paging.(type) {
	case *Controlled:
		if p == nil {
			return nil
		}
		return *p
	case *ClientMaterialized:
		if p == nil {
			return nil
		}
		return *p
	}
	return paging
}

func (c *Controller[R]) applyLocked(data []R) error {
	c.data = append([]R(nil), data...)
	if c.controlled == nil {
		return nil
	}
	if err := CheckControlled(*c.controlled, len(c.data)); err != nil {
		c.logger.Warn("controlled paging is inconsistent", zap.Error(err))
		return err
	}
	return nil
}

// ToggleRowSelection flips membership of id and reports whether it is now
// selected. In single-select mode inserting an id clears every other one.
// Ids are not checked against the data; see PruneSelection.
func (c *Controller[R]) ToggleRowSelection(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.selection[id]; ok {
		delete(c.selection, id)
		c.logger.Debug("row deselected", zap.String("row_id", id))
		return false
	}
	if c.singleSelect {
		c.selection = make(map[string]struct{}, 1)
	}
	c.selection[id] = struct{}{}
	c.logger.Debug("row selected", zap.String("row_id", id), zap.Bool("single", c.singleSelect))
	return true
}

// SetSingleSelect switches the selection mode. Existing selections are kept
// until the next insert.
func (c *Controller[R]) SetSingleSelect(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singleSelect = enabled
}

// SingleSelect reports the current selection mode.
func (c *Controller[R]) SingleSelect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.singleSelect
}

// IsSelected reports whether id is in the selection set.
func (c *Controller[R]) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selection[id]
	return ok
}

// Selection returns the selected ids in sorted order.
func (c *Controller[R]) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedIDs(c.selection)
}

// ClearSelection empties the selection set.
func (c *Controller[R]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = make(map[string]struct{})
}

// PruneSelection drops every selected id missing from validIDs and returns
// the dropped ids in sorted order.
func (c *Controller[R]) PruneSelection(validIDs []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}
	var removed []string
	for id := range c.selection {
		if _, ok := valid[id]; !ok {
			removed = append(removed, id)
			delete(c.selection, id)
		}
	}
	sort.Strings(removed)
	if len(removed) > 0 {
		c.logger.Debug("selection pruned", zap.Strings("row_ids", removed))
	}
	return removed
}

// StaleSelection returns selected ids that no longer resolve to a row on
// the current page. The controller never drops them itself.
func (c *Controller[R]) StaleSelection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staleLocked(c.pageIDsLocked())
}

// RowIDs returns the ids of the rows on the current page.
func (c *Controller[R]) RowIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageIDsLocked()
}

// GetValue returns the logical value of a cell on the current page.
func (c *Controller[R]) GetValue(rowID, columnID string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.columnIndex[columnID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, columnID)
	}
	row, _, ok := c.findRowLocked(rowID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRow, rowID)
	}
	return c.columns[idx].Value(row), nil
}

// Row returns the record behind a row id on the current page.
func (c *Controller[R]) Row(rowID string) (R, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	row, _, ok := c.findRowLocked(rowID)
	return row, ok
}

// RowIndex resolves a row id on the current page to its index in the data
// slice last given to New or Update. Positional ids are page-relative, so
// "0" on the second client page is the first row after the page boundary.
func (c *Controller[R]) RowIndex(rowID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, i, ok := c.findRowLocked(rowID)
	if !ok {
		return -1, false
	}
	if c.controlled != nil {
		return i, true
	}
	start, _ := window(c.client, len(c.data))
	return start + i, true
}

// UpdateCell forwards an inline edit to the reducer set with WithCellUpdate.
// The controller itself never recomputes anything.
func (c *Controller[R]) UpdateCell(rowID, field string, value any) error {
	c.mu.Lock()
	reducer := c.cellUpdate
	c.mu.Unlock()

	if reducer == nil {
		return ErrNoCellUpdate
	}
	c.logger.Debug("dispatching cell update",
		zap.String("row_id", rowID),
		zap.String("field", field),
	)
	return reducer(rowID, field, value)
}

// View materializes the current page for rendering.
func (c *Controller[R]) View() View[R] {
	c.mu.Lock()
	rows, start := c.pageLocked()
	pagination := c.paginationLocked()
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = c.idFor(row, i)
	}
	selection := sortedIDs(c.selection)
	stale := c.staleLocked(ids)
	single := c.singleSelect
	selected := make(map[string]struct{}, len(c.selection))
	for id := range c.selection {
		selected[id] = struct{}{}
	}
	columns := c.columns
	c.mu.Unlock()

	view := View[R]{
		Headers:      make([]Header, len(columns)),
		Rows:         make([]RowView[R], len(rows)),
		Pagination:   pagination,
		Selection:    selection,
		Stale:        stale,
		SingleSelect: single,
	}
	for i, column := range columns {
		view.Headers[i] = Header{ID: column.ID, Label: column.Header, Size: column.Size, Align: column.Align, Editable: column.Editable}
	}
	for i, row := range rows {
		_, isSelected := selected[ids[i]]
		rv := RowView[R]{
			ID:       ids[i],
			Index:    start + i,
			Record:   row,
			Selected: isSelected,
			Cells:    make([]CellView, len(columns)),
		}
		for j, column := range columns {
			value := column.Value(row)
			display := value
			if column.Cell != nil {
				display = column.Cell(CellContext[R]{
					Row:      row,
					RowID:    ids[i],
					RowIndex: i,
					ColumnID: column.ID,
					value:    value,
				})
			}
			rv.Cells[j] = CellView{ColumnID: column.ID, Value: value, Display: display}
		}
		view.Rows[i] = rv
	}
	return view
}

func (c *Controller[R]) idFor(row R, index int) string {
	if c.rowID != nil {
		return c.rowID(row, index)
	}
	return strconv.Itoa(index)
}

// pageLocked returns the rows of the current page and the absolute index of
// the first one.
func (c *Controller[R]) pageLocked() ([]R, int) {
	if c.controlled != nil {
		return c.data, c.controlled.PageIndex * c.controlled.PageSize
	}
	start, end := window(c.client, len(c.data))
	return c.data[start:end], start
}

func (c *Controller[R]) pageIDsLocked() []string {
	rows, _ := c.pageLocked()
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = c.idFor(row, i)
	}
	return ids
}

func (c *Controller[R]) findRowLocked(rowID string) (R, int, bool) {
	rows, _ := c.pageLocked()
	for i, row := range rows {
		if c.idFor(row, i) == rowID {
			return row, i, true
		}
	}
	var zero R
	return zero, -1, false
}

func (c *Controller[R]) staleLocked(pageIDs []string) []string {
	present := make(map[string]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		present[id] = struct{}{}
	}
	var stale []string
	for id := range c.selection {
		if _, ok := present[id]; !ok {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	return stale
}

func (c *Controller[R]) paginationLocked() Pagination {
	if p := c.controlled; p != nil {
		return Pagination{
			PageIndex:     p.PageIndex,
			PageSize:      p.PageSize,
			PageCount:     p.PageCount,
			TotalElements: p.TotalElements,
			Controlled:    true,
		}
	}
	size := c.client.PageSize
	if size <= 0 {
		size = len(c.data)
	}
	return Pagination{
		PageIndex:     c.client.PageIndex,
		PageSize:      size,
		PageCount:     PageCount(len(c.data), c.client.PageSize),
		TotalElements: len(c.data),
	}
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
