package table

import "go.uber.org/zap"

// CellUpdateFunc receives inline edits. The reducer owns any recomputation
// of derived fields; see Recompute and RecordReducer.
type CellUpdateFunc func(rowID, field string, value any) error

// Option configures a Controller.
type Option func(*config)

type config struct {
	singleSelect bool
	rowID        any
	cellUpdate   CellUpdateFunc
	logger       *zap.Logger
}

// WithSingleSelect enables radio-style selection.
func WithSingleSelect(enabled bool) Option {
	return func(cfg *config) {
		cfg.singleSelect = enabled
	}
}

// WithRowID replaces positional row ids with caller supplied keys. index is
// the row's position within the current page.
func WithRowID[R any](fn func(row R, index int) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.rowID = fn
		}
	}
}

// WithCellUpdate installs the inline edit reducer.
func WithCellUpdate(fn CellUpdateFunc) Option {
	return func(cfg *config) {
		cfg.cellUpdate = fn
	}
}

// WithLogger sets the logger used for page requests, selection and
// contract warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
