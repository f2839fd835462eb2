package render

import "context"

// Renderer turns table and form snapshots into a byte representation (HTML,
// plain text, ...). Implementations must not retain the snapshots.
type Renderer interface {
	Name() string
	ContentType() string
	RenderTable(ctx context.Context, table Table, options RenderOptions) ([]byte, error)
	RenderForm(ctx context.Context, form Form, options RenderOptions) ([]byte, error)
}
