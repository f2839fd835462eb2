package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/render"
	"github.com/goliatone/go-crudgrid/pkg/widgets"
)

// Renderer prints tables and forms for terminals and drives interactive
// form filling through a PromptDriver.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	maxRounds    int
	logger       *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// three validation rounds).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(),
		maxRounds:    3,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "text"
}

// ContentType reports the content type of RenderTable and RenderForm.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// RenderTable prints a pipe separated table followed by a pagination
// summary. Selected rows are marked in a leading column.
func (r *Renderer) RenderTable(ctx context.Context, t render.Table, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	headers := make([]string, 0, len(t.Headers)+1)
	aligns := make([]lipgloss.Position, 0, len(t.Headers)+1)
	headers = append(headers, "")
	aligns = append(aligns, lipgloss.Left)
	for _, h := range t.Headers {
		headers = append(headers, h.Label)
		aligns = append(aligns, position(h.Align))
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, selectionMarker(row.Selected, t.SingleSelect))
		for _, cell := range row.Cells {
			line = append(line, singleLine(cell.Text()))
		}
		rows[i] = line
	}

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(r.theme.Header.Render(opts.Title))
		b.WriteString("\n")
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	sep := r.theme.Separator.Render("|")
	writeLine := func(cells []string, style lipgloss.Style) {
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(style.Padding(0, 1).Width(widths[i]).Align(aligns[i]).Render(cell))
		}
		b.WriteString("\n")
	}

	writeLine(headers, r.theme.Header)
	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	b.WriteString(r.theme.Separator.Render(strings.Repeat("-", total)))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(r.theme.Muted.Render("No rows"))
		b.WriteString("\n")
	}
	for _, row := range rows {
		writeLine(row, r.theme.Cell)
	}

	p := t.Pagination
	summary := fmt.Sprintf("Page %d of %d (%d rows)", p.PageIndex+1, max(p.PageCount, 1), p.TotalElements)
	b.WriteString(r.theme.Muted.Render(summary))
	b.WriteString("\n")
	if len(t.Stale) > 0 {
		b.WriteString(r.theme.Muted.Render("Selected but not on this page: " + strings.Join(t.Stale, ", ")))
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// RenderForm prints one block per element with its current value and any
// error.
func (r *Renderer) RenderForm(ctx context.Context, f render.Form, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(r.theme.Header.Render(opts.Title))
		b.WriteString("\n")
	}
	for _, msg := range opts.FormErrors {
		fmt.Fprintf(&b, "%s%s\n", r.theme.ErrorPrefix, msg)
	}
	for _, el := range f.Elements {
		label := el.Label
		if el.Required {
			label += " *"
		}
		fmt.Fprintf(&b, "%s: %s\n", r.theme.Header.Render(label), displayValue(el))
		if el.Description != "" {
			fmt.Fprintf(&b, "  %s\n", r.theme.Muted.Render(el.Description))
		}
		if el.Error != nil {
			fmt.Fprintf(&b, "  %s%s\n", r.theme.ErrorPrefix, el.Error.Error())
		}
	}
	return []byte(b.String()), nil
}

// Serialize encodes collected values in the configured output format.
func (r *Renderer) Serialize(values model.Record) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayValue(el widgets.Element) string {
	if el.Kind == model.FieldTypeSelect {
		for _, opt := range el.Options {
			if fmt.Sprint(opt.Value) == fmt.Sprint(el.Value) {
				return opt.Label
			}
		}
	}
	if el.Kind == model.FieldTypeCheckbox {
		if isTrue(el.Value) {
			return "yes"
		}
		return "no"
	}
	if el.Attrs["secret"] == "true" && el.Value != nil {
		return "********"
	}
	return singleLine(render.Format(el.Value))
}

func selectionMarker(selected, single bool) string {
	switch {
	case single && selected:
		return "(*)"
	case single:
		return "( )"
	case selected:
		return "[x]"
	default:
		return "[ ]"
	}
}

func position(align model.Align) lipgloss.Position {
	switch align {
	case model.AlignRight:
		return lipgloss.Right
	case model.AlignCenter:
		return lipgloss.Center
	default:
		return lipgloss.Left
	}
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", render.Format(val))
		}
	default:
		out.Set(prefix, render.Format(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%s\n", prefix, render.Format(v))
		}
	}
}
