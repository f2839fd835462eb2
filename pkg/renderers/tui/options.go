package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one key=value line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures message prefixes and table styles.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string

	Header    lipgloss.Style
	Cell      lipgloss.Style
	Separator lipgloss.Style
	Muted     lipgloss.Style
}

// DefaultTheme is plain enough to survive a non-color terminal.
func DefaultTheme() Theme {
	return Theme{
		ErrorPrefix: "! ",
		Header:      lipgloss.NewStyle().Bold(true),
		Cell:        lipgloss.NewStyle(),
		Separator:   lipgloss.NewStyle().Faint(true),
		Muted:       lipgloss.NewStyle().Faint(true),
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by FillForm.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization used by Serialize.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme replaces the default theme.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMaxRounds bounds how many validation rounds FillForm runs before it
// gives up with a *ValidationError. Values below one are ignored.
func WithMaxRounds(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxRounds = n
		}
	}
}

// WithLogger attaches a logger for prompt diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
