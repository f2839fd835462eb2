package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNilForm is returned by FillForm when no form is supplied.
	ErrNilForm = errors.New("tui: form is required")
)

// ValidationError is returned by FillForm when the form still fails
// validation after the configured number of rounds.
type ValidationError struct {
	Errors model.Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Errors))
	for name := range e.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("tui: form still invalid: %s", strings.Join(names, ", "))
}
