package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-crudgrid/pkg/form"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/schema"
	"github.com/goliatone/go-crudgrid/pkg/table"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint page documents: every page must build a controller and a form.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}
	if report(os.Stderr, violations) {
		os.Exit(1)
	}
}

func lintFile(path string) ([]violation, error) {
	store, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	var out []violation
	for _, id := range store.IDs() {
		page, _ := store.Page(id)
		out = append(out, lintPage(path, page)...)
	}
	return out, nil
}

// lintPage builds the page the way the runtime would and reports what the
// document alone cannot express wrongly but still gets wrong: columns the
// controller rejects, fields the form rejects, and editable columns or
// derivation inputs that name nothing.
func lintPage(file string, page schema.Page) []violation {
	var out []violation
	add := func(location, format string, args ...any) {
		out = append(out, violation{file: file, location: "pages." + page.ID + location, message: fmt.Sprintf(format, args...)})
	}

	if _, err := table.New[model.Record](nil, page.RecordColumns(), page.Paging(), page.TableOptions()...); err != nil {
		add(".columns", "%v", err)
	}
	if _, err := form.New(page.Fields, page.FormOptions()...); err != nil {
		add(".fields", "%v", err)
	}

	fields := make(map[string]bool, len(page.Fields))
	for _, f := range page.Fields {
		fields[f.Name] = true
	}
	accessors := make(map[string]bool, len(page.Columns))
	for _, c := range page.Columns {
		accessors[c.AccessorKey] = true
		if c.Editable && len(page.Fields) > 0 && !fields[c.AccessorKey] {
			add(".columns."+c.ID, "editable column has no field named %q", c.AccessorKey)
		}
	}
	for _, d := range page.Derive {
		for _, input := range d.Of {
			if !fields[input] && !accessors[input] {
				add(".derive."+d.Target, "input %q is neither a field nor a column", input)
			}
		}
	}
	return out
}

func report(w io.Writer, violations []violation) bool {
	if len(violations) == 0 {
		return false
	}
	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.file != b.file {
			return a.file < b.file
		}
		if a.location != b.location {
			return a.location < b.location
		}
		return a.message < b.message
	})
	for _, v := range violations {
		fmt.Fprintf(w, "%s: %s -> %s\n", v.file, v.location, strings.TrimSpace(v.message))
	}
	return true
}
