package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

var (
	// ErrEmptyDocument is returned for blank files.
	ErrEmptyDocument = errors.New("schema: document is empty")
	// ErrDuplicatePage is returned when two documents declare the same page.
	ErrDuplicatePage = errors.New("schema: duplicate page")
	// ErrInvalidPage wraps every structural problem inside a page.
	ErrInvalidPage = errors.New("schema: invalid page")
)

// Store holds the pages loaded from one or more documents.
type Store struct {
	pages map[string]Page
}

// Parse decodes a single document. JSON is tried first so the error for a
// malformed YAML file is the YAML one.
func Parse(src Source, data []byte) (*Store, error) {
	store := &Store{pages: make(map[string]Page)}
	if err := store.add(src, data); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile reads and parses one document from disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(SourceFromFile(path), data)
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file. A page id
// declared in two files is an error. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{pages: make(map[string]Page)}
	if fsys == nil {
		return store, nil
	}
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		return store.add(SourceFromFS(path), data)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Page returns the page declared under id.
func (s *Store) Page(id string) (Page, bool) {
	if s == nil {
		return Page{}, false
	}
	p, ok := s.pages[id]
	return p, ok
}

// IDs lists the page ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.pages))
	for id := range s.pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any pages.
func (s *Store) Empty() bool {
	return s == nil || len(s.pages) == 0
}

func (s *Store) add(src Source, data []byte) error {
	location := src.Location()
	doc, err := parseDocument(data, location)
	if err != nil {
		return err
	}
	for rawID, raw := range doc.Pages {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("%w: file %s declares an empty page id", ErrInvalidPage, location)
		}
		if existing, ok := s.pages[id]; ok {
			return fmt.Errorf("%w: %q in %s and %s", ErrDuplicatePage, id, existing.Source, location)
		}
		page, err := normalisePage(raw, id, location)
		if err != nil {
			return err
		}
		s.pages[id] = page
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: %w", source, err)
	}
	return doc, nil
}

func normalisePage(raw pageFile, id, source string) (Page, error) {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: page %q (file %s): %s", ErrInvalidPage, id, source, fmt.Sprintf(format, args...))
	}
	if raw.PageSize < 0 {
		return Page{}, fail("pageSize must not be negative")
	}

	page := Page{
		ID:           id,
		Title:        raw.Title,
		Source:       source,
		IDKey:        strings.TrimSpace(raw.IDKey),
		PageSize:     raw.PageSize,
		SingleSelect: raw.SingleSelect,
		Columns:      make([]ColumnSpec, 0, len(raw.Columns)),
		Fields:       append([]model.FieldDescriptor(nil), raw.Fields...),
		Derive:       append([]DeriveSpec(nil), raw.Derive...),
	}
	if page.Title == "" {
		page.Title = model.DefaultLabeler(id)
	}

	seen := make(map[string]int, len(raw.Columns))
	for i, col := range raw.Columns {
		col.AccessorKey = strings.TrimSpace(col.AccessorKey)
		col.ID = strings.TrimSpace(col.ID)
		if col.ID == "" {
			col.ID = col.AccessorKey
		}
		if col.ID == "" {
			return Page{}, fail("column %d has neither id nor accessorKey", i)
		}
		if prev, dup := seen[col.ID]; dup {
			return Page{}, fail("columns %d and %d share id %q", prev, i, col.ID)
		}
		switch col.Align {
		case "", model.AlignLeft, model.AlignCenter, model.AlignRight:
		default:
			return Page{}, fail("column %q has unknown align %q", col.ID, col.Align)
		}
		seen[col.ID] = i
		page.Columns = append(page.Columns, col)
	}

	if err := model.ValidateFields(page.Fields); err != nil {
		return Page{}, fail("%v", err)
	}
	targets := make(map[string]bool, len(page.Derive))
	for _, d := range page.Derive {
		if strings.TrimSpace(d.Target) == "" {
			return Page{}, fail("derivation without target")
		}
		if targets[d.Target] {
			return Page{}, fail("field %q is derived twice", d.Target)
		}
		targets[d.Target] = true
		if _, ok := operations[d.Op]; !ok {
			return Page{}, fail("derivation %q has unknown op %q", d.Target, d.Op)
		}
		if len(d.Of) == 0 {
			return Page{}, fail("derivation %q has no inputs", d.Target)
		}
	}
	return page, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
