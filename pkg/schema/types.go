// Package schema loads page documents: YAML or JSON files declaring, per
// page, the table columns and form fields a CRUD screen is built from.
//
//	pages:
//	  orders:
//	    title: Orders
//	    idKey: id
//	    pageSize: 20
//	    columns:
//	      - accessorKey: sku
//	        header: SKU
//	      - accessorKey: qty
//	        align: right
//	        editable: true
//	    fields:
//	      - name: qty
//	        type: number
//	        required: true
//	    derive:
//	      - target: amount
//	        op: product
//	        of: [qty, price]
package schema

import (
	"github.com/goliatone/go-crudgrid/pkg/model"
)

// Page is one screen declaration.
type Page struct {
	ID           string
	Title        string
	Source       string
	IDKey        string
	PageSize     int
	SingleSelect bool
	Columns      []ColumnSpec
	Fields       []model.FieldDescriptor
	Derive       []DeriveSpec
}

// ColumnSpec is the declarative half of a table column. Accessor and cell
// functions cannot be expressed in a document; columns read their value
// at AccessorKey.
type ColumnSpec struct {
	ID          string      `json:"id" yaml:"id"`
	AccessorKey string      `json:"accessorKey" yaml:"accessorKey"`
	Header      string      `json:"header" yaml:"header"`
	Size        int         `json:"size" yaml:"size"`
	Align       model.Align `json:"align" yaml:"align"`
	Editable    bool        `json:"editable" yaml:"editable"`
}

// DeriveSpec declares a computed field. Op is one of sum, product,
// difference, ratio or concat, applied to the values at Of in order.
type DeriveSpec struct {
	Target string   `json:"target" yaml:"target"`
	Op     string   `json:"op" yaml:"op"`
	Of     []string `json:"of" yaml:"of"`
	// Separator is used by concat; defaults to a single space.
	Separator string `json:"separator" yaml:"separator"`
}

type documentFile struct {
	Pages map[string]pageFile `json:"pages" yaml:"pages"`
}

type pageFile struct {
	Title        string                  `json:"title" yaml:"title"`
	IDKey        string                  `json:"idKey" yaml:"idKey"`
	PageSize     int                     `json:"pageSize" yaml:"pageSize"`
	SingleSelect bool                    `json:"singleSelect" yaml:"singleSelect"`
	Columns      []ColumnSpec            `json:"columns" yaml:"columns"`
	Fields       []model.FieldDescriptor `json:"fields" yaml:"fields"`
	Derive       []DeriveSpec            `json:"derive" yaml:"derive"`
}
