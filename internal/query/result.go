package query

import "github.com/hgye/litequery/internal/sqlvalue"

// Column is one projected field's display name.
type Column struct {
	Name string
}

// Row is one result row: ID carries the B-tree rowid for traceability
// even when it isn't itself projected (it is Null on the single row of a
// count(*) result), Values holds the projected field values in Column
// order.
type Row struct {
	ID     sqlvalue.Value
	Values []sqlvalue.Value
}

// Table is the result of running one statement: its column list and rows,
// in B-tree scan order.
type Table struct {
	Columns []Column
	Rows    []Row
}
