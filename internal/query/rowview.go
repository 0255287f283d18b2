package query

import (
	"github.com/hgye/litequery/internal/sqlast"
	"github.com/hgye/litequery/internal/sqlvalue"
)

// schemaRow adapts one decoded table row to the compiler's RowView,
// resolving column names case-insensitively against the table's column
// list and substituting the B-tree rowid for an INTEGER PRIMARY KEY
// column.
type schemaRow struct {
	columns []sqlast.ColumnDefinition
	rowid   int64
	values  []sqlvalue.Value
}

func (r schemaRow) Column(name string) sqlvalue.Value {
	for _, col := range r.columns {
		if lower(col.Name) != lower(name) {
			continue
		}
		if col.IsIntegerPrimaryKey() {
			return sqlvalue.Integer(r.rowid)
		}
		if col.Position < 0 || col.Position >= len(r.values) {
			return sqlvalue.Null()
		}
		return r.values[col.Position]
	}
	return sqlvalue.Null()
}
