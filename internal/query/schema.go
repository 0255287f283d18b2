package query

import (
	"fmt"

	"github.com/hgye/litequery/internal/sqlast"
)

// schemaCreateSQL is the built-in CREATE TABLE text for sqlite_schema and
// its aliases: root page 1 is never backed by an actual stored CREATE
// statement, so the driver hands back this constant instead of looking it
// up through itself.
const schemaCreateSQL = "CREATE TABLE sqlite_schema (type TEXT, name TEXT, tbl_name TEXT, rootpage INTEGER, sql TEXT)"

const schemaRootPage = 1

func isSchemaAlias(name string) bool {
	switch lower(name) {
	case "sqlite_schema", "sqlite_master", "sqlite_temp_schema", "sqlite_temp_master":
		return true
	}
	return false
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out[i] = b
	}
	return string(out)
}

// parseTableSchema parses a captured CREATE TABLE statement and returns
// its column list in declaration order.
func parseTableSchema(sql string) ([]sqlast.ColumnDefinition, error) {
	stmts, err := sqlast.Parse(sql)
	if err != nil {
		return nil, wrap("parse_schema", err, map[string]any{"sql": sql})
	}
	for _, stmt := range stmts {
		if create, ok := stmt.(*sqlast.CreateStatement); ok {
			return create.Columns, nil
		}
	}
	return nil, wrap("parse_schema", fmt.Errorf("no CREATE TABLE statement found"), map[string]any{"sql": sql})
}
