// Package query is the read-only SQL driver: it resolves a table name
// against sqlite_schema, B-tree scans its root page, decodes each row,
// and runs the compiled SELECT projection and WHERE filter over the
// result.
package query

import (
	"context"
	"fmt"

	"github.com/hgye/litequery/internal/btree"
	"github.com/hgye/litequery/internal/header"
	"github.com/hgye/litequery/internal/record"
	"github.com/hgye/litequery/internal/sqlast"
	"github.com/hgye/litequery/internal/sqlvalue"
)

// schema column positions within the sqlite_schema row shape
// (type, name, tbl_name, rootpage, sql).
const (
	schemaColType = iota
	schemaColName
	schemaColTblName
	schemaColRootPage
	schemaColSQL
)

// Database is an open, read-only handle on a SQLite file.
type Database struct {
	src    *fileSource
	config *DatabaseConfig
}

// Open parses the file header and prepares the database for querying.
// It never scans any page beyond the header until Run is called.
func Open(path string, opts ...DatabaseOption) (*Database, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	src, err := openFileSource(path, cfg)
	if err != nil {
		return nil, err
	}
	return &Database{src: src, config: cfg}, nil
}

// Close releases the underlying file.
func (db *Database) Close() error {
	return db.src.Close()
}

// Header returns the parsed 100-byte file header.
func (db *Database) Header() *header.FileHeader {
	return db.src.header
}

// Run parses sql and executes every statement in order. CREATE TABLE
// statements parse but are not executable: this engine has no write
// path, so running one reports ErrNotSupported. When a later statement
// fails, the tables already produced by earlier statements are returned
// alongside the error.
func (db *Database) Run(ctx context.Context, sql string) ([]Table, error) {
	if _, ok := ctx.Deadline(); !ok && db.config.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.config.ReadTimeout)
		defer cancel()
	}

	stmts, err := sqlast.Parse(sql)
	if err != nil {
		return nil, wrap("run", err, map[string]any{"sql": sql})
	}

	results := make([]Table, 0, len(stmts))
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *sqlast.SelectStatement:
			t, err := db.executeSelect(ctx, s)
			if err != nil {
				return results, err
			}
			results = append(results, t)
		case *sqlast.CreateStatement:
			return results, wrap("run", ErrNotSupported, map[string]any{"statement": "CREATE TABLE"})
		default:
			return results, wrap("run", ErrNotSupported, map[string]any{"statement": fmt.Sprintf("%T", stmt)})
		}
	}
	return results, nil
}

// resolveTable finds a table's root page and CREATE TABLE text. The four
// sqlite_schema aliases shortcut straight to page 1 and the built-in
// CREATE text; any other name is looked up by scanning page 1 itself.
func (db *Database) resolveTable(ctx context.Context, name string) (rootPage int, createSQL string, err error) {
	if isSchemaAlias(name) {
		return schemaRootPage, schemaCreateSQL, nil
	}

	rows, err := btree.Scan(ctx, db.src, schemaRootPage, btree.AcceptAll)
	if err != nil {
		return 0, "", wrap("resolve_table", err, map[string]any{"table": name})
	}
	for _, row := range rows {
		values, err := record.Decode(row.Payload)
		if err != nil {
			return 0, "", wrap("resolve_table", err, map[string]any{"table": name})
		}
		if len(values) <= schemaColName {
			continue
		}
		n, ok := values[schemaColName].AsText()
		if !ok || lower(n) != lower(name) {
			continue
		}
		rp, ok := values[schemaColRootPage].AsInteger()
		if !ok {
			return 0, "", wrap("resolve_table", fmt.Errorf("rootpage column is not an integer"), map[string]any{"table": name})
		}
		sqlText, _ := values[schemaColSQL].AsText()
		return int(rp), sqlText, nil
	}
	return 0, "", wrap("resolve_table", ErrTableNotFound, map[string]any{"table": name})
}

// executeSelect resolves the source table, precompiles the projection
// and filter, scans, and assembles the result table.
func (db *Database) executeSelect(ctx context.Context, stmt *sqlast.SelectStatement) (Table, error) {
	rootPage, createSQL, err := db.resolveTable(ctx, stmt.From)
	if err != nil {
		return Table{}, err
	}
	columns, err := parseTableSchema(createSQL)
	if err != nil {
		return Table{}, err
	}

	if isCountStar(stmt) {
		return db.executeCountStar(ctx, rootPage, columns, stmt.Filter)
	}

	fields := stmt.Fields
	if fields == nil {
		fields = make([]sqlast.Expr, len(columns))
		for _, col := range columns {
			fields[col.Position] = &sqlast.IdentifierExpr{Name: col.Name}
		}
	}

	resultColumns := make([]Column, len(fields))
	evaluators := make([]Evaluator, len(fields))
	for i, field := range fields {
		resultColumns[i] = Column{Name: projectedName(field, i)}
		fn, err := Precompile(field)
		if err != nil {
			return Table{}, err
		}
		evaluators[i] = fn
	}

	var filter Evaluator
	if stmt.Filter != nil {
		filter, err = Precompile(stmt.Filter)
		if err != nil {
			return Table{}, err
		}
	}

	btRows, err := btree.Scan(ctx, db.src, rootPage, btree.AcceptAll)
	if err != nil {
		return Table{}, wrap("select", err, map[string]any{"table": stmt.From})
	}

	result := Table{Columns: resultColumns}
	for _, btRow := range btRows {
		values, err := record.Decode(btRow.Payload)
		if err != nil {
			return Table{}, wrap("select", err, map[string]any{"table": stmt.From})
		}
		row := schemaRow{columns: columns, rowid: btRow.Rowid, values: values}

		if filter != nil {
			keep, err := filter(row)
			if err != nil {
				continue
			}
			b, ok := keep.AsBool()
			if !ok || !b {
				continue
			}
		}

		out := make([]sqlvalue.Value, len(evaluators))
		for i, fn := range evaluators {
			v, err := fn(row)
			if err != nil {
				return Table{}, err
			}
			out[i] = v
		}
		result.Rows = append(result.Rows, Row{ID: sqlvalue.Integer(btRow.Rowid), Values: out})
	}
	return result, nil
}

// isCountStar recognizes the single supported aggregate form: count(*)
// as the lone projected field. A WHERE clause is still honored - see
// executeCountStar.
func isCountStar(stmt *sqlast.SelectStatement) bool {
	if len(stmt.Fields) != 1 {
		return false
	}
	fn, ok := stmt.Fields[0].(*sqlast.FunctionExpr)
	return ok && fn.Star && lower(fn.Name) == "count"
}

// executeCountStar counts rows, skipping payload decoding entirely when
// there is no WHERE clause; a filtered count decodes and evaluates the
// filter per row like any other SELECT.
func (db *Database) executeCountStar(ctx context.Context, rootPage int, columns []sqlast.ColumnDefinition, filterExpr sqlast.Expr) (Table, error) {
	btRows, err := btree.Scan(ctx, db.src, rootPage, btree.AcceptAll)
	if err != nil {
		return Table{}, wrap("count", err, nil)
	}

	resultTable := Table{Columns: []Column{{Name: "count(*)"}}}
	if filterExpr == nil {
		resultTable.Rows = []Row{{ID: sqlvalue.Null(), Values: []sqlvalue.Value{sqlvalue.Integer(int64(len(btRows)))}}}
		return resultTable, nil
	}

	filter, err := Precompile(filterExpr)
	if err != nil {
		return Table{}, err
	}
	count := int64(0)
	for _, btRow := range btRows {
		values, err := record.Decode(btRow.Payload)
		if err != nil {
			return Table{}, wrap("count", err, nil)
		}
		row := schemaRow{columns: columns, rowid: btRow.Rowid, values: values}
		keep, err := filter(row)
		if err != nil {
			continue
		}
		if b, ok := keep.AsBool(); ok && b {
			count++
		}
	}
	resultTable.Rows = []Row{{ID: sqlvalue.Null(), Values: []sqlvalue.Value{sqlvalue.Integer(count)}}}
	return resultTable, nil
}

// projectedName derives a display name for a projected field: an
// identifier keeps its own name, a literal prints its value, anything
// else gets a positional synthetic tag.
func projectedName(expr sqlast.Expr, pos int) string {
	switch e := expr.(type) {
	case *sqlast.IdentifierExpr:
		return e.Name
	case *sqlast.LiteralExpr:
		return e.Value.String()
	default:
		return fmt.Sprintf("column_%d", pos+1)
	}
}
