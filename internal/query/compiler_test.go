package query

import (
	"testing"

	"github.com/hgye/litequery/internal/sqlast"
	"github.com/hgye/litequery/internal/sqlvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapRowView map[string]sqlvalue.Value

func (m mapRowView) Column(name string) sqlvalue.Value {
	if v, ok := m[name]; ok {
		return v
	}
	return sqlvalue.Null()
}

func eval(t *testing.T, sql string, row RowView) sqlvalue.Value {
	t.Helper()
	stmts, err := sqlast.Parse("SELECT " + sql + " FROM t")
	require.NoError(t, err)
	expr := stmts[0].(*sqlast.SelectStatement).Fields[0]
	fn, err := Precompile(expr)
	require.NoError(t, err)
	v, err := fn(row)
	require.NoError(t, err)
	return v
}

func TestPrecompileArithmetic(t *testing.T) {
	row := mapRowView{"a": sqlvalue.Integer(5), "b": sqlvalue.Integer(3)}
	v := eval(t, "a + b", row)
	i, ok := v.AsInteger()
	require.True(t, ok)
	assert.EqualValues(t, 8, i)

	v = eval(t, "a * b - 1", row)
	i, _ = v.AsInteger()
	assert.EqualValues(t, 14, i)
}

func TestPrecompileTextConcatenation(t *testing.T) {
	row := mapRowView{"a": sqlvalue.Text("foo"), "b": sqlvalue.Text("bar")}
	v := eval(t, "a + b", row)
	s, ok := v.AsText()
	require.True(t, ok)
	assert.Equal(t, "foobar", s)
}

func TestPrecompileComparison(t *testing.T) {
	row := mapRowView{"a": sqlvalue.Integer(5)}
	v := eval(t, "a >= 5", row)
	b, ok := v.AsBool()
	require.True(t, ok)
	assert.True(t, b)

	v = eval(t, "a < 5", row)
	b, _ = v.AsBool()
	assert.False(t, b)
}

func TestPrecompileLogicalShortCircuit(t *testing.T) {
	row := mapRowView{"flag": sqlvalue.Bool(false)}
	// "missing" resolves to Null, which would be a type mismatch if the
	// right operand were evaluated.
	v := eval(t, "flag AND missing", row)
	b, ok := v.AsBool()
	require.True(t, ok)
	assert.False(t, b)
}

func TestPrecompileUnaryMinusAndNot(t *testing.T) {
	row := mapRowView{"a": sqlvalue.Integer(5), "flag": sqlvalue.Bool(true)}
	v := eval(t, "-a", row)
	i, ok := v.AsInteger()
	require.True(t, ok)
	assert.EqualValues(t, -5, i)

	v = eval(t, "NOT flag", row)
	b, ok := v.AsBool()
	require.True(t, ok)
	assert.False(t, b)
}

func TestPrecompileTypeMismatchErrors(t *testing.T) {
	stmts, err := sqlast.Parse("SELECT a + b FROM t")
	require.NoError(t, err)
	expr := stmts[0].(*sqlast.SelectStatement).Fields[0]
	fn, err := Precompile(expr)
	require.NoError(t, err)

	row := mapRowView{"a": sqlvalue.Integer(1), "b": sqlvalue.Text("x")}
	_, err = fn(row)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestPrecompileNullComparisonIsTypeMismatch(t *testing.T) {
	stmts, err := sqlast.Parse("SELECT a = 1 FROM t")
	require.NoError(t, err)
	expr := stmts[0].(*sqlast.SelectStatement).Fields[0]
	fn, err := Precompile(expr)
	require.NoError(t, err)

	row := mapRowView{"a": sqlvalue.Null()}
	_, err = fn(row)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestPrecompileFunctionCallUnsupported(t *testing.T) {
	stmts, err := sqlast.Parse("SELECT count(*) FROM t")
	require.NoError(t, err)
	expr := stmts[0].(*sqlast.SelectStatement).Fields[0]
	_, err = Precompile(expr)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestPrecompileUnmatchedIdentifierYieldsNull(t *testing.T) {
	v := eval(t, "missing", mapRowView{})
	assert.True(t, v.IsNull())
}
