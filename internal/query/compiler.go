// Expression compiler: Precompile turns an AST expression into an
// Evaluator, a closure tree that captures constants and operator dispatch
// once and then runs against any RowView without re-walking the AST.
package query

import (
	"fmt"

	"github.com/hgye/litequery/internal/sqlast"
	"github.com/hgye/litequery/internal/sqlvalue"
)

// RowView is the minimal capability an Evaluator needs: resolve a column
// name to its value. Keeping it to one operation decouples expression
// evaluation from how rows are stored.
type RowView interface {
	Column(name string) sqlvalue.Value
}

// Evaluator is a precompiled expression: a closure over its children and
// operator, ready to run against any RowView.
type Evaluator func(RowView) (sqlvalue.Value, error)

// Precompile turns an AST expression into an Evaluator. Function calls
// and any expression compilation can't statically resolve are reported as
// ErrNotSupported at precompile time rather than deferred to evaluation.
func Precompile(expr sqlast.Expr) (Evaluator, error) {
	switch e := expr.(type) {
	case *sqlast.IdentifierExpr:
		name := e.Name
		return func(row RowView) (sqlvalue.Value, error) {
			return row.Column(name), nil
		}, nil

	case *sqlast.LiteralExpr:
		v := e.Value
		return func(RowView) (sqlvalue.Value, error) {
			return v, nil
		}, nil

	case *sqlast.GroupingExpr:
		return Precompile(e.Expr)

	case *sqlast.UnaryExpr:
		return precompileUnary(e)

	case *sqlast.BinaryExpr:
		return precompileBinary(e)

	case *sqlast.FunctionExpr:
		return nil, wrap("precompile", ErrNotSupported, map[string]any{"function": e.Name})

	default:
		return nil, wrap("precompile", ErrNotSupported, map[string]any{"expr": fmt.Sprintf("%T", expr)})
	}
}

func precompileUnary(e *sqlast.UnaryExpr) (Evaluator, error) {
	inner, err := Precompile(e.Expr)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case sqlast.OpMinus:
		return func(row RowView) (sqlvalue.Value, error) {
			v, err := inner(row)
			if err != nil {
				return sqlvalue.Value{}, err
			}
			i, ok := v.AsInteger()
			if !ok {
				return sqlvalue.Value{}, wrap("unary-", ErrTypeMismatch, map[string]any{"operand": v.Kind().String()})
			}
			return sqlvalue.Integer(-i), nil
		}, nil
	case sqlast.OpBang, sqlast.OpNot:
		return func(row RowView) (sqlvalue.Value, error) {
			v, err := inner(row)
			if err != nil {
				return sqlvalue.Value{}, err
			}
			if b, ok := v.AsBool(); ok {
				return sqlvalue.Bool(!b), nil
			}
			if i, ok := v.AsInteger(); ok {
				return sqlvalue.Integer(^i), nil
			}
			return sqlvalue.Value{}, wrap("unary-not", ErrTypeMismatch, map[string]any{"operand": v.Kind().String()})
		}, nil
	default:
		return nil, wrap("precompile", ErrNotSupported, map[string]any{"unary_op": e.Op})
	}
}

func precompileBinary(e *sqlast.BinaryExpr) (Evaluator, error) {
	left, err := Precompile(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := Precompile(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case sqlast.OpPlus, sqlast.OpMinus, sqlast.OpAsterisk, sqlast.OpSlash:
		return precompileArithmetic(e.Op, left, right), nil
	case sqlast.OpEquals, sqlast.OpNotEquals, sqlast.OpLess, sqlast.OpLessEq, sqlast.OpGreater, sqlast.OpGreaterEq:
		return precompileComparison(e.Op, left, right), nil
	case sqlast.OpAnd, sqlast.OpOr:
		return precompileLogical(e.Op, left, right), nil
	default:
		return nil, wrap("precompile", ErrNotSupported, map[string]any{"binary_op": e.Op})
	}
}

// precompileArithmetic handles Integer operands for all four operators,
// plus Text concatenation for '+'. Any other pairing is a type mismatch.
func precompileArithmetic(op sqlast.Operator, left, right Evaluator) Evaluator {
	return func(row RowView) (sqlvalue.Value, error) {
		lv, err := left(row)
		if err != nil {
			return sqlvalue.Value{}, err
		}
		rv, err := right(row)
		if err != nil {
			return sqlvalue.Value{}, err
		}

		if op == sqlast.OpPlus {
			if ls, ok := lv.AsText(); ok {
				if rs, ok := rv.AsText(); ok {
					return sqlvalue.Text(ls + rs), nil
				}
			}
		}

		li, lok := lv.AsInteger()
		ri, rok := rv.AsInteger()
		if !lok || !rok {
			return sqlvalue.Value{}, wrap("arithmetic", ErrTypeMismatch,
				map[string]any{"left": lv.Kind().String(), "right": rv.Kind().String(), "op": op})
		}
		switch op {
		case sqlast.OpPlus:
			return sqlvalue.Integer(li + ri), nil
		case sqlast.OpMinus:
			return sqlvalue.Integer(li - ri), nil
		case sqlast.OpAsterisk:
			return sqlvalue.Integer(li * ri), nil
		case sqlast.OpSlash:
			if ri == 0 {
				return sqlvalue.Value{}, wrap("arithmetic", fmt.Errorf("division by zero"), nil)
			}
			return sqlvalue.Integer(li / ri), nil
		}
		return sqlvalue.Value{}, wrap("arithmetic", ErrNotSupported, map[string]any{"op": op})
	}
}

// precompileComparison produces Bool: equality works across any matching
// variant, ordering only for Integer, Float, and Text. A Null operand is
// a type mismatch, which the WHERE filter turns into "row excluded".
func precompileComparison(op sqlast.Operator, left, right Evaluator) Evaluator {
	return func(row RowView) (sqlvalue.Value, error) {
		lv, err := left(row)
		if err != nil {
			return sqlvalue.Value{}, err
		}
		rv, err := right(row)
		if err != nil {
			return sqlvalue.Value{}, err
		}
		if lv.IsNull() || rv.IsNull() {
			return sqlvalue.Value{}, wrap("comparison", ErrTypeMismatch,
				map[string]any{"left": lv.Kind().String(), "right": rv.Kind().String(), "op": op})
		}

		switch op {
		case sqlast.OpEquals:
			return sqlvalue.Bool(lv.Kind() == rv.Kind() && lv.Equal(rv)), nil
		case sqlast.OpNotEquals:
			return sqlvalue.Bool(lv.Kind() != rv.Kind() || !lv.Equal(rv)), nil
		}

		lt, ok := lv.Less(rv)
		if !ok {
			return sqlvalue.Value{}, wrap("comparison", ErrTypeMismatch,
				map[string]any{"left": lv.Kind().String(), "right": rv.Kind().String(), "op": op})
		}
		gt, _ := rv.Less(lv)
		switch op {
		case sqlast.OpLess:
			return sqlvalue.Bool(lt), nil
		case sqlast.OpGreater:
			return sqlvalue.Bool(gt), nil
		case sqlast.OpLessEq:
			return sqlvalue.Bool(!gt), nil
		case sqlast.OpGreaterEq:
			return sqlvalue.Bool(!lt), nil
		}
		return sqlvalue.Value{}, wrap("comparison", ErrNotSupported, map[string]any{"op": op})
	}
}

// precompileLogical requires both operands Bool, short-circuiting on the
// left operand where the result is already decided.
func precompileLogical(op sqlast.Operator, left, right Evaluator) Evaluator {
	return func(row RowView) (sqlvalue.Value, error) {
		lv, err := left(row)
		if err != nil {
			return sqlvalue.Value{}, err
		}
		lb, ok := lv.AsBool()
		if !ok {
			return sqlvalue.Value{}, wrap("logical", ErrTypeMismatch, map[string]any{"left": lv.Kind().String()})
		}
		if op == sqlast.OpAnd && !lb {
			return sqlvalue.Bool(false), nil
		}
		if op == sqlast.OpOr && lb {
			return sqlvalue.Bool(true), nil
		}

		rv, err := right(row)
		if err != nil {
			return sqlvalue.Value{}, err
		}
		rb, ok := rv.AsBool()
		if !ok {
			return sqlvalue.Value{}, wrap("logical", ErrTypeMismatch, map[string]any{"right": rv.Kind().String()})
		}
		if op == sqlast.OpAnd {
			return sqlvalue.Bool(lb && rb), nil
		}
		return sqlvalue.Bool(lb || rb), nil
	}
}
