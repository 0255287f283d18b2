package sqlast

import (
	"fmt"
	"io"
	"strings"
)

func (t ColType) String() string {
	if t == ColInteger {
		return "INTEGER"
	}
	return "TEXT"
}

func (o Operator) String() string {
	switch o {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpAsterisk:
		return "*"
	case OpSlash:
		return "/"
	case OpEquals:
		return "="
	case OpNotEquals:
		return "!="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	case OpBang:
		return "!"
	default:
		return "?"
	}
}

// Printer renders statements as an indented tree, one node per line.
// Binary expressions print their left subtree, then the operator, then
// the right subtree, each side one level deeper.
type Printer struct {
	w     io.Writer
	depth int
}

func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

func (p *Printer) Print(stmt Statement) {
	switch s := stmt.(type) {
	case *CreateStatement:
		p.line("create table %s", s.TableName)
		p.depth++
		for _, col := range s.Columns {
			p.printColumn(col)
		}
		p.depth--
	case *SelectStatement:
		p.line("select from %s:", s.From)
		p.depth++
		if len(s.Fields) == 0 {
			p.line("all fields")
		} else {
			for _, f := range s.Fields {
				p.printExpr(f)
			}
		}
		if s.Filter != nil {
			p.line("where:")
			p.depth++
			p.printExpr(s.Filter)
			p.depth--
		}
		p.depth--
	}
}

func (p *Printer) printColumn(c ColumnDefinition) {
	p.line("column: %s %s", c.Name, c.Type)
	for _, cons := range c.Constraints {
		switch cons.Kind {
		case ConstraintPrimaryKey:
			p.line("primary key")
		case ConstraintNotNull:
			p.line("not null")
		case ConstraintUnique:
			p.line("unique")
		}
	}
}

func (p *Printer) printExpr(e Expr) {
	switch x := e.(type) {
	case *IdentifierExpr:
		p.line("ident: %s", x.Name)
	case *LiteralExpr:
		p.line("lit: %s", x.Value)
	case *BinaryExpr:
		p.depth++
		p.printExpr(x.Left)
		p.depth--
		p.line("op: %s", x.Op)
		p.depth++
		p.printExpr(x.Right)
		p.depth--
	case *UnaryExpr:
		p.line("op: %s", x.Op)
		p.depth++
		p.printExpr(x.Expr)
		p.depth--
	case *FunctionExpr:
		p.line("call: %s", x.Name)
		p.depth++
		if x.Star {
			p.line("*")
		}
		for _, arg := range x.Args {
			p.printExpr(arg)
		}
		p.depth--
	case *GroupingExpr:
		p.line("(")
		p.depth++
		p.printExpr(x.Expr)
		p.depth--
		p.line(")")
	}
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("\t", p.depth), fmt.Sprintf(format, args...))
}
