package sqlast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hgye/litequery/internal/sqlvalue"
)

// ParseError reports a recursive-descent parser failure: a missing
// statement, an unrecognized keyword where a specific one was expected,
// a token of the wrong kind, or a free-form message.
type ParseError struct {
	Kind    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sqlast: parse error (%s): %s", e.Kind, e.Message)
}

func errNoInput() error {
	return &ParseError{Kind: "NoInput", Message: "no statement to parse"}
}

func errInvalidKeyword(lexeme string) error {
	return &ParseError{Kind: "InvalidKeyword", Message: fmt.Sprintf("unexpected keyword %q", lexeme)}
}

func errExpectedToken(want TokenType, got Token) error {
	return &ParseError{Kind: "ExpectedToken", Message: fmt.Sprintf("expected token %d, got %q", want, got.Lexeme)}
}

func errCustom(msg string) error {
	return &ParseError{Kind: "CustomError", Message: msg}
}

// Parse tokenizes and parses src into a list of statements. Statements
// are separated by semicolons, with an optional trailing one. A parse
// error aborts the current statement; Parse does not attempt recovery.
func Parse(src string) ([]Statement, error) {
	tokens, err := Scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseStatementList()
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) cur() Token  { return p.tokens[p.pos] }
func (p *parser) atEOF() bool { return p.cur().Type == EOF }

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) check(t TokenType) bool { return p.cur().Type == t }

func (p *parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(t TokenType) (Token, error) {
	if !p.check(t) {
		return Token{}, errExpectedToken(t, p.cur())
	}
	return p.advance(), nil
}

func (p *parser) parseStatementList() ([]Statement, error) {
	if p.atEOF() {
		return nil, errNoInput()
	}
	var stmts []Statement
	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.match(Semicolon) {
			if p.atEOF() {
				break
			}
			continue
		}
		if p.atEOF() {
			break
		}
		return nil, errExpectedToken(Semicolon, p.cur())
	}
	return stmts, nil
}

func (p *parser) parseStatement() (Statement, error) {
	switch p.cur().Type {
	case Create:
		return p.parseCreate()
	case Select:
		return p.parseSelect()
	default:
		return nil, errInvalidKeyword(p.cur().Lexeme)
	}
}

func (p *parser) parseCreate() (Statement, error) {
	p.advance() // CREATE
	if _, err := p.expect(Table); err != nil {
		return nil, err
	}
	name, err := p.expect(Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(OpenParen); err != nil {
		return nil, err
	}

	var cols []ColumnDefinition
	for {
		col, err := p.parseColumnDefinition(len(cols))
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		if p.match(Comma) {
			continue
		}
		break
	}
	if _, err := p.expect(CloseParen); err != nil {
		return nil, err
	}
	return &CreateStatement{TableName: name.Lexeme, Columns: cols}, nil
}

func (p *parser) parseColumnDefinition(position int) (ColumnDefinition, error) {
	name, err := p.expect(Identifier)
	if err != nil {
		return ColumnDefinition{}, err
	}

	var typ ColType
	switch {
	case p.match(Integer):
		typ = ColInteger
	case p.match(Text):
		typ = ColText
	default:
		return ColumnDefinition{}, errCustom("expected column type INTEGER or TEXT")
	}

	var constraints []Constraint
	for {
		cons, ok, err := p.tryParseConstraint()
		if err != nil {
			return ColumnDefinition{}, err
		}
		if !ok {
			break
		}
		constraints = append(constraints, cons)
	}

	return ColumnDefinition{Name: name.Lexeme, Position: position, Type: typ, Constraints: constraints}, nil
}

func (p *parser) tryParseConstraint() (Constraint, bool, error) {
	switch {
	case p.match(Primary):
		if _, err := p.expect(Key); err != nil {
			return Constraint{}, false, err
		}
		cons := Constraint{Kind: ConstraintPrimaryKey, Asc: true}
		if p.match(Asc) {
			cons.Asc = true
		} else if p.match(Desc) {
			cons.Asc = false
		}
		conflict, err := p.tryParseConflict()
		if err != nil {
			return Constraint{}, false, err
		}
		cons.Conflict = conflict
		if p.match(Autoincrement) {
			cons.AutoInc = true
		}
		return cons, true, nil
	case p.match(Not):
		if _, err := p.expect(Null); err != nil {
			return Constraint{}, false, err
		}
		conflict, err := p.tryParseConflict()
		if err != nil {
			return Constraint{}, false, err
		}
		return Constraint{Kind: ConstraintNotNull, Conflict: conflict}, true, nil
	case p.match(Unique):
		conflict, err := p.tryParseConflict()
		if err != nil {
			return Constraint{}, false, err
		}
		return Constraint{Kind: ConstraintUnique, Conflict: conflict}, true, nil
	default:
		return Constraint{}, false, nil
	}
}

func (p *parser) tryParseConflict() (ConflictClause, error) {
	if !p.match(On) {
		return ConflictNone, nil
	}
	if _, err := p.expect(Conflict); err != nil {
		return ConflictNone, err
	}
	switch {
	case p.match(Rollback):
		return ConflictRollback, nil
	case p.match(Abort):
		return ConflictAbort, nil
	case p.match(Fail):
		return ConflictFail, nil
	case p.match(Ignore):
		return ConflictIgnore, nil
	case p.match(Replace):
		return ConflictReplace, nil
	default:
		return ConflictNone, errCustom("expected a conflict resolution after ON CONFLICT")
	}
}

func (p *parser) parseSelect() (Statement, error) {
	p.advance() // SELECT

	var fields []Expr
	if p.match(Asterisk) {
		fields = nil
	} else {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, e)
			if p.match(Comma) {
				continue
			}
			break
		}
	}

	if _, err := p.expect(From); err != nil {
		return nil, err
	}
	from, err := p.expect(Identifier)
	if err != nil {
		return nil, err
	}

	var filter Expr
	if p.match(Where) {
		filter, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	return &SelectStatement{From: from.Lexeme, Fields: fields, Filter: filter}, nil
}

// Expression grammar, low to high precedence: or, and, equality,
// comparison, additive, multiplicative, unary, call, primary.

func (p *parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(Or) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Right: right, Op: OpOr}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.match(And) {
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Right: right, Op: OpAnd}
	}
	return left, nil
}

func (p *parser) parseEquality() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		var op Operator
		switch {
		case p.match(Assign):
			op = OpEquals
		case p.match(NotEquals):
			op = OpNotEquals
		default:
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Right: right, Op: op}
	}
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op Operator
		switch {
		case p.match(Less):
			op = OpLess
		case p.match(LessEq):
			op = OpLessEq
		case p.match(Greater):
			op = OpGreater
		case p.match(GreaterEq):
			op = OpGreaterEq
		default:
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Right: right, Op: op}
	}
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op Operator
		switch {
		case p.match(Plus):
			op = OpPlus
		case p.match(Minus):
			op = OpMinus
		default:
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Right: right, Op: op}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op Operator
		switch {
		case p.match(Asterisk):
			op = OpAsterisk
		case p.match(Slash):
			op = OpSlash
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Right: right, Op: op}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch {
	case p.match(Minus):
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: OpMinus, Expr: e}, nil
	case p.match(Bang):
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: OpBang, Expr: e}, nil
	case p.match(Not):
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: OpNot, Expr: e}, nil
	default:
		return p.parseCall()
	}
}

func (p *parser) parseCall() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	ident, ok := expr.(*IdentifierExpr)
	if !ok || !p.check(OpenParen) {
		return expr, nil
	}
	p.advance() // (

	call := &FunctionExpr{Name: ident.Name}
	if p.match(Asterisk) {
		call.Star = true
	} else if !p.check(CloseParen) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.match(Comma) {
				continue
			}
			break
		}
	}
	if _, err := p.expect(CloseParen); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case Identifier, QuotedIdentifier:
		p.advance()
		return &IdentifierExpr{Name: tok.Lexeme}, nil
	case True:
		p.advance()
		return &LiteralExpr{Value: sqlvalue.Bool(true)}, nil
	case False:
		p.advance()
		return &LiteralExpr{Value: sqlvalue.Bool(false)}, nil
	case Null:
		p.advance()
		return &LiteralExpr{Value: sqlvalue.Null()}, nil
	case Number:
		p.advance()
		return parseNumberLiteral(tok.Lexeme)
	case String:
		p.advance()
		return &LiteralExpr{Value: sqlvalue.Text(tok.Lexeme)}, nil
	case OpenParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(CloseParen); err != nil {
			return nil, err
		}
		return &GroupingExpr{Expr: inner}, nil
	default:
		return nil, errCustom(fmt.Sprintf("unexpected token %q in expression", tok.Lexeme))
	}
}

// parseNumberLiteral parses a literal containing a decimal point as
// Float, anything else as Integer.
func parseNumberLiteral(lexeme string) (Expr, error) {
	if strings.Contains(lexeme, ".") {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, errCustom(fmt.Sprintf("invalid numeric literal %q", lexeme))
		}
		return &LiteralExpr{Value: sqlvalue.Float(f)}, nil
	}
	i, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return nil, errCustom(fmt.Sprintf("invalid numeric literal %q", lexeme))
	}
	return &LiteralExpr{Value: sqlvalue.Integer(i)}, nil
}
