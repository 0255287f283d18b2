package sqlast

// TokenType classifies one lexed token.
type TokenType int

const (
	EOF TokenType = iota

	// Single-char punctuation
	Asterisk
	Plus
	Minus
	OpenParen
	CloseParen
	Comma
	Semicolon
	Dot
	Assign

	// Comparison operators
	Less
	Greater
	LessEq
	GreaterEq
	NotEquals
	Bang
	Slash

	// Literals and names
	Identifier
	QuotedIdentifier
	String
	Number

	// Keywords
	Create
	Table
	Select
	From
	Where
	Primary
	Key
	Integer
	Text
	Or
	And
	Not
	Null
	True
	False
	Asc
	Desc
	Autoincrement
	Unique
	On
	Conflict
	Rollback
	Abort
	Fail
	Ignore
	Replace
)

var keywords = map[string]TokenType{
	"CREATE":        Create,
	"TABLE":         Table,
	"SELECT":        Select,
	"FROM":          From,
	"WHERE":         Where,
	"PRIMARY":       Primary,
	"KEY":           Key,
	"INTEGER":       Integer,
	"TEXT":          Text,
	"OR":            Or,
	"AND":           And,
	"NOT":           Not,
	"NULL":          Null,
	"TRUE":          True,
	"FALSE":         False,
	"ASC":           Asc,
	"DESC":          Desc,
	"AUTOINCREMENT": Autoincrement,
	"UNIQUE":        Unique,
	"ON":            On,
	"CONFLICT":      Conflict,
	"ROLLBACK":      Rollback,
	"ABORT":         Abort,
	"FAIL":          Fail,
	"IGNORE":        Ignore,
	"REPLACE":       Replace,
}

// Token is one lexed unit: its class and the source text it came from.
type Token struct {
	Type   TokenType
	Lexeme string
}
