package sqlast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, err := Scan("* + - ( ) , ; . = != <= >= < > ! /")
	require.NoError(t, err)
	want := []TokenType{
		Asterisk, Plus, Minus, OpenParen, CloseParen, Comma, Semicolon, Dot, Assign,
		NotEquals, LessEq, GreaterEq, Less, Greater, Bang, Slash, EOF,
	}
	require.Len(t, toks, len(want))
	for i, tt := range want {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestScanKeywordsCaseInsensitive(t *testing.T) {
	toks, err := Scan("select From wHeRe")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, Select, toks[0].Type)
	assert.Equal(t, From, toks[1].Type)
	assert.Equal(t, Where, toks[2].Type)
}

func TestScanQuotedIdentifierAndString(t *testing.T) {
	toks, err := Scan(`"my col" 'hello world'`)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, QuotedIdentifier, toks[0].Type)
	assert.Equal(t, "my col", toks[0].Lexeme)
	assert.Equal(t, String, toks[1].Type)
	assert.Equal(t, "hello world", toks[1].Lexeme)
}

func TestScanNumericLiterals(t *testing.T) {
	toks, err := Scan("42 3.14")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "42", toks[0].Lexeme)
	assert.Equal(t, "3.14", toks[1].Lexeme)
}

func TestScanUnterminatedStringFails(t *testing.T) {
	_, err := Scan("'unterminated")
	require.Error(t, err)
}

func TestScanUnknownCharacterFails(t *testing.T) {
	_, err := Scan("@")
	require.Error(t, err)
}

func TestScanWhitespaceSkipped(t *testing.T) {
	toks, err := Scan("  \t\r\nSELECT\n")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, Select, toks[0].Type)
}
