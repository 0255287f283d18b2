// Package sqlvalue implements the tagged union of runtime values that
// flows through record decoding, expression evaluation, and the query
// driver: Null, Bool, Integer, Float, Text, or Blob.
package sqlvalue

import "fmt"

// Kind discriminates the DbValue union.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindText:
		return "Text"
	case KindBlob:
		return "Blob"
	default:
		return "Unknown"
	}
}

// Value is a DbValue: Null, Bool, Integer, Float, Text, or Blob. Only one
// of the typed fields is meaningful, selected by Kind.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	blob []byte
}

func Null() Value           { return Value{kind: KindNull} }
func Bool(v bool) Value     { return Value{kind: KindBool, b: v} }
func Integer(v int64) Value { return Value{kind: KindInteger, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func Text(v string) Value   { return Value{kind: KindText, s: v} }
func Blob(v []byte) Value   { return Value{kind: KindBlob, blob: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool, AsInteger, AsFloat, AsText and AsBlob return the underlying value
// and whether v's Kind actually matches. They never convert between kinds;
// operations are defined pairwise on matching kinds only, and mixing them
// is the expression compiler's problem to report.
func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsInteger() (int64, bool) { return v.i, v.kind == KindInteger }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) AsText() (string, bool)   { return v.s, v.kind == KindText }
func (v Value) AsBlob() ([]byte, bool)   { return v.blob, v.kind == KindBlob }

// String renders v for display (the CLI row formatter and debugging), not
// for comparison or arithmetic.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindText:
		return v.s
	case KindBlob:
		return string(v.blob)
	default:
		return ""
	}
}

// Equal reports same-variant equality. Cross-variant comparisons are not
// defined and always report false here; callers that need type-mismatch
// signaling use the comparison operators in internal/query instead. Null
// is never equal to anything, including another Null.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b == other.b
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindText:
		return v.s == other.s
	case KindBlob:
		return string(v.blob) == string(other.blob)
	default:
		return false
	}
}

// Less reports same-variant ordering for Integer, Float, and Text. Other
// variants (Null, Bool, Blob) have no defined order and Less returns
// (false, false) for them.
func (v Value) Less(other Value) (result bool, ok bool) {
	if v.kind != other.kind {
		return false, false
	}
	switch v.kind {
	case KindInteger:
		return v.i < other.i, true
	case KindFloat:
		return v.f < other.f, true
	case KindText:
		return v.s < other.s, true
	default:
		return false, false
	}
}
