package sqlvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualSameVariant(t *testing.T) {
	assert.True(t, Integer(5).Equal(Integer(5)))
	assert.False(t, Integer(5).Equal(Integer(6)))
	assert.True(t, Text("a").Equal(Text("a")))
}

func TestEqualNullIsNeverEqual(t *testing.T) {
	assert.False(t, Null().Equal(Null()))
}

func TestEqualCrossVariantIsFalse(t *testing.T) {
	assert.False(t, Integer(0).Equal(Bool(false)))
	assert.False(t, Integer(1).Equal(Float(1.0)))
}

func TestLessDefinedWithinVariant(t *testing.T) {
	lt, ok := Integer(1).Less(Integer(2))
	assert.True(t, ok)
	assert.True(t, lt)

	lt, ok = Text("a").Less(Text("b"))
	assert.True(t, ok)
	assert.True(t, lt)
}

func TestLessUndefinedAcrossVariantOrForBoolBlob(t *testing.T) {
	_, ok := Integer(1).Less(Text("1"))
	assert.False(t, ok)

	_, ok = Bool(true).Less(Bool(false))
	assert.False(t, ok)
}

func TestAsAccessorsReportKindMismatch(t *testing.T) {
	_, ok := Integer(5).AsText()
	assert.False(t, ok)

	i, ok := Integer(5).AsInteger()
	assert.True(t, ok)
	assert.EqualValues(t, 5, i)
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "5", Integer(5).String())
	assert.Equal(t, "hello", Text("hello").String())
}
