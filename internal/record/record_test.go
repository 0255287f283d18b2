package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPayload assembles a record payload from a header_size byte, a list
// of single-byte serial types, and the raw body bytes. Every fixture here
// keeps its header under 128 bytes so each varint fits in one byte.
func buildPayload(serialTypes []byte, body []byte) []byte {
	headerSize := byte(1 + len(serialTypes))
	payload := append([]byte{headerSize}, serialTypes...)
	return append(payload, body...)
}

func TestDecodeNullAndConstants(t *testing.T) {
	payload := buildPayload([]byte{0, 8, 9}, nil)
	values, err := Decode(payload)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.True(t, values[0].IsNull())

	i, ok := values[1].AsInteger()
	assert.True(t, ok)
	assert.EqualValues(t, 0, i)

	i, ok = values[2].AsInteger()
	assert.True(t, ok)
	assert.EqualValues(t, 1, i)
}

func TestDecodeSignedIntegerWidths(t *testing.T) {
	// serial type 1 (int8, value -1) followed by serial type 4 (int32, value 1)
	payload := buildPayload([]byte{1, 4}, []byte{0xff, 0x00, 0x00, 0x00, 0x01})
	values, err := Decode(payload)
	require.NoError(t, err)

	i, ok := values[0].AsInteger()
	require.True(t, ok)
	assert.EqualValues(t, -1, i)

	i, ok = values[1].AsInteger()
	require.True(t, ok)
	assert.EqualValues(t, 1, i)
}

func TestDecodeSignExtendedInt24(t *testing.T) {
	// serial type 3 (24-bit int), bytes represent -2 in two's complement
	payload := buildPayload([]byte{3}, []byte{0xff, 0xff, 0xfe})
	values, err := Decode(payload)
	require.NoError(t, err)

	i, ok := values[0].AsInteger()
	require.True(t, ok)
	assert.EqualValues(t, -2, i)
}

func TestDecodeFloat(t *testing.T) {
	// serial type 7: IEEE-754 double for 1.5
	payload := buildPayload([]byte{7}, []byte{0x3f, 0xf8, 0, 0, 0, 0, 0, 0})
	values, err := Decode(payload)
	require.NoError(t, err)

	f, ok := values[0].AsFloat()
	require.True(t, ok)
	assert.Equal(t, 1.5, f)
}

func TestDecodeTextAndBlob(t *testing.T) {
	// serial type 17 = 13+2*2 -> text of length 2; 16 = 12+2*2 -> blob of length 2
	payload := buildPayload([]byte{17, 16}, []byte("hiAB"))
	values, err := Decode(payload)
	require.NoError(t, err)

	s, ok := values[0].AsText()
	require.True(t, ok)
	assert.Equal(t, "hi", s)

	blob, ok := values[1].AsBlob()
	require.True(t, ok)
	assert.Equal(t, []byte("AB"), blob)
}

func TestDecodeReservedSerialTypeFails(t *testing.T) {
	payload := buildPayload([]byte{10}, nil)
	_, err := Decode(payload)
	require.ErrorIs(t, err, ErrReservedSerialType)
}

func TestDecodeInvalidUTF8Fails(t *testing.T) {
	payload := buildPayload([]byte{15}, []byte{0xff, 0xfe})
	_, err := Decode(payload)
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestDecodeShortPayloadFails(t *testing.T) {
	payload := buildPayload([]byte{4}, []byte{0x00, 0x01})
	_, err := Decode(payload)
	require.ErrorIs(t, err, ErrShortPayload)
}
