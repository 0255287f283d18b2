package varint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKnownVectors(t *testing.T) {
	cases := []struct {
		name  string
		data  []byte
		value int64
		n     int
	}{
		{"zero", []byte{0x00}, 0, 1},
		{"three bytes", []byte{0x86, 0xC3, 0x17}, 106903, 3},
		{"two bytes low", []byte{0x81, 0x00}, 128, 2},
		{"two bytes mid", []byte{0xC0, 0x00}, 8192, 2},
		{"two bytes max", []byte{0xFF, 0x7F}, 16383, 2},
		{"four bytes max", []byte{0xFF, 0xFF, 0xFF, 0x7F}, 268435455, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, n, err := Decode(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.value, v)
			assert.Equal(t, tc.n, n)
		})
	}
}

func TestDecodeNineByteForm(t *testing.T) {
	// -1 is all 64 bits set: eight continuation bytes of 0x7f payload
	// topped by 0xff, then a full ninth byte.
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	v, n, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)
	assert.Equal(t, 9, n)
}

func TestDecodeTruncated(t *testing.T) {
	_, _, err := Decode(nil)
	require.ErrorIs(t, err, ErrTruncated)

	_, _, err = Decode([]byte{0x81})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeAtOffset(t *testing.T) {
	data := []byte{0x00, 0x00, 0x81, 0x00}
	v, n, err := DecodeAt(data, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(128), v)
	assert.Equal(t, 2, n)

	_, _, err = DecodeAt(data, 5)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestRoundTrip(t *testing.T) {
	values := []int64{
		0, 1, 127, 128, 8192, 16383, 16384, 106903, 268435455,
		1<<32 - 1, 1 << 40, 1<<56 - 1, 1 << 56, 1<<63 - 1, -1, -106903, -1 << 63,
	}
	for _, v := range values {
		enc := Encode(v)
		require.GreaterOrEqual(t, len(enc), 1)
		require.LessOrEqual(t, len(enc), 9)
		got, n, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, v, got, "value %d", v)
		assert.Equal(t, len(enc), n, "value %d", v)
	}
}

func TestEncodeKnownVectors(t *testing.T) {
	assert.Equal(t, []byte{0x00}, Encode(0))
	assert.Equal(t, []byte{0x81, 0x00}, Encode(128))
	assert.Equal(t, []byte{0xFF, 0x7F}, Encode(16383))
	assert.Equal(t, []byte{0x86, 0xC3, 0x17}, Encode(106903))
}
