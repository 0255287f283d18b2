package header

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildValidHeader returns a 100-byte buffer representing a minimal
// valid SQLite header.
func buildValidHeader(pageSize uint16) []byte {
	h := make([]byte, 100)
	copy(h[0:16], []byte(magicString))
	binary.BigEndian.PutUint16(h[16:18], pageSize)
	h[18] = 1
	h[19] = 1
	h[21], h[22], h[23] = 64, 32, 32
	binary.BigEndian.PutUint32(h[96:100], 3045000)
	return h
}

func TestParseValid(t *testing.T) {
	buf := buildValidHeader(4096)
	h, err := Parse(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 4096, h.PageSize)
}

func TestParsePromotesPageSizeOne(t *testing.T) {
	buf := buildValidHeader(1)
	binary.BigEndian.PutUint32(buf[96:100], 3007001)
	h, err := Parse(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 65536, h.PageSize)
}

func TestParsePageSizeOneBelowVersionThreshold(t *testing.T) {
	buf := buildValidHeader(1)
	binary.BigEndian.PutUint32(buf[96:100], 3006000)
	h, err := Parse(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 1, h.PageSize)
}

func TestParseInvalidMagic(t *testing.T) {
	buf := buildValidHeader(4096)
	copy(buf[0:6], []byte("BADHDR"))
	_, err := Parse(buf)
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestParseInvalidFraction(t *testing.T) {
	buf := buildValidHeader(4096)
	buf[22] = 16
	_, err := Parse(buf)
	require.ErrorIs(t, err, ErrInvalidFraction)
}

func TestParseVacuumModeInconsistent(t *testing.T) {
	buf := buildValidHeader(4096)
	binary.BigEndian.PutUint32(buf[52:56], 0) // largest root btree page == 0
	binary.BigEndian.PutUint32(buf[64:68], 1) // incremental vacuum != 0
	_, err := Parse(buf)
	require.ErrorIs(t, err, ErrVacuumModeInconsistent)
}

func TestParseShortRead(t *testing.T) {
	_, err := Parse(make([]byte, 50))
	require.ErrorIs(t, err, ErrShortRead)
}

func TestParseSizeInPagesRequiresVersionMatch(t *testing.T) {
	buf := buildValidHeader(4096)
	binary.BigEndian.PutUint32(buf[28:32], 10) // size_in_pages
	binary.BigEndian.PutUint32(buf[24:28], 5)  // file_change_counter
	binary.BigEndian.PutUint32(buf[92:96], 5)  // version_valid_for == change counter

	h, err := Parse(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 10, h.SizeInPages)

	binary.BigEndian.PutUint32(buf[92:96], 6) // now mismatched
	h, err = Parse(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 0, h.SizeInPages)
}
