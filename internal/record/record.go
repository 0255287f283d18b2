// Package record decodes a table B-tree cell's payload into a sequence
// of typed values: a header of serial-type varints followed by the
// tightly packed value bytes in the same order.
package record

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/hgye/litequery/internal/sqlvalue"
	"github.com/hgye/litequery/internal/varint"
)

var (
	// ErrReservedSerialType is returned for serial type 10 or 11, which
	// the format reserves and never assigns a meaning to.
	ErrReservedSerialType = errors.New("record: reserved serial type")
	// ErrShortPayload is returned when a value's declared width runs
	// past the end of the payload.
	ErrShortPayload = errors.New("record: payload shorter than declared value width")
	// ErrInvalidUTF8 is returned when a Text value's bytes are not
	// valid UTF-8. Other encodings are not decoded.
	ErrInvalidUTF8 = errors.New("record: text value is not valid UTF-8")
)

// Decode parses a record payload into one value per serial type found in
// the record header: a header_size varint (inclusive of itself), a
// sequence of serial-type varints filling out the rest of the header, and
// a body whose values are laid out in the same order with widths implied
// by the serial types.
func Decode(payload []byte) ([]sqlvalue.Value, error) {
	headerSize, v1, err := varint.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("record: header_size: %w", err)
	}

	var serialTypes []int64
	offset := v1
	for offset < int(headerSize) {
		st, n, err := varint.DecodeAt(payload, offset)
		if err != nil {
			return nil, fmt.Errorf("record: serial type: %w", err)
		}
		serialTypes = append(serialTypes, st)
		offset += n
	}

	values := make([]sqlvalue.Value, len(serialTypes))
	for i, st := range serialTypes {
		val, width, err := decodeValue(payload, offset, st)
		if err != nil {
			return nil, err
		}
		values[i] = val
		offset += width
	}
	return values, nil
}

// decodeValue reads one value at offset according to its serial type,
// returning the decoded DbValue and the number of body bytes it consumed.
func decodeValue(payload []byte, offset int, serialType int64) (sqlvalue.Value, int, error) {
	switch {
	case serialType == 0:
		return sqlvalue.Null(), 0, nil
	case serialType == 8:
		return sqlvalue.Integer(0), 0, nil
	case serialType == 9:
		return sqlvalue.Integer(1), 0, nil
	case serialType == 10 || serialType == 11:
		return sqlvalue.Value{}, 0, fmt.Errorf("%w: %d", ErrReservedSerialType, serialType)
	case serialType >= 1 && serialType <= 6:
		width := intWidth(serialType)
		if offset+width > len(payload) {
			return sqlvalue.Value{}, 0, ErrShortPayload
		}
		return sqlvalue.Integer(decodeSignedInt(payload[offset:offset+width])), width, nil
	case serialType == 7:
		if offset+8 > len(payload) {
			return sqlvalue.Value{}, 0, ErrShortPayload
		}
		bits := beUint64(payload[offset : offset+8])
		return sqlvalue.Float(math.Float64frombits(bits)), 8, nil
	case serialType >= 12 && serialType%2 == 0:
		width := int((serialType - 12) / 2)
		if offset+width > len(payload) {
			return sqlvalue.Value{}, 0, ErrShortPayload
		}
		blob := make([]byte, width)
		copy(blob, payload[offset:offset+width])
		return sqlvalue.Blob(blob), width, nil
	case serialType >= 13 && serialType%2 == 1:
		width := int((serialType - 13) / 2)
		if offset+width > len(payload) {
			return sqlvalue.Value{}, 0, ErrShortPayload
		}
		text := payload[offset : offset+width]
		if !utf8.Valid(text) {
			return sqlvalue.Value{}, 0, ErrInvalidUTF8
		}
		return sqlvalue.Text(string(text)), width, nil
	default:
		return sqlvalue.Value{}, 0, fmt.Errorf("%w: %d", ErrReservedSerialType, serialType)
	}
}

func intWidth(serialType int64) int {
	switch serialType {
	case 1:
		return 1
	case 2:
		return 2
	case 3:
		return 3
	case 4:
		return 4
	case 5:
		return 6
	case 6:
		return 8
	default:
		return 0
	}
}

// decodeSignedInt decodes a big-endian two's-complement integer of 1, 2,
// 3, 4, 6, or 8 bytes, sign-extending the format's odd 3- and 6-byte
// widths to 64 bits.
func decodeSignedInt(b []byte) int64 {
	var u uint64
	for _, by := range b {
		u = (u << 8) | uint64(by)
	}
	bits := uint(len(b)) * 8
	shift := 64 - bits
	return int64(u<<shift) >> shift
}

func beUint64(b []byte) uint64 {
	var u uint64
	for _, by := range b {
		u = (u << 8) | uint64(by)
	}
	return u
}
