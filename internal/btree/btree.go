// Package btree walks the table B-tree pages of a SQLite file to
// enumerate (rowid, payload) pairs in ascending rowid order. Only the two
// table page kinds are walked; index pages report ErrNotSupported.
package btree

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hgye/litequery/internal/varint"
)

// Page type tags from the page header's first byte.
const (
	pageInteriorIndex = 2
	pageInteriorTable = 5
	pageLeafIndex     = 10
	pageLeafTable     = 13
)

var (
	// ErrNotSupported is returned when a scan reaches an index page. The
	// read path only ever walks table B-trees.
	ErrNotSupported = errors.New("btree: index pages are not supported")
	// ErrInvalidPageType is returned when a page header's first byte is
	// none of the four defined page type tags.
	ErrInvalidPageType = errors.New("btree: invalid page type")
)

// PageSource supplies raw page bytes by 1-indexed page number. Page 1's
// bytes include the 100-byte file header; the B-tree header for page 1
// therefore starts at offset 100, all other pages at offset 0.
//
// Implementations own a single reused page buffer: the slice returned by
// ReadPage is only valid until the next call. Scan never retains it past
// the call that produced it.
type PageSource interface {
	ReadPage(ctx context.Context, pageNum int) ([]byte, error)
}

// Row is one decoded table B-tree leaf entry: a rowid and its payload
// bytes, copied out of the page buffer so they outlive the scan that
// produced them.
type Row struct {
	Rowid   int64
	Payload []byte
}

// Predicate filters leaf rows during the scan. Returning false excludes
// the row from the result without copying its payload.
type Predicate func(rowid int64, payload []byte) bool

// AcceptAll is the always-true predicate used for full-table scans.
func AcceptAll(int64, []byte) bool { return true }

// Scan walks the table B-tree rooted at rootPage, in ascending rowid
// order, yielding every row for which predicate returns true.
func Scan(ctx context.Context, src PageSource, rootPage int, predicate Predicate) ([]Row, error) {
	return scanPage(ctx, src, rootPage, predicate)
}

func scanPage(ctx context.Context, src PageSource, pageNum int, predicate Predicate) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := src.ReadPage(ctx, pageNum)
	if err != nil {
		return nil, fmt.Errorf("btree: read page %d: %w", pageNum, err)
	}

	headerOffset := 0
	if pageNum == 1 {
		headerOffset = 100
	}
	if len(page) < headerOffset+8 {
		return nil, fmt.Errorf("btree: page %d too small for a page header", pageNum)
	}

	pageType := page[headerOffset]
	cellCount := int(binary.BigEndian.Uint16(page[headerOffset+3 : headerOffset+5]))

	switch pageType {
	case pageLeafTable:
		return scanLeafTable(page, headerOffset, cellCount, predicate)
	case pageInteriorTable:
		children := interiorChildren(page, headerOffset, cellCount)
		var rows []Row
		for _, child := range children {
			childRows, err := scanPage(ctx, src, child, predicate)
			if err != nil {
				return nil, err
			}
			rows = append(rows, childRows...)
		}
		return rows, nil
	case pageLeafIndex, pageInteriorIndex:
		return nil, ErrNotSupported
	default:
		return nil, fmt.Errorf("%w: page %d has type 0x%02x", ErrInvalidPageType, pageNum, pageType)
	}
}

// interiorChildren reads every child page number off an interior table
// page, in on-disk cell-pointer order followed by the right-most pointer,
// and returns them as plain ints. This fully drains the page's needed
// content into values (not slices) before any recursive ReadPage call can
// invalidate the shared page buffer.
func interiorChildren(page []byte, headerOffset, cellCount int) []int {
	cellPointerOffset := headerOffset + 12
	children := make([]int, 0, cellCount+1)
	for i := 0; i < cellCount; i++ {
		ptrOff := cellPointerOffset + i*2
		if ptrOff+2 > len(page) {
			break
		}
		cellOffset := int(binary.BigEndian.Uint16(page[ptrOff : ptrOff+2]))
		if cellOffset+4 > len(page) {
			continue
		}
		children = append(children, int(binary.BigEndian.Uint32(page[cellOffset:cellOffset+4])))
	}
	rightmost := int(binary.BigEndian.Uint32(page[headerOffset+8 : headerOffset+12]))
	children = append(children, rightmost)
	return children
}

// scanLeafTable reads each leaf cell in cell-pointer order, which is
// ascending rowid order, and applies predicate, copying matching payloads
// into owned storage.
func scanLeafTable(page []byte, headerOffset, cellCount int, predicate Predicate) ([]Row, error) {
	cellPointerOffset := headerOffset + 8
	var rows []Row
	for i := 0; i < cellCount; i++ {
		ptrOff := cellPointerOffset + i*2
		if ptrOff+2 > len(page) {
			break
		}
		cellOffset := int(binary.BigEndian.Uint16(page[ptrOff : ptrOff+2]))

		rowid, payload, err := readLeafCell(page, cellOffset)
		if err != nil {
			return nil, fmt.Errorf("btree: leaf cell %d: %w", i, err)
		}
		if !predicate(rowid, payload) {
			continue
		}
		owned := make([]byte, len(payload))
		copy(owned, payload)
		rows = append(rows, Row{Rowid: rowid, Payload: owned})
	}
	return rows, nil
}

func readLeafCell(page []byte, offset int) (rowid int64, payload []byte, err error) {
	payloadSize, n, err := varint.DecodeAt(page, offset)
	if err != nil {
		return 0, nil, fmt.Errorf("payload_size: %w", err)
	}
	offset += n

	rowid, n, err = varint.DecodeAt(page, offset)
	if err != nil {
		return 0, nil, fmt.Errorf("rowid: %w", err)
	}
	offset += n

	if offset+int(payloadSize) > len(page) {
		return 0, nil, errors.New("payload extends beyond page boundary (overflow pages are not supported)")
	}
	return rowid, page[offset : offset+int(payloadSize)], nil
}
