// Package header parses the fixed 100-byte header at the start of every
// SQLite database file: the magic string, page size, journal mode bytes,
// and the bookkeeping counters that follow them.
package header

import (
	"encoding/binary"
)

const (
	headerSize  = 100
	magicString = "SQLite format 3\x00"
)

// ReadWriteMode is the file's declared journal mode (the write or read
// format version byte).
type ReadWriteMode uint8

const (
	ModeJournal ReadWriteMode = 1
	ModeWAL     ReadWriteMode = 2
	ModeNone    ReadWriteMode = 0
)

func readWriteMode(b byte) ReadWriteMode {
	switch b {
	case 1:
		return ModeJournal
	case 2:
		return ModeWAL
	default:
		return ModeNone
	}
}

// TextEncoding identifies how TEXT values in the file are encoded.
// The engine only ever decodes UTF8 records; UTF16 databases are accepted
// at the header level, and record decoding reads their text as UTF-8,
// failing only where the bytes are not valid UTF-8.
type TextEncoding uint32

const (
	TextEncodingUTF8    TextEncoding = 1
	TextEncodingUTF16LE TextEncoding = 2
	TextEncodingUTF16BE TextEncoding = 3
)

// FileHeader is the decoded 100-byte database header.
type FileHeader struct {
	PageSize                uint32
	WriteVersion            ReadWriteMode
	ReadVersion             ReadWriteMode
	MaxEmbeddedPayloadFrac  uint8
	MinEmbeddedPayloadFrac  uint8
	LeafEmbeddedPayloadFrac uint8
	FileChangeCounter       uint32
	SizeInPages             uint32
	FreelistTrunkPage       uint32
	FreelistPageCount       uint32
	SchemaCookie            uint32
	SchemaFormat            uint32
	DefaultCacheSize        uint32
	LargestRootBTreePage    uint32
	TextEncoding            TextEncoding
	UserVersion             uint32
	IncrementalVacuum       uint32
	ApplicationID           uint32
	VersionValidFor         uint32
	SQLiteVersion           uint32
}

// Parse decodes a 100-byte buffer into a FileHeader. The magic string
// must match, the embedded-payload fractions must equal (64, 32, 32),
// and the incremental-vacuum flag must be zero when no root b-tree page
// is recorded.
func Parse(buf []byte) (*FileHeader, error) {
	if len(buf) < headerSize {
		return nil, wrap("parse", ErrShortRead, map[string]any{
			"have": len(buf), "want": headerSize,
		})
	}

	if string(buf[0:16]) != magicString {
		return nil, wrap("parse", ErrInvalidFile, map[string]any{
			"magic": string(buf[0:15]),
		})
	}

	rawPageSize := binary.BigEndian.Uint16(buf[16:18])
	sqliteVersion := binary.BigEndian.Uint32(buf[96:100])

	var pageSize uint32
	if rawPageSize == 1 && sqliteVersion >= 3007001 {
		pageSize = 65536
	} else {
		pageSize = uint32(rawPageSize)
	}

	fractions := buf[21:24]
	if fractions[0] != 64 || fractions[1] != 32 || fractions[2] != 32 {
		return nil, wrap("parse", ErrInvalidFraction, map[string]any{
			"max": fractions[0], "min": fractions[1], "leaf": fractions[2],
		})
	}

	fileChangeCounter := binary.BigEndian.Uint32(buf[24:28])
	sizeInPagesRaw := binary.BigEndian.Uint32(buf[28:32])
	largestRootBTreePage := binary.BigEndian.Uint32(buf[52:56])
	incrementalVacuum := binary.BigEndian.Uint32(buf[64:68])
	versionValidFor := binary.BigEndian.Uint32(buf[92:96])

	if largestRootBTreePage == 0 && incrementalVacuum != 0 {
		return nil, wrap("parse", ErrVacuumModeInconsistent, map[string]any{
			"incremental_vacuum": incrementalVacuum,
		})
	}

	var sizeInPages uint32
	if versionValidFor == fileChangeCounter {
		sizeInPages = sizeInPagesRaw
	}

	return &FileHeader{
		PageSize:                pageSize,
		WriteVersion:            readWriteMode(buf[18]),
		ReadVersion:             readWriteMode(buf[19]),
		MaxEmbeddedPayloadFrac:  fractions[0],
		MinEmbeddedPayloadFrac:  fractions[1],
		LeafEmbeddedPayloadFrac: fractions[2],
		FileChangeCounter:       fileChangeCounter,
		SizeInPages:             sizeInPages,
		FreelistTrunkPage:       binary.BigEndian.Uint32(buf[32:36]),
		FreelistPageCount:       binary.BigEndian.Uint32(buf[36:40]),
		SchemaCookie:            binary.BigEndian.Uint32(buf[40:44]),
		SchemaFormat:            binary.BigEndian.Uint32(buf[44:48]),
		DefaultCacheSize:        binary.BigEndian.Uint32(buf[48:52]),
		LargestRootBTreePage:    largestRootBTreePage,
		TextEncoding:            TextEncoding(binary.BigEndian.Uint32(buf[56:60])),
		UserVersion:             binary.BigEndian.Uint32(buf[60:64]),
		IncrementalVacuum:       incrementalVacuum,
		ApplicationID:           binary.BigEndian.Uint32(buf[68:72]),
		VersionValidFor:         versionValidFor,
		SQLiteVersion:           sqliteVersion,
	}, nil
}

// Size is the fixed on-disk size of the header, exported so callers
// sizing their first read don't hard-code 100 a second time.
const Size = headerSize
