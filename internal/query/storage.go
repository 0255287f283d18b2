package query

import (
	"context"
	"fmt"
	"os"

	"github.com/hgye/litequery/internal/header"
)

// fileSource implements btree.PageSource over an open file, owning a
// single page-sized byte buffer: ReadPage always reads into the same
// backing array, so callers must copy out anything they need to keep
// across the next ReadPage call, which the B-tree scanner already does
// for every payload and child page number it retains.
//
// A small page cache sits in front of the buffer: sqlite_schema (page 1)
// is re-read once per table a query resolves, and caching those reads
// avoids re-hitting the file for the same page. Cache entries are
// independent copies, never aliases of the scan buffer.
type fileSource struct {
	file   *os.File
	header *header.FileHeader
	buf    []byte
	cache  *pageCache
}

func openFileSource(path string, cfg *DatabaseConfig) (*fileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap("open", err, map[string]any{"path": path})
	}

	headerBuf := make([]byte, header.Size)
	if _, err := f.ReadAt(headerBuf, 0); err != nil {
		f.Close()
		return nil, wrap("open", err, map[string]any{"path": path})
	}
	fh, err := header.Parse(headerBuf)
	if err != nil {
		f.Close()
		return nil, wrap("open", err, map[string]any{"path": path})
	}

	if cfg.Validation == ValidationStrict {
		if info, statErr := f.Stat(); statErr == nil && fh.SizeInPages != 0 {
			wantSize := int64(fh.SizeInPages) * int64(fh.PageSize)
			if info.Size() < wantSize {
				f.Close()
				return nil, wrap("open", fmt.Errorf("file shorter than header's declared size_in_pages"),
					map[string]any{"file_size": info.Size(), "declared_size": wantSize})
			}
		}
	}

	return &fileSource{
		file:   f,
		header: fh,
		buf:    make([]byte, fh.PageSize),
		cache:  newPageCache(cfg.PageCacheSize),
	}, nil
}

func (s *fileSource) Close() error {
	return s.file.Close()
}

// ReadPage reads page number pageNum (1-indexed) into the shared buffer.
// Page N starts at byte offset (N-1)*page_size.
func (s *fileSource) ReadPage(ctx context.Context, pageNum int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.get(pageNum); ok {
		copy(s.buf, cached)
		return s.buf, nil
	}

	offset := int64(pageNum-1) * int64(len(s.buf))
	n, err := s.file.ReadAt(s.buf, offset)
	if err != nil {
		return nil, wrap("read_page", err, map[string]any{"page": pageNum, "offset": offset})
	}
	if n != len(s.buf) {
		return nil, wrap("read_page", fmt.Errorf("short read: got %d bytes, want %d", n, len(s.buf)),
			map[string]any{"page": pageNum})
	}

	owned := make([]byte, n)
	copy(owned, s.buf)
	s.cache.put(pageNum, owned)

	return s.buf, nil
}

// pageCache is a tiny fixed-capacity, FIFO-eviction cache of whole pages.
// It exists purely to avoid re-reading sqlite_schema for every table a
// query touches; it is not a write-back cache and never aliases the
// fileSource's scan buffer.
type pageCache struct {
	capacity int
	order    []int
	pages    map[int][]byte
}

func newPageCache(capacity int) *pageCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &pageCache{capacity: capacity, pages: make(map[int][]byte, capacity)}
}

func (c *pageCache) get(pageNum int) ([]byte, bool) {
	p, ok := c.pages[pageNum]
	return p, ok
}

func (c *pageCache) put(pageNum int, data []byte) {
	if _, exists := c.pages[pageNum]; exists {
		c.pages[pageNum] = data
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.pages, oldest)
	}
	c.order = append(c.order, pageNum)
	c.pages[pageNum] = data
}
