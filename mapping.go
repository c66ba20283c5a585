package pcm

import (
	"fmt"
	"math/bits"
)

const (
	// Remapped windows start on a 1 MiB boundary.
	windowAlign = int64(1) << 20
	// Minimum window size on hosts with a constrained address space.
	windowMin = int64(16) << 20
)

// On a 64-bit address space the whole file is mapped once and never
// remapped. 32-bit hosts use a bounded sliding window instead.
const mapWholeFile = bits.UintSize == 64

// window is the live memory-mapped view over a sub-range of the file.
// It is entirely derived state: dropping and recreating it at any time
// is always correct, only more expensive.
type window struct {
	start int64
	data  []byte
}

func (w *window) covers(offset, length int64) bool {
	return w != nil && offset >= w.start && offset+length <= w.start+int64(len(w.data))
}

func (w *window) slice(offset, length int64) []byte {
	rel := offset - w.start
	return w.data[rel : rel+length]
}

// ensureRange returns length bytes of the file starting at offset,
// backed by the mapped window. The current window is re-used when it
// already covers the range; otherwise it is dropped and a new window
// is mapped. ensureRange is the sole gateway to the file's bytes.
//
// A range beyond the end of the file and an OS-level mapping failure
// both fail the call with ErrDecode; the provider stays usable.
func (p *Provider) ensureRange(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > p.fileSize {
		return nil, fmt.Errorf("%w: byte range [%d, %d) beyond end of file (%d bytes)",
			ErrDecode, offset, offset+length, p.fileSize)
	}

	if length == 0 {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrClosed)
	}

	if p.win.covers(offset, length) {
		return p.win.slice(offset, length), nil
	}

	start, size := windowExtent(offset, length, p.fileSize, mapWholeFile)

	p.dropWindowLocked()

	data, err := mapFile(p.f, start, int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to map %d bytes at offset %d: %v",
			ErrDecode, size, start, err)
	}

	p.win = &window{start: start, data: data}

	return p.win.slice(offset, length), nil
}

// windowExtent computes the byte range to map for a request. With
// whole set, the extent is the entire file. Otherwise the window
// starts on a windowAlign boundary at or below the request and spans
// at least windowMin bytes, rounded up to windowAlign and capped at
// the end of the file, to amortize remaps for nearby reads.
func windowExtent(offset, length, fileSize int64, whole bool) (start, size int64) {
	if whole {
		return 0, fileSize
	}

	start = offset &^ (windowAlign - 1)

	size = length + (offset - start)
	size = (size + windowAlign - 1) &^ (windowAlign - 1)

	if size < windowMin {
		size = windowMin
	}

	if size > fileSize-start {
		size = fileSize - start
	}

	return start, size
}

func (p *Provider) dropWindowLocked() {
	if p.win == nil {
		return
	}

	unmapFile(p.win.data)
	p.win = nil
}
