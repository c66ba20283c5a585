package pcm

import "errors"

var (
	// ErrNotContainer is returned when a file does not carry the magic
	// bytes of any supported container. Another decoder may still be
	// able to handle the file.
	ErrNotContainer = errors.New("file is not a supported PCM container")
	// ErrInvalidContainer is returned when a file matches a container's
	// magic bytes but violates its structure or uses an unsupported
	// encoding. The file belongs to this decoder but cannot be read.
	ErrInvalidContainer = errors.New("invalid PCM container")
	// ErrDecode is returned when a read request cannot be served, for
	// example because it references bytes beyond the end of the file or
	// the memory mapping failed. The provider remains usable for
	// subsequent reads.
	ErrDecode = errors.New("PCM decode failed")

	// ErrClosed is returned for reads on a closed provider.
	ErrClosed = errors.New("provider is closed")
	// ErrShortBuffer is returned when the destination buffer cannot
	// hold the requested number of frames.
	ErrShortBuffer = errors.New("destination buffer too small")
)
