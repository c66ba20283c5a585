package pcm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-audio/audio"
)

// Container identifies the file format a provider was opened from.
type Container int

const (
	// ContainerRiffWav is a RIFF WAV file.
	ContainerRiffWav Container = iota
	// ContainerWave64 is a Sony Wave64 file.
	ContainerWave64
)

// String implements the Stringer interface.
func (c Container) String() string {
	switch c {
	case ContainerRiffWav:
		return "RIFF WAV"
	case ContainerWave64:
		return "Wave64"
	default:
		return fmt.Sprintf("Container(%d)", int(c))
	}
}

// IndexPoint maps a contiguous range of sample frames to its byte
// location in the file. One point is recorded per data chunk, in file
// order; the sequence is gapless: each StartFrame equals the sum of
// NumFrames of all preceding points.
type IndexPoint struct {
	// StartFrame is the first logical frame this chunk contributes.
	StartFrame int64
	// NumFrames is the count of multi-channel frames in this chunk.
	NumFrames int64
	// StartByte is the file offset of the first frame's first byte.
	StartByte int64
}

// containerInfo is the outcome of a successful container parse.
type containerInfo struct {
	container      Container
	sampleRate     uint32
	numChans       uint16
	bitsPerSample  uint16
	bytesPerSample uint16
	numFrames      int64
	index          []IndexPoint
}

// Provider serves random-access frame reads from an open PCM file.
// The format parameters and chunk index are fixed at open time; the
// only mutable state is the mapped window.
//
// On 64-bit hosts the whole file is mapped once, so concurrent reads
// are safe after the first. On 32-bit hosts reads may remap the
// window and must not run concurrently.
type Provider struct {
	f        *os.File
	fileSize int64

	containerInfo

	mu     sync.Mutex
	win    *window
	closed bool
}

// Open probes the file at path against the supported containers (RIFF
// WAV, then Wave64) and returns a provider for the first match.
//
// If no container's magic bytes match, the returned error wraps
// ErrNotContainer. If a container matched but its content could not
// be decoded, the error wraps ErrInvalidContainer and carries the
// per-container diagnostics.
func Open(path string) (*Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file size: %w", err)
	}

	p := &Provider{f: f, fileSize: fi.Size()}

	parsers := []struct {
		name  string
		parse func() (*containerInfo, error)
	}{
		{"RIFF WAV", p.parseRiffWav},
		{"Wave64", p.parseWave64},
	}

	var (
		matched bool
		reasons []string
	)

	for _, cand := range parsers {
		info, err := cand.parse()
		if err == nil {
			p.containerInfo = *info
			return p, nil
		}

		// Keep the reason text only; the aggregate re-attaches the
		// classifying sentinel below.
		msg := err.Error()
		msg = strings.TrimPrefix(msg, ErrNotContainer.Error()+": ")
		msg = strings.TrimPrefix(msg, ErrInvalidContainer.Error()+": ")

		reasons = append(reasons, cand.name+": "+msg)

		if !errors.Is(err, ErrNotContainer) {
			// The magic matched but the content is unusable; no other
			// parser can do better with this file.
			matched = true
			break
		}
	}

	p.Close()

	if matched {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContainer, strings.Join(reasons, "; "))
	}

	return nil, fmt.Errorf("%w: %s", ErrNotContainer, strings.Join(reasons, "; "))
}

// SampleRate returns the sample rate in frames per second.
func (p *Provider) SampleRate() uint32 { return p.sampleRate }

// NumChannels returns the number of interleaved channels.
func (p *Provider) NumChannels() uint16 { return p.numChans }

// BitDepth returns the bits per sample declared by the file.
func (p *Provider) BitDepth() uint16 { return p.bitsPerSample }

// BytesPerSample returns the storage size of one sample of one
// channel, the declared bit depth rounded up to whole bytes.
func (p *Provider) BytesPerSample() uint16 { return p.bytesPerSample }

// NumFrames returns the total number of sample frames across all data
// chunks.
func (p *Provider) NumFrames() int64 { return p.numFrames }

// Container reports which container format the file was opened as.
func (p *Provider) Container() Container { return p.container }

// FileSize returns the byte length of the underlying file.
func (p *Provider) FileSize() int64 { return p.fileSize }

// Index returns a copy of the frame-to-byte index, one point per data
// chunk in file order.
func (p *Provider) Index() []IndexPoint {
	return append([]IndexPoint(nil), p.index...)
}

// Format returns the audio format of the file's content.
func (p *Provider) Format() *audio.Format {
	if p == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(p.numChans),
		SampleRate:  int(p.sampleRate),
	}
}

// Duration returns the play time of the file's content.
func (p *Provider) Duration() (time.Duration, error) {
	if p == nil || p.sampleRate == 0 {
		return 0, fmt.Errorf("%w: no sample rate to derive a duration from", ErrDecode)
	}

	return time.Duration(float64(p.numFrames) / float64(p.sampleRate) * float64(time.Second)), nil
}

// frameSize returns the byte size of one interleaved frame.
func (p *Provider) frameSize() int64 {
	return int64(p.bytesPerSample) * int64(p.numChans)
}

// ReadFrames copies count interleaved frames starting at logical
// frame start into dst, raw and unconverted, and returns the number
// of frames copied. A request extending past NumFrames returns fewer
// frames than asked for, without error and without zero padding;
// callers wanting full buffers must pre-validate against NumFrames.
//
// A mapping failure fails the call with ErrDecode. Frames already
// copied before the failure are not rolled back; treat the whole call
// as failed.
func (p *Provider) ReadFrames(dst []byte, start, count int64) (int64, error) {
	if count <= 0 || start < 0 {
		return 0, nil
	}

	frameSize := p.frameSize()
	if int64(len(dst)) < count*frameSize {
		return 0, fmt.Errorf("%w: need %d bytes for %d frames, have %d",
			ErrShortBuffer, count*frameSize, count, len(dst))
	}

	var done int64

	for _, ip := range p.index {
		if count <= 0 {
			break
		}

		if ip.StartFrame > start || start >= ip.StartFrame+ip.NumFrames {
			continue
		}

		// Maximal contiguous run this chunk can serve.
		n := ip.NumFrames - (start - ip.StartFrame)
		if n > count {
			n = count
		}

		src, err := p.ensureRange(ip.StartByte+(start-ip.StartFrame)*frameSize, n*frameSize)
		if err != nil {
			return done, err
		}

		copy(dst[done*frameSize:], src)

		done += n
		start += n
		count -= n
	}

	return done, nil
}

// Close releases the mapped window and the file handle. Reads after
// Close fail. Close is idempotent.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	p.dropWindowLocked()

	return p.f.Close()
}

// String implements the Stringer interface.
func (p *Provider) String() string {
	return fmt.Sprintf("%s: %d Hz, %d channel(s), %d bit, %d frames",
		p.container, p.sampleRate, p.numChans, p.bitsPerSample, p.numFrames)
}
