package pcm

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/riff"
)

// WAV format tags. Everything except plain PCM is rejected.
const (
	wavFormatPCM       = 0x0001
	wavFormatIEEEFloat = 0x0003
)

const (
	riffHeaderSize      = 12
	riffChunkHeaderSize = 8
	riffFmtChunkMinSize = 16
)

// parseRiffWav walks the chunk sequence of a RIFF WAV file and builds
// the frame index. Chunk payloads are padded to even length, so the
// cursor advances by the declared size rounded up to 2 bytes.
//
// Reference: http://www.sonicspot.com/guide/wavefiles.html
func (p *Provider) parseRiffWav() (*containerInfo, error) {
	hdr, err := p.ensureRange(0, riffHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("%w: file too small for a RIFF header", ErrNotContainer)
	}

	var fourcc [4]byte

	copy(fourcc[:], hdr[0:4])
	if fourcc != riff.RiffID {
		return nil, fmt.Errorf("%w: missing RIFF magic", ErrNotContainer)
	}

	copy(fourcc[:], hdr[8:12])
	if fourcc != riff.WavFormatID {
		return nil, fmt.Errorf("%w: RIFF form type is not WAVE", ErrNotContainer)
	}

	info := &containerInfo{container: ContainerRiffWav}

	// The declared RIFF size covers everything after the 8-byte chunk
	// header; the WAVE form type already used 4 of those bytes.
	dataLeft := int64(binary.LittleEndian.Uint32(hdr[4:8])) - 4
	pos := int64(riffHeaderSize)

	gotFmt := false

	for dataLeft > 0 {
		ch, err := p.ensureRange(pos, riffChunkHeaderSize)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated chunk header at byte %d", ErrInvalidContainer, pos)
		}

		copy(fourcc[:], ch[0:4])
		size := int64(binary.LittleEndian.Uint32(ch[4:8]))

		dataLeft -= riffChunkHeaderSize
		pos += riffChunkHeaderSize

		switch fourcc {
		case riff.FmtID:
			if gotFmt {
				return nil, fmt.Errorf("%w: multiple 'fmt ' chunks", ErrInvalidContainer)
			}

			gotFmt = true

			if size < riffFmtChunkMinSize {
				return nil, fmt.Errorf("%w: 'fmt ' chunk too small (%d bytes)", ErrInvalidContainer, size)
			}

			body, err := p.ensureRange(pos, riffFmtChunkMinSize)
			if err != nil {
				return nil, fmt.Errorf("%w: truncated 'fmt ' chunk", ErrInvalidContainer)
			}

			err = info.setFormat(
				binary.LittleEndian.Uint16(body[0:2]),
				binary.LittleEndian.Uint16(body[2:4]),
				binary.LittleEndian.Uint32(body[4:8]),
				binary.LittleEndian.Uint16(body[14:16]),
			)
			if err != nil {
				return nil, err
			}

		case riff.DataFormatID:
			// 'data' chunks wrapped inside a 'wavl' chunk are invisible
			// to this walk; only top-level chunks are indexed.
			if !gotFmt {
				return nil, fmt.Errorf("%w: found 'data' chunk before 'fmt ' chunk", ErrInvalidContainer)
			}

			info.addDataChunk(size, pos)
		}

		// Chunks of any other type are skipped. Payloads are word
		// aligned, whatever size the chunk declares.
		adv := (size + 1) &^ 1
		dataLeft -= adv
		pos += adv
	}

	if !gotFmt {
		return nil, fmt.Errorf("%w: no 'fmt ' chunk found", ErrInvalidContainer)
	}

	return info, nil
}

// setFormat validates and records the PCM format parameters from a
// format chunk. Shared by both container parsers.
func (info *containerInfo) setFormat(tag, numChans uint16, sampleRate uint32, bitsPerSample uint16) error {
	if tag == wavFormatIEEEFloat {
		return fmt.Errorf("%w: IEEE float PCM is not supported", ErrInvalidContainer)
	}

	if tag != wavFormatPCM {
		return fmt.Errorf("%w: not PCM encoding (format tag %d)", ErrInvalidContainer, tag)
	}

	if numChans == 0 {
		return fmt.Errorf("%w: format chunk declares zero channels", ErrInvalidContainer)
	}

	if bitsPerSample == 0 {
		return fmt.Errorf("%w: format chunk declares zero bits per sample", ErrInvalidContainer)
	}

	info.numChans = numChans
	info.sampleRate = sampleRate
	info.bitsPerSample = bitsPerSample
	info.bytesPerSample = (bitsPerSample + 7) / 8

	return nil
}

// addDataChunk appends an index point for a data chunk of size payload
// bytes starting at startByte. A trailing partial frame is dropped.
func (info *containerInfo) addDataChunk(size, startByte int64) {
	frames := size / int64(info.bytesPerSample) / int64(info.numChans)

	info.index = append(info.index, IndexPoint{
		StartFrame: info.numFrames,
		NumFrames:  frames,
		StartByte:  startByte,
	})

	info.numFrames += frames
}
