package pcm

import (
	"encoding/binary"
	"fmt"
)

// Wave64 chunk GUIDs. The first four bytes spell the RIFF FourCC the
// GUID replaces.
var (
	// {66666972-912E-11CF-A5D6-28DB04C10000}
	wave64GUIDRiff = [16]byte{0x72, 0x69, 0x66, 0x66, 0x2E, 0x91, 0xCF, 0x11, 0xA5, 0xD6, 0x28, 0xDB, 0x04, 0xC1, 0x00, 0x00}
	// {65766177-ACF3-11D3-8CD1-00C04F8EDB8A}
	wave64GUIDWave = [16]byte{0x77, 0x61, 0x76, 0x65, 0xF3, 0xAC, 0xD3, 0x11, 0x8C, 0xD1, 0x00, 0xC0, 0x4F, 0x8E, 0xDB, 0x8A}
	// {20746D66-ACF3-11D3-8CD1-00C04F8EDB8A}
	wave64GUIDFmt = [16]byte{0x66, 0x6D, 0x74, 0x20, 0xF3, 0xAC, 0xD3, 0x11, 0x8C, 0xD1, 0x00, 0xC0, 0x4F, 0x8E, 0xDB, 0x8A}
	// {61746164-ACF3-11D3-8CD1-00C04F8EDB8A}
	wave64GUIDData = [16]byte{0x64, 0x61, 0x74, 0x61, 0xF3, 0xAC, 0xD3, 0x11, 0x8C, 0xD1, 0x00, 0xC0, 0x4F, 0x8E, 0xDB, 0x8A}
)

const (
	// GUID + 64-bit size.
	wave64ChunkHeaderSize = 24
	// RIFF GUID + file size + WAVE GUID.
	wave64HeaderSize = 2*16 + 8
	// The fixed WAVEFORMATEX fields of a format chunk payload.
	wave64FmtChunkMinSize = wave64ChunkHeaderSize + 16
)

// parseWave64 walks the chunk sequence of a Sony Wave64 file and
// builds the frame index. Unlike RIFF, a Wave64 chunk's declared size
// includes its own 24-byte header, and payloads are padded to 8-byte
// alignment.
func (p *Provider) parseWave64() (*containerInfo, error) {
	if p.fileSize < wave64HeaderSize+wave64ChunkHeaderSize {
		return nil, fmt.Errorf("%w: file too small to be a Wave64 file", ErrNotContainer)
	}

	hdr, err := p.ensureRange(0, wave64HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read Wave64 header", ErrNotContainer)
	}

	var guid [16]byte

	copy(guid[:], hdr[0:16])
	if guid != wave64GUIDRiff {
		return nil, fmt.Errorf("%w: missing Wave64 RIFF GUID", ErrNotContainer)
	}

	copy(guid[:], hdr[24:40])
	if guid != wave64GUIDWave {
		return nil, fmt.Errorf("%w: Wave64 form type is not WAVE", ErrNotContainer)
	}

	info := &containerInfo{container: ContainerWave64}

	// The declared file size covers the 40-byte header as well.
	dataLeft := int64(binary.LittleEndian.Uint64(hdr[16:24])) - wave64HeaderSize
	pos := int64(wave64HeaderSize)

	gotFmt := false

	for dataLeft > 0 {
		ch, err := p.ensureRange(pos, wave64ChunkHeaderSize)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated chunk header at byte %d", ErrInvalidContainer, pos)
		}

		copy(guid[:], ch[0:16])

		size := int64(binary.LittleEndian.Uint64(ch[16:24]))
		if size < wave64ChunkHeaderSize {
			return nil, fmt.Errorf("%w: chunk at byte %d declares size %d, smaller than its own header",
				ErrInvalidContainer, pos, size)
		}

		switch guid {
		case wave64GUIDFmt:
			if gotFmt {
				return nil, fmt.Errorf("%w: multiple format chunks", ErrInvalidContainer)
			}

			gotFmt = true

			if size < wave64FmtChunkMinSize {
				return nil, fmt.Errorf("%w: format chunk too small (%d bytes)", ErrInvalidContainer, size)
			}

			body, err := p.ensureRange(pos+wave64ChunkHeaderSize, 16)
			if err != nil {
				return nil, fmt.Errorf("%w: truncated format chunk", ErrInvalidContainer)
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

		case wave64GUIDData:
			if !gotFmt {
				return nil, fmt.Errorf("%w: found data chunk before format chunk", ErrInvalidContainer)
			}

			info.addDataChunk(size-wave64ChunkHeaderSize, pos+wave64ChunkHeaderSize)
		}

		// Chunks of any other GUID are skipped. Sizes are rounded up
		// to the format's 8-byte alignment, header included.
		adv := (size + 7) &^ 7
		dataLeft -= adv
		pos += adv
	}

	if !gotFmt {
		return nil, fmt.Errorf("%w: no format chunk found", ErrInvalidContainer)
	}

	return info, nil
}
