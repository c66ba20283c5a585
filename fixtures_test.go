package pcm

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

type testChunk struct {
	id   string
	data []byte
}

type testW64Chunk struct {
	guid [16]byte
	data []byte
}

// makeFmtPayload builds the 16 fixed bytes of a format chunk.
func makeFmtPayload(tag, channels uint16, sampleRate uint32, bits uint16) []byte {
	out := make([]byte, 16)

	binary.LittleEndian.PutUint16(out[0:2], tag)
	binary.LittleEndian.PutUint16(out[2:4], channels)
	binary.LittleEndian.PutUint32(out[4:8], sampleRate)

	blockAlign := channels * ((bits + 7) / 8)
	binary.LittleEndian.PutUint32(out[8:12], sampleRate*uint32(blockAlign))
	binary.LittleEndian.PutUint16(out[12:14], blockAlign)
	binary.LittleEndian.PutUint16(out[14:16], bits)

	return out
}

// buildRiffWav assembles a RIFF WAV byte image from the given chunks,
// word-padding each payload.
func buildRiffWav(chunks ...testChunk) []byte {
	var body []byte

	for _, ch := range chunks {
		hdr := make([]byte, 8)
		copy(hdr[0:4], ch.id)
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(ch.data)))

		body = append(body, hdr...)
		body = append(body, ch.data...)

		if len(ch.data)%2 == 1 {
			body = append(body, 0)
		}
	}

	out := make([]byte, 12, 12+len(body))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(4+len(body)))
	copy(out[8:12], "WAVE")

	return append(out, body...)
}

// buildWave64 assembles a Wave64 byte image. Declared chunk sizes
// include the 24-byte chunk header; payloads are padded to 8-byte
// alignment.
func buildWave64(chunks ...testW64Chunk) []byte {
	var body []byte

	for _, ch := range chunks {
		hdr := make([]byte, 24)
		copy(hdr[0:16], ch.guid[:])
		binary.LittleEndian.PutUint64(hdr[16:24], uint64(24+len(ch.data)))

		body = append(body, hdr...)
		body = append(body, ch.data...)

		for len(body)%8 != 0 {
			body = append(body, 0)
		}
	}

	out := make([]byte, 40, 40+len(body))
	copy(out[0:16], wave64GUIDRiff[:])
	binary.LittleEndian.PutUint64(out[16:24], uint64(40+len(body)))
	copy(out[24:40], wave64GUIDWave[:])

	return append(out, body...)
}

// framePattern returns n bytes of a deterministic pattern, used as raw
// sample payloads that tests can compare byte-for-byte.
func framePattern(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}

	return out
}

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.audio")

	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	return path
}

func openFixture(t *testing.T, data []byte) *Provider {
	t.Helper()

	p, err := Open(writeFixture(t, data))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}

	t.Cleanup(func() { p.Close() })

	return p
}
