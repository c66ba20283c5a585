package pcm

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseWave64_Basic(t *testing.T) {
	payload := framePattern(8) // 4 frames of 16-bit mono
	p := openFixture(t, buildWave64(
		testW64Chunk{guid: wave64GUIDFmt, data: makeFmtPayload(wavFormatPCM, 1, 48000, 16)},
		testW64Chunk{guid: wave64GUIDData, data: payload},
	))

	if p.Container() != ContainerWave64 {
		t.Fatalf("container = %s, want %s", p.Container(), ContainerWave64)
	}

	if p.SampleRate() != 48000 || p.NumChannels() != 1 || p.BytesPerSample() != 2 {
		t.Fatalf("unexpected format: %s", p)
	}

	// The declared chunk size includes the 24-byte header; only the
	// payload contributes frames.
	if p.NumFrames() != 4 {
		t.Fatalf("num frames = %d, want 4", p.NumFrames())
	}

	dst := make([]byte, 8)

	n, err := p.ReadFrames(dst, 0, 4)
	if err != nil {
		t.Fatalf("read frames: %v", err)
	}

	if n != 4 || !bytes.Equal(dst, payload) {
		t.Fatalf("read %d frames %v, want 4 frames %v", n, dst, payload)
	}
}

func TestParseWave64_ChunkAlignment(t *testing.T) {
	// An unknown chunk with a 5-byte payload declares size 29; the
	// cursor must advance by 32 to land on the next chunk's header.
	payload := framePattern(4)

	p := openFixture(t, buildWave64(
		testW64Chunk{guid: wave64GUIDFmt, data: makeFmtPayload(wavFormatPCM, 1, 8000, 8)},
		testW64Chunk{guid: [16]byte{0xDE, 0xAD, 0xBE, 0xEF}, data: []byte("extra")},
		testW64Chunk{guid: wave64GUIDData, data: payload},
	))

	if p.NumFrames() != 4 {
		t.Fatalf("num frames = %d, want 4", p.NumFrames())
	}

	dst := make([]byte, 4)

	if _, err := p.ReadFrames(dst, 0, 4); err != nil {
		t.Fatalf("read frames: %v", err)
	}

	if !bytes.Equal(dst, payload) {
		t.Fatalf("read %v, want %v", dst, payload)
	}
}

func TestParseWave64_NotContainer(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "too small", data: []byte("w64?")},
		{name: "wrong riff guid", data: func() []byte {
			data := buildWave64(
				testW64Chunk{guid: wave64GUIDFmt, data: makeFmtPayload(wavFormatPCM, 1, 8000, 8)},
				testW64Chunk{guid: wave64GUIDData, data: framePattern(8)},
			)
			data[0] ^= 0xFF
			return data
		}()},
		{name: "wrong wave guid", data: func() []byte {
			data := buildWave64(
				testW64Chunk{guid: wave64GUIDFmt, data: makeFmtPayload(wavFormatPCM, 1, 8000, 8)},
				testW64Chunk{guid: wave64GUIDData, data: framePattern(8)},
			)
			data[24] ^= 0xFF
			return data
		}()},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Open(writeFixture(t, testCase.data))
			if !errors.Is(err, ErrNotContainer) {
				t.Fatalf("expected ErrNotContainer, got %v", err)
			}
		})
	}
}

func TestParseWave64_DuplicateFmt(t *testing.T) {
	fmtPayload := makeFmtPayload(wavFormatPCM, 1, 8000, 8)

	_, err := Open(writeFixture(t, buildWave64(
		testW64Chunk{guid: wave64GUIDFmt, data: fmtPayload},
		testW64Chunk{guid: wave64GUIDFmt, data: fmtPayload},
	)))
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}

	if !strings.Contains(err.Error(), "multiple format chunks") {
		t.Fatalf("error %q should name the duplicate format chunk", err)
	}
}

func TestParseWave64_DataBeforeFmt(t *testing.T) {
	_, err := Open(writeFixture(t, buildWave64(
		testW64Chunk{guid: wave64GUIDData, data: framePattern(8)},
		testW64Chunk{guid: wave64GUIDFmt, data: makeFmtPayload(wavFormatPCM, 1, 8000, 8)},
	)))
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}
}

func TestParseWave64_IEEEFloatRejected(t *testing.T) {
	_, err := Open(writeFixture(t, buildWave64(
		testW64Chunk{guid: wave64GUIDFmt, data: makeFmtPayload(wavFormatIEEEFloat, 1, 8000, 32)},
		testW64Chunk{guid: wave64GUIDData, data: framePattern(8)},
	)))
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}

	if !strings.Contains(err.Error(), "IEEE float") {
		t.Fatalf("error %q should single out IEEE float", err)
	}
}

func TestParseWave64_UndersizedChunk(t *testing.T) {
	// A chunk declaring a size smaller than its own 24-byte header
	// would walk the cursor backwards.
	data := buildWave64(
		testW64Chunk{guid: wave64GUIDFmt, data: makeFmtPayload(wavFormatPCM, 1, 8000, 8)},
		testW64Chunk{guid: wave64GUIDData, data: framePattern(8)},
	)

	// Overwrite the fmt chunk's declared size with 8.
	copy(data[40+16:40+24], []byte{8, 0, 0, 0, 0, 0, 0, 0})

	_, err := Open(writeFixture(t, data))
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}
}

func TestParseWave64_MultipleDataChunks(t *testing.T) {
	first := framePattern(8)

	second := make([]byte, 16)
	for i := range second {
		second[i] = byte(0xA0 + i)
	}

	p := openFixture(t, buildWave64(
		testW64Chunk{guid: wave64GUIDFmt, data: makeFmtPayload(wavFormatPCM, 2, 44100, 16)},
		testW64Chunk{guid: wave64GUIDData, data: first},
		testW64Chunk{guid: wave64GUIDData, data: second},
	))

	if p.NumFrames() != 6 {
		t.Fatalf("num frames = %d, want 6", p.NumFrames())
	}

	want := append(append([]byte(nil), first...), second...)

	dst := make([]byte, len(want))

	n, err := p.ReadFrames(dst, 0, 6)
	if err != nil {
		t.Fatalf("read frames: %v", err)
	}

	if n != 6 || !bytes.Equal(dst, want) {
		t.Fatalf("spanning read mismatch:\n got %v\nwant %v", dst, want)
	}
}
