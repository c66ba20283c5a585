package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-audio/audio"
)

var errUnhandledByteDepth = errors.New("unhandled byte depth")

// ReadIntBuffer fills buf with decoded samples starting at logical
// frame start and returns the number of samples written. This is the
// hand-off format for analysis consumers such as FFT routines; no
// resampling or channel conversion takes place.
//
// Samples are decoded per the container's declared storage: 8-bit
// values are unsigned, wider values are signed little-endian. A
// request extending past NumFrames fills fewer samples than the
// buffer holds.
func (p *Provider) ReadIntBuffer(buf *audio.IntBuffer, start int64) (int, error) {
	if p == nil || buf == nil || len(buf.Data) == 0 {
		return 0, nil
	}

	frames := int64(len(buf.Data)) / int64(p.numChans)
	if frames == 0 {
		return 0, nil
	}

	decode, err := sampleDecodeFunc(int(p.bytesPerSample))
	if err != nil {
		return 0, fmt.Errorf("could not get sample decode func: %w", err)
	}

	raw := make([]byte, frames*p.frameSize())

	n, err := p.ReadFrames(raw, start, frames)
	if err != nil {
		return 0, err
	}

	bps := int(p.bytesPerSample)

	samples := int(n) * int(p.numChans)
	for i := 0; i < samples; i++ {
		buf.Data[i] = decode(raw[i*bps:])
	}

	buf.Format = p.Format()
	buf.SourceBitDepth = int(p.bitsPerSample)

	return samples, nil
}

// sampleDecodeFunc returns a function converting one stored sample to
// an int. Note that 8-bit samples are unsigned, all other widths are
// signed.
func sampleDecodeFunc(bytesPerSample int) (func([]byte) int, error) {
	// NOTE: WAV PCM data is stored using little-endian
	switch bytesPerSample {
	case 1:
		return func(b []byte) int {
			return int(b[0])
		}, nil
	case 2:
		return func(b []byte) int {
			return int(int16(binary.LittleEndian.Uint16(b[:2])))
		}, nil
	case 3:
		return func(b []byte) int {
			return int(audio.Int24LETo32(b[:3]))
		}, nil
	case 4:
		return func(b []byte) int {
			return int(int32(binary.LittleEndian.Uint32(b[:4])))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d bytes per sample", errUnhandledByteDepth, bytesPerSample)
	}
}
