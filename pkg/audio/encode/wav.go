// ABOUTME: WAV container encoder
// ABOUTME: Wraps raw little-endian PCM in a canonical 44-byte RIFF/WAVE header
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/mengmoon/mind-universe/pkg/audio"
)

const (
	// HeaderSize is the length of the canonical PCM WAV header
	HeaderSize = 44

	fmtChunkSize = 16
	formatPCM    = 1
)

// WAV wraps pcm in a WAV container. The payload is copied verbatim after the
// header, so the result is always HeaderSize+len(pcm) bytes long. Alignment of
// pcm to whole frames is the caller's concern; see FrameAligned.
func WAV(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	out := make([]byte, HeaderSize+len(pcm))
	le := binary.LittleEndian

	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], fmtChunkSize)
	le.PutUint16(out[20:22], formatPCM)
	le.PutUint16(out[22:24], uint16(channels))
	le.PutUint32(out[24:28], uint32(sampleRate))
	le.PutUint32(out[28:32], uint32(byteRate))
	le.PutUint16(out[32:34], uint16(blockAlign))
	le.PutUint16(out[34:36], uint16(bitsPerSample))
	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[HeaderSize:], pcm)

	return out
}

// WAVMono16 wraps 16-bit mono PCM, the shape every speech provider returns
func WAVMono16(pcm []byte, sampleRate int) []byte {
	return WAV(pcm, sampleRate, 1, 16)
}

// FrameAligned reports whether n bytes hold a whole number of frames
func FrameAligned(n, channels, bitsPerSample int) bool {
	frame := channels * bitsPerSample / 8
	if frame <= 0 {
		return false
	}
	return n%frame == 0
}

// WAVEncoder encodes int32 samples to PCM and wraps them in a WAV container
type WAVEncoder struct {
	pcm    Encoder
	format audio.Format
}

// NewWAV creates a WAV encoder for the given format
func NewWAV(format audio.Format) (Encoder, error) {
	if format.Codec != audio.CodecWAV {
		return nil, fmt.Errorf("invalid codec for WAV encoder: %s", format.Codec)
	}
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid WAV format: %dHz %d channels", format.SampleRate, format.Channels)
	}

	pcmFormat := format
	pcmFormat.Codec = audio.CodecPCM
	pcm, err := NewPCM(pcmFormat)
	if err != nil {
		return nil, err
	}

	return &WAVEncoder{pcm: pcm, format: format}, nil
}

// Encode converts samples to a complete WAV file
func (e *WAVEncoder) Encode(samples []int32) ([]byte, error) {
	data, err := e.pcm.Encode(samples)
	if err != nil {
		return nil, fmt.Errorf("pcm encode: %w", err)
	}
	return WAV(data, e.format.SampleRate, e.format.Channels, e.format.BitDepth), nil
}

// Close releases resources
func (e *WAVEncoder) Close() error {
	return e.pcm.Close()
}
