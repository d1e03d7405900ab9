// ABOUTME: WAV header parser
// ABOUTME: Reads and validates the canonical 44-byte PCM WAV header
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mengmoon/mind-universe/pkg/audio"
)

const wavHeaderSize = 44

// ErrNotWAV is returned when data does not start with a RIFF/WAVE header
var ErrNotWAV = errors.New("not a WAV file")

// WAVHeader holds the fields of a canonical PCM WAV header
type WAVHeader struct {
	ChunkSize     int
	AudioFormat   int
	Channels      int
	SampleRate    int
	ByteRate      int
	BlockAlign    int
	BitsPerSample int
	DataSize      int
}

// Format returns the PCM format described by the header
func (h WAVHeader) Format() audio.Format {
	return audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: h.SampleRate,
		Channels:   h.Channels,
		BitDepth:   h.BitsPerSample,
	}
}

// ParseWAVHeader decodes the header and checks that every derived field agrees
// with the others and with the trailing data length.
func ParseWAVHeader(data []byte) (WAVHeader, error) {
	if len(data) < wavHeaderSize {
		return WAVHeader{}, fmt.Errorf("%w: %d bytes is shorter than a header", ErrNotWAV, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WAVHeader{}, ErrNotWAV
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		return WAVHeader{}, fmt.Errorf("%w: unexpected chunk layout", ErrNotWAV)
	}

	le := binary.LittleEndian
	h := WAVHeader{
		ChunkSize:     int(le.Uint32(data[4:8])),
		AudioFormat:   int(le.Uint16(data[20:22])),
		Channels:      int(le.Uint16(data[22:24])),
		SampleRate:    int(le.Uint32(data[24:28])),
		ByteRate:      int(le.Uint32(data[28:32])),
		BlockAlign:    int(le.Uint16(data[32:34])),
		BitsPerSample: int(le.Uint16(data[34:36])),
		DataSize:      int(le.Uint32(data[40:44])),
	}

	if fmtSize := le.Uint32(data[16:20]); fmtSize != 16 {
		return h, fmt.Errorf("unsupported fmt chunk size: %d", fmtSize)
	}
	if h.AudioFormat != 1 {
		return h, fmt.Errorf("unsupported audio format: %d", h.AudioFormat)
	}
	if h.ChunkSize != 36+h.DataSize {
		return h, fmt.Errorf("chunk size %d does not match data size %d", h.ChunkSize, h.DataSize)
	}
	if h.DataSize != len(data)-wavHeaderSize {
		return h, fmt.Errorf("data size %d does not match payload length %d", h.DataSize, len(data)-wavHeaderSize)
	}
	if want := h.Channels * h.BitsPerSample / 8; h.BlockAlign != want {
		return h, fmt.Errorf("block align %d, expected %d", h.BlockAlign, want)
	}
	if want := h.SampleRate * h.BlockAlign; h.ByteRate != want {
		return h, fmt.Errorf("byte rate %d, expected %d", h.ByteRate, want)
	}

	return h, nil
}

// SplitWAV parses the header and returns it with the raw PCM payload
func SplitWAV(data []byte) (WAVHeader, []byte, error) {
	h, err := ParseWAVHeader(data)
	if err != nil {
		return h, nil, err
	}
	return h, data[wavHeaderSize:], nil
}
