// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes whole MP3 clips to 16-bit stereo PCM using go-mp3
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/mengmoon/mind-universe/pkg/audio"
)

// MP3Decoder decodes MP3 audio. Each Decode call consumes one complete clip.
type MP3Decoder struct {
	sampleRate int
	pcm        Decoder
}

// NewMP3 creates a new MP3 decoder
func NewMP3(format audio.Format) (Decoder, error) {
	if format.Codec != audio.CodecMP3 {
		return nil, fmt.Errorf("invalid codec for MP3 decoder: %s", format.Codec)
	}

	pcm, err := NewPCM(audio.Format{Codec: audio.CodecPCM, BitDepth: 16})
	if err != nil {
		return nil, err
	}
	return &MP3Decoder{pcm: pcm}, nil
}

// Decode converts an MP3 clip to interleaved stereo int32 samples
func (d *MP3Decoder) Decode(data []byte) ([]int32, error) {
	raw, format, err := DecodeMP3(data)
	if err != nil {
		return nil, err
	}
	d.sampleRate = format.SampleRate
	return d.pcm.Decode(raw)
}

// SampleRate returns the rate of the most recently decoded clip
func (d *MP3Decoder) SampleRate() int {
	return d.sampleRate
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return d.pcm.Close()
}

// DecodeMP3 decodes a complete MP3 clip to raw PCM bytes. go-mp3 always
// produces 16-bit little-endian stereo at the stream's own sample rate.
func DecodeMP3(data []byte) ([]byte, audio.Format, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, audio.Format{}, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, audio.Format{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	format := audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: dec.SampleRate(),
		Channels:   2,
		BitDepth:   16,
	}
	return pcm, format, nil
}
