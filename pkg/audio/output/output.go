// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for playback backends plus a WAV playback helper
package output

import (
	"fmt"

	"github.com/mengmoon/mind-universe/pkg/audio"
	"github.com/mengmoon/mind-universe/pkg/audio/decode"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device for the given PCM format
	Open(format audio.Format) error

	// Write outputs audio samples (blocks until written)
	Write(samples []int32) error

	// Close waits for queued audio to finish and releases resources
	Close() error
}

// PlayWAV decodes a WAV container and plays it on out. The output is opened
// with the clip's format and closed once the clip has been written.
func PlayWAV(out Output, wav []byte) error {
	hdr, pcm, err := decode.SplitWAV(wav)
	if err != nil {
		return fmt.Errorf("invalid wav: %w", err)
	}

	dec, err := decode.NewPCM(hdr.Format())
	if err != nil {
		return err
	}
	defer dec.Close()

	samples, err := dec.Decode(pcm)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if err := out.Open(hdr.Format()); err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := out.Write(samples); err != nil {
		out.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return out.Close()
}
