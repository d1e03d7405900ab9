// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests 16-bit and 24-bit PCM decoding
package decode

import (
	"testing"

	"github.com/mengmoon/mind-universe/pkg/audio"
)

func TestPCMDecode16Bit(t *testing.T) {
	decoder, err := NewPCM(audio.Mono16(24000))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// 0x0100 = 256, 0x0302 = 770, both left-justified into 24-bit range
	output, err := decoder.Decode([]byte{0x00, 0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(output) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(output))
	}
	if output[0] != 256<<8 || output[1] != 770<<8 {
		t.Errorf("unexpected samples %v", output)
	}
}

func TestPCMDecode24Bit(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: audio.CodecPCM, SampleRate: 96000, Channels: 2, BitDepth: 24})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	output, err := decoder.Decode([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(output) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(output))
	}
	if output[0] != 0x020100 || output[1] != 0x050403 {
		t.Errorf("unexpected samples %v", output)
	}
}

func TestPCMDecode_TrailingByte(t *testing.T) {
	decoder, err := NewPCM(audio.Mono16(24000))
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	output, err := decoder.Decode([]byte{0x01, 0x00, 0x7F})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(output) != 1 {
		t.Errorf("expected partial sample to be dropped, got %d samples", len(output))
	}
}

func TestNewPCM_Errors(t *testing.T) {
	tests := []struct {
		name    string
		format  audio.Format
		wantErr string
	}{
		{
			name:    "invalid codec",
			format:  audio.Format{Codec: audio.CodecMP3, SampleRate: 44100, Channels: 2, BitDepth: 16},
			wantErr: "invalid codec for PCM decoder: mp3",
		},
		{
			name:    "unsupported bit depth",
			format:  audio.Format{Codec: audio.CodecPCM, SampleRate: 48000, Channels: 2, BitDepth: 32},
			wantErr: "unsupported bit depth: 32 (supported: 16, 24)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder, err := NewPCM(tt.format)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if decoder != nil {
				t.Error("expected nil decoder on error")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("expected error %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
