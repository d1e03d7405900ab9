// ABOUTME: Unit tests for the WAV container encoder
// ABOUTME: Checks byte layout, length and header round-trips
package encode

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/mengmoon/mind-universe/pkg/audio"
	"github.com/mengmoon/mind-universe/pkg/audio/decode"
)

func TestWAV_SpeechClip(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	out := WAV(pcm, 24000, 1, 16)

	if len(out) != 48 {
		t.Fatalf("expected 48 bytes, got %d", len(out))
	}
	if !bytes.Equal(out[4:8], []byte{0x28, 0x00, 0x00, 0x00}) {
		t.Errorf("ChunkSize bytes = % x, want 28 00 00 00", out[4:8])
	}
	if !bytes.Equal(out[24:28], []byte{0xC0, 0x5D, 0x00, 0x00}) {
		t.Errorf("SampleRate bytes = % x, want c0 5d 00 00", out[24:28])
	}
	if !bytes.Equal(out[44:], pcm) {
		t.Errorf("payload = % x, want % x", out[44:], pcm)
	}
}

func TestWAV_Layout(t *testing.T) {
	out := WAV([]byte{0xAA, 0xBB}, 24000, 1, 16)

	want := []byte{
		'R', 'I', 'F', 'F', 38, 0, 0, 0,
		'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ', 16, 0, 0, 0,
		1, 0, // PCM
		1, 0, // channels
		0xC0, 0x5D, 0, 0, // 24000
		0x80, 0xBB, 0, 0, // 48000 byte rate
		2, 0, // block align
		16, 0, // bits
		'd', 'a', 't', 'a', 2, 0, 0, 0,
		0xAA, 0xBB,
	}
	if !bytes.Equal(out, want) {
		t.Errorf("layout mismatch\n got % x\nwant % x", out, want)
	}
}

func TestWAV_Empty(t *testing.T) {
	out := WAV(nil, 16000, 1, 16)

	if len(out) != HeaderSize {
		t.Fatalf("expected %d bytes, got %d", HeaderSize, len(out))
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != 36 {
		t.Errorf("ChunkSize = %d, want 36", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 0 {
		t.Errorf("data size = %d, want 0", got)
	}
}

func TestWAV_HeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		sampleRate int
		channels   int
		bits       int
	}{
		{"speech mono", 4800, 24000, 1, 16},
		{"mp3 stereo", 1764, 44100, 2, 16},
		{"hi-res stereo", 600, 96000, 2, 24},
		{"empty", 0, 16000, 1, 16},
		{"misaligned", 3, 24000, 1, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pcm := bytes.Repeat([]byte{0x5A}, tt.size)
			out := WAV(pcm, tt.sampleRate, tt.channels, tt.bits)

			if len(out) != HeaderSize+tt.size {
				t.Fatalf("length = %d, want %d", len(out), HeaderSize+tt.size)
			}

			hdr, err := decode.ParseWAVHeader(out)
			if err != nil {
				t.Fatalf("ParseWAVHeader() error = %v", err)
			}
			if hdr.SampleRate != tt.sampleRate || hdr.Channels != tt.channels || hdr.BitsPerSample != tt.bits {
				t.Errorf("header = %+v, want %dHz %dch %d-bit", hdr, tt.sampleRate, tt.channels, tt.bits)
			}
			if hdr.DataSize != tt.size {
				t.Errorf("DataSize = %d, want %d", hdr.DataSize, tt.size)
			}
			if hdr.ChunkSize != 36+tt.size {
				t.Errorf("ChunkSize = %d, want %d", hdr.ChunkSize, 36+tt.size)
			}
		})
	}
}

func TestWAVMono16(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	if !bytes.Equal(WAVMono16(pcm, 24000), WAV(pcm, 24000, 1, 16)) {
		t.Error("WAVMono16 should match WAV with 1 channel, 16 bits")
	}
}

func TestFrameAligned(t *testing.T) {
	tests := []struct {
		n, channels, bits int
		want              bool
	}{
		{4, 1, 16, true},
		{3, 1, 16, false},
		{8, 2, 16, true},
		{6, 2, 16, false},
		{6, 2, 24, true},
		{0, 1, 16, true},
		{4, 0, 16, false},
	}

	for _, tt := range tests {
		if got := FrameAligned(tt.n, tt.channels, tt.bits); got != tt.want {
			t.Errorf("FrameAligned(%d, %d, %d) = %v, want %v", tt.n, tt.channels, tt.bits, got, tt.want)
		}
	}
}

func TestWAVEncoder(t *testing.T) {
	format := audio.Format{Codec: audio.CodecWAV, SampleRate: 24000, Channels: 1, BitDepth: 16}
	encoder, err := NewWAV(format)
	if err != nil {
		t.Fatalf("NewWAV() failed: %v", err)
	}
	defer encoder.Close()

	samples := []int32{audio.SampleFromInt16(1000), audio.SampleFromInt16(-1000)}
	out, err := encoder.Encode(samples)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(out) != HeaderSize+4 {
		t.Fatalf("length = %d, want %d", len(out), HeaderSize+4)
	}
	if got := int16(binary.LittleEndian.Uint16(out[HeaderSize:])); got != 1000 {
		t.Errorf("first sample = %d, want 1000", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[HeaderSize+2:])); got != -1000 {
		t.Errorf("second sample = %d, want -1000", got)
	}
}

func TestNewWAV_Errors(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		errContains string
	}{
		{"wrong codec", audio.Mono16(24000), "invalid codec"},
		{"zero rate", audio.Format{Codec: audio.CodecWAV, Channels: 1, BitDepth: 16}, "invalid WAV format"},
		{"bad depth", audio.Format{Codec: audio.CodecWAV, SampleRate: 24000, Channels: 1, BitDepth: 8}, "unsupported bit depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWAV(tt.format)
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("NewWAV() error = %v, want containing %q", err, tt.errContains)
			}
		})
	}
}
