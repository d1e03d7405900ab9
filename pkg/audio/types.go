// ABOUTME: Audio type definitions
// ABOUTME: Defines the clip format and sample conversions used by speech playback
package audio

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	// Codec names understood by the encode and decode packages
	CodecPCM = "pcm"
	CodecWAV = "wav"
	CodecMP3 = "mp3"

	// SpeechSampleRate is the rate most TTS providers emit raw PCM at
	SpeechSampleRate = 24000
)

// Format describes an audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Mono16 returns the 16-bit mono PCM format TTS providers emit
func Mono16(sampleRate int) Format {
	return Format{
		Codec:      CodecPCM,
		SampleRate: sampleRate,
		Channels:   1,
		BitDepth:   16,
	}
}

// BlockAlign is the size in bytes of one frame (one sample per channel)
func (f Format) BlockAlign() int {
	return f.Channels * f.BitDepth / 8
}

// ByteRate is the number of bytes per second of audio
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// DurationMs returns the playback length of n bytes in milliseconds
func (f Format) DurationMs(n int) int {
	rate := f.ByteRate()
	if rate == 0 {
		return 0
	}
	return n * 1000 / rate
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
