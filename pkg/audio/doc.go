// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and sample conversion functions
// Package audio provides the audio types shared by the speech pipeline.
//
// Format describes a PCM stream (codec, sample rate, channels, bit depth)
// and derives the WAV header arithmetic from it:
//
//	f := audio.Mono16(audio.SpeechSampleRate)
//	f.BlockAlign() // 2
//	f.ByteRate()   // 48000
//
// Samples travel between packages as int32 values left-justified in the
// 24-bit range, so 16-bit input is shifted up with SampleFromInt16 and
// back down with SampleToInt16.
package audio
