// ABOUTME: Audio encoder package for PCM and WAV output
// ABOUTME: Provides Encoder interface and the WAV container encoder
// Package encode turns audio into bytes a player can consume.
//
// WAV is the function most callers want: it wraps raw 16-bit PCM returned by
// a speech provider in a 44-byte RIFF header so a browser or audio widget
// can play it directly.
//
// Example:
//
//	wav := encode.WAVMono16(pcm, 24000)
//
// The Encoder implementations (PCM, WAV) accept int32 samples in 24-bit
// range, matching the decode package.
package encode
