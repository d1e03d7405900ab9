// ABOUTME: Audio decoder package
// ABOUTME: Provides Decoder interface, PCM and MP3 decoders and the WAV header parser
// Package decode reads audio produced by speech providers.
//
// Supports: PCM (16-bit and 24-bit), MP3 (via go-mp3), and parsing of
// canonical PCM WAV headers.
//
// Example:
//
//	hdr, pcm, err := decode.SplitWAV(wavBytes)
//	dec, err := decode.NewPCM(hdr.Format())
//	samples, err := dec.Decode(pcm)
package decode
