// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface and the oto implementation
// Package output plays synthesized speech on the local audio device.
//
// Example:
//
//	out := output.NewOto(logger)
//	err := output.PlayWAV(out, wavBytes)
package output
