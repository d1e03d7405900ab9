// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for the PCM and WAV encoders
package encode

// Encoder encodes int32 samples to a byte representation
type Encoder interface {
	// Encode converts samples to encoded audio data
	Encode(samples []int32) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
