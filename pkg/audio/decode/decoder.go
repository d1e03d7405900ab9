// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for PCM and MP3 decoders
package decode

// Decoder decodes audio to PCM int32 samples
type Decoder interface {
	// Decode converts encoded audio data to PCM samples
	Decode(data []byte) ([]int32, error)

	// Close releases decoder resources
	Close() error
}
