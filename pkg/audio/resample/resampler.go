// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Normalizes speech clips from different providers to one playback rate
package resample

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts interleaved input samples at inputRate into output at
// outputRate and returns the number of samples written.
func (r *Resampler) Resample(input []int32, output []int32) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(r.position)
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := r.position - float64(inputIdx)
		for ch := 0; ch < r.channels; ch++ {
			s1 := input[inputIdx*r.channels+ch]
			s2 := input[(inputIdx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = int32(float64(s1)*(1.0-frac) + float64(s2)*frac)
		}

		outIdx++
		r.position += r.ratio
	}

	// Keep the fractional part for the next chunk
	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	return int(float64(inputFrames)/r.ratio) * r.channels
}

// Convert resamples a complete clip in one call
func Convert(samples []int32, inputRate, outputRate, channels int) []int32 {
	if inputRate == outputRate || len(samples) == 0 {
		return samples
	}

	r := New(inputRate, outputRate, channels)
	out := make([]int32, r.OutputSamplesNeeded(len(samples)))
	n := r.Resample(samples, out)
	return out[:n]
}

// ToMono averages interleaved channels into a single channel
func ToMono(samples []int32, channels int) []int32 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	out := make([]int32, frames)
	for i := 0; i < frames; i++ {
		var sum int64
		for ch := 0; ch < channels; ch++ {
			sum += int64(samples[i*channels+ch])
		}
		out[i] = int32(sum / int64(channels))
	}
	return out
}
