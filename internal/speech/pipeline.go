// ABOUTME: Speech pipeline from text to a WAV file
// ABOUTME: Handles caching, frame trimming, mono downmix and resampling around a Provider
package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/mengmoon/mind-universe/internal/logging"
	"github.com/mengmoon/mind-universe/pkg/audio"
	"github.com/mengmoon/mind-universe/pkg/audio/decode"
	"github.com/mengmoon/mind-universe/pkg/audio/encode"
	"github.com/mengmoon/mind-universe/pkg/audio/resample"
	"go.uber.org/zap"
)

// Pipeline produces WAV bytes for text
type Pipeline struct {
	provider   Provider
	cache      *Cache
	sampleRate int
	logger     *zap.Logger
}

// PipelineConfig configures a Pipeline. A zero SampleRate keeps the
// provider's rate; a nil Cache disables caching.
type PipelineConfig struct {
	SampleRate int
	Cache      *Cache
	Logger     *zap.Logger
}

// NewPipeline creates a pipeline around provider
func NewPipeline(provider Provider, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		provider:   provider,
		cache:      cfg.Cache,
		sampleRate: cfg.SampleRate,
		logger:     logging.OrNop(cfg.Logger),
	}
}

// WAV synthesizes text and returns a complete WAV file
func (p *Pipeline) WAV(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	key := Key(p.provider.Name(), p.sampleRate, text)
	if p.cache != nil {
		data, ok, err := p.cache.Get(key)
		if err != nil {
			p.logger.Warn("speech cache read failed", zap.Error(err))
		} else if ok {
			p.logger.Debug("speech cache hit", zap.String("key", key))
			return data, nil
		}
	}

	clip, err := p.provider.Synthesize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("synthesize with %s: %w", p.provider.Name(), err)
	}

	clip, err = p.normalize(clip)
	if err != nil {
		return nil, err
	}

	wav := encode.WAV(clip.PCM, clip.SampleRate, clip.Channels, clip.BitsPerSample)
	p.logger.Debug("speech synthesized",
		zap.String("provider", p.provider.Name()),
		zap.Int("sample_rate", clip.SampleRate),
		zap.Int("duration_ms", clip.Format().DurationMs(len(clip.PCM))))

	if p.cache != nil {
		if err := p.cache.Put(key, wav); err != nil {
			p.logger.Warn("speech cache write failed", zap.Error(err))
		}
	}
	return wav, nil
}

// normalize trims partial frames, downmixes to mono and resamples
func (p *Pipeline) normalize(clip Clip) (Clip, error) {
	if clip.Channels <= 0 || clip.BitsPerSample <= 0 || clip.BitsPerSample%8 != 0 || clip.SampleRate <= 0 {
		return Clip{}, fmt.Errorf("provider returned invalid clip format: %d Hz, %d ch, %d bit",
			clip.SampleRate, clip.Channels, clip.BitsPerSample)
	}

	frame := clip.Channels * clip.BitsPerSample / 8
	if !encode.FrameAligned(len(clip.PCM), clip.Channels, clip.BitsPerSample) {
		trimmed := len(clip.PCM) - len(clip.PCM)%frame
		p.logger.Warn("trimming partial audio frame",
			zap.Int("bytes", len(clip.PCM)),
			zap.Int("frame_size", frame))
		clip.PCM = clip.PCM[:trimmed]
	}

	needsMono := clip.Channels > 1
	needsRate := p.sampleRate > 0 && p.sampleRate != clip.SampleRate
	if !needsMono && !needsRate {
		return clip, nil
	}

	dec, err := decode.NewPCM(clip.Format())
	if err != nil {
		return Clip{}, fmt.Errorf("cannot convert clip: %w", err)
	}
	samples, err := dec.Decode(clip.PCM)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to decode clip: %w", err)
	}

	samples = resample.ToMono(samples, clip.Channels)
	rate := clip.SampleRate
	if needsRate {
		samples = resample.Convert(samples, rate, p.sampleRate, 1)
		rate = p.sampleRate
	}

	out := audio.Format{Codec: audio.CodecPCM, SampleRate: rate, Channels: 1, BitDepth: clip.BitsPerSample}
	enc, err := encode.NewPCM(out)
	if err != nil {
		return Clip{}, fmt.Errorf("cannot convert clip: %w", err)
	}
	pcm, err := enc.Encode(samples)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to encode clip: %w", err)
	}

	return Clip{PCM: pcm, SampleRate: rate, Channels: 1, BitsPerSample: clip.BitsPerSample}, nil
}
