// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays mentor speech through the system device with software volume
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/mengmoon/mind-universe/pkg/audio"
	"go.uber.org/zap"
)

// Oto output implementation using the oto library
type Oto struct {
	logger     *zap.Logger
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int

	// levelMu guards volume and muted only, so they can change mid-clip
	levelMu sync.Mutex
	volume  int
	muted   bool
}

// NewOto creates a new Oto output
func NewOto(logger *zap.Logger) *Oto {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oto{
		logger: logger,
		volume: 100,
	}
}

// Open initializes the output device. oto allows a single context per
// process, so a later Open with a different format keeps the first one.
func (o *Oto) Open(format audio.Format) error {
	if format.BitDepth != 16 {
		o.logger.Warn("oto only supports 16-bit output", zap.Int("bit_depth", format.BitDepth))
	}

	if o.otoCtx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return fmt.Errorf("failed to create oto context: %w", err)
		}
		<-ready

		o.otoCtx = ctx
		o.sampleRate = format.SampleRate
		o.channels = format.Channels
		o.logger.Info("audio output initialized",
			zap.Int("sample_rate", format.SampleRate),
			zap.Int("channels", format.Channels))
	} else if o.sampleRate != format.SampleRate || o.channels != format.Channels {
		o.logger.Warn("format change ignored, oto cannot be reinitialized",
			zap.Int("sample_rate", format.SampleRate),
			zap.Int("current_sample_rate", o.sampleRate))
	}

	if o.player == nil {
		if err := o.otoCtx.Resume(); err != nil {
			return fmt.Errorf("failed to resume oto context: %w", err)
		}
		o.pipeReader, o.pipeWriter = io.Pipe()
		o.player = o.otoCtx.NewPlayer(o.pipeReader)
		o.player.Play()
	}

	return nil
}

// Write outputs audio samples (blocks until written)
func (o *Oto) Write(samples []int32) error {
	if o.player == nil {
		return fmt.Errorf("output not initialized")
	}

	o.levelMu.Lock()
	volume, muted := o.volume, o.muted
	o.levelMu.Unlock()

	scaled := applyVolume(samples, volume, muted)
	buf := make([]byte, len(scaled)*2)
	for i, s := range scaled {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(audio.SampleToInt16(s)))
	}

	if _, err := o.pipeWriter.Write(buf); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}
	return nil
}

// Close ends the current clip, waits for it to finish playing and suspends
// the device. The context is kept so the output can be opened again.
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		for o.player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := o.player.Close(); err != nil {
			o.logger.Warn("player close failed", zap.Error(err))
		}
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		return o.otoCtx.Suspend()
	}
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	o.levelMu.Lock()
	defer o.levelMu.Unlock()
	o.volume = clampVolume(volume)
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.levelMu.Lock()
	defer o.levelMu.Unlock()
	o.muted = muted
}

// Volume returns current volume
func (o *Oto) Volume() int {
	o.levelMu.Lock()
	defer o.levelMu.Unlock()
	return o.volume
}

// Muted reports the mute state
func (o *Oto) Muted() bool {
	o.levelMu.Lock()
	defer o.levelMu.Unlock()
	return o.muted
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

// applyVolume applies volume and mute to samples with clipping protection
func applyVolume(samples []int32, volume int, muted bool) []int32 {
	multiplier := getVolumeMultiplier(volume, muted)
	if multiplier == 1.0 {
		return samples
	}

	result := make([]int32, len(samples))
	for i, sample := range samples {
		scaled := int64(float64(sample) * multiplier)
		if scaled > audio.Max24Bit {
			scaled = audio.Max24Bit
		} else if scaled < audio.Min24Bit {
			scaled = audio.Min24Bit
		}
		result[i] = int32(scaled)
	}
	return result
}

func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
