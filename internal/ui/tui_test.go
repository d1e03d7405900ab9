// ABOUTME: Tests for the audio player behind the TUI
// ABOUTME: Checks level keys stay responsive while a clip is playing
package ui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mengmoon/mind-universe/pkg/audio"
	"github.com/mengmoon/mind-universe/pkg/audio/encode"
)

// stalledDevice blocks in Write until released, like a device draining a
// long clip
type stalledDevice struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu     sync.Mutex
	volume int
	muted  bool
}

func newStalledDevice() *stalledDevice {
	return &stalledDevice{started: make(chan struct{}), release: make(chan struct{}), volume: 100}
}

func (d *stalledDevice) Open(audio.Format) error { return nil }

func (d *stalledDevice) Write([]int32) error {
	d.once.Do(func() { close(d.started) })
	<-d.release
	return nil
}

func (d *stalledDevice) Close() error { return nil }

func (d *stalledDevice) SetVolume(volume int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = volume
}

func (d *stalledDevice) SetMuted(muted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.muted = muted
}

func (d *stalledDevice) levels() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume, d.muted
}

func TestLevelKeysDuringPlayback(t *testing.T) {
	dev := newStalledDevice()
	player := NewOutputPlayer(dev)
	model := connectedModel(nil, player)

	model, cmd := update(t, model, AudioMsg{WAV: encode.WAVMono16(make([]byte, 4800), 24000)})
	if cmd == nil {
		t.Fatal("expected a play command")
	}

	played := make(chan tea.Msg, 1)
	go func() { played <- cmd() }()

	select {
	case <-dev.started:
	case <-time.After(2 * time.Second):
		t.Fatal("playback never reached the device")
	}

	keys := make(chan Model, 1)
	go func() {
		m, _ := update(t, model, tea.KeyMsg{Type: tea.KeyDown})
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
		keys <- m
	}()

	select {
	case m := <-keys:
		if m.volume != 95 || !m.muted {
			t.Errorf("expected volume 95 and muted, got %d %v", m.volume, m.muted)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("level keys blocked behind playback")
	}

	if volume, muted := dev.levels(); volume != 95 || !muted {
		t.Errorf("device levels = %d %v, want 95 true", volume, muted)
	}

	close(dev.release)
	select {
	case msg := <-played:
		if done, ok := msg.(PlaybackDoneMsg); !ok || done.Err != nil {
			t.Errorf("unexpected playback result %#v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not finish")
	}
}

func TestOutputPlayerSerializesClips(t *testing.T) {
	dev := newStalledDevice()
	player := NewOutputPlayer(dev)
	wav := encode.WAVMono16(make([]byte, 4), 24000)

	first := make(chan error, 1)
	go func() { first <- player.Play(wav) }()
	<-dev.started

	second := make(chan error, 1)
	go func() { second <- player.Play(wav) }()

	select {
	case <-second:
		t.Fatal("second clip started before the first finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(dev.release)
	for _, ch := range []chan error{first, second} {
		select {
		case err := <-ch:
			if err != nil {
				t.Errorf("Play() error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("clip did not finish")
		}
	}
}
