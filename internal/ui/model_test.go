// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, key handling, and message transitions
package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mengmoon/mind-universe/internal/protocol"
)

type recordingSender struct {
	texts  []string
	speaks []bool
	err    error
}

func (s *recordingSender) Send(text string, speak bool) error {
	s.texts = append(s.texts, text)
	s.speaks = append(s.speaks, speak)
	return s.err
}

type recordingPlayer struct {
	played [][]byte
	volume int
	muted  bool
}

func (p *recordingPlayer) Play(wav []byte) error {
	p.played = append(p.played, wav)
	return nil
}

func (p *recordingPlayer) SetVolume(volume int) { p.volume = volume }

func (p *recordingPlayer) SetMuted(muted bool) { p.muted = muted }

func boolPtr(b bool) *bool { return &b }

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func connectedModel(sender Sender, player Player) Model {
	m := NewModel(sender, player)
	m.applyStatus(StatusMsg{Connected: boolPtr(true), ServerName: "test", Speech: boolPtr(true)})
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil, nil)

	if model.connected {
		t.Error("expected connected to be false initially")
	}
	if model.volume != 100 {
		t.Errorf("expected default volume 100, got %d", model.volume)
	}
	if model.speak {
		t.Error("expected voice to be off initially")
	}
	if model.View() != "Loading..." {
		t.Error("expected loading view before window size is known")
	}
}

func TestStatusMsgConnected(t *testing.T) {
	model := NewModel(nil, nil)
	model.applyStatus(StatusMsg{Connected: boolPtr(true), ServerName: "test-server"})

	if !model.connected {
		t.Error("expected connected to be true after status update")
	}
	if model.serverName != "test-server" {
		t.Errorf("expected serverName 'test-server', got '%s'", model.serverName)
	}
}

func TestStatusMsgDisconnected(t *testing.T) {
	model := connectedModel(nil, nil)
	model.waiting = true

	model.applyStatus(StatusMsg{Connected: boolPtr(false)})

	if model.connected {
		t.Error("expected connected to be false after disconnect")
	}
	if model.waiting {
		t.Error("expected waiting to clear on disconnect")
	}
	if last := model.transcript[len(model.transcript)-1]; last.role != roleSystem {
		t.Errorf("expected a system line, got %+v", last)
	}
}

func TestEnterSendsMessage(t *testing.T) {
	sender := &recordingSender{}
	model := connectedModel(sender, nil)
	model = typeText(t, model, "I feel stuck")

	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a send command")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("expected nil message on success, got %T", msg)
	}

	if len(sender.texts) != 1 || sender.texts[0] != "I feel stuck" {
		t.Errorf("unexpected sent texts %v", sender.texts)
	}
	if sender.speaks[0] {
		t.Error("expected speak to be false when voice is off")
	}
	if !model.waiting {
		t.Error("expected waiting after send")
	}
	if model.input.Value() != "" {
		t.Errorf("expected input reset, got %q", model.input.Value())
	}
	if len(model.transcript) != 1 || model.transcript[0].role != roleUser {
		t.Errorf("unexpected transcript %+v", model.transcript)
	}
}

func TestEnterIgnoredWhileWaiting(t *testing.T) {
	sender := &recordingSender{}
	model := connectedModel(sender, nil)
	model.waiting = true
	model = typeText(t, model, "again")

	_, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command while waiting for a reply")
	}
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	model := connectedModel(&recordingSender{}, nil)
	model = typeText(t, model, "   ")

	_, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for blank input")
	}
}

func TestSendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("not connected")}
	model := connectedModel(sender, nil)
	model = typeText(t, model, "hello")

	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = update(t, model, cmd())

	if model.waiting {
		t.Error("expected waiting to clear after send failure")
	}
	if model.lastErr != "not connected" {
		t.Errorf("unexpected error %q", model.lastErr)
	}
}

func TestVoiceToggle(t *testing.T) {
	sender := &recordingSender{}
	model := connectedModel(sender, nil)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyCtrlT})
	if !model.speak {
		t.Fatal("expected voice on after ctrl+t")
	}

	model = typeText(t, model, "speak to me")
	_, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	cmd()
	if !sender.speaks[0] {
		t.Error("expected speak flag when voice is on")
	}
}

func TestVoiceToggleWithoutSpeech(t *testing.T) {
	model := NewModel(nil, nil)
	model.applyStatus(StatusMsg{Connected: boolPtr(true), Speech: boolPtr(false)})

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyCtrlT})
	if model.speak {
		t.Error("expected voice to stay off without a speech provider")
	}
	if model.lastErr == "" {
		t.Error("expected an explanation")
	}
}

func TestReplyAndHistory(t *testing.T) {
	model := connectedModel(nil, nil)
	model.waiting = true

	model, _ = update(t, model, ReplyMsg{Text: "Tell me more."})
	if model.waiting {
		t.Error("expected waiting to clear on reply")
	}

	model, _ = update(t, model, HistoryMsg{Turns: []protocol.ChatTurn{{Role: "user", Text: "earlier"}}})
	if len(model.transcript) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(model.transcript))
	}
	if model.transcript[0].text != "earlier" {
		t.Errorf("expected history first, got %+v", model.transcript[0])
	}
}

func TestAudioPlayback(t *testing.T) {
	player := &recordingPlayer{}
	model := connectedModel(nil, player)

	model, cmd := update(t, model, AudioMsg{WAV: []byte("RIFF")})
	if !model.playing {
		t.Error("expected playing after audio message")
	}
	if cmd == nil {
		t.Fatal("expected a play command")
	}

	model, _ = update(t, model, cmd())
	if model.playing {
		t.Error("expected playing to clear after playback")
	}
	if len(player.played) != 1 {
		t.Errorf("expected 1 clip played, got %d", len(player.played))
	}
}

func TestVolumeKeys(t *testing.T) {
	player := &recordingPlayer{}
	model := NewModel(nil, player)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyUp})
	if model.volume != 100 {
		t.Errorf("expected volume to clamp at 100, got %d", model.volume)
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyDown})
	if model.volume != 95 || player.volume != 95 {
		t.Errorf("expected volume 95, got model=%d player=%d", model.volume, player.volume)
	}
}

func TestMuteKey(t *testing.T) {
	player := &recordingPlayer{}
	model := NewModel(nil, player)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyCtrlX})
	if !model.muted || !player.muted {
		t.Errorf("expected muted, got model=%v player=%v", model.muted, player.muted)
	}
	if !strings.Contains(model.renderStatus(), "muted") {
		t.Errorf("status should show mute: %q", model.renderStatus())
	}
	if model.input.Value() != "" {
		t.Errorf("mute key leaked into input: %q", model.input.Value())
	}

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyCtrlX})
	if model.muted || player.muted {
		t.Error("expected second press to unmute")
	}
}

func TestErrorMsg(t *testing.T) {
	model := connectedModel(nil, nil)
	model.waiting = true

	model, _ = update(t, model, ErrorMsg{Text: "speech is not configured"})
	if model.waiting {
		t.Error("expected waiting to clear")
	}
	if model.lastErr != "speech is not configured" {
		t.Errorf("unexpected error %q", model.lastErr)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := update(t, NewModel(nil, nil), tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("expected quit command for %v", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected QuitMsg for %v", key)
		}
	}
}

func TestView(t *testing.T) {
	model := connectedModel(nil, nil)
	model, _ = update(t, model, tea.WindowSizeMsg{Width: 80, Height: 24})
	model, _ = update(t, model, ReplyMsg{Text: "Welcome back."})

	view := model.View()
	for _, want := range []string{"Connected to test", "Welcome back.", "Volume:"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(50, 100, 10); got != "█████░░░░░" {
		t.Errorf("unexpected bar %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello world", 8); got != "hello..." {
		t.Errorf("unexpected truncation %q", got)
	}
	if got := truncate("short", 8); got != "short" {
		t.Errorf("unexpected truncation %q", got)
	}
}
