// ABOUTME: Bubbletea model for the mentor chat TUI
// ABOUTME: Defines transcript state, key handling and rendering
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mengmoon/mind-universe/internal/protocol"
)

const (
	roleUser   = "user"
	roleModel  = "model"
	roleSystem = "system"

	volumeStep = 5
	inputLimit = 2000
	chromeRows = 5
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mentorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	systemStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Sender delivers a chat message to the server
type Sender interface {
	Send(text string, speak bool) error
}

// Player plays a WAV clip; it may block until playback ends. Level
// changes must not wait for a clip in progress.
type Player interface {
	Play(wav []byte) error
	SetVolume(volume int)
	SetMuted(muted bool)
}

// line is one transcript entry
type line struct {
	role string
	text string
}

// Model represents the TUI state
type Model struct {
	sender Sender
	player Player

	// Connection
	connected  bool
	serverName string
	canSpeak   bool

	// Conversation
	transcript []line
	waiting    bool
	speak      bool
	lastErr    string

	// Playback
	volume  int
	muted   bool
	playing bool

	input    textinput.Model
	viewport viewport.Model

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeRows, 1)
		m.refresh()

	case StatusMsg:
		m.applyStatus(msg)

	case HistoryMsg:
		history := make([]line, 0, len(msg.Turns)+len(m.transcript))
		for _, t := range msg.Turns {
			history = append(history, line{role: t.Role, text: t.Text})
		}
		m.transcript = append(history, m.transcript...)
		m.refresh()

	case ReplyMsg:
		m.waiting = false
		m.lastErr = ""
		m.transcript = append(m.transcript, line{role: roleModel, text: msg.Text})
		m.refresh()

	case AudioMsg:
		if m.player != nil {
			m.playing = true
			return m, playCmd(m.player, msg.WAV)
		}

	case PlaybackDoneMsg:
		m.playing = false
		if msg.Err != nil {
			m.lastErr = "playback failed: " + msg.Err.Error()
		}

	case ErrorMsg:
		m.waiting = false
		m.lastErr = msg.Text

	case sendFailedMsg:
		m.waiting = false
		m.lastErr = msg.err.Error()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

// renderHeader renders connection state
func (m Model) renderHeader() string {
	status := "Disconnected"
	if m.connected {
		status = "Connected to " + m.serverName
	}
	return titleStyle.Render("Mind Mentor") + "  " + status
}

// renderStatus renders the waiting indicator, voice state and last error
func (m Model) renderStatus() string {
	voice := "off"
	switch {
	case m.speak && m.playing:
		voice = "speaking"
	case m.speak:
		voice = "on"
	}

	s := fmt.Sprintf("Voice: %s  Volume: [%s] %d%%", voice, renderBar(m.volume, 100, 10), m.volume)
	if m.muted {
		s = fmt.Sprintf("Voice: %s  Volume: muted", voice)
	}
	if m.waiting {
		s += "  " + systemStyle.Render("mentor is thinking...")
	}
	if m.lastErr != "" {
		s += "  " + errorStyle.Render(truncate(m.lastErr, 60))
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return systemStyle.Render("enter:Send  ctrl+t:Voice  ↑/↓:Volume  ctrl+x:Mute  pgup/pgdn:Scroll  esc:Quit")
}

// renderTranscript renders every line of the conversation
func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return systemStyle.Render("Share what's on your mind.")
	}

	wrap := lipgloss.NewStyle()
	if m.width > 0 {
		wrap = wrap.Width(m.width)
	}

	parts := make([]string, 0, len(m.transcript))
	for _, l := range m.transcript {
		var label string
		switch l.role {
		case roleUser:
			label = userStyle.Render("You: ")
		case roleModel:
			label = mentorStyle.Render("Mentor: ")
		default:
			label = systemStyle.Render("* ")
		}
		parts = append(parts, wrap.Render(label+l.text))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m, tea.Quit

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.waiting || !m.connected {
			return m, nil
		}
		m.input.Reset()
		m.waiting = true
		m.lastErr = ""
		m.transcript = append(m.transcript, line{role: roleUser, text: text})
		m.refresh()
		return m, sendCmd(m.sender, text, m.speak && m.canSpeak)

	case "ctrl+t":
		if !m.canSpeak {
			m.lastErr = "server has no speech provider"
			return m, nil
		}
		m.speak = !m.speak
		return m, nil

	case "up":
		m.setVolume(m.volume + volumeStep)
		return m, nil

	case "down":
		m.setVolume(m.volume - volumeStep)
		return m, nil

	case "ctrl+x":
		m.muted = !m.muted
		if m.player != nil {
			m.player.SetMuted(m.muted)
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setVolume(volume int) {
	m.volume = min(max(volume, 0), 100)
	if m.player != nil {
		m.player.SetVolume(m.volume)
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Connected != nil {
		m.connected = *msg.Connected
		if !m.connected {
			m.waiting = false
			m.transcript = append(m.transcript, line{role: roleSystem, text: "connection closed"})
			m.refresh()
		}
	}
	if msg.ServerName != "" {
		m.serverName = msg.ServerName
	}
	if msg.Speech != nil {
		m.canSpeak = *msg.Speech
		if !m.canSpeak {
			m.speak = false
		}
	}
}

func sendCmd(sender Sender, text string, speak bool) tea.Cmd {
	return func() tea.Msg {
		if sender == nil {
			return sendFailedMsg{err: fmt.Errorf("not connected")}
		}
		if err := sender.Send(text, speak); err != nil {
			return sendFailedMsg{err: err}
		}
		return nil
	}
}

func playCmd(player Player, wav []byte) tea.Cmd {
	return func() tea.Msg {
		return PlaybackDoneMsg{Err: player.Play(wav)}
	}
}

// StatusMsg updates connection state
type StatusMsg struct {
	Connected  *bool
	ServerName string
	Speech     *bool
}

// HistoryMsg carries the conversation so far
type HistoryMsg struct {
	Turns []protocol.ChatTurn
}

// ReplyMsg is a mentor answer
type ReplyMsg struct {
	Text string
}

// AudioMsg is a spoken reply as a WAV file
type AudioMsg struct {
	WAV []byte
}

// PlaybackDoneMsg reports the end of a clip
type PlaybackDoneMsg struct {
	Err error
}

// ErrorMsg is a server-reported error
type ErrorMsg struct {
	Text string
}

type sendFailedMsg struct {
	err error
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
