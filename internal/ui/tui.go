// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and pumps client events into it
package ui

import (
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mengmoon/mind-universe/internal/client"
	"github.com/mengmoon/mind-universe/pkg/audio/output"
)

// NewModel creates a new TUI model. sender and player may be nil.
func NewModel(sender Sender, player Player) Model {
	in := textinput.New()
	in.Placeholder = "Write to your mentor..."
	in.CharLimit = inputLimit
	in.Focus()

	return Model{
		sender:   sender,
		player:   player,
		volume:   100,
		input:    in,
		viewport: viewport.New(80, 20),
	}
}

// Device is an audio output with live level controls, such as *output.Oto
type Device interface {
	output.Output
	SetVolume(volume int)
	SetMuted(muted bool)
}

// OutputPlayer plays clips on an audio device, one at a time
type OutputPlayer struct {
	mu  sync.Mutex // serializes clips; level changes never take it
	out Device
}

// NewOutputPlayer plays through the given device
func NewOutputPlayer(out Device) *OutputPlayer {
	return &OutputPlayer{out: out}
}

// Play decodes and plays a WAV clip, blocking until it finishes
func (p *OutputPlayer) Play(wav []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return output.PlayWAV(p.out, wav)
}

// SetVolume sets the playback volume (0-100), taking effect mid-clip
func (p *OutputPlayer) SetVolume(volume int) {
	p.out.SetVolume(volume)
}

// SetMuted silences playback without stopping the clip
func (p *OutputPlayer) SetMuted(muted bool) {
	p.out.SetMuted(muted)
}

// Run starts the TUI for a connected client and blocks until the user quits
func Run(c *client.Client, player Player) error {
	p := tea.NewProgram(NewModel(c, player), tea.WithAltScreen())

	go pump(p, c)

	_, err := p.Run()
	return err
}

// pump forwards client channels to the program until the connection ends
func pump(p *tea.Program, c *client.Client) {
	hello := c.Hello()
	connected := true
	p.Send(StatusMsg{Connected: &connected, ServerName: hello.Name, Speech: &hello.Speech})

	for {
		select {
		case turns := <-c.History:
			p.Send(HistoryMsg{Turns: turns})
		case text := <-c.Replies:
			p.Send(ReplyMsg{Text: text})
		case wav := <-c.Audio:
			p.Send(AudioMsg{WAV: wav})
		case text := <-c.Errors:
			p.Send(ErrorMsg{Text: text})
		case <-c.Done():
			disconnected := false
			p.Send(StatusMsg{Connected: &disconnected})
			return
		}
	}
}
