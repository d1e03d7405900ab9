// ABOUTME: WebSocket client for the mentor chat protocol
// ABOUTME: Handles connection, hello handshake, and message routing
package client

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mengmoon/mind-universe/internal/logging"
	"github.com/mengmoon/mind-universe/internal/protocol"
	"go.uber.org/zap"
)

// ErrNotConnected is returned when sending on a closed client
var ErrNotConnected = errors.New("not connected")

const handshakeTimeout = 5 * time.Second

// Config holds client configuration
type Config struct {
	ServerAddr string
	UserID     string
	Logger     *zap.Logger
}

// Client is a mentor chat connection
type Client struct {
	config Config
	logger *zap.Logger
	conn   *websocket.Conn
	mu     sync.RWMutex
	hello  protocol.ServerHello

	// Message channels
	History chan []protocol.ChatTurn
	Replies chan string
	Audio   chan []byte // complete WAV files
	Errors  chan string

	// State
	connected bool
	done      chan struct{}
}

// NewClient creates a new WebSocket client
func NewClient(config Config) *Client {
	return &Client{
		config:  config,
		logger:  logging.OrNop(config.Logger),
		History: make(chan []protocol.ChatTurn, 1),
		Replies: make(chan string, 10),
		Audio:   make(chan []byte, 4),
		Errors:  make(chan string, 10),
		done:    make(chan struct{}),
	}
}

// URL returns the websocket endpoint for the configured user
func (c *Client) URL() string {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: "/ws"}
	u.RawQuery = url.Values{"uid": {c.config.UserID}}.Encode()
	return u.String()
}

// Connect dials the server and waits for server/hello
func (c *Client) Connect() error {
	if c.config.UserID == "" {
		return errors.New("user id is required")
	}

	c.logger.Info("connecting", zap.String("url", c.URL()))
	conn, _, err := websocket.DefaultDialer.Dial(c.URL(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()
	return nil
}

// handshake reads the server greeting
func (c *Client) handshake() error {
	c.conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	env, err := protocol.Decode(data)
	if err != nil {
		return err
	}
	if env.Type != protocol.TypeServerHello {
		return fmt.Errorf("expected %s, got %s", protocol.TypeServerHello, env.Type)
	}

	var hello protocol.ServerHello
	if err := env.Into(&hello); err != nil {
		return err
	}

	c.mu.Lock()
	c.hello = hello
	c.mu.Unlock()

	c.logger.Info("handshake complete",
		zap.String("server", hello.Name),
		zap.String("version", hello.Version),
		zap.Bool("speech", hello.Speech))
	return nil
}

// Hello returns the greeting received during Connect
func (c *Client) Hello() protocol.ServerHello {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hello
}

// Send asks the mentor to reply to text, optionally with audio
func (c *Client) Send(text string, speak bool) error {
	return c.sendJSON(protocol.Message{
		Type:    protocol.TypeChatSend,
		Payload: protocol.ChatSend{Text: text, Speak: speak},
	})
}

func (c *Client) sendJSON(msg protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}
	return c.conn.WriteJSON(msg)
}

// readMessages reads and routes incoming messages
func (c *Client) readMessages() {
	defer c.Close()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.IsConnected() {
				c.logger.Debug("read error", zap.Error(err))
			}
			return
		}
		c.handleMessage(data)
	}
}

// handleMessage routes one JSON frame
func (c *Client) handleMessage(data []byte) {
	env, err := protocol.Decode(data)
	if err != nil {
		c.logger.Warn("failed to parse message", zap.Error(err))
		return
	}

	switch env.Type {
	case protocol.TypeChatHistory:
		var h protocol.ChatHistory
		if err := env.Into(&h); err != nil {
			c.logger.Warn("bad history", zap.Error(err))
			return
		}
		select {
		case c.History <- h.Turns:
		case <-c.done:
		}

	case protocol.TypeChatReply:
		var r protocol.ChatReply
		if err := env.Into(&r); err != nil {
			c.logger.Warn("bad reply", zap.Error(err))
			return
		}
		select {
		case c.Replies <- r.Text:
		case <-c.done:
		}

	case protocol.TypeChatAudio:
		var a protocol.ChatAudio
		if err := env.Into(&a); err != nil {
			c.logger.Warn("bad audio", zap.Error(err))
			return
		}
		wav, err := base64.StdEncoding.DecodeString(a.WAVBase64)
		if err != nil {
			c.logger.Warn("audio is not base64", zap.Error(err))
			return
		}
		select {
		case c.Audio <- wav:
		case <-c.done:
		}

	case protocol.TypeError:
		var e protocol.Error
		if err := env.Into(&e); err != nil {
			e.Message = err.Error()
		}
		select {
		case c.Errors <- e.Message:
		case <-c.done:
		}

	default:
		c.logger.Debug("unknown message type", zap.String("type", env.Type))
	}
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		close(c.done)
		c.conn.Close()
		c.logger.Info("connection closed")
	}
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
