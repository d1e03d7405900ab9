// ABOUTME: Mentor chat WebSocket message definitions
// ABOUTME: Defines the envelope and payload structs exchanged over /ws
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message types
const (
	TypeServerHello = "server/hello"
	TypeChatHistory = "chat/history"
	TypeChatSend    = "chat/send"
	TypeChatReply   = "chat/reply"
	TypeChatAudio   = "chat/audio"
	TypeError       = "error"
)

// Message is the top-level wrapper for all outgoing messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Envelope is an incoming message with its payload left undecoded
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerHello is sent once after the connection is accepted
type ServerHello struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	UserID  string `json:"user_id"`
	Speech  bool   `json:"speech"` // server can synthesize replies
}

// ChatTurn is one entry of the conversation history
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// ChatHistory carries the recent conversation after hello
type ChatHistory struct {
	Turns []ChatTurn `json:"turns"`
}

// ChatSend is a user message for the mentor
type ChatSend struct {
	Text  string `json:"text"`
	Speak bool   `json:"speak,omitempty"`
}

// ChatReply is the mentor's answer
type ChatReply struct {
	Text string `json:"text"`
}

// ChatAudio carries the spoken reply as a base64-encoded WAV file
type ChatAudio struct {
	WAVBase64 string `json:"wav_base64"`
}

// Error reports a failure handling the previous message
type Error struct {
	Message string `json:"message"`
}

// Decode parses an incoming frame into an envelope
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("invalid message: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("invalid message: missing type")
	}
	return env, nil
}

// Into decodes the payload into v
func (e Envelope) Into(v interface{}) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", e.Type, err)
	}
	return nil
}
