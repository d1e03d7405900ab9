// ABOUTME: WebSocket mentor chat sessions
// ABOUTME: One reader per connection, with a writer goroutine draining sendChan
package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/mengmoon/mind-universe/internal/protocol"
	"github.com/mengmoon/mind-universe/internal/store"
	"github.com/mengmoon/mind-universe/internal/version"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 64 * 1024
	writeWait      = 10 * time.Second
	sendBuffer     = 16
)

// session is one connected chat client
type session struct {
	id     string
	userID string
	conn   *websocket.Conn

	// Output channel for messages
	sendChan chan protocol.Message

	closeOnce sync.Once
	done      chan struct{}
}

func (sess *session) close() {
	sess.closeOnce.Do(func() {
		close(sess.done)
		sess.conn.Close()
	})
}

// send queues a message, dropping it when the session has gone away
func (sess *session) send(msgType string, payload interface{}) bool {
	select {
	case sess.sendChan <- protocol.Message{Type: msgType, Payload: payload}:
		return true
	case <-sess.done:
		return false
	}
}

// handleWebSocket upgrades GET /ws?uid= and runs the chat session
func (s *Server) handleWebSocket(c echo.Context) error {
	uid := strings.TrimSpace(c.QueryParam("uid"))
	if uid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "uid query parameter is required")
	}
	if s.shuttingDown() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server is shutting down")
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	sess := &session{
		id:       uuid.NewString(),
		userID:   uid,
		conn:     conn,
		sendChan: make(chan protocol.Message, sendBuffer),
		done:     make(chan struct{}),
	}

	s.sessionsMu.Lock()
	if s.closing {
		s.sessionsMu.Unlock()
		conn.Close()
		return nil
	}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	s.sessionsMu.Unlock()

	s.logger.Info("chat session opened",
		zap.String("session_id", sess.id),
		zap.String("user_id", uid),
		zap.String("remote", c.Request().RemoteAddr))

	go func() {
		defer s.wg.Done()
		s.sessionWriter(sess)
	}()

	s.runSession(c.Request().Context(), sess)

	sess.close()
	s.sessionsMu.Lock()
	delete(s.sessions, sess.id)
	s.sessionsMu.Unlock()
	s.logger.Info("chat session closed", zap.String("session_id", sess.id))
	return nil
}

// runSession greets the client and handles messages until the connection ends
func (s *Server) runSession(ctx context.Context, sess *session) {
	sess.send(protocol.TypeServerHello, protocol.ServerHello{
		Name:    s.config.Name,
		Version: version.Version,
		UserID:  sess.userID,
		Speech:  s.speech != nil,
	})

	history, err := s.store.RecentChats(ctx, sess.userID, store.DefaultChatLimit)
	if err != nil {
		s.logger.Warn("failed to load chat history", zap.Error(err))
	}
	turns := make([]protocol.ChatTurn, len(history))
	for i, m := range history {
		turns[i] = protocol.ChatTurn{Role: m.Role, Text: m.Text}
	}
	sess.send(protocol.TypeChatHistory, protocol.ChatHistory{Turns: turns})

	sess.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		env, err := protocol.Decode(data)
		if err != nil {
			sess.send(protocol.TypeError, protocol.Error{Message: err.Error()})
			continue
		}

		switch env.Type {
		case protocol.TypeChatSend:
			var msg protocol.ChatSend
			if err := env.Into(&msg); err != nil {
				sess.send(protocol.TypeError, protocol.Error{Message: err.Error()})
				continue
			}
			s.handleChatSend(ctx, sess, msg)
		default:
			sess.send(protocol.TypeError, protocol.Error{Message: "unsupported message type: " + env.Type})
		}
	}
}

func (s *Server) handleChatSend(parent context.Context, sess *session, msg protocol.ChatSend) {
	ctx, cancel := s.requestContext(parent)
	defer cancel()

	reply, err := s.converse(ctx, sess.userID, msg.Text)
	if err != nil {
		s.logger.Warn("chat reply failed", zap.String("session_id", sess.id), zap.Error(err))
		if reply == "" {
			sess.send(protocol.TypeError, protocol.Error{Message: err.Error()})
			return
		}
	}
	sess.send(protocol.TypeChatReply, protocol.ChatReply{Text: reply})

	if !msg.Speak || err != nil {
		return
	}
	if s.speech == nil {
		sess.send(protocol.TypeError, protocol.Error{Message: "speech is not configured"})
		return
	}

	wav, err := s.speech.WAV(ctx, reply)
	if err != nil {
		s.logger.Warn("reply synthesis failed", zap.Error(err))
		sess.send(protocol.TypeError, protocol.Error{Message: "could not synthesize reply"})
		return
	}
	sess.send(protocol.TypeChatAudio, protocol.ChatAudio{WAVBase64: base64.StdEncoding.EncodeToString(wav)})
}

// sessionWriter serialises writes to the connection
func (s *Server) sessionWriter(sess *session) {
	for {
		select {
		case msg := <-sess.sendChan:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteJSON(msg); err != nil {
				s.logger.Debug("websocket write failed", zap.Error(err))
				sess.close()
				return
			}
		case <-sess.done:
			return
		}
	}
}
