// ABOUTME: HTTP and WebSocket server for the Mind Universe API
// ABOUTME: Wires the store, mentor, tagger and speech pipeline behind echo routes
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mengmoon/mind-universe/internal/discovery"
	"github.com/mengmoon/mind-universe/internal/mentor"
	"github.com/mengmoon/mind-universe/internal/speech"
	"github.com/mengmoon/mind-universe/internal/store"
	"github.com/mengmoon/mind-universe/pkg/journal"
	"go.uber.org/zap"
)

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Name           string
	EnableMDNS     bool
	RequestTimeout time.Duration
}

// Deps are the components the handlers use. Speech may be nil.
type Deps struct {
	Store  *store.Store
	Mentor *mentor.Mentor
	Tagger *journal.Tagger
	Speech *speech.Pipeline
	Logger *zap.Logger
}

// Server serves the REST API and the mentor chat websocket
type Server struct {
	config Config
	echo   *echo.Echo
	logger *zap.Logger

	store  *store.Store
	mentor *mentor.Mentor
	tagger *journal.Tagger
	speech *speech.Pipeline

	upgrader websocket.Upgrader

	// Connected chat sessions
	sessions   map[string]*session
	sessionsMu sync.RWMutex
	closing    bool // set by Shutdown; no sessions register after it
	wg         sync.WaitGroup

	mdnsManager *discovery.Manager
}

// New creates a server and registers its routes
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	if deps.Mentor == nil {
		return nil, errors.New("mentor is required")
	}
	if deps.Logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if deps.Tagger == nil {
		deps.Tagger = journal.NewTagger(journal.NewLexicon())
	}
	if cfg.Name == "" {
		cfg.Name = "Mind Universe"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := deps.Logger
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	})

	s := &Server{
		config:   cfg,
		echo:     e,
		logger:   logger,
		store:    deps.Store,
		mentor:   deps.Mentor,
		tagger:   deps.Tagger,
		speech:   deps.Speech,
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Intended for a trusted local network; browsers on other
			// origins are accepted and logged
			CheckOrigin: func(r *http.Request) bool {
				if origin := r.Header.Get("Origin"); origin != "" {
					logger.Debug("accepting websocket origin", zap.String("origin", origin))
				}
				return true
			},
		},
	}

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/ws", s.handleWebSocket)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.POST("/tts", s.handleTTS)

	users := v1.Group("/users/:uid")
	users.GET("/journals", s.handleListJournals)
	users.POST("/journals", s.handleSaveJournal)
	users.GET("/insights", s.handleInsights)
	users.POST("/insights/analysis", s.handleAnalysis)
	users.GET("/export", s.handleExport)
	users.GET("/chats", s.handleListChats)
	users.POST("/chats", s.handleSendChat)
	users.GET("/goals", s.handleListGoals)
	users.POST("/goals", s.handleAddGoal)
	users.PATCH("/goals/:id", s.handleUpdateGoal)
	users.DELETE("/goals/:id", s.handleDeleteGoal)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start advertises via mDNS when enabled and serves until Shutdown
func (s *Server) Start() error {
	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			Path:        "/ws",
			Logger:      s.logger,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			s.logger.Warn("failed to start mdns advertisement", zap.Error(err))
		}
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr), zap.String("name", s.config.Name))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops advertising, closes chat sessions and drains requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	s.sessionsMu.Lock()
	s.closing = true
	for _, sess := range s.sessions {
		sess.close()
	}
	s.sessionsMu.Unlock()

	err := s.echo.Shutdown(ctx)

	writersDone := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(writersDone)
	}()
	select {
	case <-writersDone:
	case <-ctx.Done():
		s.logger.Warn("shutdown deadline reached with session writers running")
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// shuttingDown reports whether Shutdown has started
func (s *Server) shuttingDown() bool {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	return s.closing
}

// requestContext bounds outbound calls made on behalf of a request
func (s *Server) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.config.RequestTimeout)
}

// httpError maps domain errors onto HTTP status codes
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrEmptyContent),
		errors.Is(err, store.ErrMissingUser),
		errors.Is(err, store.ErrInvalidRole),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, mentor.ErrEmptyMessage),
		errors.Is(err, speech.ErrEmptyText):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, mentor.ErrNoBackend):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "upstream request timed out")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
