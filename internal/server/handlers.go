// ABOUTME: REST handlers for journals, insights, chats, goals and speech
// ABOUTME: Request validation uses echo.NewHTTPError; domain errors go through httpError
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mengmoon/mind-universe/internal/insights"
	"github.com/mengmoon/mind-universe/internal/mentor"
	"github.com/mengmoon/mind-universe/internal/store"
	"github.com/mengmoon/mind-universe/internal/version"
	"go.uber.org/zap"
)

// HealthResponse is the response body for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// TextRequest is the body of /analyze, /tts and chat sends
type TextRequest struct {
	Text string `json:"text"`
}

// JournalRequest is the body of POST /journals
type JournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ChatResponse is the body returned for a chat send
type ChatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// AnalysisResponse is the body returned by the deep analysis endpoint
type AnalysisResponse struct {
	Entries  int    `json:"entries"`
	Analysis string `json:"analysis"`
}

// GoalRequest is the body of POST /goals
type GoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GoalStatusRequest is the body of PATCH /goals/:id
type GoalStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.Version})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req TextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}
	return c.JSON(http.StatusOK, s.tagger.Analyze(req.Text))
}

func (s *Server) handleTTS(c echo.Context) error {
	if s.speech == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "speech is not configured")
	}

	var req TextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := s.requestContext(c.Request().Context())
	defer cancel()

	wav, err := s.speech.WAV(ctx, req.Text)
	if err != nil {
		s.logger.Warn("speech synthesis failed", zap.Error(err))
		return httpError(err)
	}
	return c.Blob(http.StatusOK, "audio/wav", wav)
}

func (s *Server) handleListJournals(c echo.Context) error {
	limit, err := queryInt(c, "limit", store.DefaultEntryLimit)
	if err != nil {
		return err
	}

	entries, err := s.store.RecentEntries(c.Request().Context(), c.Param("uid"), limit)
	if err != nil {
		s.logger.Error("failed to list journals", zap.Error(err))
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleSaveJournal(c echo.Context) error {
	var req JournalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	ctx, cancel := s.requestContext(c.Request().Context())
	defer cancel()

	score, err := s.mentor.ScoreEntry(ctx, req.Content)
	if err != nil {
		return httpError(err)
	}
	analysis := s.tagger.Analyze(req.Content)

	entry, err := s.store.SaveEntry(ctx, store.Entry{
		UserID:    c.Param("uid"),
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Sentiment: &score.Sentiment,
		Emotion:   score.Emotion,
		Analysis:  &analysis,
	})
	if err != nil {
		s.logger.Error("failed to save journal", zap.Error(err))
		return httpError(err)
	}

	s.logger.Debug("journal saved",
		zap.String("entry_id", entry.ID),
		zap.Float64("sentiment", score.Sentiment),
		zap.String("emotion", score.Emotion),
		zap.Bool("local_score", score.Local))
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleInsights(c echo.Context) error {
	entries, err := s.store.AllEntries(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, insights.Summarize(entries))
}

func (s *Server) handleAnalysis(c echo.Context) error {
	ctx, cancel := s.requestContext(c.Request().Context())
	defer cancel()

	entries, err := s.store.AllEntries(ctx, c.Param("uid"))
	if err != nil {
		return httpError(err)
	}
	if len(entries) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no journal entries to analyze")
	}

	analysis, err := s.mentor.AnalyzeJournals(ctx, insights.AnalysisBlock(entries))
	if err != nil {
		s.logger.Warn("journal analysis failed", zap.Error(err))
		if errors.Is(err, mentor.ErrNoBackend) || errors.Is(err, context.DeadlineExceeded) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusBadGateway, "analysis backend failed")
	}
	return c.JSON(http.StatusOK, AnalysisResponse{Entries: len(entries), Analysis: analysis})
}

func (s *Server) handleExport(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = insights.FormatMarkdown
	}

	entries, err := s.store.AllEntries(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return httpError(err)
	}

	var buf bytes.Buffer
	if err := insights.Export(&buf, format, entries); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contentType, ext := "text/markdown; charset=utf-8", "md"
	if format == insights.FormatJSON {
		contentType, ext = echo.MIMEApplicationJSONCharsetUTF8, "json"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="journal.%s"`, ext))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) handleListChats(c echo.Context) error {
	limit, err := queryInt(c, "limit", store.DefaultChatLimit)
	if err != nil {
		return err
	}

	chats, err := s.store.RecentChats(c.Request().Context(), c.Param("uid"), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, chats)
}

func (s *Server) handleSendChat(c echo.Context) error {
	var req TextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := s.requestContext(c.Request().Context())
	defer cancel()

	reply, err := s.converse(ctx, c.Param("uid"), req.Text)
	if err != nil {
		if reply == "" {
			return httpError(err)
		}
		status := http.StatusBadGateway
		if he := httpError(err); he.Code != http.StatusInternalServerError {
			status = he.Code
		}
		return c.JSON(status, ChatResponse{Reply: reply, Error: err.Error()})
	}
	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

func (s *Server) handleListGoals(c echo.Context) error {
	goals, err := s.store.ListGoals(c.Request().Context(), c.Param("uid"), c.QueryParam("status"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, goals)
}

func (s *Server) handleAddGoal(c echo.Context) error {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	goal, err := s.store.AddGoal(c.Request().Context(), store.Goal{
		UserID:      c.Param("uid"),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, goal)
}

func (s *Server) handleUpdateGoal(c echo.Context) error {
	var req GoalStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.store.SetGoalStatus(c.Request().Context(), c.Param("uid"), c.Param("id"), req.Status); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteGoal(c echo.Context) error {
	if err := s.store.DeleteGoal(c.Request().Context(), c.Param("uid"), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// converse records the user message, asks the mentor and records the reply.
// On backend failure the fallback reply is returned with the error and
// nothing is recorded for the model.
func (s *Server) converse(ctx context.Context, uid, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", mentor.ErrEmptyMessage
	}

	past, err := s.store.RecentChats(ctx, uid, mentor.MaxHistory)
	if err != nil {
		return "", err
	}
	if _, err := s.store.SaveChat(ctx, store.ChatMessage{UserID: uid, Role: store.RoleUser, Text: text}); err != nil {
		return "", err
	}

	reply, err := s.mentor.Reply(ctx, toTurns(past), text)
	if err != nil {
		return reply, err
	}

	if _, err := s.store.SaveChat(ctx, store.ChatMessage{UserID: uid, Role: store.RoleModel, Text: reply}); err != nil {
		s.logger.Warn("failed to record mentor reply", zap.Error(err))
	}
	return reply, nil
}

func toTurns(chats []store.ChatMessage) []mentor.Turn {
	turns := make([]mentor.Turn, len(chats))
	for i, m := range chats {
		turns[i] = mentor.Turn{Role: m.Role, Text: m.Text}
	}
	return turns
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 1000 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s parameter", name))
	}
	return n, nil
}
