// Package mentor talks to the chat model behind the AI mentor: conversational
// replies, per-entry sentiment scoring and multi-entry journal analysis.
package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mengmoon/mind-universe/internal/logging"
	"github.com/mengmoon/mind-universe/pkg/journal"
	"go.uber.org/zap"
)

// Turn roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// MaxHistory is the number of turns sent to the model with each reply.
const MaxHistory = 20

// FallbackReply is returned alongside the error when the backend fails.
const FallbackReply = "Sorry, I couldn't generate a response."

// NeutralEmotion labels entries the model could not classify.
const NeutralEmotion = "Neutral"

var (
	// ErrNoBackend is returned when no chat model is configured.
	ErrNoBackend = errors.New("no mentor backend configured")
	// ErrEmptyMessage is returned for blank messages, entries or analysis blocks.
	ErrEmptyMessage = errors.New("message must not be empty")
)

// SystemPrompt frames every mentor conversation.
const SystemPrompt = `You are Mind Mentor, an AI mentor integrating six voices: Freud, Adler, Jung, Maslow, Positive Psychology and CBT.
Provide empathetic, insightful and guidance-focused responses. Tailor advice and reflections using the perspectives of all six mentors.
You are not a therapist. If the user mentions self-harm or a crisis, encourage them to contact local emergency services or a crisis line.`

const scorePrompt = `You label the emotional tone of a single journal entry.
Reply with only a JSON object of the form {"sentiment": <number from -1.0 to 1.0>, "emotion": "<one word such as Joy, Sadness, Anxiety, Anger, Calm or Neutral>"}.`

const analysisPrompt = `You are the Mind Analyst. You receive a series of journal entries with dates, sentiment labels and excerpts.
Summarise recurring themes, emotional trends over time, strengths the writer shows and one or two gentle suggestions for the weeks ahead.
Answer in Markdown with short headed sections.`

// Turn is one message of a conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Backend completes a conversation given a system prompt.
type Backend interface {
	Name() string
	Complete(ctx context.Context, system string, history []Turn) (string, error)
}

// Score is the model's label for one journal entry.
type Score struct {
	Sentiment float64 `json:"sentiment"`
	Emotion   string  `json:"emotion"`
	// Local is set when the score came from the lexicon fallback
	Local bool `json:"local,omitempty"`
}

// Mentor wraps a Backend with the prompts and fallbacks.
type Mentor struct {
	backend Backend
	scorer  journal.SentimentScorer
	logger  *zap.Logger
}

// New creates a mentor. backend may be nil, in which case replies fail with
// ErrNoBackend and scoring uses scorer alone.
func New(backend Backend, scorer journal.SentimentScorer, logger *zap.Logger) *Mentor {
	if scorer == nil {
		scorer = journal.NewLexicon()
	}
	return &Mentor{backend: backend, scorer: scorer, logger: logging.OrNop(logger)}
}

// Reply answers message given the earlier conversation. Only the most recent
// turns are sent so the prompt stays bounded.
func (m *Mentor) Reply(ctx context.Context, history []Turn, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	if m.backend == nil {
		return FallbackReply, ErrNoBackend
	}

	turns := make([]Turn, 0, MaxHistory+1)
	turns = append(turns, lastTurns(history, MaxHistory)...)
	turns = append(turns, Turn{Role: RoleUser, Text: message})

	reply, err := m.backend.Complete(ctx, SystemPrompt, turns)
	if err != nil {
		m.logger.Error("mentor reply failed", zap.String("backend", m.backend.Name()), zap.Error(err))
		return FallbackReply, fmt.Errorf("mentor reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return FallbackReply, errors.New("mentor reply: backend returned an empty response")
	}
	return reply, nil
}

// ScoreEntry asks the model for a sentiment and emotion label. When the
// model is unavailable or its answer cannot be parsed the lexicon score and
// NeutralEmotion are used instead, so scoring never fails on backend errors.
func (m *Mentor) ScoreEntry(ctx context.Context, text string) (Score, error) {
	if strings.TrimSpace(text) == "" {
		return Score{}, ErrEmptyMessage
	}

	fallback := Score{Sentiment: clamp(m.scorer.Compound(text)), Emotion: NeutralEmotion, Local: true}
	if m.backend == nil {
		return fallback, nil
	}

	raw, err := m.backend.Complete(ctx, scorePrompt, []Turn{{Role: RoleUser, Text: text}})
	if err != nil {
		if ctx.Err() != nil {
			return Score{}, ctx.Err()
		}
		m.logger.Warn("entry scoring failed, using lexicon", zap.Error(err))
		return fallback, nil
	}

	score, ok := ParseScore(raw)
	if !ok {
		m.logger.Warn("unparseable entry score, using lexicon", zap.String("reply", truncate(raw, 200)))
		return fallback, nil
	}
	return score, nil
}

// AnalyzeJournals produces a Markdown summary of a block of entries.
func (m *Mentor) AnalyzeJournals(ctx context.Context, block string) (string, error) {
	if strings.TrimSpace(block) == "" {
		return "", ErrEmptyMessage
	}
	if m.backend == nil {
		return "", ErrNoBackend
	}

	out, err := m.backend.Complete(ctx, analysisPrompt, []Turn{{Role: RoleUser, Text: block}})
	if err != nil {
		return "", fmt.Errorf("journal analysis: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ParseScore extracts {"sentiment","emotion"} from a model reply. Code fences
// and surrounding prose are tolerated; sentiment is clamped to [-1, 1].
func ParseScore(raw string) (Score, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Score{}, false
	}

	var parsed struct {
		Sentiment *float64 `json:"sentiment"`
		Emotion   string   `json:"emotion"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil || parsed.Sentiment == nil {
		return Score{}, false
	}
	if math.IsNaN(*parsed.Sentiment) {
		return Score{}, false
	}

	emotion := strings.TrimSpace(parsed.Emotion)
	if emotion == "" {
		emotion = NeutralEmotion
	}
	return Score{Sentiment: clamp(*parsed.Sentiment), Emotion: emotion}, true
}

func lastTurns(history []Turn, n int) []Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
