// Package insights derives trends, emotion frequencies and analysis prompts
// from stored journal entries.
package insights

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mengmoon/mind-universe/internal/store"
)

// ContentExcerptLimit is the number of characters of each entry included in
// the analysis block.
const ContentExcerptLimit = 500

const (
	neutralEmotion = "Neutral"
	untitled       = "Untitled"
	dateLayout     = "2006-01-02"
)

// Point is one scored entry on the sentiment trend.
type Point struct {
	Date      time.Time `json:"date"`
	Sentiment float64   `json:"sentiment"`
	Emotion   string    `json:"emotion"`
}

// EmotionCount is how often an emotion label was assigned.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// Summary aggregates the insights for one user.
type Summary struct {
	Entries  int            `json:"entries"`
	Scored   int            `json:"scored"`
	Average  float64        `json:"average"`
	Trend    []Point        `json:"trend"`
	Emotions []EmotionCount `json:"emotions"`
}

// Trend returns the scored entries as points in date order. Entries without
// a sentiment are skipped.
func Trend(entries []store.Entry) []Point {
	points := make([]Point, 0, len(entries))
	for _, e := range entries {
		if e.Sentiment == nil {
			continue
		}
		points = append(points, Point{Date: e.CreatedAt, Sentiment: *e.Sentiment, Emotion: emotionOf(e)})
	}
	slices.SortStableFunc(points, func(a, b Point) int {
		return a.Date.Compare(b.Date)
	})
	return points
}

// EmotionCounts counts emotion labels of scored entries, most frequent first
// with ties broken by name.
func EmotionCounts(entries []store.Entry) []EmotionCount {
	counts := map[string]int{}
	for _, e := range entries {
		if e.Sentiment == nil {
			continue
		}
		counts[emotionOf(e)]++
	}

	out := make([]EmotionCount, 0, len(counts))
	for emotion, n := range counts {
		out = append(out, EmotionCount{Emotion: emotion, Count: n})
	}
	slices.SortFunc(out, func(a, b EmotionCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Emotion, b.Emotion)
	})
	return out
}

// Summarize builds the full insights summary.
func Summarize(entries []store.Entry) Summary {
	trend := Trend(entries)
	s := Summary{
		Entries:  len(entries),
		Scored:   len(trend),
		Trend:    trend,
		Emotions: EmotionCounts(entries),
	}
	if len(trend) > 0 {
		var sum float64
		for _, p := range trend {
			sum += p.Sentiment
		}
		s.Average = sum / float64(len(trend))
	}
	return s
}

// AnalysisBlock renders entries as the text block sent for deep analysis,
// one paragraph per entry in the given order.
func AnalysisBlock(entries []store.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		var sentiment float64
		if e.Sentiment != nil {
			sentiment = *e.Sentiment
		}
		fmt.Fprintf(&sb, "Date: %s, Sentiment: %s (%.2f)\n", e.CreatedAt.Format(dateLayout), emotionOf(e), sentiment)
		fmt.Fprintf(&sb, "Title: %s\n", titleOf(e))
		fmt.Fprintf(&sb, "Content: %s...\n\n", excerpt(e.Content, ContentExcerptLimit))
	}
	return sb.String()
}

func emotionOf(e store.Entry) string {
	if e.Emotion == "" {
		return neutralEmotion
	}
	return e.Emotion
}

func titleOf(e store.Entry) string {
	if strings.TrimSpace(e.Title) == "" {
		return untitled
	}
	return e.Title
}

// excerpt returns the first n characters of s.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
