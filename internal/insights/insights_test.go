package insights

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mengmoon/mind-universe/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func day(d int) time.Time {
	return time.Date(2025, 1, d, 20, 30, 0, 0, time.UTC)
}

func sampleEntries() []store.Entry {
	return []store.Entry{
		{ID: "3", Title: "Walk", Content: "Long walk", Sentiment: ptr(0.6), Emotion: "Calm", CreatedAt: day(3)},
		{ID: "1", Title: "Exam", Content: "Nervous", Sentiment: ptr(-0.4), Emotion: "Anxiety", CreatedAt: day(1)},
		{ID: "2", Title: "", Content: "Unscored", CreatedAt: day(2)},
		{ID: "4", Title: "Call", Content: "Talked to mum", Sentiment: ptr(0.2), Emotion: "Calm", CreatedAt: day(4)},
		{ID: "5", Title: "Tired", Content: "Slept badly", Sentiment: ptr(-0.1), CreatedAt: day(5)},
	}
}

func TestTrend(t *testing.T) {
	points := Trend(sampleEntries())
	require.Len(t, points, 4)

	assert.Equal(t, day(1), points[0].Date)
	assert.Equal(t, -0.4, points[0].Sentiment)
	assert.Equal(t, "Calm", points[1].Emotion)
	assert.Equal(t, "Neutral", points[3].Emotion)

	assert.Empty(t, Trend(nil))
}

func TestEmotionCounts(t *testing.T) {
	counts := EmotionCounts(sampleEntries())

	assert.Equal(t, []EmotionCount{
		{Emotion: "Calm", Count: 2},
		{Emotion: "Anxiety", Count: 1},
		{Emotion: "Neutral", Count: 1},
	}, counts)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleEntries())
	assert.Equal(t, 5, s.Entries)
	assert.Equal(t, 4, s.Scored)
	assert.InDelta(t, 0.075, s.Average, 1e-9)

	empty := Summarize(nil)
	assert.Zero(t, empty.Average)
	assert.NotNil(t, empty.Trend)
}

func TestAnalysisBlock(t *testing.T) {
	entries := []store.Entry{
		{Title: "Exam", Content: "Nervous", Sentiment: ptr(-0.4), Emotion: "Anxiety", CreatedAt: day(1)},
		{Content: "Unscored", CreatedAt: day(2)},
	}

	want := "Date: 2025-01-01, Sentiment: Anxiety (-0.40)\n" +
		"Title: Exam\n" +
		"Content: Nervous...\n\n" +
		"Date: 2025-01-02, Sentiment: Neutral (0.00)\n" +
		"Title: Untitled\n" +
		"Content: Unscored...\n\n"
	assert.Equal(t, want, AnalysisBlock(entries))
	assert.Empty(t, AnalysisBlock(nil))
}

func TestAnalysisBlock_TruncatesContent(t *testing.T) {
	long := strings.Repeat("é", ContentExcerptLimit+50)
	block := AnalysisBlock([]store.Entry{{Content: long, CreatedAt: day(1)}})

	assert.Contains(t, block, "Content: "+strings.Repeat("é", ContentExcerptLimit)+"...\n")
	assert.NotContains(t, block, strings.Repeat("é", ContentExcerptLimit+1))
}

func TestExportMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportMarkdown(&buf, sampleEntries()[:3]))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Journal Export\n\n"))
	assert.Contains(t, out, "## Walk\n\n*2025-01-03 20:30* | Calm (0.60)\n\nLong walk\n\n")
	assert.Contains(t, out, "## Untitled\n\n*2025-01-02 20:30*\n\nUnscored\n\n")

	buf.Reset()
	require.NoError(t, ExportMarkdown(&buf, nil))
	assert.Contains(t, buf.String(), "_No entries._")
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatJSON, sampleEntries()))

	var decoded []store.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 5)
	assert.Equal(t, "Walk", decoded[0].Title)
	assert.Nil(t, decoded[2].Sentiment)

	buf.Reset()
	require.NoError(t, ExportJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestExport_UnknownFormat(t *testing.T) {
	assert.Error(t, Export(&bytes.Buffer{}, "csv", nil))
}
