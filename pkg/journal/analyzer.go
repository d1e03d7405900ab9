// ABOUTME: Rule-based journal tagger
// ABOUTME: Maps keyword and sentiment triggers to flags, needs and mentor suggestions
package journal

import (
	"fmt"
	"strings"
)

// Voice is one of the six mentor perspectives
type Voice int

const (
	Freudian Voice = iota
	Adlerian
	Jungian
	Maslow
	PositivePsychology
	CBT

	// VoiceCount is the number of mentor voices
	VoiceCount = 6
)

var voiceNames = [VoiceCount]string{
	"Freudian",
	"Adlerian",
	"Jungian",
	"Maslow",
	"Positive Psychology",
	"CBT",
}

// String returns the display label of the voice
func (v Voice) String() string {
	if v < 0 || int(v) >= VoiceCount {
		return fmt.Sprintf("Voice(%d)", int(v))
	}
	return voiceNames[v]
}

// Tag vocabulary
const (
	FlagHelplessness  = "helplessness"
	FlagHallucination = "hallucination"

	NeedEsteem    = "Esteem: low confidence"
	NeedSafety    = "Safety: need for stability"
	NeedBelonging = "Love/Belonging: need for connection"

	ArchetypeShadow = "Shadow: symbolic expression"

	StrengthHope = "Hope: effort detected"

	DistortionAllOrNothing    = "All-or-nothing thinking"
	DistortionCatastrophizing = "Catastrophizing"

	// NegativeThreshold is the compound score below which helplessness is flagged
	NegativeThreshold = -0.5

	shadowPrefix = "Shadow:"
)

// Analysis is the tagger output for one journal text. Container order is the
// order rules fired in; only Suggestions has a meaningful fixed order.
type Analysis struct {
	Compound    float64            `json:"compound"`
	Flags       []string           `json:"flags"`
	Archetypes  []string           `json:"archetypes"`
	MaslowNeeds []string           `json:"maslow_needs"`
	Strengths   []string           `json:"strengths"`
	Distortions []string           `json:"distortions"`
	Suggestions [VoiceCount]string `json:"suggestions"`
}

// Suggestion returns the suggestion text for a voice
func (a Analysis) Suggestion(v Voice) string {
	if v < 0 || int(v) >= VoiceCount {
		return ""
	}
	return a.Suggestions[v]
}

// Tagger applies the keyword rules. It is safe for concurrent use when the
// scorer is.
type Tagger struct {
	scorer SentimentScorer
}

// NewTagger creates a tagger that takes compound sentiment from scorer.
// A nil scorer falls back to the built-in lexicon.
func NewTagger(scorer SentimentScorer) *Tagger {
	if scorer == nil {
		scorer = NewLexicon()
	}
	return &Tagger{scorer: scorer}
}

// Analyze tags text. Every rule is evaluated independently; an input that
// matches nothing yields empty containers and the fallback suggestions.
func (t *Tagger) Analyze(text string) Analysis {
	a := Analysis{
		Compound:    t.scorer.Compound(text),
		Flags:       []string{},
		Archetypes:  []string{},
		MaslowNeeds: []string{},
		Strengths:   []string{},
		Distortions: []string{},
	}
	lower := strings.ToLower(text)

	if a.Compound < NegativeThreshold {
		a.Flags = append(a.Flags, FlagHelplessness)
		a.MaslowNeeds = append(a.MaslowNeeds, NeedEsteem)
		a.Distortions = append(a.Distortions, DistortionAllOrNothing)
	}
	if strings.Contains(lower, "voices") {
		a.Flags = append(a.Flags, FlagHallucination)
		a.MaslowNeeds = append(a.MaslowNeeds, NeedSafety)
		a.Archetypes = append(a.Archetypes, ArchetypeShadow)
	}
	if strings.Contains(lower, "lonely") {
		a.MaslowNeeds = append(a.MaslowNeeds, NeedBelonging)
	}
	if strings.Contains(lower, "try") {
		a.Strengths = append(a.Strengths, StrengthHope)
	}
	if strings.Contains(lower, "worthless") {
		a.Distortions = append(a.Distortions, DistortionCatastrophizing)
	}

	a.Suggestions = suggestions(a)
	return a
}

func suggestions(a Analysis) [VoiceCount]string {
	jungian := "Hero self"
	if hasPrefix(a.Archetypes, shadowPrefix) {
		jungian = "Shadow dialogue"
	}

	var s [VoiceCount]string
	s[Freudian] = fmt.Sprintf("Freudian: Reflect on %s—journal unconscious thoughts.", firstOr(a.Distortions, "triggers"))
	s[Adlerian] = "Adlerian: Build social interest—connect with one person."
	s[Jungian] = fmt.Sprintf("Jungian: Visualize %s for empowerment.", jungian)
	s[Maslow] = fmt.Sprintf("Maslow: Address %s—try a routine.", firstOr(a.MaslowNeeds, "basic needs"))
	s[PositivePsychology] = "Positive Psychology: Practice gratitude—list 3 things you're thankful for."
	s[CBT] = fmt.Sprintf("CBT: Challenge %s—list 3 counter-evidences.", firstOr(a.Distortions, "negative thoughts"))
	return s
}

func firstOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return items[0]
}

func hasPrefix(items []string, prefix string) bool {
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			return true
		}
	}
	return false
}
