// ABOUTME: Compound sentiment scoring for journal text
// ABOUTME: Provides the scorer interface and a lexicon-based VADER-style scorer
package journal

import (
	"math"
	"strings"
	"unicode"
)

// SentimentScorer returns a compound valence in [-1, 1] for a text
type SentimentScorer interface {
	Compound(text string) float64
}

// ScoreFunc adapts a function to SentimentScorer
type ScoreFunc func(text string) float64

// Compound calls f
func (f ScoreFunc) Compound(text string) float64 {
	return f(text)
}

// Fixed returns a scorer that always reports score
func Fixed(score float64) SentimentScorer {
	return ScoreFunc(func(string) float64 { return score })
}

const (
	// normalization constant from VADER, approximates the max expected sum
	vaderAlpha = 15.0

	negationScalar = -0.74
	boosterIncr    = 0.293
	negationWindow = 3
)

// Lexicon scores text by summing word valences on the VADER scale (-4..4),
// flipping words preceded by a negation and scaling words after a booster.
type Lexicon struct {
	valence  map[string]float64
	boosters map[string]float64
	negators map[string]bool
}

// NewLexicon returns a scorer loaded with the built-in wellness lexicon
func NewLexicon() *Lexicon {
	return &Lexicon{
		valence:  defaultValence,
		boosters: defaultBoosters,
		negators: defaultNegators,
	}
}

// Compound returns the normalized sum of word valences
func (l *Lexicon) Compound(text string) float64 {
	words := tokenize(text)

	var sum float64
	for i, w := range words {
		v, ok := l.valence[w]
		if !ok {
			continue
		}

		if i > 0 {
			if b, ok := l.boosters[words[i-1]]; ok {
				if v > 0 {
					v += b
				} else {
					v -= b
				}
			}
		}

		for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
			if l.negators[words[j]] {
				v *= negationScalar
				break
			}
		}

		sum += v
	}

	sum += exclamationEmphasis(text, sum)
	return normalize(sum)
}

// exclamationEmphasis amplifies the sum in its own direction, capped at four marks
func exclamationEmphasis(text string, sum float64) float64 {
	n := strings.Count(text, "!")
	if n > 4 {
		n = 4
	}
	e := float64(n) * 0.292
	switch {
	case sum > 0:
		return e
	case sum < 0:
		return -e
	}
	return 0
}

func normalize(sum float64) float64 {
	if sum == 0 {
		return 0
	}
	score := sum / math.Sqrt(sum*sum+vaderAlpha)
	return math.Max(-1, math.Min(1, score))
}

// tokenize lower-cases text and splits it on anything that is not a letter or
// apostrophe. "can't" stays one token so it can act as a negator.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

var defaultNegators = map[string]bool{
	"not": true, "no": true, "never": true, "nothing": true, "nobody": true,
	"none": true, "cannot": true, "can't": true, "don't": true, "didn't": true,
	"doesn't": true, "won't": true, "isn't": true, "wasn't": true, "aren't": true,
	"without": true, "neither": true, "nor": true,
}

var defaultBoosters = map[string]float64{
	"very": boosterIncr, "so": boosterIncr, "really": boosterIncr,
	"extremely": boosterIncr, "incredibly": boosterIncr, "totally": boosterIncr,
	"completely": boosterIncr, "deeply": boosterIncr, "absolutely": boosterIncr,
	"barely": -boosterIncr, "slightly": -boosterIncr, "somewhat": -boosterIncr,
}

var defaultValence = map[string]float64{
	// negative
	"abandoned": -2.3, "afraid": -2.2, "alone": -1.0, "angry": -2.3,
	"anxious": -1.8, "ashamed": -2.1, "awful": -2.0, "bad": -2.5,
	"broken": -2.0, "crying": -2.1, "dead": -3.3, "depressed": -2.3,
	"despair": -2.8, "empty": -1.6, "exhausted": -1.9, "failure": -2.3,
	"fear": -2.2, "frustrated": -2.1, "guilty": -2.0, "hate": -2.7,
	"hopeless": -2.6, "hurt": -2.4, "lonely": -2.0, "lost": -1.3,
	"miserable": -2.7, "nervous": -1.2, "overwhelmed": -1.8, "pain": -2.3,
	"panic": -2.5, "sad": -2.1, "scared": -1.9, "stressed": -1.8,
	"suffering": -2.6, "terrible": -2.9, "tired": -1.1, "trapped": -2.2,
	"ugly": -2.2, "unhappy": -1.8, "upset": -1.6, "useless": -1.8,
	"weak": -1.9, "worried": -1.2, "worse": -2.1, "worst": -3.1,
	"worthless": -1.9, "wrong": -2.1,
	// positive
	"accomplished": 1.8, "better": 1.9, "blessed": 2.9, "calm": 1.3,
	"confident": 2.2, "content": 1.5, "enjoy": 2.2, "excited": 1.4,
	"free": 2.3, "fun": 2.3, "glad": 2.0, "good": 1.9,
	"grateful": 2.0, "great": 3.1, "happy": 2.7, "hope": 1.9,
	"hopeful": 2.3, "joy": 2.8, "kind": 2.4, "laugh": 2.6,
	"love": 3.2, "loved": 2.9, "nice": 1.8, "peace": 2.5,
	"peaceful": 2.2, "proud": 2.1, "relaxed": 2.2, "relief": 2.1,
	"safe": 1.9, "strong": 2.3, "success": 2.7, "thankful": 2.7,
	"well": 1.1, "wonderful": 2.7, "works": 0.9,
}
