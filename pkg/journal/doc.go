// Package journal tags free-text journal entries.
//
// A Tagger runs a fixed battery of keyword and sentiment rules over an entry
// and returns an Analysis: psychological flags, archetypes, Maslow needs,
// strengths, cognitive distortions and one suggestion per mentor voice
// (Freudian, Adlerian, Jungian, Maslow, Positive Psychology, CBT).
//
// The compound sentiment score comes from an injected SentimentScorer.
// NewLexicon provides a VADER-style lexicon scorer; tests use Fixed.
//
//	tagger := journal.NewTagger(journal.NewLexicon())
//	a := tagger.Analyze("I feel lonely but I will try")
//	fmt.Println(a.Suggestion(journal.Maslow))
package journal
