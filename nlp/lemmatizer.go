package nlp

import (
	"github.com/kljensen/snowball"
)

// Lemmatizer reduces a lowercase word to its dictionary-like base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// SnowballLemmatizer approximates lemmatization with the Snowball English
// stemmer. Keywords and documents pass through the same reduction, so
// matching stays consistent even where a stem is not a dictionary word.
type SnowballLemmatizer struct {
	language string
}

var _ Lemmatizer = (*SnowballLemmatizer)(nil)

// NewSnowballLemmatizer returns an English Snowball lemmatizer.
func NewSnowballLemmatizer() *SnowballLemmatizer {
	return &SnowballLemmatizer{language: "english"}
}

// Lemma returns the stem of word, or word itself when stemming fails.
func (s *SnowballLemmatizer) Lemma(word string) string {
	stem, err := snowball.Stem(word, s.language, true)
	if err != nil || stem == "" {
		return word
	}
	return stem
}

// identityLemmatizer leaves words unchanged.
type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(word string) string { return word }
