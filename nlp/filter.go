package nlp

import (
	"strings"

	"github.com/poiesic/policylens/core"
)

// FilterMode selects the form emitted for allowed tokens.
type FilterMode int

const (
	// Lemmatize emits the lowercase lemma of each allowed token.
	Lemmatize FilterMode = iota
	// Lowercase emits the lowercase surface form of each allowed token.
	Lowercase
)

func (m FilterMode) String() string {
	switch m {
	case Lemmatize:
		return "lemmatize"
	case Lowercase:
		return "lowercase"
	default:
		return "unknown"
	}
}

// IsAllowed reports whether a token survives filtering: it must have
// non-whitespace text and be neither a stopword nor punctuation.
func IsAllowed(t core.Token) bool {
	return strings.TrimSpace(t.Text) != "" && !t.IsStop && !t.IsPunct
}

// Filter drops disallowed tokens, emits the selected form of the rest,
// joins them with single spaces and re-tokenizes the result. The returned
// document is a consistent token sequence in the original order, with no
// deduplication, and never has more tokens than the input.
func (p *Processor) Filter(tokens []core.Token, mode FilterMode) *core.Document {
	forms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !IsAllowed(t) {
			continue
		}
		form := t.Norm
		if mode == Lemmatize && t.Lemma != "" {
			form = t.Lemma
		}
		if form == "" {
			form = strings.ToLower(t.Text)
		}
		forms = append(forms, form)
	}
	return p.NewDocument("", strings.Join(forms, " "))
}

// FilterDocument filters doc's tokens and keeps its name.
func (p *Processor) FilterDocument(doc *core.Document, mode FilterMode) *core.Document {
	filtered := p.Filter(doc.Tokens(), mode)
	return p.NewDocument(doc.Name, filtered.Text)
}

// Filter filters tokens with the default English processor.
func Filter(tokens []core.Token, mode FilterMode) *core.Document {
	return defaultProcessor.Filter(tokens, mode)
}

// Words returns the text of every token in doc.
func Words(doc *core.Document) []string {
	tokens := doc.Tokens()
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Text
	}
	return words
}
