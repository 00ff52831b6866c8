package search

import (
	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/nlp"
)

// contentTerms returns the lemmas of the non-stopword, non-punctuation tokens of text.
func contentTerms(p *nlp.Processor, text string) []string {
	var terms []string
	for _, t := range p.Tokenize(text) {
		if nlp.IsAllowed(t) && t.Kind != core.KindSymbol {
			terms = append(terms, t.Lemma)
		}
	}
	return terms
}

// containsAllQueryWords checks if all query terms appear in the passage.
func containsAllQueryWords(p *nlp.Processor, passage, query string) bool {
	queryTerms := contentTerms(p, query)
	if len(queryTerms) == 0 {
		return false
	}

	passageTerms := make(map[string]bool)
	for _, term := range contentTerms(p, passage) {
		passageTerms[term] = true
	}

	for _, term := range queryTerms {
		if !passageTerms[term] {
			return false
		}
	}
	return true
}
