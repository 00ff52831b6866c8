// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"slices"
	"sort"
)

// Document is a piece of source text together with its tokens, sentence
// spans, tagged entities and per-token score tables.
//
// A Document is not safe for concurrent mutation. Entity tagging and score
// assignment for one document must stay on a single goroutine.
type Document struct {
	Name      string
	Text      string
	tokens    []Token
	sentences []Span
	entities  []Entity // sorted by Start, never overlapping
	scores    map[string][]float32
}

// NewDocument creates a document from already tokenized text.
// Token indexes are rewritten to match their position in tokens.
func NewDocument(name, text string, tokens []Token, sentences []Span) *Document {
	toks := make([]Token, len(tokens))
	copy(toks, tokens)
	for i := range toks {
		toks[i].Index = i
	}
	return &Document{
		Name:      name,
		Text:      text,
		tokens:    toks,
		sentences: sentences,
		scores:    make(map[string][]float32),
	}
}

// Len returns the number of tokens in the document.
func (d *Document) Len() int {
	return len(d.tokens)
}

// Tokens returns the document tokens. The slice must not be modified.
func (d *Document) Tokens() []Token {
	return d.tokens
}

// Token returns the token at index i.
func (d *Document) Token(i int) Token {
	return d.tokens[i]
}

// Sentences returns the sentence spans of the document.
func (d *Document) Sentences() []Span {
	return d.sentences
}

// SpanTokens returns the tokens covered by span.
func (d *Document) SpanTokens(span Span) []Token {
	return d.tokens[span.Start:span.End]
}

// SpanText returns the source text covered by span, including the original
// whitespace between tokens.
func (d *Document) SpanText(span Span) string {
	if span.Len() <= 0 {
		return ""
	}
	first := d.tokens[span.Start]
	last := d.tokens[span.End-1]
	if first.End > len(d.Text) || last.End > len(d.Text) || first.Start > last.End {
		// Tokens do not point into Text (e.g. a re-tokenized document);
		// fall back to joining token texts.
		return JoinTokens(d.tokens[span.Start:span.End])
	}
	return d.Text[first.Start:last.End]
}

// ValidateSpan checks that span is non-empty and lies inside the document.
func (d *Document) ValidateSpan(span Span) error {
	if span.Start < 0 || span.End > len(d.tokens) || span.Start >= span.End {
		return fmt.Errorf("%w: [%d,%d) over %d tokens", ErrInvalidSpan, span.Start, span.End, len(d.tokens))
	}
	return nil
}

// Entities returns a copy of the document entities ordered by start position.
func (d *Document) Entities() []Entity {
	return slices.Clone(d.entities)
}

// AddEntity records an entity on the document.
//
// If the entity overlaps an existing one it is discarded and AddEntity
// returns false with a nil error: the first entity to claim a token range
// keeps it. An invalid span or empty label is an error.
func (d *Document) AddEntity(e Entity) (bool, error) {
	if err := d.ValidateSpan(e.Span); err != nil {
		return false, err
	}
	if e.Label == "" {
		return false, ErrEmptyLabel
	}

	// Position of the first entity starting at or after e.Start.
	i := sort.Search(len(d.entities), func(i int) bool {
		return d.entities[i].Start >= e.Start
	})
	if i > 0 && d.entities[i-1].Overlaps(e.Span) {
		return false, nil
	}
	if i < len(d.entities) && d.entities[i].Overlaps(e.Span) {
		return false, nil
	}

	d.entities = slices.Insert(d.entities, i, e)
	return true, nil
}

// SetTokenScores stores one score per token under tag, replacing any
// previous table with the same tag.
func (d *Document) SetTokenScores(tag string, scores []float32) error {
	if tag == "" {
		return ErrEmptyLabel
	}
	if len(scores) != len(d.tokens) {
		return fmt.Errorf("%w: %d scores for %d tokens", ErrScoreCountMismatch, len(scores), len(d.tokens))
	}
	d.scores[tag] = slices.Clone(scores)
	return nil
}

// TokenScores returns the score table stored under tag.
func (d *Document) TokenScores(tag string) ([]float32, bool) {
	scores, ok := d.scores[tag]
	return scores, ok
}

// TokenScore returns the score of token i under tag.
func (d *Document) TokenScore(tag string, i int) (float32, bool) {
	scores, ok := d.scores[tag]
	if !ok || i < 0 || i >= len(scores) {
		return 0, false
	}
	return scores[i], true
}
