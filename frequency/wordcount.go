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

package frequency

import (
	"cmp"
	"maps"
	"slices"

	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/nlp"
)

// TermCount is a term with its number of occurrences.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Frequencies is an ordered list of term counts.
type Frequencies []TermCount

// Map returns the frequencies as a term to count mapping.
func (f Frequencies) Map() map[string]int {
	m := make(map[string]int, len(f))
	for _, tc := range f {
		m[tc.Term] = tc.Count
	}
	return m
}

// WordCount is a term frequency table over a token sequence.
type WordCount struct {
	counts map[string]int
	total  int
}

// NewWordCount counts every word in words.
func NewWordCount(words []string) *WordCount {
	counts := make(map[string]int)
	for _, w := range words {
		counts[w]++
	}
	return &WordCount{counts: counts, total: len(words)}
}

// CountDocument filters doc with p in the given mode and counts the result.
func CountDocument(p *nlp.Processor, doc *core.Document, mode nlp.FilterMode) *WordCount {
	return NewWordCount(nlp.Words(p.Filter(doc.Tokens(), mode)))
}

// Total returns the number of counted tokens.
func (w *WordCount) Total() int {
	return w.total
}

// Count returns the occurrences of term, zero when absent.
func (w *WordCount) Count(term string) int {
	return w.counts[term]
}

// Table returns a copy of the term to count mapping.
func (w *WordCount) Table() map[string]int {
	return maps.Clone(w.counts)
}

// MostCommon returns the n most frequent terms ordered by count descending
// and then by term. A non-positive n returns every term.
func (w *WordCount) MostCommon(n int) Frequencies {
	out := make(Frequencies, 0, len(w.counts))
	for term, count := range w.counts {
		out = append(out, TermCount{Term: term, Count: count})
	}
	slices.SortFunc(out, func(a, b TermCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
