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
	"math"
	"slices"
	"strings"
)

// KeywordSet is an ordered, deduplicated list of keyword phrases.
// It is immutable after construction.
type KeywordSet struct {
	phrases []string
}

// NewKeywordSet builds a keyword set from phrases.
//
// Phrases are trimmed, empty phrases are skipped and duplicates keep their
// first position. Returns ErrEmptyKeywordSet if nothing remains.
func NewKeywordSet(phrases ...string) (KeywordSet, error) {
	seen := make(map[string]bool, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return KeywordSet{}, ErrEmptyKeywordSet
	}
	return KeywordSet{phrases: out}, nil
}

// Phrases returns a copy of the keyword phrases in order.
func (k KeywordSet) Phrases() []string {
	return slices.Clone(k.phrases)
}

// Len returns the number of phrases.
func (k KeywordSet) Len() int {
	return len(k.phrases)
}

// ScoreRange is the expected numeric range of correlation scores.
//
// Thresholds are only meaningful relative to the embedding provider's
// scale, so the range is configured explicitly and checked on use.
type ScoreRange struct {
	Min float32
	Max float32
}

// CosineRange is the score range of inner products between unit vectors.
var CosineRange = ScoreRange{Min: -1, Max: 1}

// UnboundedRange accepts any finite score.
var UnboundedRange = ScoreRange{Min: -math.MaxFloat32, Max: math.MaxFloat32}

// Validate checks that the range bounds are ordered and not NaN.
func (r ScoreRange) Validate() error {
	if isNaN32(r.Min) || isNaN32(r.Max) || r.Min > r.Max {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidScoreRange, r.Min, r.Max)
	}
	return nil
}

// Contains reports whether v lies in the range, allowing tolerance for
// floating point error on both bounds.
func (r ScoreRange) Contains(v float32, tolerance float32) bool {
	if isNaN32(v) {
		return false
	}
	return v >= r.Min-tolerance && v <= r.Max+tolerance
}

// ValidateThreshold checks that a tagging threshold lies in the range.
func (r ScoreRange) ValidateThreshold(threshold float32) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if !r.Contains(threshold, 0) {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrThresholdOutOfRange, threshold, r.Min, r.Max)
	}
	return nil
}

func isNaN32(v float32) bool {
	return v != v
}
