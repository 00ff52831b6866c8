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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSpan indicates a span is empty or outside its document.
	ErrInvalidSpan = errors.New("invalid span")

	// ErrEmptyLabel indicates an entity label or score tag is empty.
	ErrEmptyLabel = errors.New("label cannot be empty")

	// ErrScoreCountMismatch indicates a score table does not match the token count.
	ErrScoreCountMismatch = errors.New("score count does not match token count")

	// ErrEmptyKeywordSet indicates a keyword set has no usable phrases.
	ErrEmptyKeywordSet = errors.New("keyword set cannot be empty")

	// ErrInvalidScoreRange indicates a score range with Min > Max or NaN bounds.
	ErrInvalidScoreRange = errors.New("invalid score range")

	// ErrThresholdOutOfRange indicates a threshold outside the configured score range.
	ErrThresholdOutOfRange = errors.New("threshold outside score range")

	// ErrDimensionMismatch indicates vectors of different lengths were compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
