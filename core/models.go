package core

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TokenKind classifies a token.
type TokenKind int

const (
	// KindWord is an alphabetic word, including internal hyphens, apostrophes and dotted abbreviations.
	KindWord TokenKind = iota + 1
	// KindNumber is a run of digits with optional separators.
	KindNumber
	// KindPunct is a punctuation mark.
	KindPunct
	// KindSymbol is anything else: currency signs, math symbols, emoji.
	KindSymbol
)

// String returns the name of the token kind.
func (k TokenKind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindNumber:
		return "number"
	case KindPunct:
		return "punct"
	case KindSymbol:
		return "symbol"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a single unit of text inside a Document.
type Token struct {
	Index   int       // Position of the token in its document
	Text    string    // Text as it appears in the source
	Start   int       // Byte offset in the source text (inclusive)
	End     int       // Byte offset in the source text (exclusive)
	Kind    TokenKind // Classification
	Norm    string    // Lowercase form
	Lemma   string    // Lowercase lemma form
	IsStop  bool      // True when Norm is a stopword
	IsPunct bool      // True for punctuation tokens
}

// Span is a half-open token range [Start, End) over a Document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one token.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Entity is a labeled span recorded on a Document.
type Entity struct {
	Span
	Label string `json:"label"`
}

// Correlation pairs a candidate text with its best keyword similarity.
type Correlation struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

// ScoredSpan is a candidate span together with its correlation score.
type ScoredSpan struct {
	Span  Span    `json:"span"`
	Score float32 `json:"score"`
}

// Passage is an indexed piece of a document used for semantic search.
type Passage struct {
	Id       ID        `cbor:"1,keyasint" json:"id"`
	Document string    `cbor:"2,keyasint" json:"document"`
	Ordinal  int       `cbor:"3,keyasint" json:"ordinal"`
	Text     string    `cbor:"4,keyasint" json:"text"`
	Vector   []float32 `cbor:"5,keyasint" json:"-"`
}

// IndexedDocument records what was indexed for a document so unchanged
// documents can be skipped on the next run.
type IndexedDocument struct {
	Name      string    `cbor:"1,keyasint" json:"name"`
	Checksum  ID        `cbor:"2,keyasint" json:"checksum"`
	Passages  int       `cbor:"3,keyasint" json:"passages"`
	IndexedAt time.Time `cbor:"4,keyasint" json:"indexed_at"`
}

// PassageResult is a passage with its similarity to a query.
type PassageResult struct {
	Passage *Passage `json:"passage"`
	Score   float32  `json:"score"`
}

// JoinTokens joins token texts with single spaces.
func JoinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
