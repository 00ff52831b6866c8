package correlate

import (
	"context"

	"github.com/poiesic/policylens/core"
)

// DefaultStride keeps every fourth n-gram window.
const DefaultStride = 4

// Windows returns every contiguous window [i, i+size) over a document of
// docLen tokens: exactly docLen-size+1 windows, or none when size is not
// positive or exceeds docLen.
//
// The number of windows grows linearly with the document and assembling
// their text costs O(docLen*size), which makes n-gram tagging the most
// expensive pass over a document. Thin the windows with Stride before
// scoring long documents.
func Windows(docLen, size int) []core.Span {
	if size <= 0 || size > docLen {
		return nil
	}
	spans := make([]core.Span, 0, docLen-size+1)
	for i := 0; i+size <= docLen; i++ {
		spans = append(spans, core.Span{Start: i, End: i + size})
	}
	return spans
}

// Stride keeps every step-th span starting with the first.
// A step below 2 keeps all spans.
func Stride(spans []core.Span, step int) []core.Span {
	if step < 2 {
		return append([]core.Span(nil), spans...)
	}
	out := make([]core.Span, 0, len(spans)/step+1)
	for i := 0; i < len(spans); i += step {
		out = append(out, spans[i])
	}
	return out
}

// NGramTagger tags fixed-size token windows that correlate with a keyword set.
type NGramTagger struct {
	tagger *SpanTagger
	stride int
}

// NGramOption configures an NGramTagger.
type NGramOption func(*NGramTagger)

// WithStride sets the window thinning step. Default is DefaultStride.
func WithStride(step int) NGramOption {
	return func(n *NGramTagger) {
		n.stride = step
	}
}

// NewNGramTagger creates an n-gram tagger on top of tagger.
func NewNGramTagger(tagger *SpanTagger, opts ...NGramOption) (*NGramTagger, error) {
	if tagger == nil {
		return nil, ErrCorrelatorRequired
	}
	n := &NGramTagger{tagger: tagger, stride: DefaultStride}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// CorrelateSpans generates windows of size tokens over doc, thins them by
// the stride, scores them and tags those above the threshold. Earlier
// windows win over later overlapping ones.
func (n *NGramTagger) CorrelateSpans(ctx context.Context, doc *core.Document, size int) ([]core.ScoredSpan, int, error) {
	spans := Stride(Windows(doc.Len(), size), n.stride)
	if len(spans) == 0 {
		return nil, 0, nil
	}
	return n.tagger.Tag(ctx, doc, spans)
}
