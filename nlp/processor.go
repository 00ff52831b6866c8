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

package nlp

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/corpus"
)

// Processor tokenizes text into annotated tokens and sentences.
// A Processor is read-only after construction and safe to share.
type Processor struct {
	stopwords  Stopwords
	lemmatizer Lemmatizer
	lang       language.Tag
	logger     *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithStopwords replaces the default English stopword list.
func WithStopwords(words Stopwords) Option {
	return func(p *Processor) {
		if words == nil {
			words = Stopwords{}
		}
		p.stopwords = words
	}
}

// WithLemmatizer replaces the default Snowball lemmatizer.
// A nil lemmatizer leaves lemmas equal to the lowercase form.
func WithLemmatizer(l Lemmatizer) Option {
	return func(p *Processor) {
		if l == nil {
			l = identityLemmatizer{}
		}
		p.lemmatizer = l
	}
}

// WithLanguage sets the language used for case folding.
func WithLanguage(tag language.Tag) Option {
	return func(p *Processor) {
		p.lang = tag
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewProcessor creates a Processor with English defaults.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		stopwords:  EnglishStopwords(),
		lemmatizer: NewSnowballLemmatizer(),
		lang:       language.English,
		logger:     slog.Default().With("component", "nlp"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tokenize splits text into annotated tokens. Offsets refer to text.
func (p *Processor) Tokenize(text string) []core.Token {
	tokens := scan(text)
	lower := cases.Lower(p.lang)
	for i := range tokens {
		p.annotate(&tokens[i], lower)
	}
	return tokens
}

func (p *Processor) annotate(t *core.Token, lower cases.Caser) {
	t.Norm = lower.String(norm.NFC.String(t.Text))
	t.IsPunct = t.Kind == core.KindPunct
	t.IsStop = t.Kind == core.KindWord && p.stopwords.Contains(t.Norm)
	t.Lemma = t.Norm
	if t.Kind != core.KindWord {
		return
	}
	// A lemma must stay a single token so filtering never grows a sequence.
	lemma := p.lemmatizer.Lemma(t.Norm)
	if rescanned := scan(lemma); len(rescanned) == 1 && rescanned[0].Text == lemma {
		t.Lemma = lemma
	}
}

// NewDocument tokenizes and sentence-segments text.
func (p *Processor) NewDocument(name, text string) *core.Document {
	tokens := p.Tokenize(text)
	return core.NewDocument(name, text, tokens, segmentSentences(text, tokens))
}

// Ingest reads the file at path, expands contractions and returns the
// resulting document. Plain text is decoded leniently; pdf, docx and odt
// files are converted first. A missing file yields an error wrapping
// fs.ErrNotExist.
func (p *Processor) Ingest(path string) (*core.Document, error) {
	text, err := corpus.ReadText(path)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}
	expanded := ExpandContractions(text)
	doc := p.NewDocument(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), expanded)
	p.logger.Debug("ingested document", "path", path, "tokens", doc.Len(), "sentences", len(doc.Sentences()))
	return doc, nil
}

var defaultProcessor = NewProcessor()

// Tokenize tokenizes text with the default English processor.
func Tokenize(text string) []core.Token {
	return defaultProcessor.Tokenize(text)
}

// NewDocument builds a document with the default English processor.
func NewDocument(name, text string) *core.Document {
	return defaultProcessor.NewDocument(name, text)
}

// Ingest loads a document with the default English processor.
func Ingest(path string) (*core.Document, error) {
	return defaultProcessor.Ingest(path)
}
