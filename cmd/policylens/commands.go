package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/corpus"
	"github.com/poiesic/policylens/correlate"
	"github.com/poiesic/policylens/frequency"
	"github.com/poiesic/policylens/nlp"
	"github.com/poiesic/policylens/report"
	"github.com/poiesic/policylens/search"
)

func listCommand(c *cli.Context) error {
	rows, err := corpus.NewDocTable(c.String("dir"))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return report.WriteJSON(c.App.Writer, rows)
	}
	return report.DocTable(c.App.Writer, rows)
}

// freqOptions are the inputs of a frequency analysis.
type freqOptions struct {
	topics *core.TopicTable
	topic  string
	mode   nlp.FilterMode
	top    int
	chart  bool
	json   bool
}

func freqCommand(c *cli.Context) error {
	cfg := appConfig(c)
	opts, err := newFreqOptions(c, cfg)
	if err != nil {
		return err
	}
	return runFreq(c.App.Writer, nlp.NewProcessor(), c.String("file"), opts)
}

func newFreqOptions(c *cli.Context, cfg *AppConfig) (*freqOptions, error) {
	opts := &freqOptions{
		topic: c.String("topic"),
		mode:  nlp.Lemmatize,
		top:   c.Int("top"),
		chart: c.Bool("chart"),
		json:  c.Bool("json"),
	}
	if c.Bool("no-lemma") {
		opts.mode = nlp.Lowercase
	}
	if path := topicsPath(c, cfg); path != "" {
		if opts.topic == "" {
			return nil, fmt.Errorf("--topic is required with a topics file")
		}
		topics, err := frequency.LoadTopics(path)
		if err != nil {
			return nil, err
		}
		opts.topics = topics
	}
	return opts, nil
}

// runFreq counts the words of one document and writes the result.
func runFreq(w io.Writer, p *nlp.Processor, path string, opts *freqOptions) error {
	doc, err := p.Ingest(path)
	if err != nil {
		return err
	}
	counts := frequency.CountDocument(p, doc, opts.mode)

	if opts.topics == nil {
		freqs := counts.MostCommon(opts.top)
		if opts.json {
			return report.WriteJSON(w, freqs)
		}
		return report.FrequencyTable(w, freqs)
	}

	table := frequency.BuildTopicTableMode(opts.topics, p, opts.mode)
	freqs, err := frequency.Subset(counts.Table(), table, opts.topic)
	if err != nil {
		return err
	}
	switch {
	case opts.json:
		return report.WriteJSON(w, freqs)
	case opts.chart:
		return report.FrequencyChart(w, freqs, opts.topic, doc.Name)
	default:
		return report.FrequencyTable(w, freqs)
	}
}

// spanResult is the JSON form of a scored span.
type spanResult struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

// entityResult is the JSON form of a tagged entity.
type entityResult struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

type correlateResult struct {
	Document string         `json:"document"`
	Spans    []spanResult   `json:"spans"`
	Entities []entityResult `json:"entities"`
}

func correlateCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := appConfig(c)

	keywords, err := keywordSet(c, cfg)
	if err != nil {
		return err
	}
	doc, err := nlp.Ingest(c.String("file"))
	if err != nil {
		return err
	}

	embedder, closeEmbedder, err := openEmbedder(c, cfg)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	opts, err := correlatorOptions(c, cfg)
	if err != nil {
		return err
	}
	correlator, err := correlate.NewKeywordCorrelator(ctx, embedder, keywords, opts...)
	if err != nil {
		return err
	}

	threshold := cfg.Correlation.Threshold
	if c.IsSet("threshold") {
		threshold = float32(c.Float64("threshold"))
	}
	label := cfg.Correlation.Label
	if c.IsSet("label") {
		label = c.String("label")
	}
	tagger, err := correlate.NewSpanTagger(correlator, threshold, label)
	if err != nil {
		return err
	}

	var scored []core.ScoredSpan
	if size := c.Int("ngram"); size > 0 {
		ngrams, err := correlate.NewNGramTagger(tagger, correlate.WithStride(c.Int("stride")))
		if err != nil {
			return err
		}
		scored, _, err = ngrams.CorrelateSpans(ctx, doc, size)
		if err != nil {
			return err
		}
	} else {
		scored, _, err = tagger.Tag(ctx, doc, doc.Sentences())
		if err != nil {
			return err
		}
	}

	if c.Bool("json") {
		return report.WriteJSON(c.App.Writer, newCorrelateResult(doc, scored))
	}
	if err := report.SpanTable(c.App.Writer, doc, scored); err != nil {
		return err
	}
	return report.HighlightEntities(c.App.Writer, doc)
}

func newCorrelateResult(doc *core.Document, scored []core.ScoredSpan) correlateResult {
	res := correlateResult{
		Document: doc.Name,
		Spans:    make([]spanResult, len(scored)),
		Entities: []entityResult{},
	}
	for i, s := range scored {
		res.Spans[i] = spanResult{Start: s.Span.Start, End: s.Span.End, Text: doc.SpanText(s.Span), Score: s.Score}
	}
	for _, e := range doc.Entities() {
		res.Entities = append(res.Entities, entityResult{Start: e.Start, End: e.End, Label: e.Label, Text: doc.SpanText(e.Span)})
	}
	return res
}

func scoreTokensCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := appConfig(c)

	keywords, err := keywordSet(c, cfg)
	if err != nil {
		return err
	}
	doc, err := nlp.Ingest(c.String("file"))
	if err != nil {
		return err
	}

	embedder, closeEmbedder, err := openEmbedder(c, cfg)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	opts, err := correlatorOptions(c, cfg)
	if err != nil {
		return err
	}
	correlator, err := correlate.NewKeywordCorrelator(ctx, embedder, keywords, opts...)
	if err != nil {
		return err
	}

	const tag = "keyword_corr"
	if err := correlate.ScoreTokens(ctx, correlator, doc, tag); err != nil {
		return err
	}
	ranked, _ := correlate.RankTokens(doc, tag, nlp.IsAllowed)
	if top := c.Int("top"); top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	if c.Bool("json") {
		return report.WriteJSON(c.App.Writer, ranked)
	}
	return report.CorrelationTable(c.App.Writer, ranked)
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()
	path := c.String("file")

	text, err := corpus.ReadText(path)
	if err != nil {
		return err
	}
	lines := strings.Split(text, "\n")
	if n := c.Int("lines"); n > 0 && len(lines) > n {
		lines = lines[:n]
	}

	db, err := openDatabase(c, appConfig(c))
	if err != nil {
		return err
	}
	defer db.Close()

	indexer, err := db.NewIndexer(search.WithBatchSize(c.Int("batch-size")), search.WithProgress(os.Stderr))
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	record, written, err := indexer.Index(ctx, name, lines)
	if err != nil {
		return err
	}
	if !written {
		fmt.Fprintf(c.App.Writer, "%s is unchanged (%d passages)\n", record.Name, record.Passages)
		return nil
	}
	fmt.Fprintf(c.App.Writer, "indexed %d passages from %s\n", record.Passages, record.Name)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("query text is required")
	}

	db, err := openDatabase(c, appConfig(c))
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher(
		search.WithMinSimilarity(float32(c.Float64("min-similarity"))),
		search.WithVerbatimBoost(float32(c.Float64("verbatim-boost"))),
	)
	if err != nil {
		return err
	}
	results, err := searcher.Query(ctx, text, c.Int("top-k"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return report.WriteJSON(c.App.Writer, results)
	}
	return report.PassageTable(c.App.Writer, results)
}
