package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/policylens/frequency"
	"github.com/poiesic/policylens/nlp"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"policylens", "--log-level", "error"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetupLogger(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"policylens", "--log-level", "verbose", "list", "--dir", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plan.pdf.ocr.txt", "text")
	writeFile(t, dir, "Source.txt", "http://example.org")

	out, err := run(t, "list", "--dir", dir, "--json")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "plan.pdf.ocr.txt", rows[0]["name"])
	assert.Equal(t, "plan", rows[0]["clean_name"])

	_, err = run(t, "list")
	assert.ErrorContains(t, err, "dir")
}

func TestFreqCommand(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "plan.txt", "Solar panels and solar farms. Wind turbines.")
	topics := writeFile(t, dir, "topics.yaml", "energy:\n  - solar\n  - wind\n  - hydro\n")

	t.Run("topic subset", func(t *testing.T) {
		out, err := run(t, "freq", "--file", doc, "--topics", topics, "--topic", "energy", "--json")
		require.NoError(t, err)

		var freqs frequency.Frequencies
		require.NoError(t, json.Unmarshal([]byte(out), &freqs))
		require.GreaterOrEqual(t, len(freqs), 3)
		assert.Equal(t, frequency.TermCount{Term: "solar", Count: 2}, freqs[0])
		assert.Equal(t, frequency.TermCount{Term: "wind", Count: 1}, freqs[1])
		assert.Equal(t, frequency.TermCount{Term: "hydro", Count: 0}, freqs[2])
	})

	t.Run("chart", func(t *testing.T) {
		out, err := run(t, "freq", "--file", doc, "--topics", topics, "--topic", "energy", "--chart")
		require.NoError(t, err)
		assert.Contains(t, out, "energy words in: plan")
	})

	t.Run("most common", func(t *testing.T) {
		out, err := run(t, "freq", "--file", doc, "--top", "1", "--json")
		require.NoError(t, err)
		var freqs frequency.Frequencies
		require.NoError(t, json.Unmarshal([]byte(out), &freqs))
		assert.Equal(t, frequency.Frequencies{{Term: "solar", Count: 2}}, freqs)
	})

	t.Run("unknown topic", func(t *testing.T) {
		_, err := run(t, "freq", "--file", doc, "--topics", topics, "--topic", "transport")
		assert.ErrorIs(t, err, frequency.ErrTopicNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "freq", "--file", filepath.Join(dir, "missing.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestCorrelateCommand(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "plan.txt", "Solar power.\n\nTax receipts.")

	out, err := run(t, "correlate", "--provider", "mock", "--file", doc, "--keywords", "Solar power.", "--label", "ENERGY", "--json")
	require.NoError(t, err)

	var res correlateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "plan", res.Document)
	require.Len(t, res.Spans, 2)
	assert.InDelta(t, 1.0, res.Spans[0].Score, 1e-5)
	require.Len(t, res.Entities, 1)
	assert.Equal(t, entityResult{Start: 0, End: 3, Label: "ENERGY", Text: "Solar power."}, res.Entities[0])

	t.Run("highlighted text", func(t *testing.T) {
		out, err := run(t, "correlate", "--provider", "mock", "--file", doc, "--keywords", "Solar power.", "--label", "ENERGY")
		require.NoError(t, err)
		assert.Contains(t, out, "[Solar power. ENERGY]")
	})

	t.Run("n-gram windows", func(t *testing.T) {
		out, err := run(t, "correlate", "--provider", "mock", "--file", doc, "--keywords", "Solar power.", "--ngram", "2", "--stride", "1", "--json")
		require.NoError(t, err)
		var res correlateResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Len(t, res.Spans, 5)
	})

	t.Run("keywords required", func(t *testing.T) {
		_, err := run(t, "correlate", "--provider", "mock", "--file", doc)
		assert.ErrorIs(t, err, errKeywordsRequired)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := run(t, "correlate", "--provider", "nope", "--file", doc, "--keywords", "solar")
		assert.ErrorContains(t, err, "unknown embedding provider")
	})

	t.Run("settings from config file", func(t *testing.T) {
		cfg := writeFile(t, dir, "policylens.yaml", `provider: mock
cache_db: `+filepath.Join(dir, "cache")+`
correlation:
  threshold: 0.9
  label: FROM_CONFIG
  normalize: true
embedding:
  timeout: 5s
`)
		out, err := run(t, "--config", cfg, "correlate", "--file", doc, "--keywords", "Solar power.", "--json")
		require.NoError(t, err)
		var res correlateResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Len(t, res.Entities, 1)
		assert.Equal(t, "FROM_CONFIG", res.Entities[0].Label)
		assert.DirExists(t, filepath.Join(dir, "cache"))
	})
}

func TestScoreTokensCommand(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "plan.txt", "the solar power")

	out, err := run(t, "score-tokens", "--provider", "mock", "--file", doc, "--keywords", "solar", "--json")
	require.NoError(t, err)

	var ranked []struct {
		Text  string  `json:"text"`
		Score float32 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 2, "stopwords are left out")
	assert.Equal(t, "solar", ranked[0].Text)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-5)
}

func TestIndexAndQueryCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "index")
	doc := writeFile(t, dir, "plan.txt", "Solar panels on roofs.\n\nTax receipts.\nBeyond the line limit.\n")

	out, err := run(t, "index", "--provider", "mock", "--db", db, "--file", doc, "--lines", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "indexed 2 passages from plan")

	out, err = run(t, "index", "--provider", "mock", "--db", db, "--file", doc, "--lines", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")

	out, err = run(t, "query", "--provider", "mock", "--db", db, "--top-k", "1", "--json", "Tax", "receipts.")
	require.NoError(t, err)

	var results []struct {
		Passage struct {
			Document string `json:"document"`
			Text     string `json:"text"`
		} `json:"passage"`
		Score float32 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Tax receipts.", results[0].Passage.Text)
	assert.Equal(t, "plan", results[0].Passage.Document)

	_, err = run(t, "query", "--provider", "mock", "--db", db)
	assert.ErrorContains(t, err, "query text is required")
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCorpus(t *testing.T) {
	dir := t.TempDir()
	topics, err := frequency.ParseTopics([]byte("energy: [solar, wind]\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	opts := &freqOptions{topics: topics, topic: "energy", mode: nlp.Lemmatize, chart: true}
	require.NoError(t, watchCorpus(ctx, dir, &out, opts))
	time.Sleep(100 * time.Millisecond)

	writeFile(t, dir, "plan.txt", "Solar and wind.")
	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("energy words in: plan"))
	}, 3*time.Second, 50*time.Millisecond)
}
