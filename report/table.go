package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/corpus"
	"github.com/poiesic/policylens/frequency"
)

// render writes a bordered table with a bold header row.
func render(w io.Writer, headers []string, rows [][]string) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(mutedColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// DocTable lists documents with their clean names and paths.
func DocTable(w io.Writer, rows []corpus.Row) error {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{row.Name, row.CleanName, row.Path}
	}
	return render(w, []string{"Name", "Clean name", "Path"}, cells)
}

// FrequencyTable lists terms with their counts.
func FrequencyTable(w io.Writer, freqs frequency.Frequencies) error {
	cells := make([][]string, len(freqs))
	for i, f := range freqs {
		cells[i] = []string{f.Term, fmt.Sprintf("%d", f.Count)}
	}
	return render(w, []string{"Term", "Count"}, cells)
}

// CorrelationTable lists texts with their correlation scores.
func CorrelationTable(w io.Writer, correlations []core.Correlation) error {
	cells := make([][]string, len(correlations))
	for i, c := range correlations {
		cells[i] = []string{c.Text, fmt.Sprintf("%.4f", c.Score)}
	}
	return render(w, []string{"Text", "Score"}, cells)
}

// SpanTable lists scored spans of doc with their text.
func SpanTable(w io.Writer, doc *core.Document, scored []core.ScoredSpan) error {
	cells := make([][]string, len(scored))
	for i, s := range scored {
		cells[i] = []string{
			fmt.Sprintf("[%d,%d)", s.Span.Start, s.Span.End),
			doc.SpanText(s.Span),
			fmt.Sprintf("%.4f", s.Score),
		}
	}
	return render(w, []string{"Span", "Text", "Score"}, cells)
}

// PassageTable lists search results, best first.
func PassageTable(w io.Writer, results []*core.PassageResult) error {
	cells := make([][]string, len(results))
	for i, res := range results {
		cells[i] = []string{
			fmt.Sprintf("%.4f", res.Score),
			res.Passage.Document,
			fmt.Sprintf("%d", res.Passage.Ordinal+1),
			res.Passage.Text,
		}
	}
	return render(w, []string{"Score", "Document", "Line", "Passage"}, cells)
}
