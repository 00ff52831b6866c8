package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/poiesic/policylens/core"
)

var entityColor = lipgloss.Color("#7D56F4")

// HighlightEntities writes the document text with each entity wrapped as
// "[text LABEL]". Text between entities is copied unchanged.
func HighlightEntities(w io.Writer, doc *core.Document) error {
	r := lipgloss.NewRenderer(w)
	span := r.NewStyle().Bold(true).Foreground(entityColor)
	label := r.NewStyle().Faint(true)

	text := doc.Text
	var b strings.Builder
	pos := 0
	for _, e := range doc.Entities() {
		tokens := doc.SpanTokens(e.Span)
		start, end := tokens[0].Start, tokens[len(tokens)-1].End
		if start < pos || end > len(text) {
			continue
		}
		b.WriteString(text[pos:start])
		b.WriteString(span.Render("[" + text[start:end]))
		b.WriteString(" ")
		b.WriteString(label.Render(e.Label))
		b.WriteString(span.Render("]"))
		pos = end
	}
	b.WriteString(text[pos:])
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
