package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/poiesic/policylens/frequency"
)

// maxBarWidth is the width in cells of the longest bar.
const maxBarWidth = 40

var (
	barColor   = lipgloss.Color("#3CB371")
	titleColor = lipgloss.Color("12")
	mutedColor = lipgloss.Color("8")
)

// FrequencyChart draws a horizontal bar chart of keyword frequencies,
// one bar per keyword in the order given.
func FrequencyChart(w io.Writer, freqs frequency.Frequencies, topic, docName string) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(titleColor)
	bar := r.NewStyle().Foreground(barColor)
	muted := r.NewStyle().Foreground(mutedColor)

	var b strings.Builder
	b.WriteString(title.Render(fmt.Sprintf("%s words in: %s", topic, docName)))
	b.WriteString("\n")
	if len(freqs) == 0 {
		b.WriteString(muted.Render("(no keywords)"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	labelWidth, maxCount := 0, 0
	for _, f := range freqs {
		labelWidth = max(labelWidth, lipgloss.Width(f.Term))
		maxCount = max(maxCount, f.Count)
	}
	label := r.NewStyle().Width(labelWidth).Align(lipgloss.Right)

	for _, f := range freqs {
		width := 0
		if maxCount > 0 {
			width = f.Count * maxBarWidth / maxCount
		}
		if f.Count > 0 && width == 0 {
			width = 1
		}
		b.WriteString(label.Render(f.Term))
		b.WriteString(" │ ")
		b.WriteString(bar.Render(strings.Repeat("█", width)))
		b.WriteString(" ")
		b.WriteString(muted.Render(fmt.Sprintf("%d", f.Count)))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
