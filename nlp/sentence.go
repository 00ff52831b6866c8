package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/policylens/core"
)

// abbreviations suppress sentence breaks after "Mr." style tokens.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"st": true, "vs": true, "etc": true, "no": true, "fig": true,
	"inc": true, "ltd": true, "jr": true, "sr": true, "dept": true,
	"art": true, "sec": true, "vol": true, "approx": true,
}

// segmentSentences groups tokens into sentence spans.
//
// A sentence ends after a terminal mark (. ? ! or an ellipsis) that is
// followed by a token starting with an uppercase letter or a digit, or at a
// blank line in the source text. The spans cover every token exactly once.
func segmentSentences(text string, tokens []core.Token) []core.Span {
	if len(tokens) == 0 {
		return nil
	}

	spans := make([]core.Span, 0, len(tokens)/20+1)
	start := 0
	for i := 0; i < len(tokens)-1; i++ {
		cur, next := tokens[i], tokens[i+1]
		if blankLineBetween(text, cur, next) || (isTerminal(cur) && startsSentence(next) && !afterAbbreviation(tokens, i)) {
			spans = append(spans, core.Span{Start: start, End: i + 1})
			start = i + 1
		}
	}
	spans = append(spans, core.Span{Start: start, End: len(tokens)})
	return spans
}

func isTerminal(t core.Token) bool {
	if t.Kind != core.KindPunct {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.Text)
	return r == '.' || r == '?' || r == '!' || r == '…'
}

func startsSentence(t core.Token) bool {
	r, _ := utf8.DecodeRuneInString(t.Text)
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '“'
}

func afterAbbreviation(tokens []core.Token, i int) bool {
	if tokens[i].Text != "." || i == 0 {
		return false
	}
	prev := tokens[i-1]
	return prev.End == tokens[i].Start && abbreviations[strings.ToLower(prev.Text)]
}

func blankLineBetween(text string, cur, next core.Token) bool {
	if cur.End > next.Start || next.Start > len(text) {
		return false
	}
	return strings.Count(text[cur.End:next.Start], "\n") >= 2
}
