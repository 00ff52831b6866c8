package nlp

import (
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/policylens/core"
)

// scan splits s into raw tokens with byte offsets and kinds.
// Whitespace separates tokens and is never emitted. For every token
// s[t.Start:t.End] == t.Text.
func scan(s string) []core.Token {
	tokens := make([]core.Token, 0, len(s)/5+1)
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
			continue
		case isWordRune(r):
			end := scanWord(s, i)
			tokens = append(tokens, rawToken(s, i, end, core.KindWord))
			i = end
		case unicode.IsDigit(r):
			end, kind := scanNumber(s, i)
			tokens = append(tokens, rawToken(s, i, end, kind))
			i = end
		case unicode.IsPunct(r):
			end := i + size
			// Runs of the same mark ("...", "--") form one token.
			for end < len(s) {
				next, nsize := utf8.DecodeRuneInString(s[end:])
				if next != r {
					break
				}
				end += nsize
			}
			tokens = append(tokens, rawToken(s, i, end, core.KindPunct))
			i = end
		default:
			tokens = append(tokens, rawToken(s, i, i+size, core.KindSymbol))
			i += size
		}
	}
	for idx := range tokens {
		tokens[idx].Index = idx
	}
	return tokens
}

func rawToken(s string, start, end int, kind core.TokenKind) core.Token {
	return core.Token{Text: s[start:end], Start: start, End: end, Kind: kind}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r)
}

func isJoiner(r rune) bool {
	return r == '-' || r == '\'' || r == '’'
}

// scanWord consumes a word starting at i. Words may contain digits, internal
// hyphens and apostrophes followed by a letter, and dotted single-letter
// abbreviations such as "u.s." or "e.g.".
func scanWord(s string, i int) int {
	end := i
	segment := 0 // runes since the start or the last abbreviation dot
	dotted := false
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) || unicode.IsDigit(r) {
			end += size
			segment++
			continue
		}
		if isJoiner(r) && followedByLetter(s, end+size) {
			end += size
			segment = 0
			dotted = false
			continue
		}
		if r == '.' && segment == 1 && (dotted || followedByLetter(s, end+1)) {
			if followedByLetter(s, end+1) {
				end++
				segment = 0
				dotted = true
				continue
			}
			// Closing dot of an abbreviation.
			end++
		}
		break
	}
	return end
}

// scanNumber consumes digits with internal "." or "," separators. A number
// directly followed by letters ("2nd", "1990s") becomes a word.
func scanNumber(s string, i int) (int, core.TokenKind) {
	end := i
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if unicode.IsDigit(r) {
			end += size
			continue
		}
		if (r == '.' || r == ',') && followedByDigit(s, end+1) {
			end++
			continue
		}
		break
	}
	if followedByLetter(s, end) {
		return scanWord(s, end), core.KindWord
	}
	return end, core.KindNumber
}

func followedByLetter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func followedByDigit(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsDigit(r)
}
