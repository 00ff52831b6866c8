package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// contractions maps lowercase contracted forms to their expansions.
var contractions = map[string]string{
	"ain't": "are not", "aren't": "are not", "can't": "cannot", "can't've": "cannot have",
	"'cause": "because", "could've": "could have", "couldn't": "could not",
	"didn't": "did not", "doesn't": "does not", "don't": "do not",
	"hadn't": "had not", "hasn't": "has not", "haven't": "have not",
	"he'd": "he would", "he'll": "he will", "he's": "he is",
	"how'd": "how did", "how'll": "how will", "how's": "how is",
	"i'd": "i would", "i'll": "i will", "i'm": "i am", "i've": "i have",
	"isn't": "is not", "it'd": "it would", "it'll": "it will", "it's": "it is",
	"let's": "let us", "ma'am": "madam", "mightn't": "might not", "might've": "might have",
	"mustn't": "must not", "must've": "must have", "needn't": "need not",
	"o'clock": "of the clock", "shan't": "shall not", "she'd": "she would",
	"she'll": "she will", "she's": "she is", "should've": "should have",
	"shouldn't": "should not", "that'd": "that would", "that's": "that is",
	"there'd": "there would", "there's": "there is", "they'd": "they would",
	"they'll": "they will", "they're": "they are", "they've": "they have",
	"wasn't": "was not", "we'd": "we would", "we'll": "we will", "we're": "we are",
	"we've": "we have", "weren't": "were not", "what'll": "what will",
	"what're": "what are", "what's": "what is", "what've": "what have",
	"where'd": "where did", "where's": "where is", "who'd": "who would",
	"who'll": "who will", "who's": "who is", "who've": "who have", "why's": "why is",
	"won't": "will not", "would've": "would have", "wouldn't": "would not",
	"y'all": "you all", "you'd": "you would", "you'll": "you will",
	"you're": "you are", "you've": "you have",
	// informal forms
	"gonna": "going to", "wanna": "want to", "gotta": "got to", "gimme": "give me",
	"lemme": "let me", "kinda": "kind of", "sorta": "sort of", "dunno": "do not know",
	"outta": "out of", "y'know": "you know",
}

// ExpandContractions expands contracted and informal words so that content
// words survive punctuation removal ("can't" becomes "cannot").
//
// The text is split on whitespace and rejoined with single spaces. Leading and
// trailing punctuation around a word is kept, and the capitalization of the
// word's first letter carries over to the expansion.
func ExpandContractions(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = expandWord(w)
	}
	return strings.Join(words, " ")
}

func expandWord(w string) string {
	start, end := 0, len(w)
	for start < end {
		r, size := utf8.DecodeRuneInString(w[start:])
		if isWordRune(r) || unicode.IsDigit(r) || r == '\'' || r == '’' {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(w[start:end])
		if isWordRune(r) || unicode.IsDigit(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return w
	}

	word := strings.ReplaceAll(w[start:end], "’", "'")
	expansion, ok := contractions[strings.ToLower(word)]
	if !ok && strings.HasPrefix(word, "'") {
		// A quoting apostrophe, as in "'don't".
		for start < end {
			r, size := utf8.DecodeRuneInString(w[start:])
			if r != '\'' && r != '’' {
				break
			}
			start += size
		}
		word = strings.ReplaceAll(w[start:end], "’", "'")
		expansion, ok = contractions[strings.ToLower(word)]
	}
	if !ok {
		return w
	}

	return w[:start] + matchCase(word, expansion) + w[end:]
}

// matchCase applies the capitalization of word to expansion: all caps stays
// all caps, a leading capital is kept, anything else is left lowercase.
func matchCase(word, expansion string) string {
	letters, upper := 0, 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters > 1 && letters == upper {
		return strings.ToUpper(expansion)
	}
	first, size := utf8.DecodeRuneInString(strings.TrimLeft(word, "'"))
	if unicode.IsUpper(first) && size > 0 {
		r, n := utf8.DecodeRuneInString(expansion)
		return string(unicode.ToUpper(r)) + expansion[n:]
	}
	return expansion
}
