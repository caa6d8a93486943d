package grounding

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is a sentence of the original text together with its byte offset,
// so matches inside it can be reported against the full text.
type Sentence struct {
	Text  string
	Start int
}

// Abbreviations that end with a period without ending a sentence. Compared
// lowercase against the token preceding the period.
var abbreviations = map[string]struct{}{
	"dr":     {},
	"mr":     {},
	"mrs":    {},
	"ms":     {},
	"prof":   {},
	"st":     {},
	"jr":     {},
	"sr":     {},
	"vs":     {},
	"etc":    {},
	"e.g":    {},
	"i.e":    {},
	"approx": {},
}

// Split breaks text into sentences. A terminator (. ! ?) followed by
// whitespace and an uppercase letter ends a sentence, unless the period
// closes a known abbreviation. A newline always ends a sentence.
func Split(text string) []Sentence {
	var out []Sentence
	emit := func(start, end int) {
		seg := text[start:end]
		if strings.TrimSpace(seg) == "" {
			return
		}
		out = append(out, Sentence{Text: seg, Start: start})
	}

	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '\n' {
			emit(start, i)
			i++
			start = i
			continue
		}
		if c != '.' && c != '!' && c != '?' {
			i++
			continue
		}

		// swallow runs like "..." or "?!"
		j := i + 1
		for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?') {
			j++
		}
		k := j
		for k < len(text) && (text[k] == ' ' || text[k] == '\t') {
			k++
		}

		next, _ := utf8.DecodeRuneInString(text[k:])
		boundaryHere := k > j && k < len(text) && unicode.IsUpper(next)
		if boundaryHere && c == '.' && j == i+1 && isAbbreviation(text[start:i]) {
			boundaryHere = false
		}
		if boundaryHere {
			emit(start, j)
			start = k
			i = k
			continue
		}
		i = j
	}
	emit(start, len(text))
	return out
}

// isAbbreviation checks whether the text preceding a period ends in a known
// abbreviation token.
func isAbbreviation(before string) bool {
	end := len(before)
	beg := end
	for beg > 0 {
		r, size := utf8.DecodeLastRuneInString(before[:beg])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		beg -= size
	}
	token := strings.ToLower(before[beg:end])
	_, ok := abbreviations[token]
	return ok
}
