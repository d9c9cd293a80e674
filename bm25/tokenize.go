package bm25

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords are common English function words carrying no ranking signal.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"that": {}, "the": {}, "to": {}, "was": {}, "were": {}, "will": {},
	"with": {}, "this": {}, "but": {}, "they": {}, "have": {}, "had": {},
	"what": {}, "when": {}, "where": {}, "who": {}, "which": {},
}

// Tokenize lowercases text and splits it on runs of non-word characters.
// Single-character tokens are dropped. The result is deterministic for a
// given input and safe to call from multiple goroutines.
func Tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		current.Reset()
		if utf8.RuneCountInString(token) > 1 {
			tokens = append(tokens, token)
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// CleanTokens removes tokens of length <= 2 and stop words. The check is
// case-insensitive so it also works on tokens that did not come from
// Tokenize.
func CleanTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	cleaned := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(tok)]; stop {
			continue
		}
		cleaned = append(cleaned, tok)
	}
	return cleaned
}
