// Package stemmer implements the Porter suffix-stripping algorithm for
// reducing English words to a common root form. Stems are approximations,
// not dictionary words ("ponies" becomes "poni"); what matters is that
// related words collapse to the same stem so term matching can ignore
// inflection.
package stemmer

import (
	"strings"
	"unicode/utf8"
)

// Stem reduces a single word to its root form. Input is lowercased first.
// Words shorter than 3 characters are returned as-is (lowercased): they
// carry no strippable suffix and the measure-based rules would misfire.
func Stem(word string) string {
	w := strings.ToLower(word)
	if utf8.RuneCountInString(w) < 3 {
		return w
	}

	b := []byte(w)
	b = step1a(b)
	b = step1b(b)
	b = step1c(b)
	b = step2(b)
	b = step3(b)
	b = step4(b)
	b = step5(b)
	return string(b)
}

// StemAll maps Stem over tokens, preserving order and length.
func StemAll(tokens []string) []string {
	if tokens == nil {
		return nil
	}
	stemmed := make([]string, len(tokens))
	for i, tok := range tokens {
		stemmed[i] = Stem(tok)
	}
	return stemmed
}

// isConsonant reports whether position i holds a consonant. The letter y
// counts as a consonant at the start of a word or after a vowel, and as a
// vowel after a consonant ("syzygy" alternates).
func isConsonant(w []byte, i int) bool {
	switch w[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !isConsonant(w, i-1)
	default:
		return true
	}
}

// measure counts vowel-sequence to consonant-sequence transitions in w.
// A word has the form [C](VC)^m[V]; m is the measure. It gates nearly
// every rule below: a transformation is safe only when enough of the word
// remains to still be a plausible stem.
func measure(w []byte) int {
	m := 0
	i := 0
	n := len(w)

	for i < n && isConsonant(w, i) {
		i++
	}
	for i < n {
		for i < n && !isConsonant(w, i) {
			i++
		}
		if i >= n {
			break
		}
		m++
		for i < n && isConsonant(w, i) {
			i++
		}
	}
	return m
}

func containsVowel(w []byte) bool {
	for i := range w {
		if !isConsonant(w, i) {
			return true
		}
	}
	return false
}

// endsDoubleConsonant reports whether w ends in two identical consonants.
func endsDoubleConsonant(w []byte) bool {
	n := len(w)
	if n < 2 || w[n-1] != w[n-2] {
		return false
	}
	return isConsonant(w, n-1)
}

// endsCVC reports whether w ends consonant-vowel-consonant where the final
// consonant is not w, x or y. This is the pattern behind silent-e words
// like "file" and "hope"; rules use it to restore or protect the e.
func endsCVC(w []byte) bool {
	n := len(w)
	if n < 3 {
		return false
	}
	if !isConsonant(w, n-3) || isConsonant(w, n-2) || !isConsonant(w, n-1) {
		return false
	}
	switch w[n-1] {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

func hasSuffix(w []byte, s string) bool {
	if len(w) < len(s) {
		return false
	}
	return string(w[len(w)-len(s):]) == s
}

// step1a strips plural suffixes: sses->ss, ies->i, ss->ss, s->"".
func step1a(w []byte) []byte {
	switch {
	case hasSuffix(w, "sses"):
		return w[:len(w)-2]
	case hasSuffix(w, "ies"):
		return w[:len(w)-2]
	case hasSuffix(w, "ss"):
		return w
	case hasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}

// step1b strips -eed/-ed/-ing. The first matching suffix decides the rule;
// a failed condition does not fall through to the next suffix ("feed" ends
// eed, fails the measure gate, and stays "feed" rather than losing its d).
func step1b(w []byte) []byte {
	if hasSuffix(w, "eed") {
		if measure(w[:len(w)-3]) > 0 {
			return w[:len(w)-1]
		}
		return w
	}
	if hasSuffix(w, "ed") {
		if stem := w[:len(w)-2]; containsVowel(stem) {
			return step1bFixup(stem)
		}
		return w
	}
	if hasSuffix(w, "ing") {
		if stem := w[:len(w)-3]; containsVowel(stem) {
			return step1bFixup(stem)
		}
		return w
	}
	return w
}

// step1bFixup repairs a stem after -ed/-ing removal: restore silent e
// (conflat->conflate), undo consonant doubling (hopp->hop, but not for
// l/s/z: fall->fall), or add e to a short CVC stem (fil->file). The three
// branches are mutually exclusive.
func step1bFixup(w []byte) []byte {
	if hasSuffix(w, "at") || hasSuffix(w, "bl") || hasSuffix(w, "iz") {
		return append(w, 'e')
	}
	if endsDoubleConsonant(w) {
		switch w[len(w)-1] {
		case 'l', 's', 'z':
			return w
		}
		return w[:len(w)-1]
	}
	if measure(w) == 1 && endsCVC(w) {
		return append(w, 'e')
	}
	return w
}

// step1c turns a trailing y into i when the stem contains a vowel, so that
// "happy" and "happiness" meet at "happi".
func step1c(w []byte) []byte {
	if hasSuffix(w, "y") && containsVowel(w[:len(w)-1]) {
		w[len(w)-1] = 'i'
	}
	return w
}

type suffixRule struct {
	suffix  string
	replace string
}

// step2Rules map derivational suffixes to shorter forms, gated on
// measure(stem) > 0. Longer suffixes come before any suffix they contain
// ("ational" before "tional", "ization" before "ation") so the most
// specific rule wins.
var step2Rules = []suffixRule{
	{"ational", "ate"},
	{"tional", "tion"},
	{"enci", "ence"},
	{"anci", "ance"},
	{"izer", "ize"},
	{"abli", "able"},
	{"alli", "al"},
	{"entli", "ent"},
	{"eli", "e"},
	{"ousli", "ous"},
	{"ization", "ize"},
	{"ation", "ate"},
	{"ator", "ate"},
	{"alism", "al"},
	{"iveness", "ive"},
	{"fulness", "ful"},
	{"ousness", "ous"},
	{"aliti", "al"},
	{"iviti", "ive"},
	{"biliti", "ble"},
}

// step3Rules strip or map a second layer of derivational suffixes,
// gated on measure(stem) > 0.
var step3Rules = []suffixRule{
	{"icate", "ic"},
	{"ative", ""},
	{"alize", "al"},
	{"iciti", "ic"},
	{"ical", "ic"},
	{"ful", ""},
	{"ness", ""},
}

func applyRules(w []byte, rules []suffixRule, minMeasure int) []byte {
	for _, r := range rules {
		if !hasSuffix(w, r.suffix) {
			continue
		}
		stem := w[:len(w)-len(r.suffix)]
		if measure(stem) > minMeasure {
			return append(stem, r.replace...)
		}
		return w
	}
	return w
}

func step2(w []byte) []byte {
	return applyRules(w, step2Rules, 0)
}

func step3(w []byte) []byte {
	return applyRules(w, step3Rules, 0)
}

// step4Suffixes are removed outright when measure(stem) > 1. Ordered so
// "ement" is tried before "ment" before "ent".
var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
	"ement", "ment", "ent", "ion", "ou", "ism", "ate", "iti",
	"ous", "ive", "ize",
}

func step4(w []byte) []byte {
	for _, suffix := range step4Suffixes {
		if !hasSuffix(w, suffix) {
			continue
		}
		stem := w[:len(w)-len(suffix)]
		if measure(stem) <= 1 {
			return w
		}
		// -ion only strips from stems ending in s or t (decision, adoption)
		// so words like "legion" keep their tail.
		if suffix == "ion" {
			if n := len(stem); n == 0 || (stem[n-1] != 's' && stem[n-1] != 't') {
				return w
			}
		}
		return stem
	}
	return w
}

// step5 tidies the result: drop a trailing e unless the stem is too short
// (measure 0) or ends in CVC, where the e is a meaningful silent e
// ("relate" keeps its e, "probable" drops to "probabl"); then reduce a
// trailing double l when the word is long enough.
func step5(w []byte) []byte {
	if hasSuffix(w, "e") {
		stem := w[:len(w)-1]
		if measure(stem) >= 1 && !endsCVC(stem) {
			w = stem
		}
	}
	if hasSuffix(w, "ll") && measure(w) > 1 {
		w = w[:len(w)-1]
	}
	return w
}
