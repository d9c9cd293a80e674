package cleaner

import "unicode/utf8"

// EstimateTokens approximates the LLM token count of text as rune count / 3,
// a middle ground between English prose (~4 chars per token) and CJK text
// (~1.5 chars per token). Non-empty text counts as at least one token.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	est := n / 3
	if est < 1 {
		return 1
	}
	return est
}
