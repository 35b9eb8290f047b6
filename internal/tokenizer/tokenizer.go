// Package tokenizer provides the token accounting used for context budgets.
package tokenizer

import "unicode/utf8"

// defaultCharsPerToken approximates GPT-family tokenizers on English prose.
const defaultCharsPerToken = 4

// Heuristic estimates token counts from character length. The budget check
// only needs a monotonic, deterministic measure, not exact provider counts;
// callers size their budgets with headroom for the approximation.
type Heuristic struct {
	charsPerToken int
}

// NewHeuristic creates a character-ratio token counter. A non-positive ratio
// falls back to the default.
func NewHeuristic(charsPerToken int) *Heuristic {
	if charsPerToken <= 0 {
		charsPerToken = defaultCharsPerToken
	}
	return &Heuristic{charsPerToken: charsPerToken}
}

// CountTokens returns the estimated token count of text, zero for empty input.
func (h *Heuristic) CountTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + h.charsPerToken - 1) / h.charsPerToken
}
