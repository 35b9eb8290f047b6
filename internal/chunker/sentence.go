package chunker

import (
	"strings"
	"unicode"
)

// Sentence splits text on sentence boundaries; each sentence is one chunk
// regardless of length. Meant for pipelines whose context assembly re-groups
// sentences downstream.
type Sentence struct{}

// NewSentence creates a sentence chunker.
func NewSentence() *Sentence {
	return &Sentence{}
}

// Chunk returns one chunk per sentence. Whitespace-only input yields nil.
func (s *Sentence) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// Swallow runs of terminators ("..." , "?!") and trailing quotes.
		end := i + 1
		for end < len(runes) && (isTerminator(runes[end]) || isClosing(runes[end])) {
			end++
		}
		// A boundary needs following whitespace or end of text, so "3.14"
		// and "e.g." stay inside one sentence.
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}

		if sent := strings.TrimSpace(string(runes[start:end])); sent != "" {
			chunks = append(chunks, sent)
		}
		start = end
		i = end - 1
	}

	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		chunks = append(chunks, rest)
	}

	return chunks
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isClosing(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == ']' || r == '”' || r == '’'
}
