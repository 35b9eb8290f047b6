package domain

import "context"

// Extractor turns a source file or URL into plain text.
// A nil-text outcome is reported as ErrExtractionFailed; callers degrade on it.
type Extractor interface {
	Extract(ctx context.Context, filename string) (string, error)
}

// Summarizer produces an answer from a query and an assembled context.
// Implementations must tolerate an empty context.
type Summarizer interface {
	Summarize(ctx context.Context, query, context string) (string, error)
}

// TokenCounter measures text in the summarizer's token units.
// The context retriever uses it for budget accounting.
type TokenCounter interface {
	CountTokens(text string) int
}
