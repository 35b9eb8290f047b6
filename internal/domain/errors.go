package domain

import "errors"

var (
	// ErrInvalidConfig signals bad construction parameters (chunk size, overlap, dimensions).
	ErrInvalidConfig = errors.New("invalid config")
	// ErrExtractionFailed signals that document text extraction produced no text.
	// Ingestion degrades on it instead of failing.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrIndexUnavailable signals a network or storage failure of the remote index.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrEmbeddingFailed signals an embedding provider failure.
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrSummarizationFailed signals a summarizer failure.
	ErrSummarizationFailed = errors.New("summarization failed")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrTimeout signals that an external call exceeded its deadline.
	// Reported distinctly so callers do not conflate it with "not found".
	ErrTimeout = errors.New("timeout")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
