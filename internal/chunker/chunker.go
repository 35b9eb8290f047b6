// Package chunker splits document text into the ordered chunks that get
// indexed and retrieved. Two interchangeable strategies are provided.
package chunker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// Strategy names accepted by New.
const (
	// StrategySentence emits one chunk per sentence.
	StrategySentence = "sentence"
	// StrategyWords emits overlapping windows of words.
	StrategyWords = "words"
)

// Chunker splits text into an ordered sequence of chunk strings. Chunk
// indices are the 0-based positions in the returned slice, gapless.
// Splitting is deterministic: equal input yields equal output.
type Chunker interface {
	Chunk(text string) []string
}

// Config selects and parameterizes a chunking strategy.
type Config struct {
	Strategy  string
	ChunkSize int // words per window, words strategy only
	Overlap   int // shared words between neighboring windows
}

// New creates the configured chunking strategy.
func New(cfg Config, logger *zap.Logger) (Chunker, error) {
	switch cfg.Strategy {
	case StrategySentence, "":
		return NewSentence(), nil
	case StrategyWords:
		return NewSlidingWindow(cfg.ChunkSize, cfg.Overlap, logger)
	default:
		return nil, fmt.Errorf("unknown chunking strategy %q: %w", cfg.Strategy, domain.ErrInvalidConfig)
	}
}
