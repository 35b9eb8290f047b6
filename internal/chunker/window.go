package chunker

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// SlidingWindow emits overlapping windows of words: chunkSize words per
// window, advancing by chunkSize-overlap words. The last window may be
// shorter.
type SlidingWindow struct {
	chunkSize int
	overlap   int
}

// NewSlidingWindow validates parameters and creates a word-window chunker.
// An overlap of chunkSize or more is clamped to chunkSize with a warning;
// the stride still stays positive so emission always terminates.
func NewSlidingWindow(chunkSize, overlap int, logger *zap.Logger) (*SlidingWindow, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size %d must be positive: %w", chunkSize, domain.ErrInvalidConfig)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap %d must not be negative: %w", overlap, domain.ErrInvalidConfig)
	}
	if overlap >= chunkSize {
		logger.Warn("chunk overlap exceeds chunk size, clamping",
			zap.Int("chunk_size", chunkSize),
			zap.Int("overlap", overlap))
		overlap = chunkSize
	}
	return &SlidingWindow{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk splits text into word windows. Whitespace-only input yields nil.
func (w *SlidingWindow) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := w.chunkSize - w.overlap
	if stride < 1 {
		stride = 1
	}

	chunks := make([]string, 0, (len(words)+stride-1)/stride)
	for start := 0; start < len(words); start += stride {
		end := start + w.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
