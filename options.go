package askdocs

import (
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs     []string
	username  string
	password  string
	db        int
	keyPrefix string

	embedder   Embedder
	summarizer Summarizer
	extractor  Extractor

	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int

	chunkStrategy string
	chunkSize     int
	chunkOverlap  int

	topK            int
	tokenBudget     int
	windowHalfWidth int
	scoreThreshold  float64
	charsPerToken   int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the key namespace all records live under.
// Defaults to "askdocs:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithEmbedder sets the text embedding provider. Required for ingestion
// and querying.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithSummarizer sets the answer generation provider. Required for querying.
func WithSummarizer(s Summarizer) Option {
	return optionFunc(func(c *clientConfig) {
		c.summarizer = s
	})
}

// WithExtractor sets the document text extractor. Defaults to a plain-text
// file reader.
func WithExtractor(e Extractor) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = e
	})
}

// WithVectorDimensions sets the embedding vector dimension.
// Defaults to 1024.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=32, EFConstruct=400.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithChunking selects the chunking strategy ("sentence" or "words") and its
// window parameters. Overlap only applies to the words strategy.
func WithChunking(strategy string, chunkSize, overlap int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkStrategy = strategy
		c.chunkSize = chunkSize
		c.chunkOverlap = overlap
	})
}

// WithRetrieval sets the number of nearest neighbors per query and the
// context token budget.
func WithRetrieval(topK, tokenBudget int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = topK
		c.tokenBudget = tokenBudget
	})
}

// WithContextWindow sets how many neighboring chunks are considered around
// each hit during context assembly.
func WithContextWindow(halfWidth int) Option {
	return optionFunc(func(c *clientConfig) {
		c.windowHalfWidth = halfWidth
	})
}

// WithScoreThreshold drops search hits scoring below the threshold.
func WithScoreThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.scoreThreshold = t
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
