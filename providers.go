package askdocs

import "context"

// Embedder converts text to vector embeddings. Required for ingestion and
// querying.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
// Optional — if the provided Embedder also implements BatchEmbedder,
// ingestion will use it for significantly better throughput.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding   []float32
	TotalTokens int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings  [][]float32
	TotalTokens int
}

// Summarizer generates an answer to a question from retrieved context.
// It is called even when the context is empty and should then state that no
// relevant material was found.
type Summarizer interface {
	Summarize(ctx context.Context, question, context string) (string, error)
}

// Extractor turns a file into plain text.
type Extractor interface {
	Extract(ctx context.Context, filename string) (string, error)
}
