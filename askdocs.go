// Package askdocs embeds the document indexing and retrieval engine in a Go
// program, wiring the same pipeline the HTTP server runs directly over Redis.
package askdocs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/chunker"
	"github.com/askdocs-io/askdocs/internal/db"
	dbRedis "github.com/askdocs-io/askdocs/internal/db/redis"
	"github.com/askdocs-io/askdocs/internal/domain"
	catalogrepo "github.com/askdocs-io/askdocs/internal/repository/catalog"
	chunkrepo "github.com/askdocs-io/askdocs/internal/repository/chunk"
	documentrepo "github.com/askdocs-io/askdocs/internal/repository/document"
	feedbackrepo "github.com/askdocs-io/askdocs/internal/repository/feedback"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
	vectorrepo "github.com/askdocs-io/askdocs/internal/repository/vector"
	"github.com/askdocs-io/askdocs/internal/retriever"
	"github.com/askdocs-io/askdocs/internal/tokenizer"
	feedbackuc "github.com/askdocs-io/askdocs/internal/usecase/feedback"
	ingestuc "github.com/askdocs-io/askdocs/internal/usecase/ingest"
	queryuc "github.com/askdocs-io/askdocs/internal/usecase/query"
	removeuc "github.com/askdocs-io/askdocs/internal/usecase/remove"
	searchuc "github.com/askdocs-io/askdocs/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Source attributes part of an answer to one chunk of one document.
type Source struct {
	DocID      string
	DocName    string
	ChunkIndex int
	ChunkText  string
}

// Answer is the result of one question.
type Answer struct {
	Answer  string
	Sources []Source
}

// DocumentInfo is one indexed document without its full text.
type DocumentInfo struct {
	ID     string
	Name   string
	Source string
	Chunks int
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	Documents []DocumentInfo
	Total     int
	Offset    int
}

// Client is the askdocs SDK entry point.
type Client struct {
	store    db.Store
	ingest   *ingestuc.Service
	query    *queryuc.Service
	remove   *removeuc.Service
	search   *searchuc.Service
	feedback *feedbackuc.Service
}

// New creates a Client, connects to Redis and ensures the collections exist.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:        keyspace.DefaultPrefix,
		vectorDimensions: 1024,
		chunkStrategy:    chunker.StrategySentence,
		chunkSize:        100,
		charsPerToken:    4,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("askdocs: database address required (use WithRedis)")
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("askdocs: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("askdocs: database not ready: %w", err)
	}

	client, err := wireClient(store, cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return client, nil
}

func wireClient(store db.Store, cfg *clientConfig, logger *zap.Logger) (*Client, error) {
	ks := keyspace.New(cfg.keyPrefix)

	catalog := catalogrepo.New(store, ks, logger)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		catalog = catalog.WithHNSW(catalogrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	ctx := context.Background()
	if err := catalog.EnsureAll(ctx, domain.Collections(cfg.vectorDimensions)); err != nil {
		return nil, fmt.Errorf("askdocs: ensure collections: %w", err)
	}

	chk, err := chunker.New(chunker.Config{
		Strategy:  cfg.chunkStrategy,
		ChunkSize: cfg.chunkSize,
		Overlap:   cfg.chunkOverlap,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("askdocs: create chunker: %w", err)
	}

	docRepo := documentrepo.New(store, ks)
	chunkRepo := chunkrepo.New(store, ks)
	vectorRepo := vectorrepo.New(store, ks)
	feedbackRepo := feedbackrepo.New(store, ks)

	// Embedder: noop unless provided. Ingest and Ask then return an error.
	var domEmb combinedDomainEmbedder = noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	var summarizer queryuc.Summarizer = noopSummarizer{}
	if cfg.summarizer != nil {
		summarizer = &summarizerAdapter{inner: cfg.summarizer}
	}

	var extractor ingestuc.Extractor = plainFileExtractor{}
	if cfg.extractor != nil {
		extractor = &extractorAdapter{inner: cfg.extractor}
	}

	counter := tokenizer.NewHeuristic(cfg.charsPerToken)
	assembler := retriever.New(chunkRepo, counter, logger).
		WithWindowHalfWidth(cfg.windowHalfWidth).
		WithScoreThreshold(cfg.scoreThreshold)

	querySvc := queryuc.New(domEmb, vectorRepo, assembler, docRepo, summarizer).
		WithTopK(cfg.topK).
		WithTokenBudget(cfg.tokenBudget)

	return &Client{
		store:    store,
		ingest:   ingestuc.New(docRepo, chunkRepo, vectorRepo, extractor, domEmb, chk),
		query:    querySvc,
		remove:   removeuc.New(docRepo, chunkRepo, vectorRepo),
		search:   searchuc.New(docRepo, chunkRepo),
		feedback: feedbackuc.New(feedbackRepo),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ingest indexes a file or a directory of files and returns the document ids
// written. Directory ingestion skips files that fail extraction.
func (c *Client) Ingest(ctx context.Context, source, ownerID string) ([]string, error) {
	return c.ingest.Ingest(ctx, source, ownerID)
}

// Ask answers a question using the owner's documents.
func (c *Client) Ask(ctx context.Context, question, ownerID string) (Answer, error) {
	ans, err := c.query.Query(ctx, question, ownerID, false)
	if err != nil {
		return Answer{}, err
	}

	out := Answer{Answer: ans.Answer, Sources: make([]Source, len(ans.Sources))}
	for i, s := range ans.Sources {
		out.Sources[i] = Source{
			DocID:      s.DocID,
			DocName:    s.DocName,
			ChunkIndex: s.ChunkIndex,
			ChunkText:  s.ChunkText,
		}
	}
	return out, nil
}

// Remove deletes the owner's document with its chunks and vectors. Removing
// an unknown id is not an error, and another owner's document is
// indistinguishable from an unknown one.
func (c *Client) Remove(ctx context.Context, docID, ownerID string) error {
	return c.remove.Remove(ctx, docID, ownerID)
}

// Documents lists the owner's indexed documents.
func (c *Client) Documents(ctx context.Context, ownerID string, offset, limit int) (DocumentPage, error) {
	page, err := c.search.ListDocuments(ctx, ownerID, offset, limit)
	if err != nil {
		return DocumentPage{}, err
	}

	out := DocumentPage{
		Documents: make([]DocumentInfo, len(page.Documents)),
		Total:     page.Total,
		Offset:    page.Offset,
	}
	for i, d := range page.Documents {
		out.Documents[i] = DocumentInfo{ID: d.ID, Name: d.Name, Source: d.Source, Chunks: d.Chunks}
	}
	return out, nil
}

// Document returns the owner's document with its extracted text. Another
// owner's document reads as absent.
func (c *Client) Document(ctx context.Context, id, ownerID string) (DocumentInfo, string, error) {
	summary, text, err := c.search.GetDocument(ctx, id, ownerID)
	if err != nil {
		return DocumentInfo{}, "", err
	}
	return DocumentInfo{
		ID:     summary.ID,
		Name:   summary.Name,
		Source: summary.Source,
		Chunks: summary.Chunks,
	}, text, nil
}

// SubmitFeedback stores one feedback entry and returns its id.
func (c *Client) SubmitFeedback(ctx context.Context, kind, text, recipient, contactEmail string) (string, error) {
	return c.feedback.Submit(ctx, kind, text, recipient, contactEmail)
}

// combinedDomainEmbedder is what the ingestion and query services need.
type combinedDomainEmbedder interface {
	domain.Embedder
	domain.BatchEmbedder
}

// embedderAdapter wraps the public Embedder to satisfy the domain contracts.
// Batch calls fall back to sequential Embed when the provider has no native
// batch endpoint.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:   r.Embedding,
		TotalTokens: r.TotalTokens,
	}, nil
}

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := a.inner.(BatchEmbedder); ok {
		r, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		return domain.BatchEmbeddingResult{
			Embeddings:  r.Embeddings,
			TotalTokens: r.TotalTokens,
		}, nil
	}

	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, t := range texts {
		r, err := a.Embed(ctx, t)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("embed item %d: %w", i, err)
		}
		out.Embeddings[i] = r.Embedding
		out.TotalTokens += r.TotalTokens
	}
	return out, nil
}

type summarizerAdapter struct {
	inner Summarizer
}

func (a *summarizerAdapter) Summarize(ctx context.Context, question, contextText string) (string, error) {
	answer, err := a.inner.Summarize(ctx, question, contextText)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return answer, nil
}

type extractorAdapter struct {
	inner Extractor
}

func (a *extractorAdapter) Extract(ctx context.Context, filename string) (string, error) {
	text, err := a.inner.Extract(ctx, filename)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	return text, nil
}

// plainFileExtractor reads files as UTF-8 text. The default when no extractor
// is configured; binary formats need a real extractor (see transport/tika).
type plainFileExtractor struct{}

func (plainFileExtractor) Extract(_ context.Context, filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("read %s: %w: %w", filename, domain.ErrExtractionFailed, err)
	}
	return string(data), nil
}

// noopEmbedder returns an error on use (no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New("askdocs: embedder not configured (use WithEmbedder)")
}

func (noopEmbedder) BatchEmbed(_ context.Context, _ []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchEmbeddingResult{}, errors.New("askdocs: embedder not configured (use WithEmbedder)")
}

// noopSummarizer returns an error on use (no summarizer configured).
type noopSummarizer struct{}

func (noopSummarizer) Summarize(_ context.Context, _, _ string) (string, error) {
	return "", errors.New("askdocs: summarizer not configured (use WithSummarizer)")
}
