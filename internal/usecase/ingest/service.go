// Package ingest implements the ingestion pipeline: extract, chunk, embed,
// and write to the three collections.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/logger"
	"github.com/askdocs-io/askdocs/internal/metrics"
)

// Service ingests files into the index.
type Service struct {
	docs      DocumentRepo
	chunks    ChunkRepo
	vectors   VectorRepo
	extractor Extractor
	embedder  BatchEmbedder
	chunker   Chunker
}

// New creates an ingestion service.
func New(
	docs DocumentRepo,
	chunks ChunkRepo,
	vectors VectorRepo,
	extractor Extractor,
	embedder BatchEmbedder,
	chunker Chunker,
) *Service {
	return &Service{
		docs:      docs,
		chunks:    chunks,
		vectors:   vectors,
		extractor: extractor,
		embedder:  embedder,
		chunker:   chunker,
	}
}

// Ingest processes a file or a directory of files (non-recursive) and returns
// the ids of the documents written. For a directory, a file that fails
// extraction is logged and skipped; the batch continues and the returned id
// list is shorter than the file count. The operation is not atomic across
// files or across the three collection writes; document ids are
// content-derived, so re-running after a partial failure converges.
func (s *Service) Ingest(ctx context.Context, source, ownerID string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("stat source %s: %w: %w", source, domain.ErrExtractionFailed, err)
	}

	if !info.IsDir() {
		id, err := s.ingestFile(ctx, source, ownerID)
		if err != nil {
			return nil, err
		}
		return []string{id}, nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w: %w", source, domain.ErrExtractionFailed, err)
	}

	log := logger.FromContext(ctx)
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return ids, fmt.Errorf("ingestion cancelled: %w", err)
		}
		if !entry.Type().IsRegular() {
			continue
		}

		path := filepath.Join(source, entry.Name())
		id, err := s.ingestFile(ctx, path, ownerID)
		if err != nil {
			metrics.IngestedDocumentsTotal.WithLabelValues("skipped").Inc()
			log.Error("file ingestion failed, skipping",
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ingestFile runs one file through the pipeline. The document is written
// first so a concurrent reader never sees chunks or vectors referencing a
// document that does not exist yet.
func (s *Service) ingestFile(ctx context.Context, path, ownerID string) (string, error) {
	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}

	doc := domain.NewDocument(filepath.Base(path), path, text, ownerID)
	ctx = logger.WithFields(ctx,
		zap.String("doc_id", doc.ID()),
		zap.String("file", path))
	log := logger.FromContext(ctx)

	chunkTexts := s.chunker.Chunk(text)
	if len(chunkTexts) == 0 {
		// Empty extractions happen (image-only PDFs). The document is still
		// recorded, just unsearchable.
		log.Warn("document produced no chunks")
	}

	chunks := make([]domain.TextChunk, len(chunkTexts))
	for i, t := range chunkTexts {
		chunks[i] = domain.NewTextChunk(doc.ID(), i, t, ownerID)
	}

	records, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return "", err
	}

	if err := s.docs.Save(ctx, doc); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := s.chunks.SaveMulti(ctx, chunks); err != nil {
		return "", fmt.Errorf("write chunks: %w", err)
	}
	if err := s.vectors.SaveMulti(ctx, records); err != nil {
		return "", fmt.Errorf("write embeddings: %w", err)
	}

	metrics.IngestedDocumentsTotal.WithLabelValues("ok").Inc()
	metrics.IngestedChunksTotal.Add(float64(len(chunks)))

	log.Info("document ingested", zap.Int("chunks", len(chunks)))

	return doc.ID(), nil
}

// embedChunks vectorizes all chunks in one provider call.
func (s *Service) embedChunks(ctx context.Context, chunks []domain.TextChunk) ([]domain.EmbeddingRecord, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text()
	}

	batch, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(batch.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("got %d embeddings for %d chunks: %w",
			len(batch.Embeddings), len(chunks), domain.ErrEmbeddingFailed)
	}

	records := make([]domain.EmbeddingRecord, len(chunks))
	for i, c := range chunks {
		rec, err := domain.NewEmbeddingRecord(c, batch.Embeddings[i])
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}
