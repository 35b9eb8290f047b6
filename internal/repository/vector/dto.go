package vector

import (
	"strconv"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
)

func recordToHash(rec domain.EmbeddingRecord) map[string]string {
	return map[string]string{
		domain.FieldDocID:      rec.DocID(),
		domain.FieldChunkID:    rec.ChunkID(),
		domain.FieldChunkIndex: strconv.Itoa(rec.ChunkIndex()),
		domain.FieldOwnerID:    rec.OwnerID(),
		domain.FieldVector:     db.VectorToBlob(rec.Vector()),
	}
}

func hitFromEntry(entry db.SearchEntry) domain.SearchHit {
	chunkIndex, _ := strconv.Atoi(entry.Fields[domain.FieldChunkIndex])
	return domain.SearchHit{
		DocID:      entry.Fields[domain.FieldDocID],
		ChunkID:    entry.Fields[domain.FieldChunkID],
		ChunkIndex: chunkIndex,
		Score:      entry.Score,
	}
}
