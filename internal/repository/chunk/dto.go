package chunk

import (
	"strconv"

	"github.com/askdocs-io/askdocs/internal/domain"
)

func chunkToHash(c domain.TextChunk) map[string]string {
	return map[string]string{
		domain.FieldDocID:   c.DocID(),
		domain.FieldIndex:   strconv.Itoa(c.Index()),
		domain.FieldText:    c.Text(),
		domain.FieldOwnerID: c.OwnerID(),
	}
}

func chunkFromHash(id string, m map[string]string) domain.TextChunk {
	index, _ := strconv.Atoi(m[domain.FieldIndex])
	return domain.ReconstructTextChunk(
		id,
		m[domain.FieldDocID],
		index,
		m[domain.FieldText],
		m[domain.FieldOwnerID],
	)
}
