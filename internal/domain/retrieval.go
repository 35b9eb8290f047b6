package domain

// SearchHit is one vector search result pointing at a chunk position.
// Hits arrive ranked by similarity; the context retriever preserves that order.
type SearchHit struct {
	DocID      string
	ChunkID    string
	ChunkIndex int
	Score      float64
}

// ChunkRef addresses one chunk position within a document. It is the identity
// used for context assembly ordering and deduplication.
type ChunkRef struct {
	DocID string
	Index int
}

// Less orders refs by document id, then by chunk index ascending. Context text
// is concatenated in this order.
func (r ChunkRef) Less(other ChunkRef) bool {
	if r.DocID != other.DocID {
		return r.DocID < other.DocID
	}
	return r.Index < other.Index
}
