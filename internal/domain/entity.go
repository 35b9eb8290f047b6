package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ID prefixes distinguish entity kinds inside the shared key space.
const (
	DocIDPrefix      = "doc_"
	ChunkIDPrefix    = "chk_"
	VectorIDPrefix   = "emb_"
	FeedbackIDPrefix = "fbk_"
)

// DeriveID builds a deterministic, prefix-tagged identifier from identifying
// content. Re-deriving from identical content yields the identical id, which
// makes retried writes idempotent at the identifier level.
func DeriveID(prefix, content string) string {
	h := sha256.Sum256([]byte(content))
	return prefix + hex.EncodeToString(h[:])
}

// Document is one ingested source document (immutable value object).
// Text may be empty when extraction failed; the chunk set is then empty too.
type Document struct {
	id      string
	name    string
	source  string
	text    string
	ownerID string
}

// NewDocument derives the document id from its source path and creates the record.
func NewDocument(name, source, text, ownerID string) Document {
	return Document{
		id:      DeriveID(DocIDPrefix, source+"/"+name),
		name:    name,
		source:  source,
		text:    text,
		ownerID: ownerID,
	}
}

// ReconstructDocument creates a Document from stored fields (no derivation).
func ReconstructDocument(id, name, source, text, ownerID string) Document {
	return Document{id: id, name: name, source: source, text: text, ownerID: ownerID}
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Name returns the document file name.
func (d Document) Name() string { return d.name }

// Source returns the origin path or URL.
func (d Document) Source() string { return d.source }

// Text returns the full extracted text (may be empty).
func (d Document) Text() string { return d.text }

// OwnerID returns the tenant scope.
func (d Document) OwnerID() string { return d.ownerID }

// TextChunk is one contiguous span of a document's text, the atomic unit of
// indexing and retrieval. Index is the 0-based ordinal within the document and
// defines the axis used for context expansion.
type TextChunk struct {
	id      string
	docID   string
	index   int
	text    string
	ownerID string
}

// NewTextChunk derives the chunk id from (document id, ordinal, content).
func NewTextChunk(docID string, index int, text, ownerID string) TextChunk {
	return TextChunk{
		id:      DeriveID(ChunkIDPrefix, docID+":"+strconv.Itoa(index)+":"+text),
		docID:   docID,
		index:   index,
		text:    text,
		ownerID: ownerID,
	}
}

// ReconstructTextChunk creates a TextChunk from stored fields.
func ReconstructTextChunk(id, docID string, index int, text, ownerID string) TextChunk {
	return TextChunk{id: id, docID: docID, index: index, text: text, ownerID: ownerID}
}

// ID returns the chunk identifier.
func (c TextChunk) ID() string { return c.id }

// DocID returns the owning document id.
func (c TextChunk) DocID() string { return c.docID }

// Index returns the 0-based ordinal position within the document.
func (c TextChunk) Index() int { return c.index }

// Text returns the chunk text.
func (c TextChunk) Text() string { return c.text }

// OwnerID returns the tenant scope.
func (c TextChunk) OwnerID() string { return c.ownerID }

// EmbeddingRecord is the stored vector for one TextChunk (one-to-one).
// The vector is unit-normalized on construction so that dot product equals
// cosine similarity for every stored and query vector.
type EmbeddingRecord struct {
	id         string
	docID      string
	chunkID    string
	chunkIndex int
	vector     []float32
	ownerID    string
}

// NewEmbeddingRecord normalizes the vector and derives the record id from the chunk id.
func NewEmbeddingRecord(chunk TextChunk, vector []float32) (EmbeddingRecord, error) {
	normalized, err := Normalize(vector)
	if err != nil {
		return EmbeddingRecord{}, fmt.Errorf("embedding for chunk %s: %w", chunk.ID(), err)
	}
	return EmbeddingRecord{
		id:         DeriveID(VectorIDPrefix, chunk.ID()),
		docID:      chunk.DocID(),
		chunkID:    chunk.ID(),
		chunkIndex: chunk.Index(),
		vector:     normalized,
		ownerID:    chunk.OwnerID(),
	}, nil
}

// ReconstructEmbeddingRecord creates an EmbeddingRecord from stored fields.
func ReconstructEmbeddingRecord(
	id, docID, chunkID string, chunkIndex int, vector []float32, ownerID string,
) EmbeddingRecord {
	return EmbeddingRecord{
		id: id, docID: docID, chunkID: chunkID,
		chunkIndex: chunkIndex, vector: vector, ownerID: ownerID,
	}
}

// ID returns the record identifier.
func (e EmbeddingRecord) ID() string { return e.id }

// DocID returns the owning document id.
func (e EmbeddingRecord) DocID() string { return e.docID }

// ChunkID returns the embedded chunk's id.
func (e EmbeddingRecord) ChunkID() string { return e.chunkID }

// ChunkIndex returns the embedded chunk's ordinal within its document.
func (e EmbeddingRecord) ChunkIndex() int { return e.chunkIndex }

// Vector returns the unit-normalized embedding vector.
func (e EmbeddingRecord) Vector() []float32 { return e.vector }

// OwnerID returns the tenant scope.
func (e EmbeddingRecord) OwnerID() string { return e.ownerID }

// FeedbackRecord is an append-only user feedback entry.
type FeedbackRecord struct {
	id           string
	kind         string
	text         string
	recipient    string
	contactEmail string
}

// NewFeedbackRecord creates a feedback record with the given id.
// Feedback has no natural content identity; the caller supplies a fresh id.
func NewFeedbackRecord(id, kind, text, recipient, contactEmail string) FeedbackRecord {
	return FeedbackRecord{
		id:           FeedbackIDPrefix + id,
		kind:         kind,
		text:         text,
		recipient:    recipient,
		contactEmail: contactEmail,
	}
}

// ReconstructFeedbackRecord creates a FeedbackRecord from stored fields.
func ReconstructFeedbackRecord(id, kind, text, recipient, contactEmail string) FeedbackRecord {
	return FeedbackRecord{
		id: id, kind: kind, text: text, recipient: recipient, contactEmail: contactEmail,
	}
}

// ID returns the feedback identifier.
func (f FeedbackRecord) ID() string { return f.id }

// Kind returns the feedback kind.
func (f FeedbackRecord) Kind() string { return f.kind }

// Text returns the feedback text.
func (f FeedbackRecord) Text() string { return f.text }

// Recipient returns the feedback recipient.
func (f FeedbackRecord) Recipient() string { return f.recipient }

// ContactEmail returns the reporter's contact email.
func (f FeedbackRecord) ContactEmail() string { return f.contactEmail }
