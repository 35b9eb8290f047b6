package domain

// Logical collection names of the engine's index.
const (
	CollectionDocs     = "docs"
	CollectionChunks   = "chunks"
	CollectionVectors  = "vectors"
	CollectionFeedback = "feedback"
)

// Hash field names shared between the repositories and the index schemas.
const (
	FieldName         = "name"
	FieldSource       = "source"
	FieldText         = "text"
	FieldOwnerID      = "owner_id"
	FieldDocID        = "doc_id"
	FieldIndex        = "index"
	FieldChunkID      = "chunk_id"
	FieldChunkIndex   = "chunk_index"
	FieldVector       = "vector"
	FieldKind         = "kind"
	FieldRecipient    = "recipient"
	FieldContactEmail = "contact_email"
)

// FieldType is the index type of a schema field.
type FieldType string

const (
	// FieldTag is an exact-match tag field.
	FieldTag FieldType = "tag"
	// FieldNumeric is a numeric (range/sortable) field.
	FieldNumeric FieldType = "numeric"
	// FieldStored is a stored-only field, not indexed.
	FieldStored FieldType = "stored"
)

// FieldSpec declares one field of a collection schema.
type FieldSpec struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Sortable bool      `json:"sortable,omitempty"`
}

// VectorSpec declares the dense-vector field of a collection. Distance is
// always inner product: every stored and query vector is unit-normalized, so
// dot product equals cosine similarity.
type VectorSpec struct {
	Dimensions int `json:"dimensions"`
}

// CollectionSpec is the declared schema of one logical collection. The Index
// Client migrates the live index toward this spec at startup.
type CollectionSpec struct {
	Name   string      `json:"name"`
	Fields []FieldSpec `json:"fields"`
	Vector *VectorSpec `json:"vector,omitempty"`
}

// HasVector reports whether the collection declares a dense-vector field.
func (s CollectionSpec) HasVector() bool { return s.Vector != nil }

// FieldByName looks up a declared field.
func (s CollectionSpec) FieldByName(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Collections returns the declared schemas of the four logical collections
// for the given embedding dimension.
func Collections(embeddingDim int) []CollectionSpec {
	return []CollectionSpec{
		{
			Name: CollectionDocs,
			Fields: []FieldSpec{
				{Name: FieldName, Type: FieldStored},
				{Name: FieldSource, Type: FieldStored},
				{Name: FieldText, Type: FieldStored},
				{Name: FieldOwnerID, Type: FieldTag},
			},
		},
		{
			Name: CollectionChunks,
			Fields: []FieldSpec{
				{Name: FieldDocID, Type: FieldTag},
				{Name: FieldIndex, Type: FieldNumeric, Sortable: true},
				{Name: FieldText, Type: FieldStored},
				{Name: FieldOwnerID, Type: FieldTag},
			},
		},
		{
			Name: CollectionVectors,
			Fields: []FieldSpec{
				{Name: FieldDocID, Type: FieldTag},
				{Name: FieldChunkID, Type: FieldStored},
				{Name: FieldChunkIndex, Type: FieldNumeric},
				{Name: FieldOwnerID, Type: FieldTag},
			},
			Vector: &VectorSpec{Dimensions: embeddingDim},
		},
		{
			Name: CollectionFeedback,
			Fields: []FieldSpec{
				{Name: FieldKind, Type: FieldTag},
				{Name: FieldText, Type: FieldStored},
				{Name: FieldRecipient, Type: FieldStored},
				{Name: FieldContactEmail, Type: FieldStored},
			},
		},
	}
}
