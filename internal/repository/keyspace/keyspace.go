// Package keyspace centralizes the key and index naming convention shared by
// all repositories. Record keys look like "askdocs:chunks:chk_ab12...", the
// matching FT index is "askdocs:chunks:idx".
package keyspace

import "fmt"

// DefaultPrefix namespaces all engine keys in a shared Redis.
const DefaultPrefix = "askdocs:"

// Keyspace derives record keys, index names, and schema metadata keys for
// logical collections under a common prefix.
type Keyspace struct {
	prefix string
}

// New creates a Keyspace. An empty prefix falls back to DefaultPrefix.
func New(prefix string) Keyspace {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keyspace{prefix: prefix}
}

// Prefix returns the configured key prefix.
func (k Keyspace) Prefix() string { return k.prefix }

// RecordKey returns the hash key of one record in a collection.
func (k Keyspace) RecordKey(collection, id string) string {
	return k.prefix + collection + ":" + id
}

// RecordPrefix returns the key prefix shared by all records of a collection,
// used as the FT index PREFIX clause.
func (k Keyspace) RecordPrefix(collection string) string {
	return k.prefix + collection + ":"
}

// IndexName returns the FT index name of a collection.
func (k Keyspace) IndexName(collection string) string {
	return k.prefix + collection + ":idx"
}

// SchemaKey returns the key holding the stored schema snapshot of a collection.
func (k Keyspace) SchemaKey(collection string) string {
	return fmt.Sprintf("%smeta:schema:%s", k.prefix, collection)
}

// CacheKey returns a key in the embedding cache namespace.
func (k Keyspace) CacheKey(hash string) string {
	return k.prefix + "emb_cache:" + hash
}
