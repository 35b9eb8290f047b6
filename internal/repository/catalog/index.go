package catalog

import (
	"fmt"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
)

// HNSWConfig holds HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// buildIndex creates an IndexDefinition from a declared collection schema.
// Stored-only fields carry no index clause; they live in the hash but are
// returned via RETURN, so only tag, numeric, and vector fields appear here.
func buildIndex(ks keyspace.Keyspace, spec domain.CollectionSpec, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	def := &db.IndexDefinition{
		Name:     ks.IndexName(spec.Name),
		Prefixes: []string{ks.RecordPrefix(spec.Name)},
	}

	fields, err := indexFields(spec, hnsw)
	if err != nil {
		return nil, err
	}
	def.Fields = fields

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("collection %s: %w", spec.Name, err)
	}
	return def, nil
}

func indexFields(spec domain.CollectionSpec, hnsw HNSWConfig) ([]db.IndexField, error) {
	fields := make([]db.IndexField, 0, len(spec.Fields)+1)

	for _, f := range spec.Fields {
		switch f.Type {
		case domain.FieldTag:
			fields = append(fields, db.IndexField{Name: f.Name, Type: db.IndexFieldTag})
		case domain.FieldNumeric:
			fields = append(fields, db.IndexField{
				Name: f.Name, Type: db.IndexFieldNumeric, Sortable: f.Sortable,
			})
		case domain.FieldStored:
			// present in the hash only
		default:
			return nil, fmt.Errorf("collection %s: unknown field type %q", spec.Name, f.Type)
		}
	}

	if spec.HasVector() {
		fields = append(fields, db.IndexField{
			Name:              domain.FieldVector,
			Type:              db.IndexFieldVector,
			VectorAlgo:        db.VectorHNSW,
			VectorDim:         spec.Vector.Dimensions,
			VectorDistance:    db.DistanceIP,
			VectorM:           hnsw.M,
			VectorEFConstruct: hnsw.EFConstruct,
		})
	}

	return fields, nil
}
