// Package catalog manages the lifecycle of the engine's logical collections:
// it creates the backing FT indexes at startup and migrates them toward the
// declared schemas when those change between releases.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	AlterIndex(ctx context.Context, name string, fields []db.IndexField) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo reconciles declared collection schemas with the live index.
type Repo struct {
	store  store
	ks     keyspace.Keyspace
	hnsw   HNSWConfig
	logger *zap.Logger
}

// New creates a catalog repository.
func New(s store, ks keyspace.Keyspace, logger *zap.Logger) *Repo {
	return &Repo{
		store:  s,
		ks:     ks,
		hnsw:   HNSWConfig{M: 32, EFConstruct: 400},
		logger: logger,
	}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureAll reconciles every declared collection. Creating an existing
// collection is a no-op, so repeated startups converge. Collections migrate
// independently: a failing collection does not stop the remaining ones, and
// the failures are returned together.
func (r *Repo) EnsureAll(ctx context.Context, specs []domain.CollectionSpec) error {
	var errs []error
	for _, spec := range specs {
		if err := r.Ensure(ctx, spec); err != nil {
			r.logger.Error("collection migration failed",
				zap.String("collection", spec.Name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("ensure collection %s: %w", spec.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Ensure creates the collection's index if absent, or migrates it when the
// declared schema differs from the stored snapshot. Field additions go
// through FT.ALTER; removed or retyped fields force a drop and recreate.
// Record hashes survive a recreate, the index rebuilds from prefixes.
func (r *Repo) Ensure(ctx context.Context, spec domain.CollectionSpec) error {
	indexName := r.ks.IndexName(spec.Name)

	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}

	if !exists {
		if err := r.create(ctx, spec); err != nil {
			return err
		}
		r.logger.Info("collection index created",
			zap.String("collection", spec.Name),
			zap.String("index", indexName))
		return r.storeSchema(ctx, spec)
	}

	stored, err := r.loadSchema(ctx, spec.Name)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			return err
		}
		// Index predates schema snapshots; adopt the declared schema.
		return r.storeSchema(ctx, spec)
	}

	added, rebuild := diffSchemas(stored, spec)

	switch {
	case rebuild:
		r.logger.Warn("collection schema changed incompatibly, rebuilding index",
			zap.String("collection", spec.Name))
		if err := r.store.DropIndex(ctx, indexName, false); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index: %w", err)
		}
		if err := r.create(ctx, spec); err != nil {
			return err
		}

	case len(added) > 0:
		fields, err := indexFields(domain.CollectionSpec{Name: spec.Name, Fields: added}, r.hnsw)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := r.store.AlterIndex(ctx, indexName, fields); err != nil {
				return fmt.Errorf("alter index: %w", err)
			}
			r.logger.Info("collection index extended",
				zap.String("collection", spec.Name),
				zap.Int("added_fields", len(fields)))
		}

	default:
		return nil
	}

	return r.storeSchema(ctx, spec)
}

// Exists reports whether the collection's index is present.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	return r.store.IndexExists(ctx, r.ks.IndexName(name))
}

func (r *Repo) create(ctx context.Context, spec domain.CollectionSpec) error {
	def, err := buildIndex(r.ks, spec, r.hnsw)
	if err != nil {
		return err
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (r *Repo) storeSchema(ctx context.Context, spec domain.CollectionSpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := r.store.Set(ctx, r.ks.SchemaKey(spec.Name), data); err != nil {
		return fmt.Errorf("store schema: %w", err)
	}
	return nil
}

func (r *Repo) loadSchema(ctx context.Context, name string) (domain.CollectionSpec, error) {
	data, err := r.store.Get(ctx, r.ks.SchemaKey(name))
	if err != nil {
		return domain.CollectionSpec{}, err
	}
	var spec domain.CollectionSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return domain.CollectionSpec{}, fmt.Errorf("parse stored schema %s: %w", name, err)
	}
	return spec, nil
}

// diffSchemas compares a stored schema snapshot with the declared one.
// It returns newly declared fields, and whether the change requires an index
// rebuild (removed or retyped fields, vector changes).
func diffSchemas(stored, declared domain.CollectionSpec) (added []domain.FieldSpec, rebuild bool) {
	for _, f := range declared.Fields {
		old, ok := stored.FieldByName(f.Name)
		if !ok {
			added = append(added, f)
			continue
		}
		if old.Type != f.Type || old.Sortable != f.Sortable {
			return nil, true
		}
	}

	for _, f := range stored.Fields {
		if _, ok := declared.FieldByName(f.Name); !ok {
			return nil, true
		}
	}

	if (stored.Vector == nil) != (declared.Vector == nil) {
		return nil, true
	}
	if stored.Vector != nil && declared.Vector != nil &&
		stored.Vector.Dimensions != declared.Vector.Dimensions {
		return nil, true
	}

	return added, false
}
