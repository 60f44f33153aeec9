package repository

import (
	"github.com/UnknownOlympus/horae/internal/metrics"
	"github.com/UnknownOlympus/horae/internal/storage"
)

// Repository is the PostgreSQL implementation of storage.Storage.
// Items are partitioned by namespace so several clients can share one database.
type Repository struct {
	db        Database
	metrics   *metrics.Metrics
	namespace string
}

var _ storage.Storage = (*Repository)(nil)

// NewStorageRepository returns client storage scoped to namespace.
func NewStorageRepository(db Database, metrics *metrics.Metrics, namespace string) *Repository {
	return &Repository{db: db, metrics: metrics, namespace: namespace}
}
