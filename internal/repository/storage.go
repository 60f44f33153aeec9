package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/horae/internal/storage"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) observe(queryType string) func() {
	startTime := time.Now()
	return func() {
		r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
	}
}

// GetItem returns the stored value for key in the repository namespace.
func (r *Repository) GetItem(ctx context.Context, key string) (string, bool, error) {
	defer r.observe("get_item")()

	query := `SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`

	var value string
	err := r.db.QueryRow(ctx, query, r.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get storage item: %w", err)
	}

	return value, true, nil
}

// SetItem inserts or replaces the value for key.
func (r *Repository) SetItem(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	defer r.observe("set_item")()

	query := `
		INSERT INTO client_storage (namespace, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO UPDATE SET value = $3, updated_at = CURRENT_TIMESTAMP;
	`

	_, err := r.db.Exec(ctx, query, r.namespace, key, value)
	if err != nil {
		return fmt.Errorf("failed to set storage item: %w", err)
	}

	return nil
}

// RemoveItem deletes key. Deleting a missing key succeeds.
func (r *Repository) RemoveItem(ctx context.Context, key string) error {
	defer r.observe("remove_item")()

	query := `DELETE FROM client_storage WHERE namespace = $1 AND key = $2`

	_, err := r.db.Exec(ctx, query, r.namespace, key)
	if err != nil {
		return fmt.Errorf("failed to remove storage item: %w", err)
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping storage database: %w", err)
	}

	return nil
}
