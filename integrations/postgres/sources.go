package postgres

import (
	"context"
	"fmt"
)

// GetOrCreateSource finds a source by name or creates it, returning its id.
func (db *DB) GetOrCreateSource(ctx context.Context, name string) (string, error) {
	var id string

	err := db.Pool.QueryRow(ctx, `
		SELECT id FROM sources WHERE name = $1
	`, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO sources (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create source: %w", err)
	}
	return id, nil
}
