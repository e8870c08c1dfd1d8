package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bankfeed/bankfeed/pipeline"
)

// FilterExisting returns the subset of fingerprints already stored.
func (db *DB) FilterExisting(ctx context.Context, fingerprints []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(fingerprints) == 0 {
		return existing, nil
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT fingerprint FROM transactions WHERE fingerprint = ANY($1)
	`, fingerprints)
	if err != nil {
		return nil, fmt.Errorf("failed to query fingerprints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		existing[fp] = true
	}
	return existing, rows.Err()
}

// CreateTransactions bulk inserts transactions. Fingerprint collisions with
// already stored rows are skipped, so re-importing a statement is a no-op.
// sourceIDs maps source hint names to source row ids; hints without a
// mapping are stored without a source.
func (db *DB) CreateTransactions(ctx context.Context, txs []pipeline.Transaction, sourceIDs map[string]string) error {
	if len(txs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, tx := range txs {
		amount, err := pipeline.SignedDecimal(tx.Amount)
		if err != nil {
			return fmt.Errorf("bad amount %q for %s: %w", tx.Amount, tx.Fingerprint, err)
		}

		var sourceID *string
		if id, ok := sourceIDs[tx.SourceHint]; ok && id != "" {
			sourceID = &id
		}

		batch.Queue(`
			INSERT INTO transactions (
				fingerprint, posted_on, posted_at, description, amount, origination, source_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (fingerprint) DO NOTHING
		`, tx.Fingerprint, tx.Date, tx.Time, tx.Description, amount, tx.Origination, sourceID)
	}

	br := db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for range txs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}
	return nil
}

// RecordImport stores the outcome of one imported file.
func (db *DB) RecordImport(ctx context.Context, filename string, processed, skipped int) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO imports (filename, processed, skipped) VALUES ($1, $2, $3)
	`, filename, processed, skipped)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}
