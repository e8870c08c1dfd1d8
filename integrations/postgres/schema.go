package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- Named sources (account nicknames from multi-account statements, or
-- user-assigned labels)
CREATE TABLE IF NOT EXISTS sources (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(name)
);

-- One row per imported statement file
CREATE TABLE IF NOT EXISTS imports (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    filename VARCHAR(255) NOT NULL,
    imported_at TIMESTAMPTZ DEFAULT NOW(),
    processed INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0
);

-- Normalized transactions, deduplicated by fingerprint
CREATE TABLE IF NOT EXISTS transactions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    fingerprint VARCHAR(64) NOT NULL,
    posted_on DATE NOT NULL,
    posted_at TIME NOT NULL DEFAULT '00:00:00',
    description TEXT NOT NULL,
    amount NUMERIC(14,2) NOT NULL,
    origination VARCHAR(255) DEFAULT '',
    source_id UUID REFERENCES sources(id) ON DELETE SET NULL,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_transactions_posted_on ON transactions(posted_on);
CREATE INDEX IF NOT EXISTS idx_transactions_source_id ON transactions(source_id);
CREATE INDEX IF NOT EXISTS idx_transactions_origination ON transactions(origination) WHERE origination != '';
`

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
