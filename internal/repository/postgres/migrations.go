package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcription_jobs (
	id            UUID PRIMARY KEY,
	file_name     TEXT NOT NULL,
	extension     TEXT NOT NULL,
	model_tier    TEXT NOT NULL,
	status        TEXT NOT NULL,
	progress      INT NOT NULL DEFAULT 0,
	engine        TEXT,
	text          TEXT,
	segments      JSONB,
	language      TEXT,
	duration      DOUBLE PRECISION,
	confidence    DOUBLE PRECISION,
	word_count    INT,
	error_message TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	completed_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_transcription_jobs_created_at
	ON transcription_jobs (created_at DESC);
`

// Migrate creates the job table if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}
