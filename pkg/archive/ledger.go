package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunRecord is one pipeline run's outcome as stored in the ledger.
type RunRecord struct {
	StartedAt        time.Time
	FinishedAt       time.Time
	Documents        int
	Chunks           int
	TotalChars       int
	VocabSize        int
	CompressionRatio float64
	Passed           bool
	FailureReason    string
}

// RunLedger records one row per pipeline run in Postgres, so corpus and
// model quality can be compared across collection runs.
type RunLedger struct {
	db *sql.DB
}

// NewRunLedger opens the ledger database and ensures its schema.
func NewRunLedger(ctx context.Context, dsn string) (*RunLedger, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger database: %w", err)
	}

	ledger := &RunLedger{db: db}
	if err := ledger.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return ledger, nil
}

func (l *RunLedger) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tokenizer_run (
    id BIGSERIAL PRIMARY KEY,
    started_at TIMESTAMPTZ NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL,
    documents INT NOT NULL,
    chunks INT NOT NULL,
    total_chars BIGINT NOT NULL,
    vocab_size INT NOT NULL,
    compression_ratio DOUBLE PRECISION NOT NULL,
    passed BOOLEAN NOT NULL,
    failure_reason TEXT NOT NULL DEFAULT ''
)`
	if _, err := l.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

// Record inserts one run row.
func (l *RunLedger) Record(ctx context.Context, rec RunRecord) error {
	const insert = `
INSERT INTO tokenizer_run
    (started_at, finished_at, documents, chunks, total_chars, vocab_size, compression_ratio, passed, failure_reason)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := l.db.ExecContext(ctx, insert,
		rec.StartedAt, rec.FinishedAt, rec.Documents, rec.Chunks, rec.TotalChars,
		rec.VocabSize, rec.CompressionRatio, rec.Passed, rec.FailureReason)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (l *RunLedger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
