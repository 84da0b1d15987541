package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"energysink-engine/internal/domain"
)

// Migrate brings the signal journal schema up to date. Versioned through
// PRAGMA user_version so re-running is cheap and safe.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS signals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  bucket_key TEXT NOT NULL,
  kind TEXT NOT NULL,
  value REAL NOT NULL,
  metadata TEXT NOT NULL DEFAULT '{}',
  at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_signals_bucket
ON signals(bucket_key, at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// SignalJournal persists accepted signals so the in-memory buckets can be
// rebuilt on restart. Satisfies signal.Journal.
type SignalJournal struct {
	DB *sql.DB
}

func (j *SignalJournal) Append(bucketKey string, sig domain.EffortSignal) error {
	meta := "{}"
	if len(sig.Metadata) > 0 {
		b, err := json.Marshal(sig.Metadata)
		if err != nil {
			return fmt.Errorf("marshal signal metadata: %w", err)
		}
		meta = string(b)
	}

	_, err := j.DB.Exec(`
INSERT INTO signals (bucket_key, kind, value, metadata, at)
VALUES (?, ?, ?, ?, ?);`,
		bucketKey, string(sig.Kind), sig.Value, meta, sig.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append signal: %w", err)
	}
	return nil
}

// ReplaySignals streams the journal in arrival order. fn errors abort the
// replay.
func ReplaySignals(ctx context.Context, db *sql.DB, fn func(bucketKey string, sig domain.EffortSignal) error) error {
	rows, err := db.QueryContext(ctx, `
SELECT bucket_key, kind, value, metadata, at
FROM signals
ORDER BY id ASC;`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key, kind, meta, at string
			value               float64
		)
		if err := rows.Scan(&key, &kind, &value, &meta, &at); err != nil {
			return err
		}

		sig := domain.EffortSignal{Kind: domain.SignalKind(kind), Value: value}
		sig.At, _ = time.Parse(time.RFC3339Nano, at)
		if meta != "" && meta != "{}" {
			_ = json.Unmarshal([]byte(meta), &sig.Metadata)
		}

		if err := fn(key, sig); err != nil {
			return err
		}
	}
	return rows.Err()
}

// PruneSignals drops journal rows past the retention window so the file does
// not grow without bound. Mirrors the in-memory age cap.
func PruneSignals(db *sql.DB, maxAge time.Duration) (deleted int64, err error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-maxAge).UTC().Format(time.RFC3339Nano)
	res, err := db.Exec(`DELETE FROM signals WHERE at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune signals: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
