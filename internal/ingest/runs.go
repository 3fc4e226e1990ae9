package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded pipeline execution in import_runs. The row exists
// from the moment the run starts, so an interrupted run is visible as a
// row with no finished_at.
type Run struct {
	ID   string
	Kind string
}

// StartRun records the beginning of a run of the given kind
// ("import", "mul-fetch", "mul-import", "seed").
func StartRun(ctx context.Context, db *sql.DB, kind string) (*Run, error) {
	run := &Run{ID: uuid.NewString(), Kind: kind}
	_, err := db.ExecContext(ctx,
		"INSERT INTO import_runs (id, kind, started_at) VALUES (?, ?, ?)",
		run.ID, kind, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("record run start: %w", err)
	}
	return run, nil
}

// Finish stamps the run row with its end time and final counters.
func (r *Run) Finish(ctx context.Context, db *sql.DB, stats *Stats, notes string) error {
	_, err := db.ExecContext(ctx, `
		UPDATE import_runs SET
			finished_at = ?, parsed = ?, imported = ?, updated = ?,
			skipped = ?, failed = ?, unmatched = ?, notes = ?
		WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339),
		stats.Parsed.Load(), stats.Imported.Load(), stats.Updated.Load(),
		stats.Skipped.Load(), stats.Failed.Load(), stats.Unmatched.Load(),
		nullString(notes), r.ID)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}
