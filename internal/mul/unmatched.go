package mul

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// RecordUnmatched upserts the run's unmatched records into the durable
// exception table, keyed by catalog id so re-runs refresh entries
// instead of duplicating them.
func RecordUnmatched(ctx context.Context, db *sql.DB, unmatched []Unmatched) error {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO mul_unmatched (mul_id, mul_name, computed_slug, tonnage, reason, recorded_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(mul_id) DO UPDATE SET
		    mul_name = excluded.mul_name,
		    computed_slug = excluded.computed_slug,
		    tonnage = excluded.tonnage,
		    reason = excluded.reason,
		    recorded_at = excluded.recorded_at`)
	if err != nil {
		return fmt.Errorf("prepare unmatched upsert: %w", err)
	}
	defer stmt.Close()

	for _, u := range unmatched {
		if _, err := stmt.ExecContext(ctx, u.MulID, u.Name, u.ComputedSlug, u.Tonnage, u.Reason); err != nil {
			return fmt.Errorf("record unmatched %d: %w", u.MulID, err)
		}
	}
	return nil
}

// ClearMatched drops exception rows for catalog ids that matched on
// this run, typically after an operator added an override for them.
func ClearMatched(ctx context.Context, db *sql.DB, matched map[int64]int64) error {
	stmt, err := db.PrepareContext(ctx, "DELETE FROM mul_unmatched WHERE mul_id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for mulID := range matched {
		if _, err := stmt.ExecContext(ctx, mulID); err != nil {
			return fmt.Errorf("clear unmatched %d: %w", mulID, err)
		}
	}
	return nil
}

// WriteUnmatchedCSV writes the exception list for operator review.
func WriteUnmatchedCSV(path string, unmatched []Unmatched) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"mul_id", "mul_name", "computed_slug", "tonnage", "reason"}); err != nil {
		return err
	}
	for _, u := range unmatched {
		if err := w.Write([]string{
			strconv.FormatInt(u.MulID, 10),
			u.Name,
			u.ComputedSlug,
			strconv.FormatFloat(u.Tonnage, 'f', -1, 64),
			u.Reason,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
