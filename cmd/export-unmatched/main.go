package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"mechbay/pkg/database"
	"mechbay/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	var out = flag.String("out", "data/unmatched_mul_units.csv", "output CSV path")
	flag.Parse()

	logger := utils.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("db migrate failed: %v", err)
	}

	n, err := exportUnmatched(ctx, db, *out)
	if err != nil {
		logger.Fatalf("export unmatched failed: %v", err)
	}
	logger.Infof("✅ exported %d unmatched records to %s", n, *out)
}

func exportUnmatched(ctx context.Context, db *sql.DB, outPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"mul_id", "mul_name", "computed_slug", "tonnage", "reason", "recorded_at"}); err != nil {
		return 0, err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT mul_id, mul_name, computed_slug, tonnage, reason, recorded_at
        FROM mul_unmatched
        ORDER BY mul_id
    `)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			mulID      int64
			name       string
			slug       sql.NullString
			tonnage    sql.NullFloat64
			reason     sql.NullString
			recordedAt string
		)
		if err := rows.Scan(&mulID, &name, &slug, &tonnage, &reason, &recordedAt); err != nil {
			return count, err
		}

		tons := ""
		if tonnage.Valid {
			tons = strconv.FormatFloat(tonnage.Float64, 'f', -1, 64)
		}

		if err := w.Write([]string{
			strconv.FormatInt(mulID, 10),
			name,
			slug.String,
			tons,
			reason.String,
			recordedAt,
		}); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}

	w.Flush()
	return count, w.Error()
}
