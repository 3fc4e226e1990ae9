package main

import (
	"context"
	"flag"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mechbay/internal/ingest"
	"mechbay/internal/mul"
	"mechbay/pkg/database"
	"mechbay/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	var typesFlag = flag.String("types", "18", "comma-separated catalog unit type ids (18 = BattleMech)")
	flag.Parse()

	logger := utils.NewLogger()
	types := parseTypes(*typesFlag, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("db migrate failed: %v", err)
	}

	cfg := utils.LoadMulConfig()
	client := mul.NewClient(cfg.BaseURL, cfg.Delay, logger)
	fetcher := mul.NewFetcher(client, cfg.CacheDir, logger)

	run, err := ingest.StartRun(ctx, db, "mul-fetch")
	if err != nil {
		logger.Fatalf("record run failed: %v", err)
	}

	logger.Infof("fetching types %v from %s into %s", types, cfg.BaseURL, cfg.CacheDir)
	report, fetchErr := fetcher.Run(ctx, types)
	if report == nil {
		logger.Fatalf("fetch failed: %v", fetchErr)
	}

	stats := &ingest.Stats{}
	stats.Parsed.Store(int64(report.UniqueIDs))
	stats.Imported.Store(int64(report.Partitions + report.Details))
	stats.Skipped.Store(int64(report.PartitionsCached + report.DetailsCached))
	stats.Failed.Store(int64(report.DetailsFailed))
	if err := run.Finish(ctx, db, stats, cfg.BaseURL); err != nil {
		logger.Errorf("record run finish failed: %v", err)
	}

	if fetchErr != nil {
		logger.Fatalf("fetch failed: %v", fetchErr)
	}
	logger.Infof("✅ fetched %d partitions (%d cached) and %d detail pages (%d cached, %d failed), %d unique ids",
		report.Partitions, report.PartitionsCached,
		report.Details, report.DetailsCached, report.DetailsFailed, report.UniqueIDs)
}

func parseTypes(raw string, logger *logrus.Logger) []int {
	var types []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			logger.Fatalf("bad unit type id %q", part)
		}
		types = append(types, id)
	}
	if len(types) == 0 {
		logger.Fatal("-types needs at least one unit type id")
	}
	return types
}
