package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mechbay/internal/ingest"
	"mechbay/internal/mul"
	"mechbay/pkg/database"
	"mechbay/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	var (
		overridesPath    = flag.String("overrides", "", "JSON file mapping catalog ids to unit slugs")
		force            = flag.Bool("force", false, "let catalog values overwrite populated fields")
		skipAvailability = flag.Bool("skip-availability", false, "skip the detail-page availability pass")
	)
	flag.Parse()

	logger := utils.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("db migrate failed: %v", err)
	}

	overrides := map[int64]string{}
	if *overridesPath != "" {
		var err error
		overrides, err = mul.LoadOverrides(*overridesPath)
		if err != nil {
			logger.Fatalf("load overrides failed: %v", err)
		}
		logger.Infof("loaded %d overrides from %s", len(overrides), *overridesPath)
	}

	cfg := utils.LoadMulConfig()
	importer := mul.NewImporter(db, logger)
	importer.Force = *force
	importer.SkipAvailability = *skipAvailability

	run, err := ingest.StartRun(ctx, db, "mul-import")
	if err != nil {
		logger.Fatalf("record run failed: %v", err)
	}

	report, impErr := importer.Run(ctx, cfg.CacheDir, overrides)
	if report == nil {
		logger.Fatalf("import failed: %v", impErr)
	}

	stats := &ingest.Stats{}
	stats.Parsed.Store(int64(report.Total))
	stats.Updated.Store(int64(report.Matched))
	stats.Unmatched.Store(int64(report.Unmatched))
	stats.Failed.Store(int64(report.Failed))
	notes := fmt.Sprintf("bv=%d cost=%d role=%d year=%d avail_units=%d avail_rows=%d new_factions=%d",
		report.BVSet, report.CostSet, report.RoleSet, report.IntroYearSet,
		report.AvailabilityUnits, report.AvailabilityRows, report.NewFactions)
	if err := run.Finish(ctx, db, stats, notes); err != nil {
		logger.Errorf("record run finish failed: %v", err)
	}

	if impErr != nil {
		logger.Fatalf("import failed: %v", impErr)
	}
	logger.Infof("✅ merged %d of %d catalog records (%d unmatched, %d failed); availability on %d units",
		report.Matched, report.Total, report.Unmatched, report.Failed, report.AvailabilityUnits)
}
