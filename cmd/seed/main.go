package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mechbay/internal/refdata"
	"mechbay/pkg/database"
	"mechbay/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	var (
		statsPath = flag.String("stats", "", "optional equipment stats JSON to fold into equipment rows")
		force     = flag.Bool("force", false, "overwrite stat columns that already have values")
	)
	flag.Parse()

	logger := utils.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("db migrate failed: %v", err)
	}

	stats, err := refdata.SeedAll(ctx, db)
	if err != nil {
		logger.Fatalf("seed reference data failed: %v", err)
	}
	logger.Infof("reference data: %d components, %d aliases, %d eras, %d factions",
		stats.Components, stats.Aliases, stats.Eras, stats.Factions)

	if *statsPath != "" {
		if _, err := refdata.SeedEquipmentStats(ctx, db, logger, *statsPath, *force); err != nil {
			logger.Fatalf("seed equipment stats failed: %v", err)
		}
	}

	logger.Infof("✅ database ready at %s", cfg.Path)
}
