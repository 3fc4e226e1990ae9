package main

import (
	"archive/zip"
	"context"
	"flag"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mechbay/internal/ingest"
	"mechbay/internal/parser"
	"mechbay/pkg/database"
	"mechbay/pkg/models"
	"mechbay/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	var (
		archivePath = flag.String("archive", "", "zip archive of unit definition files")
		workers     = flag.Int("workers", 0, "concurrent ingest workers (0 = half the CPUs)")
		maxErrors   = flag.Int("max-errors", 0, "abort after this many failed units (0 = never)")
	)
	flag.Parse()

	logger := utils.NewLogger()
	if *archivePath == "" {
		logger.Fatal("-archive is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("db migrate failed: %v", err)
	}

	units, parsed, skipped := loadArchive(*archivePath, logger)
	logger.Infof("parsed %d units from %s (%d entries skipped)", parsed, *archivePath, skipped)

	run, err := ingest.StartRun(ctx, db, "import")
	if err != nil {
		logger.Fatalf("record run failed: %v", err)
	}

	pipeline := ingest.NewPipeline(db, logger)
	stats, batchErr := pipeline.IngestBatch(ctx, units, *workers, *maxErrors)
	stats.Parsed.Store(parsed)
	stats.Skipped.Add(skipped)

	if err := run.Finish(ctx, db, stats, filepath.Base(*archivePath)); err != nil {
		logger.Errorf("record run finish failed: %v", err)
	}
	if batchErr != nil {
		logger.Fatalf("import failed: %v (%s)", batchErr, stats)
	}

	logger.Infof("✅ import complete: %s", stats)
}

// loadArchive parses every recognizable entry in the archive. A bad
// entry is logged and counted, never fatal; only an unreadable archive
// stops the run before it starts.
func loadArchive(path string, logger *logrus.Logger) ([]*models.ParsedUnit, int64, int64) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		logger.Fatalf("open archive: %v", err)
	}
	defer zr.Close()

	var (
		units   []*models.ParsedUnit
		parsed  int64
		skipped int64
	)
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		format, unitType := parser.ClassifyPath(entry.Name)
		if format == parser.FormatUnknown {
			continue
		}

		raw, err := readEntry(entry)
		if err != nil {
			logger.Warnf("read %s: %v", entry.Name, err)
			skipped++
			continue
		}
		if !utf8.Valid(raw) {
			logger.Warnf("%s is not valid UTF-8, skipping", entry.Name)
			skipped++
			continue
		}

		var unit *models.ParsedUnit
		switch format {
		case parser.FormatMTF:
			unit = parser.ParseMTF(raw)
		case parser.FormatBLK:
			unit = parser.ParseBLK(raw, unitType)
		}
		if unit == nil {
			logger.Warnf("%s: no parsable unit", entry.Name)
			skipped++
			continue
		}
		parsed++
		units = append(units, unit)
	}
	return units, parsed, skipped
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
