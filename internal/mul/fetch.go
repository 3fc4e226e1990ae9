package mul

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// TonnageRanges partitions listing queries. The upstream truncates
// oversized responses, so each range is fetched and persisted on its
// own file, which also makes the partition the unit of resume.
var TonnageRanges = [][2]int{
	{0, 25}, {26, 35}, {36, 45}, {46, 55}, {56, 65},
	{66, 75}, {76, 85}, {86, 100}, {101, 200}, {201, 999999},
}

// Fetcher mirrors listing partitions and detail pages into a local
// directory. Every response is written to disk before it is parsed, so
// an interrupted run picks up at the first file that does not exist
// yet. Layout under dir:
//
//	quicklist-<type>-<min>-<max>.json   one listing partition
//	details/<id>.html                   one unit detail page
//	failed.json                         permanent failures of this run
//	manifest.json                       summary of the last run
type Fetcher struct {
	client *Client
	dir    string
	log    *logrus.Logger
}

func NewFetcher(client *Client, dir string, log *logrus.Logger) *Fetcher {
	return &Fetcher{client: client, dir: dir, log: log}
}

// FetchReport totals one fetch run. Cached counts are files found on
// disk and not re-fetched.
type FetchReport struct {
	Partitions       int
	PartitionsCached int
	Details          int
	DetailsCached    int
	DetailsFailed    int
	UniqueIDs        int
}

// Run fetches every listing partition for the given unit type ids, then
// every detail page the listings name. Detail pages that fail
// permanently (or exhaust retries) are recorded in failed.json and
// skipped; a missing partition aborts the run since its ids would be
// silently lost.
func (f *Fetcher) Run(ctx context.Context, types []int) (*FetchReport, error) {
	detailsDir := filepath.Join(f.dir, "details")
	if err := os.MkdirAll(detailsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	report := &FetchReport{}
	idSet := make(map[int64]struct{})

	for _, typeID := range types {
		for _, r := range TonnageRanges {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}

			name := fmt.Sprintf("quicklist-%d-%d-%d.json", typeID, r[0], r[1])
			path := filepath.Join(f.dir, name)

			data, err := os.ReadFile(path)
			switch {
			case err == nil:
				report.PartitionsCached++
			case os.IsNotExist(err):
				data, err = f.client.FetchQuickList(ctx, typeID, r[0], r[1])
				if err != nil {
					return report, fmt.Errorf("quicklist type=%d tons=%d-%d: %w", typeID, r[0], r[1], err)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return report, fmt.Errorf("write %s: %w", name, err)
				}
				report.Partitions++
				f.client.Pause(ctx)
			default:
				return report, fmt.Errorf("read %s: %w", name, err)
			}

			units, err := ParseQuickList(data)
			if err != nil {
				return report, fmt.Errorf("%s: %w", name, err)
			}
			f.log.Infof("quicklist type=%d tons=%d-%d units=%d", typeID, r[0], r[1], len(units))
			for _, u := range units {
				idSet[u.ID] = struct{}{}
			}
		}
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	report.UniqueIDs = len(ids)
	f.log.Infof("%d unique catalog ids to fetch detail pages for", len(ids))

	failed := make(map[string]string)
	for _, id := range ids {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		path := filepath.Join(detailsDir, fmt.Sprintf("%d.html", id))
		if _, err := os.Stat(path); err == nil {
			report.DetailsCached++
			continue
		}

		html, err := f.client.FetchDetail(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.DetailsFailed++
			failed[strconv.FormatInt(id, 10)] = err.Error()
			f.log.Warnf("detail %d: %v", id, err)
			continue
		}
		if err := os.WriteFile(path, html, 0o644); err != nil {
			return report, fmt.Errorf("write detail %d: %w", id, err)
		}
		report.Details++

		if done := report.Details + report.DetailsCached + report.DetailsFailed; done%100 == 0 {
			f.log.Infof("detail progress: %d/%d (failed %d)", done, len(ids), report.DetailsFailed)
		}
		f.client.Pause(ctx)
	}

	if err := f.writeFailed(failed); err != nil {
		return report, err
	}
	if err := f.writeManifest(types, report); err != nil {
		return report, err
	}
	return report, nil
}

func (f *Fetcher) writeFailed(failed map[string]string) error {
	path := filepath.Join(f.dir, "failed.json")
	if len(failed) == 0 {
		os.Remove(path)
		return nil
	}
	data, err := json.MarshalIndent(failed, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write failed.json: %w", err)
	}
	return nil
}

func (f *Fetcher) writeManifest(types []int, report *FetchReport) error {
	manifest := map[string]any{
		"fetched_at":         time.Now().UTC().Format(time.RFC3339),
		"base_url":           f.client.BaseURL,
		"types":              types,
		"partitions_fetched": report.Partitions,
		"partitions_cached":  report.PartitionsCached,
		"details_fetched":    report.Details,
		"details_cached":     report.DetailsCached,
		"details_failed":     report.DetailsFailed,
		"total_mul_ids":      report.UniqueIDs,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(f.dir, "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest.json: %w", err)
	}
	return nil
}
