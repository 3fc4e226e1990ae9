package mul

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves one listing unit per tonnage partition and a detail
// page per unit, counting upstream hits so tests can prove what was and
// was not re-fetched.
type fakeCatalog struct {
	srv *httptest.Server

	mu            sync.Mutex
	quicklistHits map[string]int
	detailHits    map[int64]int
	listingStatus map[string]int
	detailStatus  map[int64]int
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	fc := &fakeCatalog{
		quicklistHits: make(map[string]int),
		detailHits:    make(map[int64]int),
		listingStatus: make(map[string]int),
		detailStatus:  make(map[int64]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/Unit/QuickList", func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("MinTons") + "-" + r.URL.Query().Get("MaxTons")

		fc.mu.Lock()
		fc.quicklistHits[key]++
		status := fc.listingStatus[key]
		fc.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		fmt.Fprint(w, partitionBody(r.URL.Query().Get("MinTons")))
	})
	mux.HandleFunc("/Unit/Details/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/Unit/Details/"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		fc.mu.Lock()
		fc.detailHits[id]++
		status := fc.detailStatus[id]
		fc.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		fmt.Fprintf(w, "<html><body><h2>Unit %d</h2></body></html>", id)
	})

	fc.srv = httptest.NewServer(mux)
	t.Cleanup(fc.srv.Close)
	return fc
}

func (fc *fakeCatalog) setDetailStatus(id int64, status int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if status == 0 {
		delete(fc.detailStatus, id)
		return
	}
	fc.detailStatus[id] = status
}

func (fc *fakeCatalog) listHits(key string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.quicklistHits[key]
}

func (fc *fakeCatalog) detailCount(id int64) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.detailHits[id]
}

// partitionBody builds the listing for one partition: a single unit
// whose id is derived from the lower tonnage bound.
func partitionBody(minTons string) string {
	min, _ := strconv.Atoi(minTons)
	id := partitionUnitID(min)
	return fmt.Sprintf(`[{"Id":%d,"Name":"Unit %d","Tonnage":%d}]`, id, id, min+10)
}

func partitionUnitID(minTons int) int64 { return int64(1000 + minTons) }

func newTestFetcher(t *testing.T, baseURL string) (*Fetcher, string) {
	dir := t.TempDir()
	return NewFetcher(newTestClient(baseURL), dir, quietLogger()), dir
}

func TestFetcherRunFetchesEverything(t *testing.T) {
	fc := newFakeCatalog(t)
	f, dir := newTestFetcher(t, fc.srv.URL)

	report, err := f.Run(context.Background(), []int{18})
	require.NoError(t, err)

	assert.Equal(t, len(TonnageRanges), report.Partitions)
	assert.Zero(t, report.PartitionsCached)
	assert.Equal(t, len(TonnageRanges), report.UniqueIDs)
	assert.Equal(t, len(TonnageRanges), report.Details)
	assert.Zero(t, report.DetailsCached)
	assert.Zero(t, report.DetailsFailed)

	for _, r := range TonnageRanges {
		name := fmt.Sprintf("quicklist-18-%d-%d.json", r[0], r[1])
		assert.FileExists(t, filepath.Join(dir, name))
		assert.FileExists(t, filepath.Join(dir, "details", fmt.Sprintf("%d.html", partitionUnitID(r[0]))))
	}
	assert.FileExists(t, filepath.Join(dir, "manifest.json"))
	assert.NoFileExists(t, filepath.Join(dir, "failed.json"))
}

func TestFetcherResumesInterruptedRun(t *testing.T) {
	fc := newFakeCatalog(t)
	f, dir := newTestFetcher(t, fc.srv.URL)

	// First three partitions already on disk from an interrupted run.
	for _, r := range TonnageRanges[:3] {
		name := fmt.Sprintf("quicklist-18-%d-%d.json", r[0], r[1])
		body := partitionBody(strconv.Itoa(r[0]))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	report, err := f.Run(context.Background(), []int{18})
	require.NoError(t, err)

	assert.Equal(t, 3, report.PartitionsCached)
	assert.Equal(t, len(TonnageRanges)-3, report.Partitions)

	for i, r := range TonnageRanges {
		key := fmt.Sprintf("%d-%d", r[0], r[1])
		if i < 3 {
			assert.Zero(t, fc.listHits(key), "partition %s was re-fetched", key)
		} else {
			assert.Equal(t, 1, fc.listHits(key), "partition %s", key)
		}
	}

	// Cached partitions still contribute their ids to the detail pass.
	assert.Equal(t, len(TonnageRanges), report.UniqueIDs)
	assert.Equal(t, len(TonnageRanges), report.Details)
}

func TestFetcherSecondRunIsFullyCached(t *testing.T) {
	fc := newFakeCatalog(t)
	f, _ := newTestFetcher(t, fc.srv.URL)

	_, err := f.Run(context.Background(), []int{18})
	require.NoError(t, err)

	report, err := f.Run(context.Background(), []int{18})
	require.NoError(t, err)

	assert.Zero(t, report.Partitions)
	assert.Equal(t, len(TonnageRanges), report.PartitionsCached)
	assert.Zero(t, report.Details)
	assert.Equal(t, len(TonnageRanges), report.DetailsCached)

	for _, r := range TonnageRanges {
		assert.Equal(t, 1, fc.detailCount(partitionUnitID(r[0])), "detail %d", partitionUnitID(r[0]))
	}
}

func TestFetcherRecordsFailedDetails(t *testing.T) {
	fc := newFakeCatalog(t)
	missing := partitionUnitID(0)
	fc.setDetailStatus(missing, http.StatusNotFound)
	f, dir := newTestFetcher(t, fc.srv.URL)

	report, err := f.Run(context.Background(), []int{18})
	require.NoError(t, err)

	assert.Equal(t, 1, report.DetailsFailed)
	assert.Equal(t, len(TonnageRanges)-1, report.Details)
	assert.NoFileExists(t, filepath.Join(dir, "details", fmt.Sprintf("%d.html", missing)))

	data, err := os.ReadFile(filepath.Join(dir, "failed.json"))
	require.NoError(t, err)
	var failed map[string]string
	require.NoError(t, json.Unmarshal(data, &failed))
	require.Len(t, failed, 1)
	assert.Contains(t, failed[strconv.FormatInt(missing, 10)], "HTTP 404")

	// Once the page exists upstream, the next run picks it up and the
	// failure file goes away.
	fc.setDetailStatus(missing, 0)
	report, err = f.Run(context.Background(), []int{18})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Details)
	assert.Zero(t, report.DetailsFailed)
	assert.FileExists(t, filepath.Join(dir, "details", fmt.Sprintf("%d.html", missing)))
	assert.NoFileExists(t, filepath.Join(dir, "failed.json"))
}

func TestFetcherAbortsWhenPartitionFails(t *testing.T) {
	fc := newFakeCatalog(t)
	fc.listingStatus["46-55"] = http.StatusInternalServerError
	f, _ := newTestFetcher(t, fc.srv.URL)

	report, err := f.Run(context.Background(), []int{18})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tons=46-55")
	assert.Equal(t, 3, report.Partitions)
}

func TestFetcherWritesManifest(t *testing.T) {
	fc := newFakeCatalog(t)
	f, dir := newTestFetcher(t, fc.srv.URL)

	_, err := f.Run(context.Background(), []int{18})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	var manifest map[string]any
	require.NoError(t, json.Unmarshal(data, &manifest))

	assert.Equal(t, fc.srv.URL, manifest["base_url"])
	assert.EqualValues(t, len(TonnageRanges), manifest["total_mul_ids"])
	assert.NotEmpty(t, manifest["fetched_at"])
}

func TestFetcherStopsOnCanceledContext(t *testing.T) {
	fc := newFakeCatalog(t)
	f, _ := newTestFetcher(t, fc.srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.Run(ctx, []int{18})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Partitions)
}
