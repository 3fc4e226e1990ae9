package mul

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mechbay/internal/refdata"
	"mechbay/pkg/database"
	"mechbay/pkg/models"
)

// importQuickList holds three catalog records: one exact-slug match, one
// dual-name match, and one that no tier can place.
const importQuickList = `[
  {"Id":104,"Name":"Atlas AS7-D","Class":"Assault","Variant":"AS7-D","Tonnage":100,"BattleValue":1897,"Cost":9626000,"Rules":"Introductory","DateIntroduced":"2755","Technology":{"Id":1,"Name":"Inner Sphere"},"Role":{"Id":7,"Name":"Juggernaut"},"Type":{"Id":18,"Name":"BattleMech"}},
  {"Id":105,"Name":"Fire Moth (Dasher) Prime","Class":"Light","Variant":"Prime","Tonnage":20,"BattleValue":703,"Cost":3949500,"Rules":"Standard","DateIntroduced":"2874","Technology":{"Id":2,"Name":"Clan"},"Role":{"Id":3,"Name":"Scout"},"Type":{"Id":18,"Name":"BattleMech"}},
  {"Id":9999,"Name":"Totally Unknown Mech TUM-1","Class":"Medium","Variant":"TUM-1","Tonnage":50,"BattleValue":1200,"Cost":0,"Rules":"Standard","DateIntroduced":"3067","Technology":{"Id":1,"Name":"Inner Sphere"},"Role":{"Id":5,"Name":"Skirmisher"},"Type":{"Id":18,"Name":"BattleMech"}}
]`

type importFixture struct {
	im  *Importer
	db  *sql.DB
	dir string

	atlas     int64
	fireMoth  int64
	wolverine int64
}

func setupImport(t *testing.T) *importFixture {
	t.Helper()

	db := database.OpenTest(t)
	_, err := refdata.SeedAll(context.Background(), db)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "quicklist-18-0-25.json")
	require.NoError(t, os.WriteFile(path, []byte(importQuickList), 0o644))

	fx := &importFixture{im: NewImporter(db, quietLogger()), db: db, dir: dir}
	fx.atlas = insertTestUnit(t, db, "Atlas", "atlas-as7-d", "Atlas AS7-D")
	fx.fireMoth = insertTestUnit(t, db, "Fire Moth", "fire-moth-prime", "Fire Moth Prime")
	fx.wolverine = insertTestUnit(t, db, "Wolverine", "wolverine-wvr-6r", "Wolverine WVR-6R")
	return fx
}

func insertTestUnit(t *testing.T, db *sql.DB, chassisName, slug, fullName string) int64 {
	t.Helper()

	chassisSlug := models.Slug(chassisName) + "-mech"
	_, err := db.Exec(
		"INSERT INTO chassis (slug, name, unit_type) VALUES (?, ?, 'mech') ON CONFLICT(slug) DO NOTHING",
		chassisSlug, chassisName)
	require.NoError(t, err)

	var chassisID int64
	require.NoError(t, db.QueryRow("SELECT id FROM chassis WHERE slug = ?", chassisSlug).Scan(&chassisID))

	res, err := db.Exec(
		"INSERT INTO units (slug, chassis_id, full_name) VALUES (?, ?, ?)",
		slug, chassisID, fullName)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func (fx *importFixture) writeDetailPage(t *testing.T, mulID string) {
	t.Helper()

	html, err := os.ReadFile(filepath.Join("testdata", "detail_sample.html"))
	require.NoError(t, err)
	detailsDir := filepath.Join(fx.dir, "details")
	require.NoError(t, os.MkdirAll(detailsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(detailsDir, mulID+".html"), html, 0o644))
}

func TestImporterFillsEmptyFields(t *testing.T) {
	fx := setupImport(t)
	fx.im.SkipAvailability = true

	report, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 1, report.Unmatched)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 2, report.BVSet)
	assert.Equal(t, 2, report.CostSet)
	assert.Equal(t, 2, report.RoleSet)
	assert.Equal(t, 2, report.IntroYearSet)

	var mulID, bv, cost, introYear sql.NullInt64
	var bvSource, yearSource, role, lastImport sql.NullString
	err = fx.db.QueryRow(`
		SELECT mul_id, battle_value, bv_source, cost, intro_year, intro_year_source, role, last_mul_import_at
		FROM units WHERE id = ?`, fx.atlas,
	).Scan(&mulID, &bv, &bvSource, &cost, &introYear, &yearSource, &role, &lastImport)
	require.NoError(t, err)

	assert.EqualValues(t, 104, mulID.Int64)
	assert.EqualValues(t, 1897, bv.Int64)
	assert.Equal(t, "mul", bvSource.String)
	assert.EqualValues(t, 9626000, cost.Int64)
	assert.EqualValues(t, 2755, introYear.Int64)
	assert.Equal(t, "mul", yearSource.String)
	assert.Equal(t, "Juggernaut", role.String)
	assert.True(t, lastImport.Valid)

	// The dual-name record lands on the Fire Moth and keeps its
	// alternate name.
	var fmMulID sql.NullInt64
	var clanName sql.NullString
	err = fx.db.QueryRow("SELECT mul_id, clan_name FROM units WHERE id = ?", fx.fireMoth).Scan(&fmMulID, &clanName)
	require.NoError(t, err)
	assert.EqualValues(t, 105, fmMulID.Int64)
	assert.Equal(t, "Dasher Prime", clanName.String)

	// Nothing matched the Wolverine.
	var wvMulID sql.NullInt64
	require.NoError(t, fx.db.QueryRow("SELECT mul_id FROM units WHERE id = ?", fx.wolverine).Scan(&wvMulID))
	assert.False(t, wvMulID.Valid)
}

func TestImporterPreservesPopulatedFields(t *testing.T) {
	fx := setupImport(t)
	fx.im.SkipAvailability = true

	_, err := fx.db.Exec(`
		UPDATE units SET battle_value = 1850, bv_source = 'file', intro_year = 2750, intro_year_source = 'file'
		WHERE id = ?`, fx.atlas)
	require.NoError(t, err)

	report, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.BVSet, "only the Fire Moth was empty")
	assert.Equal(t, 1, report.IntroYearSet)

	var mulID, bv, introYear sql.NullInt64
	var bvSource, yearSource, role sql.NullString
	err = fx.db.QueryRow(`
		SELECT mul_id, battle_value, bv_source, intro_year, intro_year_source, role
		FROM units WHERE id = ?`, fx.atlas,
	).Scan(&mulID, &bv, &bvSource, &introYear, &yearSource, &role)
	require.NoError(t, err)

	assert.EqualValues(t, 1850, bv.Int64)
	assert.Equal(t, "file", bvSource.String)
	assert.EqualValues(t, 2750, introYear.Int64)
	assert.Equal(t, "file", yearSource.String)

	// Gaps still fill and the external id is always recorded.
	assert.EqualValues(t, 104, mulID.Int64)
	assert.Equal(t, "Juggernaut", role.String)
}

func TestImporterForceOverwrites(t *testing.T) {
	fx := setupImport(t)
	fx.im.SkipAvailability = true
	fx.im.Force = true

	_, err := fx.db.Exec(`
		UPDATE units SET battle_value = 1850, bv_source = 'file', intro_year = 2750, intro_year_source = 'file'
		WHERE id = ?`, fx.atlas)
	require.NoError(t, err)

	report, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.BVSet)

	var bv, introYear sql.NullInt64
	var bvSource, yearSource sql.NullString
	err = fx.db.QueryRow(
		"SELECT battle_value, bv_source, intro_year, intro_year_source FROM units WHERE id = ?", fx.atlas,
	).Scan(&bv, &bvSource, &introYear, &yearSource)
	require.NoError(t, err)

	assert.EqualValues(t, 1897, bv.Int64)
	assert.Equal(t, "mul", bvSource.String)
	assert.EqualValues(t, 2755, introYear.Int64)
	assert.Equal(t, "mul", yearSource.String)
}

func TestImporterRecordsUnmatched(t *testing.T) {
	fx := setupImport(t)
	fx.im.SkipAvailability = true

	_, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)

	var name, slug, reason string
	var tonnage float64
	err = fx.db.QueryRow(
		"SELECT mul_name, computed_slug, tonnage, reason FROM mul_unmatched WHERE mul_id = 9999",
	).Scan(&name, &slug, &tonnage, &reason)
	require.NoError(t, err)

	assert.Equal(t, "Totally Unknown Mech TUM-1", name)
	assert.Equal(t, "totally-unknown-mech-tum-1", slug)
	assert.EqualValues(t, 50, tonnage)
	assert.Equal(t, "no tier matched", reason)

	data, err := os.ReadFile(filepath.Join(fx.dir, "unmatched_mul_units.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "9999")
	assert.Contains(t, string(data), "totally-unknown-mech-tum-1")
}

func TestImporterOverrideClosesCurationLoop(t *testing.T) {
	fx := setupImport(t)
	fx.im.SkipAvailability = true

	_, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)

	var n int
	require.NoError(t, fx.db.QueryRow("SELECT COUNT(*) FROM mul_unmatched WHERE mul_id = 9999").Scan(&n))
	require.Equal(t, 1, n)

	report, err := fx.im.Run(context.Background(), fx.dir, map[int64]string{9999: "wolverine-wvr-6r"})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Matched)
	assert.Zero(t, report.Unmatched)

	require.NoError(t, fx.db.QueryRow("SELECT COUNT(*) FROM mul_unmatched WHERE mul_id = 9999").Scan(&n))
	assert.Zero(t, n, "matched records leave the exception list")

	var mulID sql.NullInt64
	require.NoError(t, fx.db.QueryRow("SELECT mul_id FROM units WHERE id = ?", fx.wolverine).Scan(&mulID))
	assert.EqualValues(t, 9999, mulID.Int64)
}

func TestImporterAvailability(t *testing.T) {
	fx := setupImport(t)
	fx.writeDetailPage(t, "104")

	report, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.AvailabilityUnits)
	assert.Equal(t, 3, report.AvailabilityRows)
	assert.Equal(t, 1, report.NewFactions)

	var rows int
	require.NoError(t, fx.db.QueryRow(
		"SELECT COUNT(*) FROM unit_availability WHERE unit_id = ?", fx.atlas).Scan(&rows))
	assert.Equal(t, 3, rows)

	// Era and faction names on the page resolved to seeded rows.
	require.NoError(t, fx.db.QueryRow(`
		SELECT COUNT(*) FROM unit_availability ua
		JOIN eras e ON e.id = ua.era_id
		JOIN factions f ON f.id = ua.faction_id
		WHERE ua.unit_id = ? AND e.slug = 'star-league' AND f.slug = 'steiner'`, fx.atlas).Scan(&rows))
	assert.Equal(t, 1, rows)

	require.NoError(t, fx.db.QueryRow(`
		SELECT COUNT(*) FROM unit_availability ua
		JOIN eras e ON e.id = ua.era_id
		WHERE ua.unit_id = ? AND e.slug = 'dark-age'`, fx.atlas).Scan(&rows))
	assert.Equal(t, 1, rows)

	// The unseeded faction was created on the fly.
	var factionType string
	var isClan bool
	err = fx.db.QueryRow(
		"SELECT faction_type, is_clan FROM factions WHERE slug = 'vandenberg-white-wings'",
	).Scan(&factionType, &isClan)
	require.NoError(t, err)
	assert.Equal(t, "other", factionType)
	assert.False(t, isClan)
}

func TestImporterAvailabilitySkipsPopulatedUnits(t *testing.T) {
	fx := setupImport(t)
	fx.writeDetailPage(t, "104")

	_, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)

	report, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)
	assert.Zero(t, report.AvailabilityUnits)
	assert.Zero(t, report.NewFactions)

	fx.im.Force = true
	report, err = fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AvailabilityUnits)

	var rows int
	require.NoError(t, fx.db.QueryRow(
		"SELECT COUNT(*) FROM unit_availability WHERE unit_id = ?", fx.atlas).Scan(&rows))
	assert.Equal(t, 3, rows, "force replaces, not duplicates")
}

func TestImporterMissingDetailPageIsSkipped(t *testing.T) {
	fx := setupImport(t)

	// No details directory at all: matching and merging still run.
	report, err := fx.im.Run(context.Background(), fx.dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Matched)
	assert.Zero(t, report.AvailabilityUnits)
}

func TestImporterNoPartitions(t *testing.T) {
	db := database.OpenTest(t)
	_, err := refdata.SeedAll(context.Background(), db)
	require.NoError(t, err)

	im := NewImporter(db, quietLogger())
	_, err = im.Run(context.Background(), t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch first")
}
