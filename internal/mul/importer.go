package mul

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"mechbay/pkg/models"
)

// Importer replays a fetched cache directory against the database:
// match every listing record to a unit, merge the catalog's fields onto
// it, then attach era/faction availability from the detail pages.
//
// Merging never overwrites a field an earlier source already populated
// unless Force is set; absent catalog values never erase anything.
type Importer struct {
	db  *sql.DB
	log *logrus.Logger

	// Force lets catalog values win over already-populated fields and
	// re-imports availability for units that already have rows.
	Force bool
	// SkipAvailability skips the detail-page pass entirely.
	SkipAvailability bool
}

func NewImporter(db *sql.DB, log *logrus.Logger) *Importer {
	return &Importer{db: db, log: log}
}

// ImportReport totals one import run.
type ImportReport struct {
	Total     int
	Matched   int
	Unmatched int
	Failed    int

	BVSet        int
	CostSet      int
	RoleSet      int
	IntroYearSet int

	AvailabilityUnits int
	AvailabilityRows  int
	NewFactions       int
}

// Run imports every quicklist partition found in dataDir. Unmatched
// records are upserted into mul_unmatched and written to a review CSV
// next to the partitions; records matched on this run leave the
// exception list.
func (im *Importer) Run(ctx context.Context, dataDir string, overrides map[int64]string) (*ImportReport, error) {
	known, err := LoadKnownUnits(ctx, im.db)
	if err != nil {
		return nil, err
	}
	matcher := NewMatcher(overrides, known)
	im.log.Infof("loaded %d units and %d overrides for matching", len(known), len(overrides))

	records, err := loadQuickLists(dataDir)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no quicklist partitions in %s, fetch first", dataDir)
	}

	report := &ImportReport{Total: len(records)}
	matched := make(map[int64]int64, len(records))
	var unmatched []Unmatched

	for i := range records {
		rec := &records[i]
		hit, miss := matcher.Match(rec.ID, rec.Name, rec.Tonnage)
		if miss != nil {
			unmatched = append(unmatched, *miss)
			continue
		}
		matched[rec.ID] = hit.UnitID
		report.Matched++

		set, err := im.mergeUnit(ctx, hit.UnitID, rec)
		if err != nil {
			report.Failed++
			im.log.Errorf("merge %s (catalog id %d): %v", rec.Name, rec.ID, err)
			continue
		}
		if set.bv {
			report.BVSet++
		}
		if set.cost {
			report.CostSet++
		}
		if set.role {
			report.RoleSet++
		}
		if set.introYear {
			report.IntroYearSet++
		}
	}
	report.Unmatched = len(unmatched)
	im.log.Infof("matched %d of %d catalog records, %d unmatched", report.Matched, report.Total, report.Unmatched)

	if len(matched) > 0 {
		if err := ClearMatched(ctx, im.db, matched); err != nil {
			return report, err
		}
	}
	if len(unmatched) > 0 {
		if err := RecordUnmatched(ctx, im.db, unmatched); err != nil {
			return report, err
		}
		csvPath := filepath.Join(dataDir, "unmatched_mul_units.csv")
		if err := WriteUnmatchedCSV(csvPath, unmatched); err != nil {
			return report, err
		}
		im.log.Infof("wrote %d unmatched records to %s", len(unmatched), csvPath)
	}

	if !im.SkipAvailability {
		if err := im.importAvailability(ctx, dataDir, matched, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// loadQuickLists reads every quicklist partition in dir, deduplicating
// by catalog id since a unit can appear under more than one type.
func loadQuickLists(dir string) ([]Unit, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "quicklist-*.json"))
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var all []Unit
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(p), err)
		}
		units, err := ParseQuickList(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		for _, u := range units {
			if _, dup := seen[u.ID]; dup {
				continue
			}
			seen[u.ID] = struct{}{}
			all = append(all, u)
		}
	}
	return all, nil
}

type fieldSet struct {
	bv, cost, role, introYear bool
}

const mergeFillQuery = `
	UPDATE units SET
	    mul_id = ?,
	    bv_source = CASE WHEN battle_value IS NULL AND ? IS NOT NULL THEN 'mul' ELSE bv_source END,
	    battle_value = COALESCE(battle_value, ?),
	    cost = COALESCE(cost, ?),
	    intro_year_source = CASE WHEN intro_year IS NULL AND ? IS NOT NULL THEN 'mul' ELSE intro_year_source END,
	    intro_year = COALESCE(intro_year, ?),
	    role = COALESCE(role, ?),
	    clan_name = COALESCE(clan_name, ?),
	    last_mul_import_at = datetime('now'),
	    updated_at = datetime('now')
	WHERE id = ?`

const mergeForceQuery = `
	UPDATE units SET
	    mul_id = ?,
	    bv_source = CASE WHEN ? IS NOT NULL THEN 'mul' ELSE bv_source END,
	    battle_value = COALESCE(?, battle_value),
	    cost = COALESCE(?, cost),
	    intro_year_source = CASE WHEN ? IS NOT NULL THEN 'mul' ELSE intro_year_source END,
	    intro_year = COALESCE(?, intro_year),
	    role = COALESCE(?, role),
	    clan_name = COALESCE(?, clan_name),
	    last_mul_import_at = datetime('now'),
	    updated_at = datetime('now')
	WHERE id = ?`

// mergeUnit writes the catalog record's fields onto one unit. The
// external id and import timestamp are always recorded; everything else
// fills gaps only, or wins when Force is set. Source tags flip to 'mul'
// exactly when this import is the one that set the value.
func (im *Importer) mergeUnit(ctx context.Context, unitID int64, rec *Unit) (fieldSet, error) {
	var cur struct {
		bv, cost, introYear sql.NullInt64
		role                sql.NullString
	}
	err := im.db.QueryRowContext(ctx,
		"SELECT battle_value, cost, intro_year, role FROM units WHERE id = ?", unitID,
	).Scan(&cur.bv, &cur.cost, &cur.introYear, &cur.role)
	if err != nil {
		return fieldSet{}, fmt.Errorf("read unit %d: %w", unitID, err)
	}

	bv := nullInt(rec.BattleValue)
	cost := nullInt64(rec.Cost)
	introYear := nullInt(rec.IntroYear())
	role := nullString(rec.RoleName())
	clanName := nullString(ExtractClanName(rec.Name))

	set := fieldSet{
		bv:        bv.Valid && (im.Force || !cur.bv.Valid),
		cost:      cost.Valid && (im.Force || !cur.cost.Valid),
		introYear: introYear.Valid && (im.Force || !cur.introYear.Valid),
		role:      role.Valid && (im.Force || !cur.role.Valid),
	}

	query := mergeFillQuery
	if im.Force {
		query = mergeForceQuery
	}
	_, err = im.db.ExecContext(ctx, query,
		rec.ID, bv, bv, cost, introYear, introYear, role, clanName, unitID)
	if err != nil {
		return fieldSet{}, fmt.Errorf("update unit %d: %w", unitID, err)
	}
	return set, nil
}

// importAvailability reads each matched unit's cached detail page and
// replaces its availability rows. Units that already have rows keep
// them unless Force is set.
func (im *Importer) importAvailability(ctx context.Context, dataDir string, matched map[int64]int64, report *ImportReport) error {
	eraIDs, err := im.loadEraIDs(ctx)
	if err != nil {
		return err
	}
	factionIDs, err := im.loadFactionIDs(ctx)
	if err != nil {
		return err
	}
	detailsDir := filepath.Join(dataDir, "details")

	for mulID, unitID := range matched {
		html, err := os.ReadFile(filepath.Join(detailsDir, fmt.Sprintf("%d.html", mulID)))
		if err != nil {
			continue
		}

		if !im.Force {
			var n int
			err := im.db.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM unit_availability WHERE unit_id = ?", unitID).Scan(&n)
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
		}

		records := ParseAvailability(html)
		if len(records) == 0 {
			continue
		}

		// rows are (faction id, era id) pairs
		seen := make(map[[2]int64]struct{})
		var rows [][2]int64

		for _, rec := range records {
			eraSlug, ok := eraSlugs[rec.Era]
			if !ok {
				im.log.Warnf("unmapped era %q on catalog id %d", rec.Era, mulID)
				continue
			}
			eraID, ok := eraIDs[eraSlug]
			if !ok {
				im.log.Warnf("era %q not seeded", eraSlug)
				continue
			}

			factionID, ok := factionIDs[rec.Faction]
			if !ok {
				if slug, mapped := factionSlugs[rec.Faction]; mapped {
					id, inDB := factionIDs[slug]
					if !inDB {
						im.log.Warnf("faction %q maps to %q which is not seeded", rec.Faction, slug)
						continue
					}
					factionIDs[rec.Faction] = id
					factionID = id
				} else {
					id, err := im.ensureFaction(ctx, rec.Faction)
					if err != nil {
						return err
					}
					im.log.Infof("created faction %q", rec.Faction)
					report.NewFactions++
					factionIDs[rec.Faction] = id
					factionID = id
				}
			}

			p := [2]int64{factionID, eraID}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			rows = append(rows, p)
		}
		if len(rows) == 0 {
			continue
		}

		if err := im.replaceAvailability(ctx, unitID, rows); err != nil {
			report.Failed++
			im.log.Errorf("availability for unit %d: %v", unitID, err)
			continue
		}
		report.AvailabilityUnits++
		report.AvailabilityRows += len(rows)
	}

	im.log.Infof("availability: %d units, %d rows, %d new factions",
		report.AvailabilityUnits, report.AvailabilityRows, report.NewFactions)
	return nil
}

func (im *Importer) loadEraIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := im.db.QueryContext(ctx, "SELECT slug, id FROM eras")
	if err != nil {
		return nil, fmt.Errorf("load eras: %w", err)
	}
	defer rows.Close()

	m := make(map[string]int64)
	for rows.Next() {
		var slug string
		var id int64
		if err := rows.Scan(&slug, &id); err != nil {
			return nil, err
		}
		m[slug] = id
	}
	return m, rows.Err()
}

// loadFactionIDs indexes factions by both name and slug so detail-page
// names and mapping slugs resolve through one map.
func (im *Importer) loadFactionIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := im.db.QueryContext(ctx, "SELECT slug, name, id FROM factions")
	if err != nil {
		return nil, fmt.Errorf("load factions: %w", err)
	}
	defer rows.Close()

	m := make(map[string]int64)
	for rows.Next() {
		var slug, name string
		var id int64
		if err := rows.Scan(&slug, &name, &id); err != nil {
			return nil, err
		}
		m[slug] = id
		m[name] = id
	}
	return m, rows.Err()
}

func (im *Importer) ensureFaction(ctx context.Context, name string) (int64, error) {
	slug := models.Slug(name)
	isClan := strings.HasPrefix(name, "Clan ")
	_, err := im.db.ExecContext(ctx, `
		INSERT INTO factions (slug, name, faction_type, is_clan)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slug) DO NOTHING`,
		slug, name, inferFactionType(name), isClan)
	if err != nil {
		return 0, fmt.Errorf("create faction %q: %w", name, err)
	}

	var id int64
	if err := im.db.QueryRowContext(ctx, "SELECT id FROM factions WHERE slug = ?", slug).Scan(&id); err != nil {
		return 0, fmt.Errorf("read faction %q: %w", name, err)
	}
	return id, nil
}

// replaceAvailability swaps a unit's full availability set in one
// transaction. rows are (faction id, era id) pairs.
func (im *Importer) replaceAvailability(ctx context.Context, unitID int64, rows [][2]int64) error {
	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM unit_availability WHERE unit_id = ?", unitID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unit_availability (unit_id, faction_id, era_id)
		VALUES (?, ?, ?)
		ON CONFLICT(unit_id, faction_id, era_id) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, unitID, r[0], r[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func nullInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
