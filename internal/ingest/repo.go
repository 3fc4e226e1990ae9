package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mechbay/pkg/models"
)

// Repo is the persistence layer for the ingestion pipeline. Chassis and
// equipment are shared dimension rows and are written on the plain
// connection; everything owned by a single unit goes through the unit's
// transaction so a failed unit never leaves partial rows behind.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// UpsertChassis finds or creates the chassis for (name, category).
// The slug embeds the category so a "Demolisher" tank and a
// "Demolisher" mech stay distinct rows.
func (r *Repo) UpsertChassis(ctx context.Context, name string, ut models.UnitType, tonnage float64) (int64, error) {
	slug := models.ChassisSlug(name, ut)

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO chassis (slug, name, unit_type, tonnage)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
		  name = excluded.name,
		  tonnage = excluded.tonnage,
		  updated_at = datetime('now')
		RETURNING id`,
		slug, name, string(ut), tonnage).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert chassis %s: %w", slug, err)
	}
	return id, nil
}

// UpsertEquipment finds or creates one equipment row by its normalized
// label, going through the run cache first. The cache key is the same
// slug the UNIQUE constraint is on, so a hit and an insert can never
// disagree about identity.
func (r *Repo) UpsertEquipment(ctx context.Context, cache *EquipmentCache, name, category string, techBase models.TechBase) (int64, error) {
	slug := models.Slug(name)
	if slug == "" {
		return 0, fmt.Errorf("equipment name %q yields an empty slug", name)
	}
	if id, ok := cache.Get(slug); ok {
		return id, nil
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO equipment (slug, name, category, tech_base)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET name = excluded.name
		RETURNING id`,
		slug, name, category, string(techBase)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert equipment %s: %w", slug, err)
	}

	cache.Put(slug, id)
	return id, nil
}

// UpsertUnit writes the unit row from parsed data. Columns owned by the
// external catalog (rating, cost, role, external id) are never touched
// here; file-provided values overwrite previous file values but an
// absent file value keeps whatever an earlier pass filled in.
func (r *Repo) UpsertUnit(ctx context.Context, tx *sql.Tx, unit *models.ParsedUnit, chassisID int64) (int64, bool, error) {
	fullName := unit.FullName()
	slug := models.Slug(fullName)

	var existing int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM units WHERE slug = ?", slug).Scan(&existing)
	created := errors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return 0, false, fmt.Errorf("look up unit %s: %w", slug, err)
	}

	var introSource sql.NullString
	if unit.IntroYear > 0 {
		introSource = sql.NullString{String: "file", Valid: true}
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO units (
			slug, chassis_id, variant, full_name, tech_base, rules_level,
			tonnage, intro_year, intro_year_source, source_book, description
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
		  chassis_id = excluded.chassis_id,
		  variant = excluded.variant,
		  full_name = excluded.full_name,
		  tech_base = excluded.tech_base,
		  rules_level = excluded.rules_level,
		  tonnage = excluded.tonnage,
		  intro_year = COALESCE(excluded.intro_year, units.intro_year),
		  intro_year_source = COALESCE(excluded.intro_year_source, units.intro_year_source),
		  source_book = COALESCE(excluded.source_book, units.source_book),
		  description = COALESCE(excluded.description, units.description),
		  updated_at = datetime('now')
		RETURNING id`,
		slug, chassisID, nullString(unit.Model), fullName,
		string(unit.TechBase), string(unit.RulesLevel), unit.Tonnage,
		nullInt(unit.IntroYear), introSource,
		nullString(unit.Source), nullString(unit.Description)).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("upsert unit %s: %w", slug, err)
	}
	return id, created, nil
}

// ReplaceLocations swaps the unit's full location set for the parsed
// one. Position preserves source ordering for display.
func (r *Repo) ReplaceLocations(ctx context.Context, tx *sql.Tx, unitID int64, locs []models.LocationEntry) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM unit_locations WHERE unit_id = ?", unitID); err != nil {
		return fmt.Errorf("clear locations for unit %d: %w", unitID, err)
	}
	if len(locs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unit_locations (unit_id, position, location, armor, rear_armor, structure)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare location insert: %w", err)
	}
	defer stmt.Close()

	for i, loc := range locs {
		if _, err := stmt.ExecContext(ctx, unitID, i, loc.Location,
			loc.Armor, nullIntPtr(loc.RearArmor), nullIntPtr(loc.Structure)); err != nil {
			return fmt.Errorf("insert location %s for unit %d: %w", loc.Location, unitID, err)
		}
	}
	return nil
}

// ResolvedLoadout is one loadout row after its equipment label has been
// resolved to an equipment id.
type ResolvedLoadout struct {
	EquipmentID int64
	Location    string
	Quantity    int
	IsRear      bool
}

// ReplaceLoadout swaps the unit's full loadout set.
func (r *Repo) ReplaceLoadout(ctx context.Context, tx *sql.Tx, unitID int64, entries []ResolvedLoadout) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM unit_loadout WHERE unit_id = ?", unitID); err != nil {
		return fmt.Errorf("clear loadout for unit %d: %w", unitID, err)
	}
	if len(entries) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unit_loadout (unit_id, equipment_id, location, quantity, is_rear)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare loadout insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, unitID, e.EquipmentID,
			nullString(e.Location), e.Quantity, e.IsRear); err != nil {
			return fmt.Errorf("insert loadout row for unit %d: %w", unitID, err)
		}
	}
	return nil
}

// ReplaceQuirks swaps the unit's quirk set, creating quirk rows on
// first sight. The quirk name keeps the verbatim source token.
func (r *Repo) ReplaceQuirks(ctx context.Context, tx *sql.Tx, unitID int64, quirks []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM unit_quirks WHERE unit_id = ?", unitID); err != nil {
		return fmt.Errorf("clear quirks for unit %d: %w", unitID, err)
	}

	for _, raw := range quirks {
		quirkID, err := r.ensureQuirk(ctx, tx, raw)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO unit_quirks (unit_id, quirk_id) VALUES (?, ?)",
			unitID, quirkID); err != nil {
			return fmt.Errorf("link quirk %s to unit %d: %w", raw, unitID, err)
		}
	}
	return nil
}

func (r *Repo) ensureQuirk(ctx context.Context, tx *sql.Tx, raw string) (int64, error) {
	slug := models.Slug(raw)
	if slug == "" {
		return 0, fmt.Errorf("quirk %q yields an empty slug", raw)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO quirks (slug, name) VALUES (?, ?)", slug, raw); err != nil {
		return 0, fmt.Errorf("ensure quirk %s: %w", slug, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM quirks WHERE slug = ?", slug).Scan(&id); err != nil {
		return 0, fmt.Errorf("fetch quirk %s: %w", slug, err)
	}
	return id, nil
}

// ResolvedComponents carries the canonical catalog references for one
// unit's mechanical attributes. Invalid entries mean the label stayed
// unresolved; Unresolved lists those labels for reporting.
type ResolvedComponents struct {
	EngineID    sql.NullInt64
	ArmorID     sql.NullInt64
	StructureID sql.NullInt64
	HeatSinkID  sql.NullInt64
	GyroID      sql.NullInt64
	CockpitID   sql.NullInt64
	MyomerID    sql.NullInt64
	Unresolved  []string
}

// UpsertMechData writes the one mechanical-attributes row a mech owns.
// Raw labels are stored exactly as parsed alongside the resolved ids.
func (r *Repo) UpsertMechData(ctx context.Context, tx *sql.Tx, unitID int64, mech *models.MechAttributes, comp ResolvedComponents) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO unit_mech_data (
			unit_id, config, is_omni, engine_rating, walk_mp, jump_mp, heat_sink_count,
			engine_type, armor_type, structure_type, heat_sink_type,
			gyro_type, cockpit_type, myomer_type,
			engine_type_id, armor_type_id, structure_type_id, heat_sink_type_id,
			gyro_type_id, cockpit_type_id, myomer_type_id
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(unit_id) DO UPDATE SET
		  config = excluded.config,
		  is_omni = excluded.is_omni,
		  engine_rating = excluded.engine_rating,
		  walk_mp = excluded.walk_mp,
		  jump_mp = excluded.jump_mp,
		  heat_sink_count = excluded.heat_sink_count,
		  engine_type = excluded.engine_type,
		  armor_type = excluded.armor_type,
		  structure_type = excluded.structure_type,
		  heat_sink_type = excluded.heat_sink_type,
		  gyro_type = excluded.gyro_type,
		  cockpit_type = excluded.cockpit_type,
		  myomer_type = excluded.myomer_type,
		  engine_type_id = excluded.engine_type_id,
		  armor_type_id = excluded.armor_type_id,
		  structure_type_id = excluded.structure_type_id,
		  heat_sink_type_id = excluded.heat_sink_type_id,
		  gyro_type_id = excluded.gyro_type_id,
		  cockpit_type_id = excluded.cockpit_type_id,
		  myomer_type_id = excluded.myomer_type_id,
		  updated_at = datetime('now')`,
		unitID, nullString(mech.Config), mech.IsOmni,
		nullInt(mech.EngineRating), nullInt(mech.WalkMP), nullInt(mech.JumpMP),
		nullInt(mech.HeatSinkCount),
		nullString(mech.EngineType), nullString(mech.ArmorType),
		nullString(mech.StructureType), nullString(mech.HeatSinkType),
		nullString(mech.GyroType), nullString(mech.CockpitType), nullString(mech.MyomerType),
		comp.EngineID, comp.ArmorID, comp.StructureID, comp.HeatSinkID,
		comp.GyroID, comp.CockpitID, comp.MyomerID)
	if err != nil {
		return fmt.Errorf("upsert mech data for unit %d: %w", unitID, err)
	}
	return nil
}

// RefreshObservedLocations rebuilds each equipment row's aggregate of
// the locations it has been seen mounted in. Run once per batch, after
// all units have committed.
func (r *Repo) RefreshObservedLocations(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE equipment SET observed_locations = (
			SELECT json_group_array(location) FROM (
				SELECT DISTINCT location FROM unit_loadout
				WHERE equipment_id = equipment.id
				  AND location IS NOT NULL AND location != ''
				ORDER BY location
			)
		)
		WHERE id IN (SELECT DISTINCT equipment_id FROM unit_loadout)`)
	if err != nil {
		return 0, fmt.Errorf("refresh observed locations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullIntPtr(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
