package refdata

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedStats reports how many rows a seeding pass actually inserted.
// Re-running against an already seeded database yields all zeros.
type SeedStats struct {
	Components int
	Aliases    int
	Eras       int
	Factions   int
}

// SeedAll loads every catalog, the alias tables, eras and factions in
// one transaction, then records the dataset version. Inserts are
// keyed on slug and skip existing rows, so seeding is safe to repeat
// at every startup.
func SeedAll(ctx context.Context, db *sql.DB) (SeedStats, error) {
	var stats SeedStats

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	seeders := []func(context.Context, *sql.Tx) (int, int, error){
		seedEngines,
		seedArmor,
		seedStructure,
		seedHeatSinks,
		seedGyros,
		seedCockpits,
		seedMyomers,
	}
	for _, seed := range seeders {
		components, aliases, err := seed(ctx, tx)
		if err != nil {
			return stats, err
		}
		stats.Components += components
		stats.Aliases += aliases
	}

	if stats.Eras, err = seedEras(ctx, tx); err != nil {
		return stats, err
	}
	if stats.Factions, err = seedFactions(ctx, tx); err != nil {
		return stats, err
	}

	for key, value := range map[string]string{
		"refdata_version": Version,
		"schema_version":  "1",
	} {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO dataset_metadata (key, value, updated_at)
			VALUES (?, ?, datetime('now'))
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
			key, value)
		if err != nil {
			return stats, fmt.Errorf("record %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit seed tx: %w", err)
	}
	return stats, nil
}

func seedEngines(ctx context.Context, tx *sql.Tx) (int, int, error) {
	var components, aliases int
	for _, e := range EngineTypes {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO engine_types
			(slug, name, tech_base, rules_level, weight_multiplier, ct_crits, side_crits, intro_year)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Slug, e.Name, nullString(string(e.TechBase)), string(e.RulesLevel),
			e.WeightMultiplier, e.CTCrits, e.SideCrits, nullInt(e.IntroYear))
		if err != nil {
			return components, aliases, fmt.Errorf("seed engine %s: %w", e.Slug, err)
		}
		components += rowsAffected(res)

		n, err := seedAliases(ctx, tx, CategoryEngine, e.Slug, e.Aliases)
		if err != nil {
			return components, aliases, err
		}
		aliases += n
	}
	return components, aliases, nil
}

func seedArmor(ctx context.Context, tx *sql.Tx) (int, int, error) {
	var components, aliases int
	for _, a := range ArmorTypes {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO armor_types
			(slug, name, tech_base, rules_level, points_per_ton, crits, intro_year)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.Slug, a.Name, nullString(string(a.TechBase)), string(a.RulesLevel),
			a.PointsPerTon, a.Crits, nullInt(a.IntroYear))
		if err != nil {
			return components, aliases, fmt.Errorf("seed armor %s: %w", a.Slug, err)
		}
		components += rowsAffected(res)

		n, err := seedAliases(ctx, tx, CategoryArmor, a.Slug, a.Aliases)
		if err != nil {
			return components, aliases, err
		}
		aliases += n
	}
	return components, aliases, nil
}

func seedStructure(ctx context.Context, tx *sql.Tx) (int, int, error) {
	var components, aliases int
	for _, s := range StructureTypes {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO structure_types
			(slug, name, tech_base, rules_level, weight_fraction, crits, intro_year)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.Slug, s.Name, nullString(string(s.TechBase)), string(s.RulesLevel),
			s.WeightFraction, s.Crits, nullInt(s.IntroYear))
		if err != nil {
			return components, aliases, fmt.Errorf("seed structure %s: %w", s.Slug, err)
		}
		components += rowsAffected(res)

		n, err := seedAliases(ctx, tx, CategoryStructure, s.Slug, s.Aliases)
		if err != nil {
			return components, aliases, err
		}
		aliases += n
	}
	return components, aliases, nil
}

func seedHeatSinks(ctx context.Context, tx *sql.Tx) (int, int, error) {
	var components, aliases int
	for _, h := range HeatSinkTypes {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO heat_sink_types
			(slug, name, tech_base, rules_level, dissipation, crits, weight, intro_year)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			h.Slug, h.Name, nullString(string(h.TechBase)), string(h.RulesLevel),
			h.Dissipation, h.Crits, h.Weight, nullInt(h.IntroYear))
		if err != nil {
			return components, aliases, fmt.Errorf("seed heat sink %s: %w", h.Slug, err)
		}
		components += rowsAffected(res)

		n, err := seedAliases(ctx, tx, CategoryHeatSink, h.Slug, h.Aliases)
		if err != nil {
			return components, aliases, err
		}
		aliases += n
	}
	return components, aliases, nil
}

func seedGyros(ctx context.Context, tx *sql.Tx) (int, int, error) {
	var components, aliases int
	for _, g := range GyroTypes {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO gyro_types
			(slug, name, rules_level, weight_multiplier, crits, intro_year)
			VALUES (?, ?, ?, ?, ?, ?)`,
			g.Slug, g.Name, string(g.RulesLevel),
			g.WeightMultiplier, g.Crits, nullInt(g.IntroYear))
		if err != nil {
			return components, aliases, fmt.Errorf("seed gyro %s: %w", g.Slug, err)
		}
		components += rowsAffected(res)

		n, err := seedAliases(ctx, tx, CategoryGyro, g.Slug, g.Aliases)
		if err != nil {
			return components, aliases, err
		}
		aliases += n
	}
	return components, aliases, nil
}

func seedCockpits(ctx context.Context, tx *sql.Tx) (int, int, error) {
	var components, aliases int
	for _, c := range CockpitTypes {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO cockpit_types
			(slug, name, rules_level, weight, crits, intro_year)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.Slug, c.Name, string(c.RulesLevel),
			c.Weight, c.Crits, nullInt(c.IntroYear))
		if err != nil {
			return components, aliases, fmt.Errorf("seed cockpit %s: %w", c.Slug, err)
		}
		components += rowsAffected(res)

		n, err := seedAliases(ctx, tx, CategoryCockpit, c.Slug, c.Aliases)
		if err != nil {
			return components, aliases, err
		}
		aliases += n
	}
	return components, aliases, nil
}

func seedMyomers(ctx context.Context, tx *sql.Tx) (int, int, error) {
	var components, aliases int
	for _, m := range MyomerTypes {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO myomer_types
			(slug, name, rules_level, intro_year, properties)
			VALUES (?, ?, ?, ?, ?)`,
			m.Slug, m.Name, string(m.RulesLevel), nullInt(m.IntroYear), m.Properties)
		if err != nil {
			return components, aliases, fmt.Errorf("seed myomer %s: %w", m.Slug, err)
		}
		components += rowsAffected(res)

		n, err := seedAliases(ctx, tx, CategoryMyomer, m.Slug, m.Aliases)
		if err != nil {
			return components, aliases, err
		}
		aliases += n
	}
	return components, aliases, nil
}

// seedAliases inserts each alias pointing at the component identified
// by slug. The component row must already exist in this transaction.
func seedAliases(ctx context.Context, tx *sql.Tx, cat Category, slug string, names []string) (int, error) {
	spec := categorySpecs[cat]

	var id int64
	query := fmt.Sprintf("SELECT id FROM %s WHERE slug = ?", spec.table)
	if err := tx.QueryRowContext(ctx, query, slug).Scan(&id); err != nil {
		return 0, fmt.Errorf("look up %s %s: %w", cat, slug, err)
	}

	insert := fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (alias, %s) VALUES (?, ?)",
		spec.aliasTable, spec.fkColumn)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("prepare %s alias insert: %w", cat, err)
	}
	defer stmt.Close()

	var count int
	for _, alias := range names {
		res, err := stmt.ExecContext(ctx, alias, id)
		if err != nil {
			return count, fmt.Errorf("seed %s alias %q: %w", cat, alias, err)
		}
		count += rowsAffected(res)
	}
	return count, nil
}

func seedEras(ctx context.Context, tx *sql.Tx) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO eras (slug, name, start_year, end_year, description)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare era insert: %w", err)
	}
	defer stmt.Close()

	var count int
	for _, e := range Eras {
		res, err := stmt.ExecContext(ctx, e.Slug, e.Name, e.StartYear, nullInt(e.EndYear), e.Description)
		if err != nil {
			return count, fmt.Errorf("seed era %s: %w", e.Slug, err)
		}
		count += rowsAffected(res)
	}
	return count, nil
}

func seedFactions(ctx context.Context, tx *sql.Tx) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO factions (slug, name, short_name, faction_type, is_clan)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare faction insert: %w", err)
	}
	defer stmt.Close()

	var count int
	for _, f := range Factions {
		res, err := stmt.ExecContext(ctx, f.Slug, f.Name, nullString(f.ShortName), f.FactionType, f.IsClan)
		if err != nil {
			return count, fmt.Errorf("seed faction %s: %w", f.Slug, err)
		}
		count += rowsAffected(res)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func rowsAffected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
