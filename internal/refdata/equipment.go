package refdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// EquipmentStats is one entry of the curated equipment stats file.
// Every field except the slug is optional; nil means the file does not
// know the value and existing data is left alone.
type EquipmentStats struct {
	Slug        string   `json:"slug"`
	Tonnage     *float64 `json:"tonnage"`
	Crits       *int     `json:"crits"`
	Damage      *string  `json:"damage"`
	Heat        *int     `json:"heat"`
	RangeMin    *int     `json:"range_min"`
	RangeShort  *int     `json:"range_short"`
	RangeMedium *int     `json:"range_medium"`
	RangeLong   *int     `json:"range_long"`
	BattleValue *int     `json:"bv"`
}

// equipmentSlugAliases bridges the two slug conventions in play: the
// stats file uses human-readable slugs like "clan-er-large-laser" while
// rows created from simulator files carry slugs derived from internal
// names, like "clerlargelaser". Exact slug match is always tried first.
var equipmentSlugAliases = map[string]string{
	// Clan energy weapons
	"clan-er-large-laser":     "clerlargelaser",
	"clan-er-medium-laser":    "clermediumlaser",
	"clan-er-small-laser":     "clersmalllaser",
	"clan-er-ppc":             "clerppc",
	"clan-large-pulse-laser":  "cllargepulselaser",
	"clan-medium-pulse-laser": "clmediumpulselaser",
	"clan-small-pulse-laser":  "clsmallpulselaser",
	"clan-er-flamer":          "clerflamer",
	"clan-plasma-cannon":      "clplasmacannon",
	// IS pulse lasers
	"pulse-large-laser":  "islargepulselaser",
	"pulse-medium-laser": "ismediumpulselaser",
	"pulse-small-laser":  "issmallpulselaser",
	// IS ballistic weapons
	"ultra-autocannon-2":  "isultraac2",
	"ultra-autocannon-5":  "isultraac5",
	"ultra-autocannon-10": "isultraac10",
	"ultra-autocannon-20": "isultraac20",
	"rotary-autocannon-5": "isrotaryac5",
	"light-autocannon-5":  "light-ac-5",
	// Clan ballistic weapons
	"clan-ultra-autocannon-2":  "clultraac2",
	"clan-ultra-autocannon-5":  "clultraac5",
	"clan-ultra-autocannon-10": "clultraac10",
	"clan-ultra-autocannon-20": "clultraac20",
	"clan-lb-2-x-ac":           "cllbxac2",
	"clan-lb-5-x-ac":           "cllbxac5",
	"clan-lb-10-x-ac":          "cllbxac10",
	"clan-lb-20-x-ac":          "cllbxac20",
	"clan-gauss-rifle":         "clgaussrifle",
	// Clan missile weapons
	"clan-srm-2":        "clsrm2",
	"clan-srm-4":        "clsrm4",
	"clan-srm-6":        "clsrm6",
	"clan-lrm-5":        "cllrm5",
	"clan-lrm-10":       "cllrm10",
	"clan-lrm-15":       "cllrm15",
	"clan-lrm-20":       "cllrm20",
	"clan-streak-srm-2": "clstreaksrm2",
	"clan-streak-srm-4": "clstreaksrm4",
	"clan-streak-srm-6": "clstreaksrm6",
	"clan-arrow-iv":     "clarrowiv",
	// IS missile
	"narc-missile-beacon": "narc",
	// Electronics and other equipment
	"guardian-ecm-suite":       "isguardianecmsuite",
	"clan-ecm-suite":           "clecmsuite",
	"beagle-active-probe":      "beagleactiveprobe",
	"clan-active-probe":        "clactiveprobe",
	"clan-anti-missile-system": "clantimissilesystem",
	"targeting-computer":       "istargeting-computer",
	"artemis-iv-fcs":           "isartemisiv",
	"c3-master-computer":       "isc3mastercomputer",
	"c3-slave-unit":            "isc3slaveunit",
}

// EquipmentSeedStats reports the outcome of one stats seeding pass.
type EquipmentSeedStats struct {
	Updated   int
	AliasHits int
	NotFound  int
	Unchanged int
}

// SeedEquipmentStats folds a curated stats file into existing equipment
// rows. Rows are matched by slug, with the alias bridge as fallback;
// stats never create equipment rows. Without force only NULL columns
// are filled, so observed data always wins over the seed file.
func SeedEquipmentStats(ctx context.Context, db *sql.DB, log *logrus.Logger, path string, force bool) (EquipmentSeedStats, error) {
	var stats EquipmentSeedStats

	content, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("read equipment stats: %w", err)
	}
	var entries []EquipmentStats
	if err := json.Unmarshal(content, &entries); err != nil {
		return stats, fmt.Errorf("parse equipment stats: %w", err)
	}
	log.Infof("loaded %d equipment stats entries", len(entries))

	for _, entry := range entries {
		id, viaAlias, err := findEquipmentID(ctx, db, entry.Slug)
		if err != nil {
			return stats, err
		}
		if id == 0 {
			log.Warnf("no matching equipment row for %q", entry.Slug)
			stats.NotFound++
			continue
		}
		if viaAlias {
			stats.AliasHits++
		}

		var res sql.Result
		if force {
			res, err = db.ExecContext(ctx, `
				UPDATE equipment SET
					tonnage = ?, crits = ?, damage = ?, heat = ?,
					range_min = ?, range_short = ?, range_medium = ?, range_long = ?,
					battle_value = ?,
					stats_source = 'seed',
					stats_updated_at = datetime('now')
				WHERE id = ?`,
				entry.Tonnage, entry.Crits, entry.Damage, entry.Heat,
				entry.RangeMin, entry.RangeShort, entry.RangeMedium, entry.RangeLong,
				entry.BattleValue, id)
		} else {
			res, err = db.ExecContext(ctx, `
				UPDATE equipment SET
					tonnage = COALESCE(tonnage, ?),
					crits = COALESCE(crits, ?),
					damage = COALESCE(damage, ?),
					heat = COALESCE(heat, ?),
					range_min = COALESCE(range_min, ?),
					range_short = COALESCE(range_short, ?),
					range_medium = COALESCE(range_medium, ?),
					range_long = COALESCE(range_long, ?),
					battle_value = COALESCE(battle_value, ?),
					stats_source = COALESCE(stats_source, 'seed'),
					stats_updated_at = COALESCE(stats_updated_at, datetime('now'))
				WHERE id = ?
				  AND (tonnage IS NULL OR crits IS NULL OR damage IS NULL
				       OR heat IS NULL OR range_min IS NULL OR range_short IS NULL
				       OR range_medium IS NULL OR range_long IS NULL OR battle_value IS NULL)`,
				entry.Tonnage, entry.Crits, entry.Damage, entry.Heat,
				entry.RangeMin, entry.RangeShort, entry.RangeMedium, entry.RangeLong,
				entry.BattleValue, id)
		}
		if err != nil {
			return stats, fmt.Errorf("update stats for %s: %w", entry.Slug, err)
		}
		if rowsAffected(res) > 0 {
			stats.Updated++
		} else {
			stats.Unchanged++
		}
	}

	log.Infof("✅ equipment stats: %d updated, %d via alias, %d unchanged, %d not found",
		stats.Updated, stats.AliasHits, stats.Unchanged, stats.NotFound)
	return stats, nil
}

func findEquipmentID(ctx context.Context, db *sql.DB, slug string) (int64, bool, error) {
	var id int64
	err := db.QueryRowContext(ctx, "SELECT id FROM equipment WHERE slug = ?", slug).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("look up equipment %s: %w", slug, err)
	}

	alt, ok := equipmentSlugAliases[slug]
	if !ok {
		return 0, false, nil
	}
	err = db.QueryRowContext(ctx, "SELECT id FROM equipment WHERE slug = ?", alt).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("look up equipment %s: %w", alt, err)
	}
	return id, true, nil
}
