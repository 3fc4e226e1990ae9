package parser

import (
	"path/filepath"
	"strconv"
	"strings"

	"mechbay/pkg/models"
)

// Format identifies which grammar an archive entry is written in.
type Format int

const (
	FormatUnknown Format = iota
	FormatMTF
	FormatBLK
)

// ClassifyPath decides which grammar parses an archive entry and the
// default unit category its directory implies. Mechs ship as .mtf, every
// other category as .blk; the category of a .blk is usually stated in the
// file itself, the directory name is only the fallback.
func ClassifyPath(path string) (Format, models.UnitType) {
	lower := strings.ToLower(path)

	switch filepath.Ext(lower) {
	case ".mtf":
		return FormatMTF, models.UnitTypeMech
	case ".blk":
		dir := filepath.Dir(lower)
		switch {
		case strings.Contains(dir, "vehicle") || strings.Contains(dir, "vee"):
			return FormatBLK, models.UnitTypeVehicle
		case strings.Contains(dir, "fighter") || strings.Contains(dir, "aero"):
			return FormatBLK, models.UnitTypeFighter
		default:
			return FormatBLK, models.UnitTypeOther
		}
	default:
		return FormatUnknown, models.UnitTypeOther
	}
}

// techBaseFromLabel normalizes free-text technology base labels.
// "Mixed (Clan Chassis)" counts as mixed, not clan.
func techBaseFromLabel(s string) models.TechBase {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "mixed"):
		return models.TechMixed
	case strings.Contains(lower, "clan") && !strings.Contains(lower, "inner"):
		return models.TechClan
	case strings.Contains(lower, "primitive"):
		return models.TechPrimitive
	default:
		return models.TechInnerSphere
	}
}

// rulesLevelFromInt maps the numeric `rules level:N` convention.
func rulesLevelFromInt(n int) models.RulesLevel {
	switch n {
	case 0:
		return models.RulesIntroductory
	case 1:
		return models.RulesStandard
	case 2:
		return models.RulesAdvanced
	case 3:
		return models.RulesExperimental
	case 4, 5:
		return models.RulesUnofficial
	default:
		return models.RulesStandard
	}
}

// rulesLevelFromTypeLabel maps the `<type>` strings like "IS Level 2".
// "Level 1" means tournament standard in this scheme, not introductory.
func rulesLevelFromTypeLabel(s string) models.RulesLevel {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "level 1"):
		return models.RulesStandard
	case strings.Contains(lower, "level 2"):
		return models.RulesAdvanced
	case strings.Contains(lower, "level 3"):
		return models.RulesExperimental
	case strings.Contains(lower, "unofficial"):
		return models.RulesUnofficial
	default:
		return models.RulesStandard
	}
}

// splitCountLabel splits values like "300 XL Engine" or "10 IS Double"
// into their leading count and the remaining label. Values without a
// numeric prefix return count 0 and the whole string.
func splitCountLabel(s string) (int, string) {
	first, rest, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		if n, err := strconv.Atoi(first); err == nil {
			return n, ""
		}
		return 0, first
	}
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0, strings.TrimSpace(s)
	}
	return n, strings.TrimSpace(rest)
}

func parseIntOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
