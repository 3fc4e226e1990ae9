package parser

import (
	"strings"

	"mechbay/pkg/models"
)

// CategorizeEquipment infers a coarse equipment category from a display
// name. The buckets exist for browsing and reporting; they are not
// construction rules, so a miss lands in the generic bucket rather than
// failing.
func CategorizeEquipment(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "ammo"):
		return "ammunition"
	case strings.Contains(lower, "heat sink"):
		return "heat_sink"
	case strings.Contains(lower, "jump jet"):
		return "jump_jet"
	case strings.Contains(lower, "targeting computer"):
		return "targeting_computer"
	case strings.Contains(lower, "gyro"):
		return "gyro"
	case strings.Contains(lower, "cockpit"):
		return "cockpit"
	case strings.Contains(lower, "endo steel"), strings.Contains(lower, "structure"):
		return "structure"
	case strings.Contains(lower, "ferro"), strings.Contains(lower, "reactive armor"),
		strings.Contains(lower, "stealth"):
		return "armor"
	case strings.Contains(lower, "engine"):
		return "engine"
	case strings.Contains(lower, "laser"), strings.Contains(lower, "ppc"),
		strings.Contains(lower, "flamer"), strings.Contains(lower, "plasma rifle"):
		return "energy_weapon"
	case strings.Contains(lower, "lrm"), strings.Contains(lower, "srm"),
		strings.Contains(lower, "streak"), strings.Contains(lower, "narc"),
		strings.Contains(lower, "ams"), strings.Contains(lower, "mml"),
		strings.Contains(lower, "atm"), strings.Contains(lower, "rocket"),
		strings.Contains(lower, "arrow"), strings.Contains(lower, "thunderbolt"):
		return "missile_weapon"
	case strings.Contains(lower, "autocannon"), strings.Contains(lower, "ac/"),
		strings.Contains(lower, "gauss"), strings.Contains(lower, "rifle"),
		strings.Contains(lower, "lbx"), strings.Contains(lower, "lb-x"),
		strings.Contains(lower, "lb "), strings.Contains(lower, "ultra"),
		strings.Contains(lower, "rotary"), strings.Contains(lower, "hag"):
		return "ballistic_weapon"
	default:
		return "equipment"
	}
}

// EquipmentTechBase infers the technology base of a piece of gear from
// its naming convention: simulator names prefix Clan gear with "CL" or
// "Clan", everything else defaults to Inner Sphere.
func EquipmentTechBase(name string) models.TechBase {
	if strings.HasPrefix(name, "CL") || strings.HasPrefix(strings.ToLower(name), "clan") {
		return models.TechClan
	}
	return models.TechInnerSphere
}
