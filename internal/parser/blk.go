package parser

import (
	"strconv"
	"strings"

	"mechbay/pkg/models"
)

// ParseBLK parses one tag-delimited unit definition (vehicles, fighters
// and everything else that is not a mech). Returns nil when the block has
// no usable name or tonnage. The shape mirrors ParseMTF's output minus
// mechanical attributes, which this grammar does not carry.
func ParseBLK(raw []byte, defaultType models.UnitType) *models.ParsedUnit {
	tags := make(map[string]string)
	var equipment []blkEquipLine

	var (
		currentTag string
		buf        []string
	)

	for _, rawLine := range strings.Split(string(raw), "\n") {
		line := strings.TrimSpace(rawLine)
		if strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "</"):
			if currentTag == "" {
				continue
			}
			value := strings.TrimSpace(strings.Join(buf, "\n"))
			lowerTag := strings.ToLower(currentTag)
			if strings.HasSuffix(lowerTag, "equipment") {
				loc := strings.TrimSpace(strings.TrimSuffix(lowerTag, "equipment"))
				for _, eq := range strings.Split(value, "\n") {
					if eq = strings.TrimSpace(eq); eq != "" {
						equipment = append(equipment, blkEquipLine{loc: loc, name: eq})
					}
				}
			} else {
				tags[currentTag] = value
			}
			currentTag = ""
			buf = buf[:0]
		case strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">"):
			currentTag = line[1 : len(line)-1]
			buf = buf[:0]
		default:
			if currentTag != "" {
				buf = append(buf, line)
			}
		}
	}

	chassis := tagValue(tags, "Name")
	if chassis == "" {
		return nil
	}
	tonnage, err := strconv.ParseFloat(tagValue(tags, "tonnage"), 64)
	if err != nil {
		return nil
	}

	unit := &models.ParsedUnit{
		Chassis:  chassis,
		Model:    tagValue(tags, "Model"),
		Tonnage:  tonnage,
		Source:   tagValue(tags, "source"),
		UnitType: blkUnitType(tagValue(tags, "UnitType"), defaultType),
	}

	if id, err := strconv.ParseInt(tagValue(tags, "mul id:"), 10, 64); err == nil {
		unit.MulID = id
	} else if id, err := strconv.ParseInt(tagValue(tags, "mul id"), 10, 64); err == nil {
		unit.MulID = id
	}
	unit.IntroYear = parseIntOrZero(tagValue(tags, "year"))

	typeLabel := tagValue(tags, "type")
	unit.TechBase = techBaseFromLabel(typeLabel)
	unit.RulesLevel = rulesLevelFromTypeLabel(typeLabel)

	if v := tagValue(tags, "overview"); v != "" {
		unit.Description = strings.Trim(v, `"`)
	}

	for _, q := range strings.Split(tagValue(tags, "quirks"), "\n") {
		if q = strings.TrimSpace(q); q != "" {
			unit.Quirks = append(unit.Quirks, q)
		}
	}

	for _, eq := range equipment {
		addLoadout(&unit.Loadout, models.LoadoutEntry{
			Equipment: eq.name,
			Location:  blkLocationName(eq.loc),
			Quantity:  1,
		})
	}

	unit.Locations = blkArmorLocations(
		tagValue(tags, "armor"),
		unit.UnitType,
		strings.ToLower(tagValue(tags, "motion_type")),
		strings.ToLower(tagValue(tags, "UnitType")),
	)

	return unit
}

type blkEquipLine struct {
	loc  string
	name string
}

// tagValue looks a tag up by its conventional casing first, then
// case-insensitively; files in the wild disagree on capitalization.
func tagValue(tags map[string]string, name string) string {
	if v, ok := tags[name]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range tags {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func blkUnitType(s string, fallback models.UnitType) models.UnitType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tank", "vtol", "naval", "hover", "wheeled", "tracked",
		"wheeled vehicle", "tracked vehicle", "hover vehicle":
		return models.UnitTypeVehicle
	case "aero", "aerospacefighter", "aerospace fighter", "conv_fighter", "conventional fighter":
		return models.UnitTypeFighter
	default:
		return fallback
	}
}

func blkLocationName(loc string) string {
	switch loc {
	case "front":
		return "front"
	case "rear":
		return "rear"
	case "right":
		return "right_side"
	case "left":
		return "left_side"
	case "turret":
		return "turret"
	case "body":
		return "body"
	case "nose":
		return "nose"
	case "left wing":
		return "left_wing"
	case "right wing":
		return "right_wing"
	case "aft":
		return "aft"
	case "fuselage":
		return "fuselage"
	case "rotor":
		return "rotor"
	case "left arm":
		return "left_arm"
	case "right arm":
		return "right_arm"
	default:
		return ""
	}
}

// blkArmorLocations maps the positional <armor> number list onto named
// locations. The order is fixed per category: ground vehicles run
// front/right/left/rear plus an optional turret, VTOLs swap the turret
// for a rotor, fighters run nose/wings/aft. Value lists that fit no
// known layout are dropped rather than guessed at.
func blkArmorLocations(armorTag string, ut models.UnitType, motion, unitTypeTag string) []models.LocationEntry {
	if armorTag == "" {
		return nil
	}

	var values []int
	for _, line := range strings.Split(armorTag, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil
		}
		values = append(values, n)
	}
	if len(values) == 0 {
		return nil
	}

	var order []string
	switch {
	case ut == models.UnitTypeFighter:
		order = []string{"nose", "right_wing", "left_wing", "aft"}
	case motion == "vtol" || unitTypeTag == "vtol":
		order = []string{"front", "right_side", "left_side", "rear", "rotor"}
	case ut == models.UnitTypeVehicle:
		order = []string{"front", "right_side", "left_side", "rear", "turret"}
	default:
		return nil
	}
	if len(values) > len(order) {
		return nil
	}

	out := make([]models.LocationEntry, 0, len(values))
	for i, v := range values {
		out = append(out, models.LocationEntry{Location: order[i], Armor: v})
	}
	return out
}
