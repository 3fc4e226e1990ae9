package parser

import (
	"strconv"
	"strings"

	"mechbay/pkg/models"
)

// ParseMTF parses one line-oriented mech definition. It returns nil when
// the block cannot be interpreted as a unit (no chassis name or tonnage);
// callers count that and move on, a bad file never aborts a batch.
//
// The grammar is `key:value` per line, with three special shapes folded
// in: location armor lines ("LA armor:34"), a weapons section opened by
// "Weapons:N", and critical-slot blocks opened by a bare location header
// ("Left Arm:").
func ParseMTF(raw []byte) *models.ParsedUnit {
	unit := &models.ParsedUnit{
		UnitType:   models.UnitTypeMech,
		TechBase:   models.TechInnerSphere,
		RulesLevel: models.RulesStandard,
		Mech:       &models.MechAttributes{},
	}

	// armor points by short location code; value = (front, rear)
	armor := make(map[string]*armorPoints)

	var (
		weapons    []models.LoadoutEntry // from the Weapons:N section
		critItems  []models.LoadoutEntry // from critical-slot blocks
		currentLoc string
		inWeapons  bool
		hasTonnage bool
	)

	for _, rawLine := range strings.Split(string(raw), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Weapon lines follow "Weapons:N" and always carry a comma:
		// "Medium Laser, Left Arm" or "2 LRM 20, Left Torso (R)".
		if inWeapons {
			if strings.Contains(line, ",") {
				parseWeaponLine(line, &weapons)
				continue
			}
			inWeapons = false
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			// continuation line inside a critical-slot block
			if currentLoc != "" {
				addCritItem(&critItems, line, currentLoc)
			}
			continue
		}

		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		val := strings.TrimSpace(line[colon+1:])

		// bare "Left Arm:" style lines open a critical-slot block
		if val == "" {
			currentLoc = mtfLocationName(key)
			continue
		}
		currentLoc = ""

		switch key {
		case "chassis":
			unit.Chassis = val
		case "model":
			unit.Model = val
		case "mul id":
			if id, err := strconv.ParseInt(val, 10, 64); err == nil {
				unit.MulID = id
			}
		case "config":
			unit.Mech.Config = val
			unit.Mech.IsOmni = strings.Contains(strings.ToLower(val), "omnimech")
		case "techbase", "tech base":
			unit.TechBase = techBaseFromLabel(val)
		case "era":
			unit.IntroYear = parseIntOrZero(val)
		case "source":
			unit.Source = val
		case "rules level":
			unit.RulesLevel = rulesLevelFromInt(parseIntOrZero(val))
		case "mass":
			if t, err := strconv.ParseFloat(val, 64); err == nil {
				unit.Tonnage = t
				hasTonnage = true
			}
		case "engine":
			rating, label := splitCountLabel(val)
			unit.Mech.EngineRating = rating
			unit.Mech.EngineType = label
		case "structure":
			unit.Mech.StructureType = val
		case "myomer":
			unit.Mech.MyomerType = val
		case "gyro":
			unit.Mech.GyroType = val
		case "cockpit":
			unit.Mech.CockpitType = val
		case "heat sinks", "heatsinks":
			count, label := splitCountLabel(val)
			unit.Mech.HeatSinkCount = count
			unit.Mech.HeatSinkType = label
		case "walk mp":
			unit.Mech.WalkMP = parseIntOrZero(val)
		case "jump mp":
			unit.Mech.JumpMP = parseIntOrZero(val)
		case "armor":
			unit.Mech.ArmorType = val
		case "quirk":
			unit.Quirks = append(unit.Quirks, val)
		case "overview":
			unit.Description = strings.Trim(val, `"`)
		case "weapons":
			inWeapons = true
		}

		// armor point lines like "LA armor:34"; rear torso codes fold
		// into the rear value of their facing location
		if code, ok := strings.CutSuffix(key, " armor"); ok {
			pts := parseIntOrZero(val)
			switch strings.ToUpper(strings.TrimSpace(code)) {
			case "RTL":
				armorAt(armor, "LT").rear = &pts
			case "RTR":
				armorAt(armor, "RT").rear = &pts
			case "RTC":
				armorAt(armor, "CT").rear = &pts
			default:
				armorAt(armor, strings.ToUpper(strings.TrimSpace(code))).front = pts
			}
		}
	}

	if unit.Chassis == "" || !hasTonnage {
		return nil
	}

	unit.Locations = buildMechLocations(armor)
	unit.Loadout = mergeMTFLoadout(weapons, critItems)
	return unit
}

type armorPoints struct {
	front int
	rear  *int
	seen  bool
}

func armorAt(m map[string]*armorPoints, code string) *armorPoints {
	if p, ok := m[code]; ok {
		p.seen = true
		return p
	}
	p := &armorPoints{seen: true}
	m[code] = p
	return p
}

// mtfArmorCodes fixes the canonical location order. Quad and tripod legs
// come after the biped set so biped files keep their familiar ordering.
var mtfArmorCodes = []struct {
	code string
	name string
}{
	{"LA", "left_arm"},
	{"RA", "right_arm"},
	{"LT", "left_torso"},
	{"RT", "right_torso"},
	{"CT", "center_torso"},
	{"HD", "head"},
	{"LL", "left_leg"},
	{"RL", "right_leg"},
	{"FLL", "front_left_leg"},
	{"FRL", "front_right_leg"},
	{"RLL", "rear_left_leg"},
	{"RRL", "rear_right_leg"},
	{"CL", "center_leg"},
}

func buildMechLocations(armor map[string]*armorPoints) []models.LocationEntry {
	var out []models.LocationEntry
	for _, m := range mtfArmorCodes {
		p, ok := armor[m.code]
		if !ok || !p.seen {
			continue
		}
		out = append(out, models.LocationEntry{
			Location:  m.name,
			Armor:     p.front,
			RearArmor: p.rear,
		})
	}
	return out
}

func mtfLocationName(key string) string {
	switch key {
	case "left arm":
		return "left_arm"
	case "right arm":
		return "right_arm"
	case "left torso":
		return "left_torso"
	case "right torso":
		return "right_torso"
	case "center torso":
		return "center_torso"
	case "head":
		return "head"
	case "left leg":
		return "left_leg"
	case "right leg":
		return "right_leg"
	case "front left leg":
		return "front_left_leg"
	case "front right leg":
		return "front_right_leg"
	case "rear left leg":
		return "rear_left_leg"
	case "rear right leg":
		return "rear_right_leg"
	case "center leg":
		return "center_leg"
	default:
		return ""
	}
}

// parseWeaponLine handles "[qty] name, location [(R)] [, Ammo:N]".
func parseWeaponLine(line string, out *[]models.LoadoutEntry) {
	parts := strings.SplitN(line, ",", 3)
	if len(parts) < 2 {
		return
	}

	qty := 1
	name := strings.TrimSpace(parts[0])
	if first, rest, ok := strings.Cut(name, " "); ok {
		if n, err := strconv.Atoi(first); err == nil && n > 0 {
			qty = n
			name = strings.TrimSpace(rest)
		}
	}
	name = stripAnnotations(name)
	if name == "" || name == "-Empty-" {
		return
	}

	rawLoc := strings.TrimSpace(parts[1])
	isRear := strings.HasSuffix(rawLoc, "(R)")
	loc := mtfLocationName(strings.ToLower(strings.TrimSpace(strings.TrimSuffix(rawLoc, "(R)"))))

	addLoadout(out, models.LoadoutEntry{
		Equipment: name,
		Location:  loc,
		Quantity:  qty,
		IsRear:    isRear,
	})
}

func addCritItem(out *[]models.LoadoutEntry, line, loc string) {
	isRear := strings.HasSuffix(line, "(R)")
	name := stripAnnotations(strings.TrimSuffix(line, "(R)"))
	if name == "" || name == "-Empty-" || isStructuralSlot(name) {
		return
	}
	addLoadout(out, models.LoadoutEntry{
		Equipment: name,
		Location:  loc,
		Quantity:  1,
		IsRear:    isRear,
	})
}

// mergeMTFLoadout combines the two views of a mech's gear. The weapons
// section is authoritative for anything it lists (one line per weapon
// regardless of slot count); critical slots contribute what it omits,
// like ammo bins and jump jets, at one unit per slot.
func mergeMTFLoadout(weapons, critItems []models.LoadoutEntry) []models.LoadoutEntry {
	out := append([]models.LoadoutEntry(nil), weapons...)

	for _, item := range critItems {
		listed := false
		for _, w := range weapons {
			if strings.EqualFold(w.Equipment, item.Equipment) &&
				w.Location == item.Location && w.IsRear == item.IsRear {
				listed = true
				break
			}
		}
		if listed {
			continue
		}
		addLoadout(&out, item)
	}
	return out
}

func addLoadout(out *[]models.LoadoutEntry, entry models.LoadoutEntry) {
	for i := range *out {
		e := &(*out)[i]
		if e.Equipment == entry.Equipment && e.Location == entry.Location && e.IsRear == entry.IsRear {
			e.Quantity += entry.Quantity
			return
		}
	}
	*out = append(*out, entry)
}

// stripAnnotations removes inline markers that are not part of the
// equipment identity, like the omnipod flag on pod-mounted gear.
func stripAnnotations(name string) string {
	name = strings.TrimSpace(name)
	for _, suffix := range []string{"(omnipod)", "(OMNIPOD)"} {
		name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
	}
	return name
}

var structuralSlots = map[string]bool{
	"Shoulder":                true,
	"Upper Arm Actuator":      true,
	"Lower Arm Actuator":      true,
	"Hand Actuator":           true,
	"Hip":                     true,
	"Upper Leg Actuator":      true,
	"Lower Leg Actuator":      true,
	"Foot Actuator":           true,
	"Life Support":            true,
	"Sensors":                 true,
	"Cockpit":                 true,
	"Gyro":                    true,
	"Compact Gyro":            true,
	"Heavy Duty Gyro":         true,
	"XL Gyro":                 true,
	"Fusion Engine":           true,
	"XL Engine":               true,
	"Light Engine":            true,
	"Compact Engine":          true,
	"Primitive Fusion Engine": true,
	"ICE Engine":              true,
	"-Empty-":                 true,
}

// isStructuralSlot filters critical-slot fillers that are chassis
// structure rather than mounted equipment.
func isStructuralSlot(s string) bool {
	if structuralSlots[s] {
		return true
	}
	return strings.Contains(s, "Engine") ||
		strings.Contains(s, "Endo Steel") ||
		strings.Contains(s, "Ferro-Fibrous") ||
		strings.Contains(s, "Reactive Armor") ||
		strings.Contains(s, "Stealth Armor") ||
		strings.Contains(s, "CASE")
}
