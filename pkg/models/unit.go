package models

// UnitType is the broad category a unit belongs to. It is part of chassis
// identity: the same chassis name in two categories is two different chassis.
type UnitType string

const (
	UnitTypeMech    UnitType = "mech"
	UnitTypeVehicle UnitType = "vehicle"
	UnitTypeFighter UnitType = "fighter"
	UnitTypeOther   UnitType = "other"
)

// TechBase describes which technology tree a design is built on.
type TechBase string

const (
	TechInnerSphere TechBase = "inner_sphere"
	TechClan        TechBase = "clan"
	TechMixed       TechBase = "mixed"
	TechPrimitive   TechBase = "primitive"
)

// RulesLevel is the tournament legality tier of a design.
type RulesLevel string

const (
	RulesIntroductory RulesLevel = "introductory"
	RulesStandard     RulesLevel = "standard"
	RulesAdvanced     RulesLevel = "advanced"
	RulesExperimental RulesLevel = "experimental"
	RulesUnofficial   RulesLevel = "unofficial"
)

// ParsedUnit is the normalized, internal form of one unit definition
// as produced by the format parsers.
//
// Both input grammars are mapped into this structure first, then the
// ingestion pipeline writes to the DB from this representation. Zero
// values mean "not present in the source file"; Mech is nil for every
// category except mechs.
type ParsedUnit struct {
	Chassis     string          `json:"chassis"`            // base chassis name, e.g. "Atlas"
	Model       string          `json:"model"`              // variant designator, e.g. "AS7-D" (may be empty)
	MulID       int64           `json:"mul_id,omitempty"`   // external catalog id (0 = unknown)
	UnitType    UnitType        `json:"unit_type"`
	TechBase    TechBase        `json:"tech_base"`
	RulesLevel  RulesLevel      `json:"rules_level,omitempty"`
	IntroYear   int             `json:"intro_year,omitempty"`
	Source      string          `json:"source,omitempty"` // source book reference
	Tonnage     float64         `json:"tonnage,omitempty"`
	Locations   []LocationEntry `json:"locations,omitempty"`
	Loadout     []LoadoutEntry  `json:"loadout,omitempty"`
	Quirks      []string        `json:"quirks,omitempty"`
	Description string          `json:"description,omitempty"`
	Mech        *MechAttributes `json:"mech,omitempty"`
}

// FullName is the display name identity of the variant: chassis plus
// model designator, model-less units collapse to just the chassis.
func (u *ParsedUnit) FullName() string {
	if u.Model == "" {
		return u.Chassis
	}
	return u.Chassis + " " + u.Model
}

// LocationEntry is one body location's armor allocation. RearArmor and
// Structure stay nil when the source format does not carry them (rear
// armor exists only on torso locations, structure only when listed).
type LocationEntry struct {
	Location  string `json:"location"`
	Armor     int    `json:"armor"`
	RearArmor *int   `json:"rear_armor,omitempty"`
	Structure *int   `json:"structure,omitempty"`
}

// LoadoutEntry is one equipment placement on a unit. Location may be
// empty when the source lists gear without a mount point.
type LoadoutEntry struct {
	Equipment string `json:"equipment"`
	Location  string `json:"location,omitempty"`
	Quantity  int    `json:"quantity"`
	IsRear    bool   `json:"is_rear,omitempty"`
}

// MechAttributes are the mechanical-configuration fields that only the
// line-oriented mech format carries. Component type fields hold the raw
// label exactly as read; resolution to canonical catalog entries happens
// later and never rewrites these.
type MechAttributes struct {
	Config        string `json:"config,omitempty"` // "Biped", "Quad", ...
	IsOmni        bool   `json:"is_omni,omitempty"`
	EngineRating  int    `json:"engine_rating,omitempty"`
	EngineType    string `json:"engine_type,omitempty"`
	WalkMP        int    `json:"walk_mp,omitempty"`
	JumpMP        int    `json:"jump_mp,omitempty"`
	HeatSinkCount int    `json:"heat_sink_count,omitempty"`
	HeatSinkType  string `json:"heat_sink_type,omitempty"`
	StructureType string `json:"structure_type,omitempty"`
	ArmorType     string `json:"armor_type,omitempty"`
	GyroType      string `json:"gyro_type,omitempty"`
	CockpitType   string `json:"cockpit_type,omitempty"`
	MyomerType    string `json:"myomer_type,omitempty"`
}
