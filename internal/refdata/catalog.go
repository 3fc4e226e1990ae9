// Package refdata carries the curated reference catalogs: construction
// component types with their alias tables, eras and factions. The
// catalogs are seeded before any import runs; resolution of raw labels
// against them happens through Resolver and nowhere else.
package refdata

import "mechbay/pkg/models"

// Version identifies the curated dataset revision. Bump it when the
// catalog or alias lists change; seeding records it in dataset_metadata.
const Version = "2026.2"

// Category names one component catalog. Each category owns a table and
// an alias table; a raw label resolves within exactly one category.
type Category string

const (
	CategoryEngine    Category = "engine"
	CategoryArmor     Category = "armor"
	CategoryStructure Category = "structure"
	CategoryHeatSink  Category = "heat_sink"
	CategoryGyro      Category = "gyro"
	CategoryCockpit   Category = "cockpit"
	CategoryMyomer    Category = "myomer"
)

// Categories lists every catalog in seeding order.
var Categories = []Category{
	CategoryEngine,
	CategoryArmor,
	CategoryStructure,
	CategoryHeatSink,
	CategoryGyro,
	CategoryCockpit,
	CategoryMyomer,
}

// DefaultLabel returns the label assumed when a mech definition omits
// the component entirely. Only gyro, cockpit and myomer have an assumed
// standard; every other category stays unresolved when absent because a
// missing engine or armor line is a data problem, not a convention.
func DefaultLabel(cat Category) string {
	switch cat {
	case CategoryGyro:
		return "Standard Gyro"
	case CategoryCockpit:
		return "Standard Cockpit"
	case CategoryMyomer:
		return "Standard"
	default:
		return ""
	}
}

// EngineType is one canonical engine entry. Numeric properties follow
// the construction rules and are stored for downstream consumers; the
// import engine itself never interprets them.
type EngineType struct {
	Slug             string
	Name             string
	TechBase         models.TechBase
	RulesLevel       models.RulesLevel
	WeightMultiplier float64
	CTCrits          int
	SideCrits        int
	IntroYear        int
	Aliases          []string
}

var EngineTypes = []EngineType{
	{
		Slug: "fusion", Name: "Fusion Engine",
		RulesLevel: models.RulesIntroductory,
		WeightMultiplier: 1.0, CTCrits: 6, SideCrits: 0, IntroYear: 2021,
		Aliases: []string{
			"Fusion Engine", "Fusion Engine(IS)", "Fusion Engine (IS)",
			"IS Fusion Engine", "Fusion", "Standard Fusion",
		},
	},
	{
		Slug: "xl-engine-is", Name: "XL Engine (IS)",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesStandard,
		WeightMultiplier: 0.5, CTCrits: 6, SideCrits: 3, IntroYear: 2579,
		Aliases: []string{
			"XL Engine", "XL Engine(IS)", "XL Engine (IS)",
			"IS XL Engine", "XL Fusion Engine",
		},
	},
	{
		Slug: "xl-engine-clan", Name: "XL Engine (Clan)",
		TechBase: models.TechClan, RulesLevel: models.RulesStandard,
		WeightMultiplier: 0.5, CTCrits: 6, SideCrits: 2, IntroYear: 2824,
		Aliases: []string{
			"XL Engine (Clan)", "XL (Clan) Engine", "Clan XL Engine",
		},
	},
	{
		Slug: "light-engine", Name: "Light Fusion Engine",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesStandard,
		WeightMultiplier: 0.75, CTCrits: 6, SideCrits: 2, IntroYear: 3062,
		Aliases: []string{
			"Light Engine", "Light Fusion Engine", "IS Light Engine",
			"IS Light Fusion Engine",
		},
	},
	{
		Slug: "compact-engine", Name: "Compact Fusion Engine",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesAdvanced,
		WeightMultiplier: 1.5, CTCrits: 3, SideCrits: 0, IntroYear: 3068,
		Aliases: []string{"Compact Engine", "Compact Fusion Engine"},
	},
	{
		Slug: "ice", Name: "Internal Combustion Engine",
		RulesLevel: models.RulesIntroductory,
		WeightMultiplier: 2.0, CTCrits: 6, SideCrits: 0, IntroYear: 1950,
		Aliases: []string{
			"ICE", "ICE Engine", "I.C.E.", "Internal Combustion Engine",
		},
	},
	{
		Slug: "fuel-cell", Name: "Fuel Cell Engine",
		RulesLevel: models.RulesAdvanced,
		WeightMultiplier: 1.2, CTCrits: 6, SideCrits: 0, IntroYear: 2300,
		Aliases: []string{"Fuel Cell", "Fuel-Cell", "Fuel Cell Engine"},
	},
}

type ArmorType struct {
	Slug         string
	Name         string
	TechBase     models.TechBase
	RulesLevel   models.RulesLevel
	PointsPerTon float64
	Crits        int
	IntroYear    int
	Aliases      []string
}

var ArmorTypes = []ArmorType{
	{
		Slug: "standard", Name: "Standard Armor",
		RulesLevel: models.RulesIntroductory,
		PointsPerTon: 16.0, Crits: 0, IntroYear: 2470,
		Aliases: []string{
			"Standard", "Standard Armor",
			"Standard(Inner Sphere)", "Standard (Inner Sphere)",
			"Standard(IS)", "Standard (IS)",
			"Standard(Clan)", "Standard (Clan)",
			"IS Standard Armor", "Clan Standard Armor",
		},
	},
	{
		Slug: "ferro-fibrous-is", Name: "Ferro-Fibrous (IS)",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesStandard,
		PointsPerTon: 17.92, Crits: 14, IntroYear: 2571,
		Aliases: []string{
			"Ferro-Fibrous", "Ferro Fibrous", "IS Ferro-Fibrous",
			"Ferro-Fibrous(Inner Sphere)", "Ferro-Fibrous (Inner Sphere)",
			"Ferro-Fibrous(IS)", "Ferro-Fibrous (IS)",
		},
	},
	{
		Slug: "ferro-fibrous-clan", Name: "Ferro-Fibrous (Clan)",
		TechBase: models.TechClan, RulesLevel: models.RulesStandard,
		PointsPerTon: 19.2, Crits: 7, IntroYear: 2820,
		Aliases: []string{
			"Ferro-Fibrous (Clan)", "Ferro-Fibrous(Clan)",
			"Clan Ferro-Fibrous", "Clan Ferro Fibrous",
		},
	},
	{
		Slug: "light-ferro-fibrous", Name: "Light Ferro-Fibrous",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesStandard,
		PointsPerTon: 16.96, Crits: 7, IntroYear: 3067,
		Aliases: []string{"Light Ferro-Fibrous", "Light Ferro Fibrous"},
	},
	{
		Slug: "heavy-ferro-fibrous", Name: "Heavy Ferro-Fibrous",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesAdvanced,
		PointsPerTon: 19.84, Crits: 21, IntroYear: 3069,
		Aliases: []string{"Heavy Ferro-Fibrous", "Heavy Ferro Fibrous"},
	},
	{
		Slug: "stealth", Name: "Stealth Armor",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesAdvanced,
		PointsPerTon: 16.0, Crits: 12, IntroYear: 3063,
		Aliases: []string{"Stealth", "Stealth Armor", "Stealth Armor (IS)"},
	},
	{
		Slug: "hardened", Name: "Hardened Armor",
		RulesLevel: models.RulesAdvanced,
		PointsPerTon: 8.0, Crits: 0, IntroYear: 3047,
		Aliases: []string{"Hardened", "Hardened Armor"},
	},
}

type StructureType struct {
	Slug           string
	Name           string
	TechBase       models.TechBase
	RulesLevel     models.RulesLevel
	WeightFraction float64
	Crits          int
	IntroYear      int
	Aliases        []string
}

var StructureTypes = []StructureType{
	{
		Slug: "standard", Name: "Standard",
		RulesLevel: models.RulesIntroductory,
		WeightFraction: 0.10, Crits: 0, IntroYear: 2439,
		Aliases: []string{
			"Standard", "IS Standard", "Clan Standard",
			"Standard Structure", "Standard(Inner Sphere)",
		},
	},
	{
		Slug: "endo-steel-is", Name: "Endo Steel (IS)",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesStandard,
		WeightFraction: 0.05, Crits: 14, IntroYear: 2487,
		Aliases: []string{
			"Endo Steel", "Endo-Steel", "IS Endo Steel", "IS Endo-Steel",
			"Endo Steel(IS)", "Endo Steel (IS)",
		},
	},
	{
		Slug: "endo-steel-clan", Name: "Endo Steel (Clan)",
		TechBase: models.TechClan, RulesLevel: models.RulesStandard,
		WeightFraction: 0.05, Crits: 7, IntroYear: 2827,
		Aliases: []string{
			"Clan Endo Steel", "Clan Endo-Steel",
			"Endo Steel (Clan)", "Endo-Steel (Clan)",
		},
	},
	{
		Slug: "composite", Name: "Composite",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesAdvanced,
		WeightFraction: 0.05, Crits: 0, IntroYear: 3061,
		Aliases: []string{"Composite", "IS Composite"},
	},
	{
		Slug: "reinforced", Name: "Reinforced",
		RulesLevel: models.RulesAdvanced,
		WeightFraction: 0.20, Crits: 0, IntroYear: 3057,
		Aliases: []string{"Reinforced", "IS Reinforced", "Clan Reinforced"},
	},
}

type HeatSinkType struct {
	Slug        string
	Name        string
	TechBase    models.TechBase
	RulesLevel  models.RulesLevel
	Dissipation int
	Crits       int
	Weight      float64
	IntroYear   int
	Aliases     []string
}

var HeatSinkTypes = []HeatSinkType{
	{
		Slug: "single", Name: "Single Heat Sink",
		RulesLevel: models.RulesIntroductory,
		Dissipation: 1, Crits: 1, Weight: 1.0, IntroYear: 2022,
		Aliases: []string{
			"Single", "IS Single", "Clan Single",
			"Single Heat Sink", "Heat Sink",
		},
	},
	{
		Slug: "double-is", Name: "Double Heat Sink (IS)",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesStandard,
		Dissipation: 2, Crits: 3, Weight: 1.0, IntroYear: 2567,
		// the bare "Double" label maps here; files that mean the Clan
		// variant say so explicitly
		Aliases: []string{
			"Double", "IS Double", "Double Heat Sink",
			"IS Double Heat Sink",
		},
	},
	{
		Slug: "double-clan", Name: "Double Heat Sink (Clan)",
		TechBase: models.TechClan, RulesLevel: models.RulesStandard,
		Dissipation: 2, Crits: 2, Weight: 1.0, IntroYear: 2825,
		Aliases: []string{"Clan Double", "Clan Double Heat Sink"},
	},
	{
		Slug: "compact", Name: "Compact Heat Sink",
		TechBase: models.TechInnerSphere, RulesLevel: models.RulesAdvanced,
		Dissipation: 1, Crits: 1, Weight: 1.5, IntroYear: 3058,
		Aliases: []string{"Compact", "Compact Heat Sink"},
	},
	{
		Slug: "laser", Name: "Laser Heat Sink",
		TechBase: models.TechClan, RulesLevel: models.RulesExperimental,
		Dissipation: 2, Crits: 2, Weight: 1.0, IntroYear: 3051,
		Aliases: []string{"Laser", "Laser Heat Sink"},
	},
}

type GyroType struct {
	Slug             string
	Name             string
	RulesLevel       models.RulesLevel
	WeightMultiplier float64
	Crits            int
	IntroYear        int
	Aliases          []string
}

var GyroTypes = []GyroType{
	{
		Slug: "standard", Name: "Standard Gyro",
		RulesLevel: models.RulesIntroductory,
		WeightMultiplier: 1.0, Crits: 4, IntroYear: 2439,
		Aliases: []string{"Standard Gyro", "Standard", "Gyro"},
	},
	{
		Slug: "xl-gyro", Name: "XL Gyro",
		RulesLevel: models.RulesAdvanced,
		WeightMultiplier: 0.5, Crits: 6, IntroYear: 3067,
		Aliases: []string{"XL Gyro"},
	},
	{
		Slug: "compact-gyro", Name: "Compact Gyro",
		RulesLevel: models.RulesAdvanced,
		WeightMultiplier: 1.5, Crits: 2, IntroYear: 3068,
		Aliases: []string{"Compact Gyro"},
	},
	{
		Slug: "heavy-duty-gyro", Name: "Heavy-Duty Gyro",
		RulesLevel: models.RulesAdvanced,
		WeightMultiplier: 2.0, Crits: 4, IntroYear: 3067,
		Aliases: []string{"Heavy Duty Gyro", "Heavy-Duty Gyro"},
	},
}

type CockpitType struct {
	Slug       string
	Name       string
	RulesLevel models.RulesLevel
	Weight     float64
	Crits      int
	IntroYear  int
	Aliases    []string
}

var CockpitTypes = []CockpitType{
	{
		Slug: "standard", Name: "Standard Cockpit",
		RulesLevel: models.RulesIntroductory,
		Weight: 3.0, Crits: 1, IntroYear: 2468,
		Aliases: []string{"Standard Cockpit", "Standard"},
	},
	{
		Slug: "small", Name: "Small Cockpit",
		RulesLevel: models.RulesAdvanced,
		Weight: 2.0, Crits: 1, IntroYear: 3067,
		Aliases: []string{"Small Cockpit", "Small"},
	},
	{
		Slug: "command-console", Name: "Command Console",
		RulesLevel: models.RulesAdvanced,
		Weight: 6.0, Crits: 2, IntroYear: 2631,
		Aliases: []string{"Command Console", "Cockpit Command Console"},
	},
	{
		Slug: "torso-mounted", Name: "Torso-Mounted Cockpit",
		RulesLevel: models.RulesExperimental,
		Weight: 4.0, Crits: 2, IntroYear: 3053,
		Aliases: []string{"Torso-Mounted Cockpit", "Torso Mounted Cockpit"},
	},
	{
		Slug: "primitive", Name: "Primitive Cockpit",
		RulesLevel: models.RulesIntroductory,
		Weight: 5.0, Crits: 1, IntroYear: 2439,
		Aliases: []string{"Primitive Cockpit"},
	},
}

type MyomerType struct {
	Slug       string
	Name       string
	RulesLevel models.RulesLevel
	IntroYear  int
	Properties string // JSON object, opaque to the engine
	Aliases    []string
}

var MyomerTypes = []MyomerType{
	{
		Slug: "standard", Name: "Standard",
		RulesLevel: models.RulesIntroductory,
		IntroYear:  2439,
		Properties: `{}`,
		Aliases:    []string{"Standard", "Standard Myomer"},
	},
	{
		Slug: "triple-strength", Name: "Triple-Strength Myomer",
		RulesLevel: models.RulesAdvanced,
		IntroYear:  3050,
		Properties: `{"strength_multiplier":2,"heat_activated":true}`,
		Aliases: []string{
			"Triple-Strength", "Triple-Strength Myomer",
			"Triple Strength Myomer", "TSM",
		},
	},
	{
		Slug: "industrial-triple-strength", Name: "Industrial Triple-Strength Myomer",
		RulesLevel: models.RulesAdvanced,
		IntroYear:  3035,
		Properties: `{"strength_multiplier":2,"heat_activated":false}`,
		Aliases: []string{
			"Industrial Triple-Strength", "Industrial TSM",
			"Industrial Triple-Strength Myomer",
		},
	},
}

// Era is one span of the shared timeline. EndYear 0 means open-ended.
type Era struct {
	Slug        string
	Name        string
	StartYear   int
	EndYear     int
	Description string
}

var Eras = []Era{
	{"age-of-war", "Age of War", 2398, 2570,
		"The period of interstellar warfare that preceded the Star League."},
	{"star-league", "Star League", 2571, 2780,
		"The golden age of humanity spanning the Star League era."},
	{"early-succession-wars", "Early Succession Wars", 2781, 2900,
		"The First and Second Succession Wars; rapid technological decline."},
	{"late-succession-wars", "Late Succession Wars (LosTech)", 2901, 3019,
		"Era of LosTech; Third and early Fourth Succession Wars."},
	{"renaissance", "Renaissance", 3020, 3049,
		"Technological renaissance; Helm Memory Core; Fourth Succession War."},
	{"clan-invasion", "Clan Invasion", 3050, 3061,
		"Clan forces attack the Inner Sphere; Operation Revival."},
	{"civil-war", "Civil War", 3062, 3067,
		"FedCom Civil War; growing tensions across the Inner Sphere."},
	{"jihad", "Jihad", 3068, 3080,
		"Word of Blake Jihad; widespread destruction across known space."},
	{"dark-age", "Dark Age", 3081, 3150,
		"The Republic era and the collapse of HPG communications."},
	{"ilclan", "ilClan", 3151, 0,
		"Recognition of a new ilClan; reshaping of the Inner Sphere."},
}

type Faction struct {
	Slug        string
	Name        string
	ShortName   string
	FactionType string
	IsClan      bool
}

var Factions = []Faction{
	// Inner Sphere Great Houses
	{"steiner", "Lyran Commonwealth", "LC", "great_house", false},
	{"davion", "Federated Suns", "FS", "great_house", false},
	{"kurita", "Draconis Combine", "DC", "great_house", false},
	{"marik", "Free Worlds League", "FWL", "great_house", false},
	{"liao", "Capellan Confederation", "CC", "great_house", false},
	// Star League and successors
	{"star-league", "Star League", "SL", "star_league", false},
	{"comstar", "ComStar", "CS", "independent", false},
	{"word-of-blake", "Word of Blake", "WoB", "independent", false},
	{"republic", "Republic of the Sphere", "RS", "inner_sphere", false},
	// Clans
	{"clan-wolf", "Clan Wolf", "CW", "clan", true},
	{"clan-jade-falcon", "Clan Jade Falcon", "CJF", "clan", true},
	{"clan-ghost-bear", "Clan Ghost Bear", "CGB", "clan", true},
	{"clan-smoke-jaguar", "Clan Smoke Jaguar", "CSJ", "clan", true},
	{"clan-nova-cat", "Clan Nova Cat", "CNC", "clan", true},
	{"clan-steel-viper", "Clan Steel Viper", "CSV", "clan", true},
	{"clan-diamond-shark", "Clan Diamond Shark", "CDS", "clan", true},
	{"clan-goliath-scorpion", "Clan Goliath Scorpion", "CGS", "clan", true},
	{"clan-ice-hellion", "Clan Ice Hellion", "CIH", "clan", true},
	{"clan-star-adder", "Clan Star Adder", "CSA", "clan", true},
	{"clan-hell-horses", "Clan Hell's Horses", "CHH", "clan", true},
	{"clan-blood-spirit", "Clan Blood Spirit", "CBS", "clan", true},
	{"clan-coyote", "Clan Coyote", "CCY", "clan", true},
	{"clan-fire-mandrill", "Clan Fire Mandrill", "CFM", "clan", true},
	{"clan-mongoose", "Clan Mongoose", "CMG", "clan", true},
	{"clan-widowmaker", "Clan Widowmaker", "CWM", "clan", true},
	{"clan-wolverine", "Clan Wolverine", "CWOV", "clan", true},
	// Periphery
	{"periphery-general", "Periphery (General)", "PER", "periphery", false},
	{"taurian-concordat", "Taurian Concordat", "TC", "periphery", false},
	{"magistracy-canopus", "Magistracy of Canopus", "MOC", "periphery", false},
	{"outworlds-alliance", "Outworlds Alliance", "OA", "periphery", false},
	{"marian-hegemony", "Marian Hegemony", "MH", "periphery", false},
	// Mercenaries and catch-alls
	{"mercenary", "Mercenary", "MER", "mercenary", false},
	{"general", "General (All)", "GEN", "general", false},
}
