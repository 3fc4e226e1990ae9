package mul

import "strings"

// eraSlugs maps catalog era display names onto the seeded timeline.
// The catalog splits the Republic years into sub-eras that our timeline
// folds into dark-age, and names the LosTech/Renaissance split
// differently.
var eraSlugs = map[string]string{
	"Age of War":            "age-of-war",
	"Star League":           "star-league",
	"Early Succession War":  "early-succession-wars",
	"Early Succession Wars": "early-succession-wars",

	"Late Succession War - LosTech":     "late-succession-wars",
	"Late Succession War - Renaissance": "renaissance",

	"Clan Invasion":  "clan-invasion",
	"Civil War":      "civil-war",
	"Jihad":          "jihad",
	"Dark Age":       "dark-age",
	"Early Republic": "dark-age",
	"Late Republic":  "dark-age",
	"ilClan":         "ilclan",
}

// factionSlugs maps catalog faction display names onto seeded faction
// slugs, folding renames and successor states onto one entry. Names
// absent here and absent from the factions table get auto-created.
var factionSlugs = map[string]string{
	// Inner Sphere great houses
	"Lyran Commonwealth":     "steiner",
	"Lyran Alliance":         "steiner",
	"Federated Suns":         "davion",
	"Federated Commonwealth": "davion",
	"Draconis Combine":       "kurita",
	"Free Worlds League":     "marik",
	"Capellan Confederation": "liao",

	// Star League and successors
	"Star League Regular":    "star-league",
	"Star League Royal":      "star-league",
	"Star League":            "star-league",
	"ComStar":                "comstar",
	"Word of Blake":          "word-of-blake",
	"Republic of the Sphere": "republic",

	// Clans
	"Clan Wolf":             "clan-wolf",
	"Clan Wolf (in Exile)":  "clan-wolf",
	"Clan Jade Falcon":      "clan-jade-falcon",
	"Clan Ghost Bear":       "clan-ghost-bear",
	"Rasalhague Dominion":   "clan-ghost-bear",
	"Clan Smoke Jaguar":     "clan-smoke-jaguar",
	"Clan Nova Cat":         "clan-nova-cat",
	"Clan Steel Viper":      "clan-steel-viper",
	"Clan Diamond Shark":    "clan-diamond-shark",
	"Clan Sea Fox":          "clan-diamond-shark",
	"Clan Goliath Scorpion": "clan-goliath-scorpion",
	"Clan Ice Hellion":      "clan-ice-hellion",
	"Clan Star Adder":       "clan-star-adder",
	"Clan Hell's Horses":    "clan-hell-horses",
	"Clan Blood Spirit":     "clan-blood-spirit",
	"Clan Coyote":           "clan-coyote",
	"Clan Fire Mandrill":    "clan-fire-mandrill",
	"Clan Mongoose":         "clan-mongoose",
	"Clan Widowmaker":       "clan-widowmaker",
	"Clan Wolverine":        "clan-wolverine",

	// Periphery
	"Taurian Concordat":     "taurian-concordat",
	"Magistracy of Canopus": "magistracy-canopus",
	"Outworlds Alliance":    "outworlds-alliance",
	"Marian Hegemony":       "marian-hegemony",

	// General
	"Inner Sphere General": "general",
	"Clan General":         "general",
	"Mercenary":            "mercenary",
}

// inferFactionType guesses the type bucket for a faction the catalog
// names but the seed does not carry.
func inferFactionType(name string) string {
	switch {
	case strings.HasPrefix(name, "Clan "):
		return "clan"
	case strings.Contains(name, "Periphery"),
		strings.Contains(name, "Concordat"),
		strings.Contains(name, "Canopus"),
		strings.Contains(name, "Alliance"),
		strings.Contains(name, "Hegemony"),
		strings.Contains(name, "Magistracy"):
		return "periphery"
	case strings.Contains(strings.ToLower(name), "mercenary"):
		return "mercenary"
	default:
		return "other"
	}
}
