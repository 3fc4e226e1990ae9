package mul

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mechbay/pkg/models"
)

// Match is one resolved catalog-to-unit identity.
type Match struct {
	UnitID int64
	Slug   string
}

// Unmatched is one catalog record that cleared no tier. These are
// persisted for curation, never discarded.
type Unmatched struct {
	MulID        int64
	Name         string
	ComputedSlug string
	Tonnage      float64
	Reason       string
}

// KnownUnit is the slice of a unit the matcher indexes: identity only.
type KnownUnit struct {
	ID       int64
	Slug     string
	FullName string
}

type nameEntry struct {
	slug string
	id   int64
}

// Matcher resolves catalog records to local units through an ordered
// chain of strategies, first hit wins:
//
//  1. manual override (catalog id → unit slug)
//  2. exact slug equality
//  3. normalized slug (dual-name alternates, stripped parentheticals)
//  4. case-insensitive full-name equality
//
// No tier scores similarity. A record clearing no tier is unmatched.
type Matcher struct {
	overrides map[int64]string
	bySlug    map[string]int64
	byName    map[string]nameEntry
	tiers     []func(mulID int64, name string) (*Match, *Unmatched)
}

func NewMatcher(overrides map[int64]string, units []KnownUnit) *Matcher {
	m := &Matcher{
		overrides: overrides,
		bySlug:    make(map[string]int64, len(units)),
		byName:    make(map[string]nameEntry, len(units)),
	}
	for _, u := range units {
		m.bySlug[u.Slug] = u.ID
		m.byName[strings.ToLower(u.FullName)] = nameEntry{slug: u.Slug, id: u.ID}
	}
	m.tiers = []func(int64, string) (*Match, *Unmatched){
		m.matchOverride,
		m.matchSlug,
		m.matchNormalizedSlug,
		m.matchFullName,
	}
	return m
}

// Match runs the tier chain for one catalog record. Exactly one return
// value is non-nil.
func (m *Matcher) Match(mulID int64, name string, tonnage float64) (*Match, *Unmatched) {
	for _, tier := range m.tiers {
		hit, stop := tier(mulID, name)
		if hit != nil {
			return hit, nil
		}
		if stop != nil {
			stop.Tonnage = tonnage
			return nil, stop
		}
	}
	return nil, &Unmatched{
		MulID:        mulID,
		Name:         name,
		ComputedSlug: models.Slug(name),
		Tonnage:      tonnage,
		Reason:       "no tier matched",
	}
}

// matchOverride consults the operator override table. An override whose
// target slug does not exist stops the chain: the operator explicitly
// named a unit, so falling through to name heuristics could silently
// attach the record to the wrong one.
func (m *Matcher) matchOverride(mulID int64, name string) (*Match, *Unmatched) {
	slug, ok := m.overrides[mulID]
	if !ok {
		return nil, nil
	}
	if id, ok := m.bySlug[slug]; ok {
		return &Match{UnitID: id, Slug: slug}, nil
	}
	return nil, &Unmatched{
		MulID:        mulID,
		Name:         name,
		ComputedSlug: models.Slug(name),
		Reason:       fmt.Sprintf("override target %q not found", slug),
	}
}

func (m *Matcher) matchSlug(_ int64, name string) (*Match, *Unmatched) {
	slug := models.Slug(name)
	if id, ok := m.bySlug[slug]; ok {
		return &Match{UnitID: id, Slug: slug}, nil
	}
	return nil, nil
}

// matchNormalizedSlug retries the slug lookup under the name rewrites
// the catalog is known for: dual Clan/IS names ("Dasher (Fire Moth) A")
// and trailing parenthetical variants ("Awesome AWS-8Q (Smith)").
func (m *Matcher) matchNormalizedSlug(_ int64, name string) (*Match, *Unmatched) {
	exact := models.Slug(name)
	for _, alt := range dualNameAlternatives(name) {
		slug := models.Slug(alt)
		if id, ok := m.bySlug[slug]; ok {
			return &Match{UnitID: id, Slug: slug}, nil
		}
	}
	if slug := models.Slug(normalizeName(name)); slug != exact {
		if id, ok := m.bySlug[slug]; ok {
			return &Match{UnitID: id, Slug: slug}, nil
		}
	}
	return nil, nil
}

func (m *Matcher) matchFullName(_ int64, name string) (*Match, *Unmatched) {
	candidates := []string{name, normalizeName(name)}
	candidates = append(candidates, dualNameAlternatives(name)...)
	for _, c := range candidates {
		if entry, ok := m.byName[strings.ToLower(c)]; ok {
			return &Match{UnitID: entry.id, Slug: entry.slug}, nil
		}
	}
	return nil, nil
}

// LoadKnownUnits reads every unit's identity triple for matching.
func LoadKnownUnits(ctx context.Context, db *sql.DB) ([]KnownUnit, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, slug, full_name FROM units")
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	defer rows.Close()

	var units []KnownUnit
	for rows.Next() {
		var u KnownUnit
		if err := rows.Scan(&u.ID, &u.Slug, &u.FullName); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// ExtractClanName pulls the alternate name out of a dual Clan/IS entry:
// "Dasher (Fire Moth) A" yields "Fire Moth A". A trailing parenthetical
// with nothing after it ("Awesome AWS-8Q (Smith)") is a pilot or custom
// tag, not a dual name, and yields "".
func ExtractClanName(name string) string {
	_, inside, after, ok := splitParenthetical(name)
	if !ok || inside == "" || after == "" {
		return ""
	}
	return inside + " " + after
}

// dualNameAlternatives expands "Dasher (Fire Moth) A" into
// ["Dasher A", "Fire Moth A"]. Names without a parenthetical expand to
// nothing.
func dualNameAlternatives(name string) []string {
	before, inside, after, ok := splitParenthetical(name)
	if !ok || before == "" || inside == "" {
		return nil
	}
	join := func(base string) string {
		if after == "" {
			return base
		}
		return base + " " + after
	}
	return []string{join(before), join(inside)}
}

func splitParenthetical(name string) (before, inside, after string, ok bool) {
	s := strings.TrimSpace(name)
	open := strings.Index(s, "(")
	if open < 0 {
		return "", "", "", false
	}
	closing := strings.Index(s[open:], ")")
	if closing < 0 {
		return "", "", "", false
	}
	closing += open
	return strings.TrimSpace(s[:open]),
		strings.TrimSpace(s[open+1 : closing]),
		strings.TrimSpace(s[closing+1:]),
		true
}

// normalizeName strips a trailing parenthetical and collapses runs of
// whitespace.
func normalizeName(name string) string {
	s := strings.TrimSpace(name)
	if i := strings.LastIndex(s, "("); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.Join(strings.Fields(s), " ")
}
