package models

import "strings"

// Slug converts a human-readable name into its canonical identifier form:
// lowercase ASCII letters and digits, every other run of characters
// collapsed into a single hyphen, no leading or trailing hyphen.
//
// Slugs are identity, not presentation: the ingestion pipeline, the
// equipment cache and the cross-source matcher all key on this exact
// derivation, so it must stay deterministic.
func Slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))

	prevHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		// treat everything else as a separator
		if !prevHyphen && b.Len() > 0 {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ChassisSlug derives the chassis identifier. The unit category is part
// of the slug so that identically named chassis in different categories
// ("Demolisher" the tank vs "Demolisher" the mech) never collide.
func ChassisSlug(name string, ut UnitType) string {
	return Slug(name) + "-" + string(ut)
}
