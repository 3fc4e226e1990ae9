package refdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mechbay/pkg/database"
)

func TestSeedAllIsIdempotent(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()

	first, err := SeedAll(ctx, db)
	require.NoError(t, err)
	assert.Positive(t, first.Components)
	assert.Positive(t, first.Aliases)
	assert.Equal(t, len(Eras), first.Eras)
	assert.Equal(t, len(Factions), first.Factions)

	second, err := SeedAll(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, second.Components)
	assert.Zero(t, second.Aliases)
	assert.Zero(t, second.Eras)
	assert.Zero(t, second.Factions)
}

func TestResolveKnownAliases(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	_, err := SeedAll(ctx, db)
	require.NoError(t, err)

	r := NewResolver(db)

	cases := []struct {
		cat   Category
		label string
	}{
		{CategoryEngine, "Fusion Engine(IS)"},
		{CategoryEngine, "XL (Clan) Engine"},
		{CategoryArmor, "Standard(Inner Sphere)"},
		{CategoryArmor, "Ferro-Fibrous (Clan)"},
		{CategoryStructure, "IS Standard"},
		{CategoryStructure, "Clan Endo Steel"},
		{CategoryHeatSink, "Single"},
		{CategoryHeatSink, "Double"},
		{CategoryGyro, "Standard Gyro"},
		{CategoryCockpit, "Small Cockpit"},
		{CategoryMyomer, "Triple-Strength Myomer"},
	}
	for _, c := range cases {
		id, ok, err := r.Resolve(ctx, c.cat, c.label)
		require.NoError(t, err)
		assert.True(t, ok, "%s label %q should resolve", c.cat, c.label)
		assert.Positive(t, id)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	_, err := SeedAll(ctx, db)
	require.NoError(t, err)

	r := NewResolver(db)
	first, ok, err := r.Resolve(ctx, CategoryArmor, "Ferro-Fibrous (Clan)")
	require.NoError(t, err)
	require.True(t, ok)

	second, ok, err := r.Resolve(ctx, CategoryArmor, "Ferro-Fibrous (Clan)")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestResolveNormalizesLabel(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	_, err := SeedAll(ctx, db)
	require.NoError(t, err)

	r := NewResolver(db)
	want, ok, err := r.Resolve(ctx, CategoryEngine, "Fusion Engine")
	require.NoError(t, err)
	require.True(t, ok)

	for _, label := range []string{"fusion engine", "FUSION ENGINE", "  Fusion Engine  "} {
		id, ok, err := r.Resolve(ctx, CategoryEngine, label)
		require.NoError(t, err)
		assert.True(t, ok, "label %q should resolve", label)
		assert.Equal(t, want, id, "label %q should hit the same entry", label)
	}
}

func TestResolveUnknownLabel(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	_, err := SeedAll(ctx, db)
	require.NoError(t, err)

	r := NewResolver(db)
	id, ok, err := r.Resolve(ctx, CategoryArmor, "Quantum Phase Armor")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, id)

	// empty labels never resolve, they are absence
	_, ok, err = r.Resolve(ctx, CategoryGyro, "   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultLabels(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	_, err := SeedAll(ctx, db)
	require.NoError(t, err)

	r := NewResolver(db)

	// only these three categories assume a standard when absent
	for _, cat := range []Category{CategoryGyro, CategoryCockpit, CategoryMyomer} {
		def := DefaultLabel(cat)
		require.NotEmpty(t, def, "category %s should have a default", cat)
		id, ok, err := r.Resolve(ctx, cat, def)
		require.NoError(t, err)
		assert.True(t, ok, "default %q for %s should resolve", def, cat)
		assert.Positive(t, id)
	}

	for _, cat := range []Category{CategoryEngine, CategoryArmor, CategoryStructure, CategoryHeatSink} {
		assert.Empty(t, DefaultLabel(cat), "category %s must not have a default", cat)
	}
}

func TestSeededTimeline(t *testing.T) {
	db := database.OpenTest(t)
	ctx := context.Background()
	_, err := SeedAll(ctx, db)
	require.NoError(t, err)

	var endYear *int
	err = db.QueryRowContext(ctx, "SELECT end_year FROM eras WHERE slug = 'ilclan'").Scan(&endYear)
	require.NoError(t, err)
	assert.Nil(t, endYear, "the current era is open-ended")

	var isClan bool
	err = db.QueryRowContext(ctx, "SELECT is_clan FROM factions WHERE slug = 'clan-wolf'").Scan(&isClan)
	require.NoError(t, err)
	assert.True(t, isClan)

	var version string
	err = db.QueryRowContext(ctx, "SELECT value FROM dataset_metadata WHERE key = 'refdata_version'").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, Version, version)
}
