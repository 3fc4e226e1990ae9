package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mechbay/pkg/models"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "read fixture %s", name)
	return b
}

func findEntry(t *testing.T, loadout []models.LoadoutEntry, equipment, location string) models.LoadoutEntry {
	t.Helper()
	for _, e := range loadout {
		if e.Equipment == equipment && e.Location == location {
			return e
		}
	}
	t.Fatalf("loadout entry %q at %q not found in %+v", equipment, location, loadout)
	return models.LoadoutEntry{}
}

func TestParseMTFAtlas(t *testing.T) {
	unit := ParseMTF(readFixture(t, "atlas_as7d.mtf"))
	require.NotNil(t, unit)

	assert.Equal(t, "Atlas", unit.Chassis)
	assert.Equal(t, "AS7-D", unit.Model)
	assert.Equal(t, "Atlas AS7-D", unit.FullName())
	assert.Equal(t, int64(104), unit.MulID)
	assert.Equal(t, models.UnitTypeMech, unit.UnitType)
	assert.Equal(t, models.TechInnerSphere, unit.TechBase)
	assert.Equal(t, models.RulesStandard, unit.RulesLevel)
	assert.Equal(t, 2755, unit.IntroYear)
	assert.Equal(t, "TRO: 3025", unit.Source)
	assert.Equal(t, 100.0, unit.Tonnage)
	assert.Contains(t, unit.Description, "king of the battlefield")

	assert.Equal(t, []string{"battle_fists_la", "battle_fists_ra", "command_mech"}, unit.Quirks)

	require.NotNil(t, unit.Mech)
	mech := unit.Mech
	assert.Equal(t, "Biped", mech.Config)
	assert.False(t, mech.IsOmni)
	assert.Equal(t, 300, mech.EngineRating)
	assert.Equal(t, "Fusion Engine(IS)", mech.EngineType)
	assert.Equal(t, "IS Standard", mech.StructureType)
	assert.Equal(t, "Standard(Inner Sphere)", mech.ArmorType)
	assert.Equal(t, "Standard", mech.MyomerType)
	assert.Equal(t, 20, mech.HeatSinkCount)
	assert.Equal(t, "Single", mech.HeatSinkType)
	assert.Equal(t, 3, mech.WalkMP)
	assert.Equal(t, 0, mech.JumpMP)
	// conventionally omitted when standard
	assert.Empty(t, mech.GyroType)
	assert.Empty(t, mech.CockpitType)
}

func TestParseMTFAtlasLocations(t *testing.T) {
	unit := ParseMTF(readFixture(t, "atlas_as7d.mtf"))
	require.NotNil(t, unit)
	require.Len(t, unit.Locations, 8)

	// ordering is canonical, not file order
	assert.Equal(t, "left_arm", unit.Locations[0].Location)
	assert.Equal(t, "center_torso", unit.Locations[4].Location)

	byLoc := make(map[string]models.LocationEntry)
	for _, l := range unit.Locations {
		byLoc[l.Location] = l
	}

	ct := byLoc["center_torso"]
	assert.Equal(t, 47, ct.Armor)
	require.NotNil(t, ct.RearArmor)
	assert.Equal(t, 14, *ct.RearArmor)

	hd := byLoc["head"]
	assert.Equal(t, 9, hd.Armor)
	assert.Nil(t, hd.RearArmor)
}

func TestParseMTFAtlasLoadout(t *testing.T) {
	unit := ParseMTF(readFixture(t, "atlas_as7d.mtf"))
	require.NotNil(t, unit)

	// weapons section is authoritative for weapons: the ten AC/20 crit
	// slots collapse into the single listed mount
	ac20 := findEntry(t, unit.Loadout, "AC/20", "left_torso")
	assert.Equal(t, 1, ac20.Quantity)
	assert.False(t, ac20.IsRear)

	rearML := findEntry(t, unit.Loadout, "Medium Laser", "center_torso")
	assert.Equal(t, 2, rearML.Quantity)
	assert.True(t, rearML.IsRear)

	// non-weapon gear comes from crit slots, one per slot
	ac20Ammo := findEntry(t, unit.Loadout, "IS Ammo AC/20", "right_torso")
	assert.Equal(t, 2, ac20Ammo.Quantity)

	hs := findEntry(t, unit.Loadout, "Heat Sink", "left_leg")
	assert.Equal(t, 2, hs.Quantity)

	// structural slots never become equipment
	for _, e := range unit.Loadout {
		assert.NotEqual(t, "Fusion Engine", e.Equipment)
		assert.NotEqual(t, "Gyro", e.Equipment)
		assert.NotEqual(t, "Shoulder", e.Equipment)
	}
}

func TestParseMTFOmnimech(t *testing.T) {
	unit := ParseMTF(readFixture(t, "fire_moth_prime.mtf"))
	require.NotNil(t, unit)

	assert.Equal(t, "Fire Moth", unit.Chassis)
	assert.Equal(t, "Prime", unit.Model)
	assert.Equal(t, models.TechClan, unit.TechBase)
	assert.Equal(t, models.RulesAdvanced, unit.RulesLevel)

	require.NotNil(t, unit.Mech)
	assert.True(t, unit.Mech.IsOmni)
	assert.Equal(t, 200, unit.Mech.EngineRating)
	assert.Equal(t, "XL (Clan) Engine", unit.Mech.EngineType)
	assert.Equal(t, "Ferro-Fibrous (Clan)", unit.Mech.ArmorType)
	assert.Equal(t, 10, unit.Mech.HeatSinkCount)
	assert.Equal(t, "Double", unit.Mech.HeatSinkType)

	// the omnipod annotation is not part of equipment identity
	srmAmmo := findEntry(t, unit.Loadout, "Clan Ammo SRM-4", "center_torso")
	assert.Equal(t, 1, srmAmmo.Quantity)
	laser := findEntry(t, unit.Loadout, "ER Medium Laser", "left_arm")
	assert.Equal(t, 1, laser.Quantity)
}

func TestParseMTFSynonymKeys(t *testing.T) {
	raw := []byte("chassis:Test\nmodel:T-1\ntech base:Clan\nmass:50\n")
	unit := ParseMTF(raw)
	require.NotNil(t, unit)
	assert.Equal(t, models.TechClan, unit.TechBase)
}

func TestParseMTFMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"no chassis": "model:AS7-D\nmass:100\n",
		"no mass":    "chassis:Atlas\nmodel:AS7-D\n",
		"binary":     "\x00\x01\x02garbage",
	}
	for name, raw := range cases {
		assert.Nil(t, ParseMTF([]byte(raw)), "case %s should yield absence", name)
	}
}

func TestParseMTFDefaultsWhenKeysMissing(t *testing.T) {
	unit := ParseMTF([]byte("chassis:Spartan\nmass:80\n"))
	require.NotNil(t, unit)
	assert.Equal(t, models.TechInnerSphere, unit.TechBase)
	assert.Equal(t, models.RulesStandard, unit.RulesLevel)
	assert.Equal(t, "Spartan", unit.FullName())
	assert.Empty(t, unit.Locations)
	assert.Empty(t, unit.Loadout)
}
