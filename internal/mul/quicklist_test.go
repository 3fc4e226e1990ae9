package mul

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQuickList = `{
  "Units": [
    {
      "Id": 104,
      "Name": "Atlas AS7-D",
      "Class": "Assault",
      "Variant": "AS7-D",
      "Tonnage": 100.0,
      "BattleValue": 1897,
      "Cost": 9626000,
      "Rules": "Introductory",
      "DateIntroduced": "2755",
      "Technology": {"Id": 1, "Name": "Inner Sphere"},
      "Role": {"Id": 7, "Name": "Juggernaut"},
      "Type": {"Id": 18, "Name": "BattleMech"}
    },
    {
      "Id": 2157,
      "Name": "Dasher (Fire Moth) A",
      "Tonnage": 20.0,
      "BattleValue": 0,
      "Cost": 0,
      "DateIntroduced": null,
      "Role": null
    }
  ]
}`

func TestParseQuickList(t *testing.T) {
	units, err := ParseQuickList([]byte(sampleQuickList))
	require.NoError(t, err)
	require.Len(t, units, 2)

	atlas := units[0]
	assert.Equal(t, int64(104), atlas.ID)
	assert.Equal(t, "Atlas AS7-D", atlas.Name)
	assert.Equal(t, 100.0, atlas.Tonnage)
	assert.Equal(t, 1897, atlas.BattleValue)
	assert.Equal(t, int64(9626000), atlas.Cost)
	assert.Equal(t, "Juggernaut", atlas.RoleName())
	assert.Equal(t, 2755, atlas.IntroYear())

	dasher := units[1]
	assert.Equal(t, int64(2157), dasher.ID)
	assert.Zero(t, dasher.BattleValue, "catalog reports 0 for missing values")
	assert.Zero(t, dasher.IntroYear())
	assert.Empty(t, dasher.RoleName())
}

func TestParseQuickListBareArray(t *testing.T) {
	units, err := ParseQuickList([]byte(`[{"Id": 7, "Name": "Wasp WSP-1A", "Tonnage": 20}]`))
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, int64(7), units[0].ID)
}

func TestParseQuickListMalformed(t *testing.T) {
	_, err := ParseQuickList([]byte(`<html>not json</html>`))
	assert.Error(t, err)
}

func TestIntroYearExtraction(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2755", 2755},
		{"ca. 3052", 3052},
		{"Succession Wars (2801)", 2801},
		{"3rd century", 0},
		{"", 0},
		{"25th c., 2471", 2471},
	}
	for _, tc := range cases {
		u := Unit{DateIntroduced: tc.in}
		assert.Equal(t, tc.want, u.IntroYear(), "input %q", tc.in)
	}
}
