package mul

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// LoadOverrides reads the operator-maintained override file: a JSON
// object mapping catalog ids to unit slugs, e.g.
//
//	{"142": "atlas-as7-d-dc", "143": "atlas-as7-dr"}
//
// Overrides are the first matcher tier and the curation path for
// records the name tiers cannot resolve.
func LoadOverrides(path string) (map[int64]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}

	overrides := make(map[int64]string, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("override key %q is not a catalog id", k)
		}
		overrides[id] = v
	}
	return overrides, nil
}
