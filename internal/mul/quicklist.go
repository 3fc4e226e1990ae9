package mul

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Unit is one listing entry as the catalog reports it. Numeric zero
// means "not reported": the catalog uses 0 for missing battle values
// and costs.
type Unit struct {
	ID             int64   `json:"Id"`
	Name           string  `json:"Name"`
	Class          string  `json:"Class"`
	Variant        string  `json:"Variant"`
	Tonnage        float64 `json:"Tonnage"`
	BattleValue    int     `json:"BattleValue"`
	Cost           int64   `json:"Cost"`
	Rules          string  `json:"Rules"`
	DateIntroduced string  `json:"DateIntroduced"`
	Technology     IDName  `json:"Technology"`
	Role           IDName  `json:"Role"`
	Type           IDName  `json:"Type"`
}

type IDName struct {
	ID   int    `json:"Id"`
	Name string `json:"Name"`
}

// IntroYear extracts the introduction year from the free-text
// DateIntroduced field as the first run of four digits, 0 when none.
func (u *Unit) IntroYear() int {
	s := strings.TrimSpace(u.DateIntroduced)
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			run = 0
			continue
		}
		run++
		if run == 4 {
			start := i - 3
			year := 0
			for _, c := range s[start : i+1] {
				year = year*10 + int(c-'0')
			}
			return year
		}
	}
	return 0
}

// RoleName returns the trimmed role tag, empty when not reported.
func (u *Unit) RoleName() string {
	return strings.TrimSpace(u.Role.Name)
}

// ParseQuickList decodes a listing response. The endpoint usually wraps
// units in a {"Units": [...]} object but has been seen returning a bare
// array.
func ParseQuickList(data []byte) ([]Unit, error) {
	var wrapper struct {
		Units []Unit `json:"Units"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Units != nil {
		return wrapper.Units, nil
	}

	var units []Unit
	if err := json.Unmarshal(data, &units); err != nil {
		return nil, fmt.Errorf("decode quicklist: %w", err)
	}
	return units, nil
}
