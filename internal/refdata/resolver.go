package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type categorySpec struct {
	table      string
	aliasTable string
	fkColumn   string
}

var categorySpecs = map[Category]categorySpec{
	CategoryEngine:    {"engine_types", "engine_type_aliases", "engine_type_id"},
	CategoryArmor:     {"armor_types", "armor_type_aliases", "armor_type_id"},
	CategoryStructure: {"structure_types", "structure_type_aliases", "structure_type_id"},
	CategoryHeatSink:  {"heat_sink_types", "heat_sink_type_aliases", "heat_sink_type_id"},
	CategoryGyro:      {"gyro_types", "gyro_type_aliases", "gyro_type_id"},
	CategoryCockpit:   {"cockpit_types", "cockpit_type_aliases", "cockpit_type_id"},
	CategoryMyomer:    {"myomer_types", "myomer_type_aliases", "myomer_type_id"},
}

// Resolver maps raw component labels to canonical catalog entries via
// the alias tables. It is the only resolution path: no fuzzy matching,
// no guessing, an unknown label simply stays unresolved.
type Resolver struct {
	db *sql.DB
}

func NewResolver(db *sql.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve looks a label up in the category's alias table, ignoring
// surrounding whitespace and letter case. A miss returns ok=false with
// no error; the caller decides whether that is worth flagging.
func (r *Resolver) Resolve(ctx context.Context, cat Category, rawLabel string) (int64, bool, error) {
	label := strings.TrimSpace(rawLabel)
	if label == "" {
		return 0, false, nil
	}
	spec, ok := categorySpecs[cat]
	if !ok {
		return 0, false, fmt.Errorf("unknown component category %q", cat)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE alias = ? COLLATE NOCASE",
		spec.fkColumn, spec.aliasTable)

	var id int64
	err := r.db.QueryRowContext(ctx, query, label).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("resolve %s label %q: %w", cat, label, err)
	}
	return id, true, nil
}
