package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"mechbay/internal/parser"
	"mechbay/internal/refdata"
	"mechbay/pkg/models"
)

// Stats counts run outcomes. Fields are atomic so concurrent workers
// can bump them without a shared lock.
type Stats struct {
	Parsed    atomic.Int64
	Imported  atomic.Int64
	Updated   atomic.Int64
	Skipped   atomic.Int64
	Failed    atomic.Int64
	Unmatched atomic.Int64
}

func (s *Stats) String() string {
	return fmt.Sprintf("parsed=%d imported=%d updated=%d skipped=%d failed=%d unmatched=%d",
		s.Parsed.Load(), s.Imported.Load(), s.Updated.Load(),
		s.Skipped.Load(), s.Failed.Load(), s.Unmatched.Load())
}

// Pipeline ingests parsed units into the entity graph. One Pipeline is
// one run: it owns the run's equipment cache, so two Pipelines never
// share mutable state and can operate on separate databases in tests.
type Pipeline struct {
	db       *sql.DB
	repo     *Repo
	resolver *refdata.Resolver
	cache    *EquipmentCache
	log      *logrus.Logger
}

func NewPipeline(db *sql.DB, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		db:       db,
		repo:     NewRepo(db),
		resolver: refdata.NewResolver(db),
		cache:    NewEquipmentCache(),
		log:      log,
	}
}

// IngestUnit writes one parsed unit and everything it owns. Chassis and
// equipment rows are shared across units, so they are found-or-created
// before the unit's transaction opens; if the transaction then rolls
// back, those dimension rows stay valid for every other unit and the
// cache never holds an id that vanished. Returns whether the unit row
// was newly created.
func (p *Pipeline) IngestUnit(ctx context.Context, unit *models.ParsedUnit) (bool, error) {
	if unit == nil || strings.TrimSpace(unit.Chassis) == "" {
		return false, fmt.Errorf("unit has no chassis name")
	}

	chassisID, err := p.repo.UpsertChassis(ctx, unit.Chassis, unit.UnitType, unit.Tonnage)
	if err != nil {
		return false, err
	}

	loadout := make([]ResolvedLoadout, 0, len(unit.Loadout))
	for _, e := range unit.Loadout {
		equipmentID, err := p.repo.UpsertEquipment(ctx, p.cache, e.Equipment,
			parser.CategorizeEquipment(e.Equipment), parser.EquipmentTechBase(e.Equipment))
		if err != nil {
			return false, err
		}
		loadout = append(loadout, ResolvedLoadout{
			EquipmentID: equipmentID,
			Location:    e.Location,
			Quantity:    e.Quantity,
			IsRear:      e.IsRear,
		})
	}

	var comp ResolvedComponents
	if unit.Mech != nil {
		if comp, err = p.resolveComponents(ctx, unit.Mech); err != nil {
			return false, err
		}
		for _, label := range comp.Unresolved {
			p.log.Warnf("unit %s: unresolved component %s", unit.FullName(), label)
		}
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx for %s: %w", unit.FullName(), err)
	}
	defer tx.Rollback()

	unitID, created, err := p.repo.UpsertUnit(ctx, tx, unit, chassisID)
	if err != nil {
		return false, err
	}
	if err := p.repo.ReplaceLocations(ctx, tx, unitID, unit.Locations); err != nil {
		return false, err
	}
	if err := p.repo.ReplaceLoadout(ctx, tx, unitID, loadout); err != nil {
		return false, err
	}
	if err := p.repo.ReplaceQuirks(ctx, tx, unitID, unit.Quirks); err != nil {
		return false, err
	}
	if unit.Mech != nil {
		if err := p.repo.UpsertMechData(ctx, tx, unitID, unit.Mech, comp); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit %s: %w", unit.FullName(), err)
	}
	return created, nil
}

// resolveComponents maps each raw component label to its canonical
// catalog id. Gyro, cockpit and myomer assume their standard entry when
// the label is absent; the other categories are never defaulted, an
// absent label just stays unresolved. A present label that matches no
// alias is flagged, not guessed at.
func (p *Pipeline) resolveComponents(ctx context.Context, mech *models.MechAttributes) (ResolvedComponents, error) {
	var comp ResolvedComponents

	fields := []struct {
		cat   refdata.Category
		label string
		dst   *sql.NullInt64
	}{
		{refdata.CategoryEngine, mech.EngineType, &comp.EngineID},
		{refdata.CategoryArmor, mech.ArmorType, &comp.ArmorID},
		{refdata.CategoryStructure, mech.StructureType, &comp.StructureID},
		{refdata.CategoryHeatSink, mech.HeatSinkType, &comp.HeatSinkID},
		{refdata.CategoryGyro, mech.GyroType, &comp.GyroID},
		{refdata.CategoryCockpit, mech.CockpitType, &comp.CockpitID},
		{refdata.CategoryMyomer, mech.MyomerType, &comp.MyomerID},
	}
	for _, f := range fields {
		label := strings.TrimSpace(f.label)
		if label == "" {
			label = refdata.DefaultLabel(f.cat)
			if label == "" {
				continue
			}
		}
		id, ok, err := p.resolver.Resolve(ctx, f.cat, label)
		if err != nil {
			return comp, err
		}
		if !ok {
			comp.Unresolved = append(comp.Unresolved, fmt.Sprintf("%s %q", f.cat, label))
			continue
		}
		*f.dst = sql.NullInt64{Int64: id, Valid: true}
	}
	return comp, nil
}

// IngestBatch runs units through a worker pool. A failed unit is logged
// and counted, never fatal, unless failures reach maxErrors, at which
// point the rest of the batch is cancelled. workers <= 0 picks a size
// from the CPU count; maxErrors <= 0 means no limit.
func (p *Pipeline) IngestBatch(ctx context.Context, units []*models.ParsedUnit, workers, maxErrors int) (*Stats, error) {
	stats := &Stats{}
	if workers < 1 {
		workers = runtime.NumCPU() / 2
		if workers < 1 {
			workers = 1
		}
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return stats, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		processed atomic.Int64
	)
	total := len(units)

	for _, unit := range units {
		if batchCtx.Err() != nil {
			stats.Skipped.Add(1)
			continue
		}
		if unit == nil {
			stats.Skipped.Add(1)
			continue
		}

		unit := unit
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if batchCtx.Err() != nil {
				stats.Skipped.Add(1)
				return
			}

			created, err := p.IngestUnit(batchCtx, unit)
			switch {
			case err != nil:
				stats.Failed.Add(1)
				p.log.Errorf("ingest %s: %v", unit.FullName(), err)
				if maxErrors > 0 && stats.Failed.Load() >= int64(maxErrors) {
					cancel()
				}
			case created:
				stats.Imported.Add(1)
			default:
				stats.Updated.Add(1)
			}

			if n := processed.Add(1); n%500 == 0 {
				p.log.Infof("progress: %d/%d units", n, total)
			}
		})
		if err != nil {
			wg.Done()
			stats.Failed.Add(1)
			p.log.Errorf("submit %s: %v", unit.FullName(), err)
		}
	}
	wg.Wait()

	if maxErrors > 0 && stats.Failed.Load() >= int64(maxErrors) {
		return stats, fmt.Errorf("aborted after %d failed units", stats.Failed.Load())
	}

	if _, err := p.repo.RefreshObservedLocations(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}
