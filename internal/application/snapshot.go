package application

import (
	"sort"
	"time"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/memory"
	"github.com/bnema/edc/internal/ports"
)

const maxRetainedGaps = 16

// Snapshot is an immutable version of the derived state. It exposes no
// mutation; new versions are produced by the engine and published by the
// store.
type Snapshot struct {
	version     uint64
	committedAt time.Time
	context     domain.SessionContext
	thresholds  domain.Thresholds
	exploration memory.Exploration
	exobiology  memory.Exobiology
	combat      memory.Combat
	powerPlay   memory.PowerPlay
	inventory   memory.Inventory
	ledger      memory.Ledger
	goals       memory.CommunityGoals
	gaps        []domain.IngestionGap
	lastEvent   string
}

func NewSnapshot(thresholds domain.Thresholds, ref ports.ReferenceLookup) Snapshot {
	return Snapshot{
		thresholds:  thresholds,
		exploration: memory.NewExploration(ref),
		exobiology:  memory.NewExobiology(ref),
		combat:      memory.NewCombat(),
		powerPlay:   memory.NewPowerPlay(),
		inventory:   memory.NewInventory(),
		ledger:      memory.NewLedger(),
		goals:       memory.NewCommunityGoals(),
	}
}

func (s Snapshot) Version() uint64               { return s.version }
func (s Snapshot) CommittedAt() time.Time        { return s.committedAt }
func (s Snapshot) Thresholds() domain.Thresholds { return s.thresholds }
func (s Snapshot) LastEvent() string             { return s.lastEvent }

// Context returns a deep copy; callers may modify it freely.
func (s Snapshot) Context() domain.SessionContext {
	return s.context.Clone()
}

func (s Snapshot) Gaps() []domain.IngestionGap {
	return append([]domain.IngestionGap(nil), s.gaps...)
}

// Stale reports that a discontinuity was observed and derived state may be
// missing events.
func (s Snapshot) Stale() bool {
	return len(s.gaps) > 0
}

type BodyView struct {
	domain.ExplorationBody
	HighValue bool
}

type ExplorationView struct {
	System         domain.SystemID
	BodyCount      int
	NonBodyCount   int
	AllBodiesFound bool
	Bodies         []BodyView
	Signals        []domain.SystemSignal
	HighValueCount int
}

type SpeciesView struct {
	domain.SpeciesProgress
	HighValue bool
}

type BioBodyView struct {
	ID         domain.BodyID
	Name       string
	BioSignals int
	Unresolved int
	Species    []SpeciesView
}

type ExobiologyView struct {
	System domain.SystemID
	Bodies []BioBodyView
}

// CurrentView holds only entries keyed by the current system.
type CurrentView struct {
	Version     uint64
	Context     domain.SessionContext
	System      domain.SystemInfo
	Thresholds  domain.Thresholds
	Exploration ExplorationView
	Exobiology  ExobiologyView
	Combat      memory.CombatSystem
	PowerPlay   memory.PowerPlaySystem
	Pledge      *domain.PowerPledge
	Cargo       domain.CargoHold
	Materials   domain.MaterialStock
	Locker      domain.LockerStock
	Ledger      domain.SessionLedger
	Goals       []domain.CommunityGoal
	Gaps        []domain.IngestionGap
	Stale       bool
	LastEvent   string
}

func (s Snapshot) Current() CurrentView {
	sc := s.Context()
	view := CurrentView{
		Version:    s.version,
		Context:    sc,
		Thresholds: s.thresholds,
		Cargo:      s.inventory.Cargo(),
		Materials:  s.inventory.Materials(),
		Locker:     s.inventory.Locker(),
		Ledger:     s.ledger.Totals(),
		Goals:      s.goals.Goals(),
		Gaps:       s.Gaps(),
		Stale:      s.Stale(),
		LastEvent:  s.lastEvent,
	}
	if pledge, ok := s.powerPlay.Pledge(); ok {
		view.Pledge = &pledge
	}
	if !sc.HasSystem() {
		return view
	}

	id := sc.CurrentSystem
	view.System, _ = sc.CurrentSystemInfo()
	view.Exploration, _ = s.ExplorationFor(id)
	view.Exobiology, _ = s.ExobiologyFor(id)
	view.Combat, _ = s.CombatFor(id)
	view.PowerPlay, _ = s.PowerPlayFor(id)
	return view
}

func (s Snapshot) ExplorationFor(id domain.SystemID) (ExplorationView, bool) {
	sys, ok := s.exploration.System(id)
	view := ExplorationView{
		System:         id,
		BodyCount:      sys.BodyCount,
		NonBodyCount:   sys.NonBodyCount,
		AllBodiesFound: sys.AllBodiesFound,
		Signals:        sys.Signals,
	}
	for _, body := range sys.Bodies {
		high := body.IsHighValue(s.thresholds.ExplorationHighValue)
		if high {
			view.HighValueCount++
		}
		view.Bodies = append(view.Bodies, BodyView{ExplorationBody: body, HighValue: high})
	}
	return view, ok
}

func (s Snapshot) ExobiologyFor(id domain.SystemID) (ExobiologyView, bool) {
	sys, ok := s.exobiology.System(id)
	view := ExobiologyView{System: id}
	for _, body := range sys.Bodies {
		bv := BioBodyView{ID: body.ID, Name: body.Name, BioSignals: body.BioSignals, Unresolved: body.Unresolved()}
		for _, species := range body.Species {
			bv.Species = append(bv.Species, SpeciesView{
				SpeciesProgress: species,
				HighValue:       species.IsHighValue(s.thresholds.ExobiologyHighValue),
			})
		}
		view.Bodies = append(view.Bodies, bv)
	}
	return view, ok
}

func (s Snapshot) CombatFor(id domain.SystemID) (memory.CombatSystem, bool) {
	return s.combat.System(id)
}

func (s Snapshot) PowerPlayFor(id domain.SystemID) (memory.PowerPlaySystem, bool) {
	return s.powerPlay.System(id)
}

// KnownSystems lists every system any memory or the context has recorded.
func (s Snapshot) KnownSystems() []domain.SystemID {
	seen := map[domain.SystemID]struct{}{}
	var out []domain.SystemID
	add := func(ids []domain.SystemID) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for id := range s.context.Systems {
		add([]domain.SystemID{id})
	}
	add(s.exploration.Systems())
	add(s.exobiology.Systems())
	add(s.combat.Systems())
	add(s.powerPlay.Systems())
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// rekeyed moves every memory entry recorded under from to to.
func (s Snapshot) rekeyed(from, to domain.SystemID) Snapshot {
	s.exploration, _ = s.exploration.Rekey(from, to)
	s.exobiology, _ = s.exobiology.Rekey(from, to)
	s.combat, _ = s.combat.Rekey(from, to)
	s.powerPlay, _ = s.powerPlay.Rekey(from, to)
	return s
}

func (s Snapshot) withGap(gap domain.IngestionGap) Snapshot {
	gaps := append([]domain.IngestionGap(nil), s.gaps...)
	gaps = append(gaps, gap)
	if len(gaps) > maxRetainedGaps {
		gaps = gaps[len(gaps)-maxRetainedGaps:]
	}
	s.gaps = gaps
	return s
}
