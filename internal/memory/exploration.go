package memory

import (
	"sort"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
	"github.com/bnema/edc/internal/ports"
)

type explorationSystem struct {
	bodies         map[domain.BodyID]domain.ExplorationBody
	bodyCount      int
	nonBodyCount   int
	allBodiesFound bool
	signals        []domain.SystemSignal
}

func (s *explorationSystem) clone() *explorationSystem {
	if s == nil {
		return &explorationSystem{bodies: map[domain.BodyID]domain.ExplorationBody{}}
	}
	out := *s
	out.bodies = cloneMap(s.bodies)
	out.signals = append([]domain.SystemSignal(nil), s.signals...)
	return &out
}

// Exploration tracks scanned bodies and their values per system.
type Exploration struct {
	systems map[domain.SystemID]*explorationSystem
	ref     ports.ReferenceLookup
}

func NewExploration(ref ports.ReferenceLookup) Exploration {
	return Exploration{systems: map[domain.SystemID]*explorationSystem{}, ref: ref}
}

// ExplorationSystem is a read-only view of one system.
type ExplorationSystem struct {
	ID             domain.SystemID
	BodyCount      int
	NonBodyCount   int
	AllBodiesFound bool
	Bodies         []domain.ExplorationBody
	Signals        []domain.SystemSignal
}

func (m Exploration) Apply(evt journal.Event, sc domain.SessionContext) (Exploration, bool) {
	if !sc.HasSystem() {
		return m, false
	}

	var mutate func(*explorationSystem) bool
	switch e := evt.(type) {
	case journal.FSSDiscoveryScan:
		mutate = func(s *explorationSystem) bool {
			s.bodyCount = e.BodyCount
			s.nonBodyCount = e.NonBodyCount
			return true
		}
	case journal.FSSAllBodiesFound:
		mutate = func(s *explorationSystem) bool {
			s.allBodiesFound = true
			if e.Count > s.bodyCount {
				s.bodyCount = e.Count
			}
			return true
		}
	case journal.FSSSignalDiscovered:
		mutate = func(s *explorationSystem) bool { return s.recordSignal(e) }
	case journal.Scan:
		if !e.HasBodyID {
			return m, false
		}
		mutate = func(s *explorationSystem) bool {
			id := domain.BodyID(e.BodyID)
			s.bodies[id] = m.scanned(s.bodies[id], e)
			return true
		}
	case journal.SAAScanComplete:
		if !e.HasBodyID {
			return m, false
		}
		mutate = func(s *explorationSystem) bool {
			id := domain.BodyID(e.BodyID)
			s.bodies[id] = m.mapped(s.bodies[id], id, e.BodyName)
			return true
		}
	case journal.FSSBodySignals:
		mutate = func(s *explorationSystem) bool {
			return s.recordSignals(e.HasBodyID, e.BodyID, e.BodyName, e.Signals)
		}
	case journal.SAASignalsFound:
		mutate = func(s *explorationSystem) bool {
			return s.recordSignals(e.HasBodyID, e.BodyID, e.BodyName, e.Signals)
		}
	default:
		return m, false
	}

	next := m.systems[sc.CurrentSystem].clone()
	if !mutate(next) {
		return m, false
	}
	return Exploration{systems: withEntry(m.systems, sc.CurrentSystem, next), ref: m.ref}, true
}

// Rekey moves the entry recorded under from to to. When both exist the
// bodies are merged, keeping the entry already under to.
func (m Exploration) Rekey(from, to domain.SystemID) (Exploration, bool) {
	systems, ok := rekey(m.systems, from, to, func(older, newer *explorationSystem) *explorationSystem {
		merged := newer.clone()
		for id, body := range older.bodies {
			if _, ok := merged.bodies[id]; !ok {
				merged.bodies[id] = body
			}
		}
		if merged.bodyCount == 0 {
			merged.bodyCount = older.bodyCount
			merged.nonBodyCount = older.nonBodyCount
		}
		merged.allBodiesFound = merged.allBodiesFound || older.allBodiesFound
		return merged
	})
	if !ok {
		return m, false
	}
	return Exploration{systems: systems, ref: m.ref}, true
}

func (m Exploration) scanned(body domain.ExplorationBody, e journal.Scan) domain.ExplorationBody {
	body.ID = domain.BodyID(e.BodyID)
	body.Name = e.BodyName
	body.IsStar = e.IsStar()
	body.Class = e.PlanetClass
	if body.IsStar {
		body.Class = e.StarType
	}
	body.Terraformable = e.Terraformable()
	body.Landable = e.Landable
	body.DistanceLS = e.DistanceLS
	body.WasDiscovered = e.WasDiscovered
	body.WasMapped = e.WasMapped

	if v, ok := m.lookup(body, false); ok {
		body.FSSEstimatedValue = int64Ptr(v)
	}
	if body.Scanned && body.DSSConfirmedValue == nil {
		if v, ok := m.lookup(body, true); ok {
			body.DSSConfirmedValue = int64Ptr(v)
		}
	}
	return body
}

func (m Exploration) mapped(body domain.ExplorationBody, id domain.BodyID, name string) domain.ExplorationBody {
	body.ID = id
	if body.Name == "" {
		body.Name = name
	}
	body.Scanned = true
	if v, ok := m.lookup(body, true); ok {
		body.DSSConfirmedValue = int64Ptr(v)
	}
	return body
}

func (m Exploration) lookup(body domain.ExplorationBody, mapped bool) (int64, bool) {
	if m.ref == nil || body.Class == "" || body.IsStar {
		return 0, false
	}
	return m.ref.BodyValue(domain.BodyValueKey{
		Class:           body.Class,
		Terraformable:   body.Terraformable,
		Mapped:          mapped,
		FirstDiscovered: !body.WasDiscovered,
	})
}

func (s *explorationSystem) recordSignals(hasID bool, id int, name string, counts journal.SignalCounts) bool {
	if !hasID {
		return false
	}
	body := s.bodies[domain.BodyID(id)]
	body.ID = domain.BodyID(id)
	if body.Name == "" {
		body.Name = name
	}
	body.BioSignals = counts.Biological
	body.GeoSignals = counts.Geological
	s.bodies[body.ID] = body
	return true
}

func (s *explorationSystem) recordSignal(e journal.FSSSignalDiscovered) bool {
	if e.SignalName == "" && e.SignalType == "" {
		return false
	}
	signal := domain.SystemSignal{
		Name:          e.SignalName,
		Type:          e.SignalType,
		USSType:       e.USSType,
		IsStation:     e.IsStation,
		Category:      domain.ClassifySignal(e.SignalName, e.SignalType, e.USSType, e.IsStation),
		TimeRemaining: e.TimeRemaining,
		LastSeen:      e.At(),
	}
	if e.HasThreat {
		threat := e.ThreatLevel
		signal.ThreatLevel = &threat
	}

	key := signal.Key()
	for i := range s.signals {
		if s.signals[i].Key() == key {
			s.signals[i] = signal
			return true
		}
	}
	s.signals = append(s.signals, signal)
	if len(s.signals) > domain.MaxSystemSignals {
		s.signals = s.signals[len(s.signals)-domain.MaxSystemSignals:]
	}
	return true
}

// System returns the view of one system, current or historical.
func (m Exploration) System(id domain.SystemID) (ExplorationSystem, bool) {
	sys, ok := m.systems[id]
	if !ok {
		return ExplorationSystem{ID: id}, false
	}

	view := ExplorationSystem{
		ID:             id,
		BodyCount:      sys.bodyCount,
		NonBodyCount:   sys.nonBodyCount,
		AllBodiesFound: sys.allBodiesFound,
	}
	for _, signal := range sys.signals {
		view.Signals = append(view.Signals, detachSignal(signal))
	}
	for _, body := range sys.bodies {
		view.Bodies = append(view.Bodies, detachBody(body))
	}
	sort.Slice(view.Bodies, func(i, j int) bool {
		vi, _ := view.Bodies[i].BestValue()
		vj, _ := view.Bodies[j].BestValue()
		if vi != vj {
			return vi > vj
		}
		return view.Bodies[i].ID < view.Bodies[j].ID
	})
	return view, true
}

// detachBody copies value pointers so views never alias stored state.
func detachBody(b domain.ExplorationBody) domain.ExplorationBody {
	if b.FSSEstimatedValue != nil {
		b.FSSEstimatedValue = int64Ptr(*b.FSSEstimatedValue)
	}
	if b.DSSConfirmedValue != nil {
		b.DSSConfirmedValue = int64Ptr(*b.DSSConfirmedValue)
	}
	return b
}

func detachSignal(s domain.SystemSignal) domain.SystemSignal {
	if s.ThreatLevel != nil {
		threat := *s.ThreatLevel
		s.ThreatLevel = &threat
	}
	return s
}

func (m Exploration) Systems() []domain.SystemID {
	return keys(m.systems)
}
