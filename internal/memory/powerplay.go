package memory

import (
	"sort"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
)

type powerPlaySystem struct {
	actions map[domain.ActionID]domain.PowerAction
	context domain.SystemPowerContext
}

// PowerPlay records journal power events per system. It does no scoring.
type PowerPlay struct {
	systems map[domain.SystemID]powerPlaySystem
	pledge  *domain.PowerPledge
	seq     int
}

func NewPowerPlay() PowerPlay {
	return PowerPlay{systems: map[domain.SystemID]powerPlaySystem{}}
}

type PowerPlaySystem struct {
	ID      domain.SystemID
	Context domain.SystemPowerContext
	Actions []domain.PowerAction
}

func (m PowerPlay) Apply(evt journal.Event, sc domain.SessionContext) (PowerPlay, bool) {
	switch e := evt.(type) {
	case journal.PowerplayStatus:
		next := m
		next.pledge = &domain.PowerPledge{
			Power:       e.Power,
			Rank:        e.Rank,
			Merits:      e.Merits,
			TimePledged: e.TimePledged,
			UpdatedAt:   e.At(),
		}
		return next, true
	case journal.FSDJump:
		return m.withSystemContext(sc, e.System)
	case journal.Location:
		return m.withSystemContext(sc, e.System)
	case journal.PowerplayAction:
		return m.withAction(sc, e)
	}
	return m, false
}

func (m PowerPlay) withSystemContext(sc domain.SessionContext, info domain.SystemInfo) (PowerPlay, bool) {
	if !sc.HasSystem() || info.ID() != sc.CurrentSystem {
		return m, false
	}
	sys := m.systems[sc.CurrentSystem]
	sys.context = domain.SystemPowerContext{
		ControllingPower: info.ControllingPower,
		Powers:           append([]string(nil), info.Powers...),
		State:            info.PowerplayState,
		ConflictProgress: cloneMap(info.ConflictProgress),
	}
	next := m
	next.systems = withEntry(m.systems, sc.CurrentSystem, sys)
	return next, true
}

func (m PowerPlay) withAction(sc domain.SessionContext, e journal.PowerplayAction) (PowerPlay, bool) {
	if !sc.HasSystem() {
		return m, false
	}

	power := e.Power
	if power == "" {
		power = e.ToPower
	}
	count := e.Count
	if count == 0 && e.Votes > 0 {
		count = e.Votes
	}

	next := m
	next.seq = m.seq + 1
	action := domain.PowerAction{
		ID:         domain.NewActionID(e.At(), e.Kind, next.seq),
		Kind:       e.Kind,
		Power:      power,
		Count:      count,
		Merits:     e.Merits,
		ObservedAt: e.At(),
	}

	sys := m.systems[sc.CurrentSystem]
	sys.actions = withEntry(sys.actions, action.ID, action)
	next.systems = withEntry(m.systems, sc.CurrentSystem, sys)

	if next.pledge != nil {
		pledge := *next.pledge
		switch e.Kind {
		case "PowerplayLeave":
			next.pledge = nil
		case "PowerplayDefect":
			pledge.Power = e.ToPower
			next.pledge = &pledge
		case "PowerplayMerits":
			pledge.Merits += e.Merits
			next.pledge = &pledge
		case "PowerplayRank":
			pledge.Rank = e.Rank
			next.pledge = &pledge
		}
	} else if e.Kind == "PowerplayJoin" {
		next.pledge = &domain.PowerPledge{Power: power, UpdatedAt: e.At()}
	}
	return next, true
}

// Rekey moves actions recorded under from to to. The power context already
// under to wins on conflict.
func (m PowerPlay) Rekey(from, to domain.SystemID) (PowerPlay, bool) {
	systems, ok := rekey(m.systems, from, to, func(older, newer powerPlaySystem) powerPlaySystem {
		merged := newer
		merged.actions = cloneMap(newer.actions)
		for id, a := range older.actions {
			merged.actions[id] = a
		}
		if merged.context.ControllingPower == "" && len(merged.context.Powers) == 0 {
			merged.context = older.context
		}
		return merged
	})
	if !ok {
		return m, false
	}
	next := m
	next.systems = systems
	return next, true
}

func (m PowerPlay) Pledge() (domain.PowerPledge, bool) {
	if m.pledge == nil {
		return domain.PowerPledge{}, false
	}
	return *m.pledge, true
}

func (m PowerPlay) System(id domain.SystemID) (PowerPlaySystem, bool) {
	sys, ok := m.systems[id]
	if !ok {
		return PowerPlaySystem{ID: id}, false
	}
	view := PowerPlaySystem{ID: id, Context: sys.context}
	view.Context.Powers = append([]string(nil), sys.context.Powers...)
	if sys.context.ConflictProgress != nil {
		view.Context.ConflictProgress = cloneMap(sys.context.ConflictProgress)
	}
	for _, a := range sys.actions {
		view.Actions = append(view.Actions, a)
	}
	sort.Slice(view.Actions, func(i, j int) bool {
		a, b := view.Actions[i], view.Actions[j]
		if !a.ObservedAt.Equal(b.ObservedAt) {
			return a.ObservedAt.Before(b.ObservedAt)
		}
		return a.ID < b.ID
	})
	return view, true
}

func (m PowerPlay) Systems() []domain.SystemID {
	return keys(m.systems)
}
