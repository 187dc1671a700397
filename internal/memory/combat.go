package memory

import (
	"sort"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
)

type combatSystem struct {
	contacts map[domain.ContactID]domain.Contact
	current  domain.ContactID
}

func (s combatSystem) clone() combatSystem {
	s.contacts = cloneMap(s.contacts)
	return s
}

// Combat tracks identified contacts per system.
type Combat struct {
	systems map[domain.SystemID]combatSystem
}

func NewCombat() Combat {
	return Combat{systems: map[domain.SystemID]combatSystem{}}
}

type CombatSystem struct {
	ID       domain.SystemID
	Contacts []domain.Contact
}

// CurrentTarget returns the contact currently locked, if identified.
func (c CombatSystem) CurrentTarget() (domain.Contact, bool) {
	for _, contact := range c.Contacts {
		if contact.IsCurrentTarget {
			return contact, true
		}
	}
	return domain.Contact{}, false
}

func (m Combat) Apply(evt journal.Event, sc domain.SessionContext) (Combat, bool) {
	if !sc.HasSystem() {
		return m, false
	}

	var mutate func(*combatSystem) bool
	switch e := evt.(type) {
	case journal.ShipTargeted:
		mutate = func(s *combatSystem) bool { return s.target(e, sc) }
	case journal.Bounty:
		mutate = func(s *combatSystem) bool { return s.destroyed(e) }
	default:
		return m, false
	}

	sys := m.systems[sc.CurrentSystem].clone()
	if !mutate(&sys) {
		return m, false
	}
	return Combat{systems: withEntry(m.systems, sc.CurrentSystem, sys)}, true
}

// Rekey moves contacts recorded under from to to. Contacts already under
// to win on conflict.
func (m Combat) Rekey(from, to domain.SystemID) (Combat, bool) {
	systems, ok := rekey(m.systems, from, to, func(older, newer combatSystem) combatSystem {
		merged := newer.clone()
		for id, c := range older.contacts {
			if _, ok := merged.contacts[id]; !ok {
				c.IsCurrentTarget = false
				merged.contacts[id] = c
			}
		}
		return merged
	})
	if !ok {
		return m, false
	}
	return Combat{systems: systems}, true
}

func (s *combatSystem) target(e journal.ShipTargeted, sc domain.SessionContext) bool {
	if !e.TargetLocked {
		return s.setCurrent("")
	}

	if e.ScanStage < domain.MinContactScanStage {
		// Partial scans carry no identity; they can only re-target a
		// contact already identified.
		id, ok := s.match(e.PilotName, e.Ship)
		if !ok {
			return s.setCurrent("")
		}
		return s.setCurrent(id)
	}

	pilot := e.PilotName
	id := domain.NewContactID(pilot, e.Ship, e.Faction)
	contact, ok := s.contacts[id]
	if !ok {
		contact = domain.Contact{ID: id, Pilot: pilot, Ship: e.Ship, Faction: e.Faction, FirstSeenAt: e.At()}
	}
	if e.PilotRank != "" {
		contact.Rank = e.PilotRank
	}
	if e.Power != "" {
		contact.Power = e.Power
	}
	if e.LegalStatus != "" {
		contact.LegalStatus = e.LegalStatus
	}
	if e.Bounty > 0 || contact.Bounty == 0 {
		contact.Bounty = e.Bounty
	}
	if e.ScanStage > contact.LastScanStage {
		contact.LastScanStage = e.ScanStage
	}
	contact.LastSeenAt = e.At()

	controlling := ""
	if info, ok := sc.CurrentSystemInfo(); ok {
		controlling = info.ControllingPower
	}
	contact.Alert = contact.EvaluateAlert(sc.PledgedPower, controlling)

	s.contacts[id] = contact
	s.setCurrent(id)
	return true
}

func (s *combatSystem) match(pilot, ship string) (domain.ContactID, bool) {
	if pilot == "" {
		if current, ok := s.contacts[s.current]; ok && current.Ship == ship {
			return current.ID, true
		}
		return "", false
	}
	for id, c := range s.contacts {
		if c.Pilot == pilot && c.Ship == ship {
			return id, true
		}
	}
	return "", false
}

func (s *combatSystem) setCurrent(id domain.ContactID) bool {
	if s.current == id {
		return false
	}
	if prev, ok := s.contacts[s.current]; ok {
		prev.IsCurrentTarget = false
		s.contacts[s.current] = prev
	}
	s.current = id
	if next, ok := s.contacts[id]; ok {
		next.IsCurrentTarget = true
		s.contacts[id] = next
	}
	return true
}

func (s *combatSystem) destroyed(e journal.Bounty) bool {
	var id domain.ContactID
	if e.PilotName != "" {
		for cid, c := range s.contacts {
			if c.Pilot == e.PilotName && (e.VictimFaction == "" || c.Faction == e.VictimFaction) {
				id = cid
				break
			}
		}
	}
	if id == "" {
		if current, ok := s.contacts[s.current]; ok && current.Faction == e.VictimFaction {
			id = current.ID
		}
	}
	contact, ok := s.contacts[id]
	if !ok || contact.Destroyed {
		return false
	}
	contact.Destroyed = true
	contact.LastSeenAt = e.At()
	s.contacts[id] = contact
	if s.current == id {
		s.setCurrent("")
	}
	return true
}

func (m Combat) System(id domain.SystemID) (CombatSystem, bool) {
	sys, ok := m.systems[id]
	if !ok {
		return CombatSystem{ID: id}, false
	}
	view := CombatSystem{ID: id}
	for _, c := range sys.contacts {
		view.Contacts = append(view.Contacts, c)
	}
	sort.Slice(view.Contacts, func(i, j int) bool {
		a, b := view.Contacts[i], view.Contacts[j]
		if !a.LastSeenAt.Equal(b.LastSeenAt) {
			return a.LastSeenAt.After(b.LastSeenAt)
		}
		return a.ID < b.ID
	})
	return view, true
}

func (m Combat) Systems() []domain.SystemID {
	return keys(m.systems)
}
