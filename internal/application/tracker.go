package application

import (
	"strings"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
	"github.com/google/uuid"
)

var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("edc://session"))

// Tracker derives the session context. It holds no state; the context
// lives in the snapshot.
type Tracker struct{}

func (Tracker) Apply(sc domain.SessionContext, evt journal.Event) (domain.SessionContext, *domain.ContextChange) {
	switch e := evt.(type) {
	case journal.LoadGame:
		sc = startSession(sc, e.Commander, e)
		sc.Commander = e.Commander
		if e.Ship != "" {
			sc.Ship = e.Ship
		}
		sc.Credits = e.Credits
		if e.StarSystem != "" || e.SystemAddress > 0 {
			return moveTo(sc, domain.SystemInfo{Name: e.StarSystem, Address: e.SystemAddress}, false)
		}
	case journal.Commander:
		if e.Name != "" {
			sc.Commander = e.Name
		}
	case journal.Location:
		if !sc.Started() {
			sc = startSession(sc, sc.Commander, e)
		}
		sc.InHyperspace = false
		sc.PendingJump = nil
		next, change := moveTo(sc, e.System, true)
		if e.HasBodyID && !strings.EqualFold(e.BodyType, "Star") {
			next.CurrentBody = domain.BodyID(e.BodyID).Ptr()
			next.CurrentBodyName = e.BodyName
		}
		return next, change
	case journal.FSDJump:
		if !sc.Started() {
			sc = startSession(sc, sc.Commander, e)
		}
		sc.InHyperspace = false
		sc.PendingJump = nil
		next, change := moveTo(sc, e.System, true)
		if e.HasBodyID {
			next.CurrentBody = domain.BodyID(e.BodyID).Ptr()
			next.CurrentBodyName = e.BodyName
		}
		return next, change
	case journal.StartJump:
		if e.Hyperspace() {
			sc.InHyperspace = true
			sc.PendingJump = &domain.PendingJump{
				Destination:   e.StarSystem,
				SystemAddress: e.SystemAddress,
				StarClass:     e.StarClass,
				StartedAt:     e.At(),
			}
		}
	case journal.ApproachBody:
		if !e.HasBodyID || (sc.SystemAddress > 0 && e.SystemAddress > 0 && e.SystemAddress != sc.SystemAddress) {
			return sc, nil
		}
		sc.CurrentBody = domain.BodyID(e.BodyID).Ptr()
		sc.CurrentBodyName = e.BodyName
	case journal.LeaveBody:
		sc.CurrentBody = nil
		sc.CurrentBodyName = ""
	case journal.PowerplayStatus:
		sc.PledgedPower = e.Power
	case journal.PowerplayAction:
		switch e.Kind {
		case "PowerplayJoin":
			sc.PledgedPower = e.Power
		case "PowerplayLeave":
			sc.PledgedPower = ""
		case "PowerplayDefect":
			sc.PledgedPower = e.ToPower
		}
	}
	return sc, nil
}

// startSession renews the session identity. Derived memories are kept.
func startSession(sc domain.SessionContext, commander string, evt journal.Event) domain.SessionContext {
	seed := strings.Join([]string{commander, evt.EventKind(), evt.At().UTC().Format("2006-01-02T15:04:05Z")}, "|")
	sc.SessionID = uuid.NewSHA1(sessionNamespace, []byte(seed)).String()
	sc.StartedAt = evt.At()
	return sc
}

func moveTo(sc domain.SessionContext, info domain.SystemInfo, full bool) (domain.SessionContext, *domain.ContextChange) {
	info = withKnownAddress(sc, info)
	id := info.ID()
	if id.IsZero() {
		return sc, nil
	}

	var change *domain.ContextChange
	if id != sc.CurrentSystem {
		change = &domain.ContextChange{From: sc.CurrentSystem, To: id, Resolved: resolvesCurrent(sc, info)}
		if !change.Resolved {
			sc.CurrentBody = nil
			sc.CurrentBodyName = ""
		}
	}
	sc.CurrentSystem = id
	if info.Name != "" {
		sc.SystemName = info.Name
	}
	if info.Address > 0 {
		sc.SystemAddress = info.Address
	} else if change != nil {
		sc.SystemAddress = 0
	}

	systems := make(map[domain.SystemID]domain.SystemInfo, len(sc.Systems)+1)
	for k, v := range sc.Systems {
		systems[k] = v
	}
	if change != nil && change.Resolved {
		if prior, ok := systems[change.From]; ok {
			delete(systems, change.From)
			if _, exists := systems[id]; !exists {
				systems[id] = prior
			}
		}
	}

	known := systems[id]
	if full {
		known = info.Clone()
	} else {
		if info.Name != "" {
			known.Name = info.Name
		}
		if info.Address > 0 {
			known.Address = info.Address
		}
	}
	systems[id] = known
	sc.Systems = systems
	return sc, change
}

// withKnownAddress fills in the address of a name-only system that was
// already seen with one.
func withKnownAddress(sc domain.SessionContext, info domain.SystemInfo) domain.SystemInfo {
	name := strings.TrimSpace(info.Name)
	if info.Address > 0 || name == "" {
		return info
	}
	if sc.SystemAddress > 0 && strings.EqualFold(sc.SystemName, name) {
		info.Address = sc.SystemAddress
		return info
	}
	for _, known := range sc.Systems {
		if known.Address > 0 && strings.EqualFold(known.Name, name) {
			info.Address = known.Address
			return info
		}
	}
	return info
}

// resolvesCurrent reports that info is the current name-only system now
// seen with its address.
func resolvesCurrent(sc domain.SessionContext, info domain.SystemInfo) bool {
	return sc.HasSystem() &&
		sc.SystemAddress == 0 &&
		info.Address > 0 &&
		strings.EqualFold(string(sc.CurrentSystem), strings.TrimSpace(info.Name))
}
