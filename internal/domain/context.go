package domain

import "time"

// SessionContext is the commander's situational context derived from the
// journal. It is a value; updates produce a new SessionContext.
type SessionContext struct {
	SessionID       string
	StartedAt       time.Time
	Commander       string
	Ship            string
	Credits         int64
	PledgedPower    string
	CurrentSystem   SystemID
	SystemName      string
	SystemAddress   int64
	CurrentBody     *BodyID
	CurrentBodyName string
	InHyperspace    bool
	PendingJump     *PendingJump
	Systems         map[SystemID]SystemInfo
}

func (c SessionContext) Started() bool {
	return c.SessionID != ""
}

func (c SessionContext) HasSystem() bool {
	return !c.CurrentSystem.IsZero()
}

// CurrentSystemInfo returns metadata recorded for the current system.
func (c SessionContext) CurrentSystemInfo() (SystemInfo, bool) {
	if !c.HasSystem() {
		return SystemInfo{}, false
	}
	info, ok := c.Systems[c.CurrentSystem]
	return info.Clone(), ok
}

// Clone returns a copy sharing no slices, maps or pointers with c.
func (c SessionContext) Clone() SessionContext {
	if c.Systems != nil {
		systems := make(map[SystemID]SystemInfo, len(c.Systems))
		for id, info := range c.Systems {
			systems[id] = info.Clone()
		}
		c.Systems = systems
	}
	if c.CurrentBody != nil {
		c.CurrentBody = c.CurrentBody.Ptr()
	}
	if c.PendingJump != nil {
		pending := *c.PendingJump
		c.PendingJump = &pending
	}
	return c
}

type PendingJump struct {
	Destination   string
	SystemAddress int64
	StarClass     string
	StartedAt     time.Time
}

// ContextChange is emitted only when the current system ID changes.
// Resolved marks a name-only system gaining its address: the commander did
// not move, and entries keyed by From now belong to To.
type ContextChange struct {
	From     SystemID
	To       SystemID
	Resolved bool
}

type Faction struct {
	Name       string
	Government string
	Allegiance string
	Influence  float64
	State      string
}

// SystemInfo is the metadata carried by jump and location records.
type SystemInfo struct {
	Name               string
	Address            int64
	StarClass          string
	Allegiance         string
	Government         string
	Economy            string
	Security           string
	Population         int64
	ControllingFaction string
	Factions           []Faction
	ControllingPower   string
	Powers             []string
	PowerplayState     string
	ConflictProgress   map[string]float64
}

// Clone returns a copy sharing no slices or maps with s.
func (s SystemInfo) Clone() SystemInfo {
	if s.Factions != nil {
		s.Factions = append([]Faction(nil), s.Factions...)
	}
	if s.Powers != nil {
		s.Powers = append([]string(nil), s.Powers...)
	}
	if s.ConflictProgress != nil {
		progress := make(map[string]float64, len(s.ConflictProgress))
		for power, v := range s.ConflictProgress {
			progress[power] = v
		}
		s.ConflictProgress = progress
	}
	return s
}

func (s SystemInfo) ID() SystemID {
	return NewSystemID(s.Address, s.Name)
}
