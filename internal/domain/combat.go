package domain

import (
	"strings"
	"time"
)

// MinContactScanStage is the first ShipTargeted scan stage that carries
// pilot identity.
const MinContactScanStage = 3

const alertBountyMinimum int64 = 500_000

var pilotRanks = []string{
	"Harmless", "Mostly Harmless", "Novice", "Competent", "Expert",
	"Master", "Dangerous", "Deadly", "Elite",
}

func PilotRankName(rank int) string {
	if rank < 0 || rank >= len(pilotRanks) {
		return ""
	}
	return pilotRanks[rank]
}

func NewContactID(pilot, ship, faction string) ContactID {
	return ContactID(strings.Join([]string{pilot, ship, faction}, "|"))
}

type Contact struct {
	ID              ContactID
	Pilot           string
	Ship            string
	Faction         string
	Rank            string
	Power           string
	LegalStatus     string
	Bounty          int64
	LastScanStage   int
	FirstSeenAt     time.Time
	LastSeenAt      time.Time
	IsCurrentTarget bool
	Destroyed       bool
	Alert           bool
}

func (c Contact) Wanted() bool {
	return strings.EqualFold(c.LegalStatus, "wanted")
}

func (c Contact) dangerous() bool {
	switch c.Rank {
	case "Dangerous", "Deadly", "Elite":
		return true
	}
	return false
}

// EvaluateAlert flags contacts worth the commander's attention. Nothing is
// flagged while the commander is not pledged.
func (c Contact) EvaluateAlert(pledgedPower, controllingPower string) bool {
	if pledgedPower == "" {
		return false
	}
	bountyTarget := c.Wanted() && c.Bounty >= alertBountyMinimum && c.dangerous()
	if controllingPower != pledgedPower {
		return bountyTarget
	}
	enemy := c.Power != "" && c.Power != pledgedPower
	return enemy || bountyTarget
}
