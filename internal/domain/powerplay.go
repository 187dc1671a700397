package domain

import (
	"fmt"
	"time"
)

type PowerAction struct {
	ID         ActionID
	Kind       string
	Power      string
	Count      int
	Merits     int64
	ObservedAt time.Time
}

func NewActionID(at time.Time, kind string, seq int) ActionID {
	return ActionID(fmt.Sprintf("%d-%s-%d", at.UnixNano(), kind, seq))
}

type PowerPledge struct {
	Power       string
	Rank        int
	Merits      int64
	TimePledged int64
	UpdatedAt   time.Time
}

type SystemPowerContext struct {
	ControllingPower string
	Powers           []string
	State            string
	ConflictProgress map[string]float64
}
