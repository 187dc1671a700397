package domain

import (
	"strconv"
	"strings"
	"time"
)

// BodyValueKey selects a row and column of the body value reference table.
type BodyValueKey struct {
	Class           string
	Terraformable   bool
	Mapped          bool
	FirstDiscovered bool
}

type ExplorationBody struct {
	ID                BodyID
	Name              string
	Class             string
	IsStar            bool
	Terraformable     bool
	Landable          bool
	DistanceLS        float64
	WasDiscovered     bool
	WasMapped         bool
	FSSEstimatedValue *int64
	DSSConfirmedValue *int64
	Scanned           bool
	BioSignals        int
	GeoSignals        int
}

// BestValue prefers the DSS-confirmed value over the FSS estimate.
func (b ExplorationBody) BestValue() (int64, bool) {
	if b.DSSConfirmedValue != nil {
		return *b.DSSConfirmedValue, true
	}
	if b.FSSEstimatedValue != nil {
		return *b.FSSEstimatedValue, true
	}
	return 0, false
}

func (b ExplorationBody) IsHighValue(threshold int64) bool {
	v, ok := b.BestValue()
	return ok && v >= threshold
}

func (b ExplorationBody) BestValueCompact() string {
	v, ok := b.BestValue()
	if !ok {
		return "?"
	}
	return CompactCredits(v)
}

type SignalCategory string

const (
	SignalMegaship  SignalCategory = "Megaship"
	SignalStation   SignalCategory = "Station"
	SignalUSS       SignalCategory = "USS"
	SignalPhenomena SignalCategory = "Phenomena"
	SignalOther     SignalCategory = "Other"
)

const MaxSystemSignals = 200

type SystemSignal struct {
	Name          string
	Type          string
	USSType       string
	ThreatLevel   *int
	IsStation     bool
	Category      SignalCategory
	TimeRemaining float64
	LastSeen      time.Time
}

// Key identifies a signal within a system for deduplication.
func (s SystemSignal) Key() string {
	threat := ""
	if s.ThreatLevel != nil {
		threat = strconv.Itoa(*s.ThreatLevel)
	}
	return strings.Join([]string{s.Name, s.Type, s.USSType, threat, strconv.FormatBool(s.IsStation)}, "|")
}

var phenomenaMarkers = []string{"lagrange", "cloud", "anomal", "phenomen", "notable", "stellar"}

func ClassifySignal(name, signalType, ussType string, isStation bool) SignalCategory {
	lowType := strings.ToLower(signalType)
	switch {
	case lowType == "megaship":
		return SignalMegaship
	case isStation || lowType == "station" || lowType == "fleetcarrier":
		return SignalStation
	case ussType != "" || lowType == "ussignal":
		return SignalUSS
	}
	lowName := strings.ToLower(name)
	for _, marker := range phenomenaMarkers {
		if strings.Contains(lowName, marker) {
			return SignalPhenomena
		}
	}
	return SignalOther
}
