package domain

import "time"

// RequiredSamples is the number of samples needed to complete a species.
const RequiredSamples = 3

type BioStage int

const (
	StageUnknown BioStage = iota
	StageFssPlaceholder
	StageDssGenusRevealed
	StageScanning
	StageCompleted
)

func (s BioStage) String() string {
	switch s {
	case StageFssPlaceholder:
		return "fss"
	case StageDssGenusRevealed:
		return "dss"
	case StageScanning:
		return "scanning"
	case StageCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Advance never moves a stage backwards.
func (s BioStage) Advance(to BioStage) BioStage {
	if to > s {
		return to
	}
	return s
}

type SpeciesProgress struct {
	Key           SpeciesKey
	Stage         BioStage
	ProgressCount int
	RequiredCount int
	Variant       string
	Value         *int64
	FirstSeenAt   time.Time
	UpdatedAt     time.Time
	LastScanType  string
}

func (p SpeciesProgress) IsHighValue(threshold int64) bool {
	return p.Value != nil && *p.Value >= threshold
}

// SpeciesFact is a row of the exobiology reference table.
type SpeciesFact struct {
	Species   string
	Genus     string
	BaseValue int64
}
