package domain

const (
	DefaultExplorationHighValue int64 = 100_000
	DefaultExobiologyHighValue  int64 = 2_000_000
)

// Thresholds are evaluated when views are read, so changing them affects
// every stored entry without re-ingesting anything.
type Thresholds struct {
	ExplorationHighValue int64
	ExobiologyHighValue  int64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ExplorationHighValue: DefaultExplorationHighValue,
		ExobiologyHighValue:  DefaultExobiologyHighValue,
	}
}

func (t Thresholds) Validate() error {
	if t.ExplorationHighValue < 0 || t.ExobiologyHighValue < 0 {
		return ErrInvalidThreshold
	}
	return nil
}
