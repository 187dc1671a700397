package domain

import "time"

// IngestionGap records a discontinuity in the journal stream. Its presence
// means derived state may be stale.
type IngestionGap struct {
	Reason     string
	File       string
	Offset     int64
	DetectedAt time.Time
}
