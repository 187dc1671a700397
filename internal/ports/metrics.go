package ports

import "time"

type Metrics interface {
	EventDecoded(kind string)
	DecodeFailed(reason string)
	Committed(elapsed time.Duration)
	ContextChanged()
	GapDetected()
}

type NopMetrics struct{}

func (NopMetrics) EventDecoded(string)     {}
func (NopMetrics) DecodeFailed(string)     {}
func (NopMetrics) Committed(time.Duration) {}
func (NopMetrics) ContextChanged()         {}
func (NopMetrics) GapDetected()            {}
