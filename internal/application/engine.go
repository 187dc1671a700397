package application

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
	"github.com/bnema/edc/internal/ports"
)

// maxPendingBytes bounds the retained unterminated tail.
const maxPendingBytes = 4 << 20

type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseDecoding
	PhaseRouting
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseDecoding:
		return "decoding"
	case PhaseRouting:
		return "routing"
	case PhaseCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// Engine turns raw journal bytes into committed snapshots. Ingest, Flush,
// ReportGap and SetThresholds are meant for a single producer.
type Engine struct {
	mu      sync.Mutex
	store   *Store
	tracker Tracker
	pending []byte
	phase   atomic.Int32
	logger  *slog.Logger
	metrics ports.Metrics
	clock   ports.Clock
}

func NewEngine(store *Store, logger *slog.Logger, metrics ports.Metrics, clock ports.Clock) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Engine{store: store, logger: logger, metrics: metrics, clock: clock}
}

func (e *Engine) Phase() Phase {
	return Phase(e.phase.Load())
}

func (e *Engine) setPhase(p Phase) {
	e.phase.Store(int32(p))
}

// Ingest accepts an arbitrary chunk of appended journal bytes. Complete
// records are committed in order; an unterminated tail that does not parse
// yet is retained for the next call.
func (e *Engine) Ingest(raw []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	buf := append(e.pending, raw...)
	e.pending = nil

	for len(buf) > 0 {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			e.processTail(buf)
			return
		}
		e.process(buf[:i+1])
		buf = buf[i+1:]
	}
}

// Flush treats the retained tail as a terminated record. It is called once
// a file is known to be complete.
func (e *Engine) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.pending) == 0 {
		return
	}
	line := append(e.pending, '\n')
	e.pending = nil
	e.process(line)
}

// ReportGap records a stream discontinuity and drops the retained tail,
// which belonged to the discontinued stream.
func (e *Engine) ReportGap(gap domain.IngestionGap) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending = nil
	if gap.DetectedAt.IsZero() {
		gap.DetectedAt = e.clock.Now()
	}

	cur := e.store.Snapshot()
	next := cur.withGap(gap)
	next.committedAt = e.clock.Now()
	e.commit(Transition{base: cur.version, next: next, event: "IngestionGap"})

	e.metrics.GapDetected()
	e.logger.Warn("journal ingestion gap", "reason", gap.Reason, "file", gap.File, "offset", gap.Offset)
}

// SetThresholds commits a version with new thresholds. Stored entries are
// re-evaluated on read; nothing is re-ingested.
func (e *Engine) SetThresholds(t domain.Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.store.Snapshot()
	if cur.thresholds == t {
		return nil
	}
	next := cur
	next.thresholds = t
	next.committedAt = e.clock.Now()
	e.commit(Transition{base: cur.version, next: next, event: "Thresholds"})
	e.logger.Info("thresholds updated", "exploration", t.ExplorationHighValue, "exobiology", t.ExobiologyHighValue)
	return nil
}

func (e *Engine) processTail(tail []byte) {
	if len(bytes.TrimSpace(tail)) == 0 {
		return
	}
	if len(tail) > maxPendingBytes {
		e.metrics.DecodeFailed(journal.Malformed.String())
		e.logger.Warn("dropping oversized unterminated record", "bytes", len(tail))
		return
	}

	e.setPhase(PhaseDecoding)
	evt, err := journal.Decode(tail)
	if errors.Is(err, journal.ErrIncomplete) {
		e.pending = append([]byte(nil), tail...)
		e.setPhase(PhaseIdle)
		return
	}
	e.handle(evt, err)
}

func (e *Engine) process(line []byte) {
	e.setPhase(PhaseDecoding)
	evt, err := journal.Decode(line)
	e.handle(evt, err)
}

func (e *Engine) handle(evt journal.Event, err error) {
	defer e.setPhase(PhaseIdle)

	if err != nil {
		if errors.Is(err, journal.ErrEmpty) {
			return
		}
		reason := journal.Malformed.String()
		var decodeErr *journal.DecodeError
		if errors.As(err, &decodeErr) {
			reason = decodeErr.Kind.String()
		}
		e.metrics.DecodeFailed(reason)
		e.logger.Warn("skipping journal record", "reason", reason, "error", err)
		return
	}

	e.metrics.EventDecoded(evt.EventKind())
	if _, ok := evt.(journal.Unhandled); ok {
		e.logger.Debug("unhandled journal event", "kind", evt.EventKind())
	}
	e.route(evt)
}

// route applies the event to the context first, then to each memory, and
// commits the result as one transition.
func (e *Engine) route(evt journal.Event) {
	e.setPhase(PhaseRouting)

	cur := e.store.Snapshot()
	sc, change := e.tracker.Apply(cur.context, evt)
	if change != nil && change.Resolved {
		cur = cur.rekeyed(change.From, change.To)
	}

	next := cur
	next.context = sc
	next.lastEvent = evt.EventKind()
	next.committedAt = e.clock.Now()

	if e.attributable(evt, sc) {
		next.exploration, _ = cur.exploration.Apply(evt, sc)
		next.exobiology, _ = cur.exobiology.Apply(evt, sc)
		next.combat, _ = cur.combat.Apply(evt, sc)
		next.powerPlay, _ = cur.powerPlay.Apply(evt, sc)
	}
	next.inventory, _ = cur.inventory.Apply(evt)
	next.ledger, _ = cur.ledger.Apply(evt)
	next.goals, _ = cur.goals.Apply(evt)

	e.setPhase(PhaseCommitting)
	e.commit(Transition{base: cur.version, next: next, event: evt.EventKind(), change: change})

	switch {
	case change == nil:
	case change.Resolved:
		e.logger.Info("system address resolved", "name", sc.SystemName, "id", change.To)
	default:
		e.metrics.ContextChanged()
		e.logger.Info("system changed", "from", change.From, "to", change.To, "name", sc.SystemName)
	}
}

// attributable rejects events tied to a system other than the current one.
func (e *Engine) attributable(evt journal.Event, sc domain.SessionContext) bool {
	addr, ok := journal.SystemAddressOf(evt)
	if !ok || sc.SystemAddress == 0 || addr == sc.SystemAddress {
		return true
	}
	e.logger.Debug("event not attributed to current system", "kind", evt.EventKind(), "address", addr, "current", sc.SystemAddress)
	return false
}

func (e *Engine) commit(t Transition) {
	start := time.Now()
	if _, err := e.store.Commit(t); err != nil {
		e.logger.Error("commit snapshot", "event", t.event, "error", err)
		return
	}
	e.metrics.Committed(time.Since(start))
}
