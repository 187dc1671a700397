package tail

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bnema/edc/internal/domain"
)

// Supervisor runs a Follower and replaces it when the journal directory
// changes at runtime.
type Supervisor struct {
	sink   Sink
	opts   Options
	logger *slog.Logger
	dirs   chan string
}

func NewSupervisor(sink Sink, opts Options) *Supervisor {
	opts = opts.withDefaults()
	return &Supervisor{
		sink:   sink,
		opts:   opts,
		logger: opts.Logger.With("component", "tail"),
		dirs:   make(chan string, 1),
	}
}

// SwitchDir asks Run to follow dir instead. Requests coalesce; only the
// latest one is acted on. It never blocks.
func (s *Supervisor) SwitchDir(dir string) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return
	}
	for {
		select {
		case s.dirs <- dir:
			return
		default:
		}
		select {
		case <-s.dirs:
		default:
		}
	}
}

// Run follows the configured directory until ctx is cancelled. A switch
// stops the running follower, reports an ingestion gap and starts a fresh
// follower on the new directory.
func (s *Supervisor) Run(ctx context.Context) error {
	dir := s.opts.Dir
	for {
		opts := s.opts
		opts.Dir = dir
		runCtx, stop := context.WithCancel(ctx)
		done := make(chan error, 1)
		follower := New(s.sink, opts)
		go func() { done <- follower.Run(runCtx) }()

	wait:
		for {
			select {
			case err := <-done:
				stop()
				return err
			case next := <-s.dirs:
				if next == dir {
					continue
				}
				stop()
				if err := <-done; err != nil {
					return err
				}
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Info("switching journal directory", "from", dir, "to", next)
				s.sink.ReportGap(domain.IngestionGap{
					Reason:     GapDirSwitch,
					File:       next,
					DetectedAt: s.opts.Clock.Now(),
				})
				dir = next
				break wait
			}
		}
	}
}
