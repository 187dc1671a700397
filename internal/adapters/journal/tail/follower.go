// Package tail follows the newest journal file in a directory and feeds its
// bytes to an ingestion sink.
package tail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/ports"
)

const (
	DefaultPollInterval = 250 * time.Millisecond
	readChunkSize       = 64 * 1024

	GapTruncated = "journal truncated"
	GapMissing   = "journal file disappeared"
	GapDirSwitch = "journal directory changed"
)

var ErrNoJournal = errors.New("no journal file found")

// Sink receives raw journal bytes. application.Engine satisfies it.
type Sink interface {
	Ingest(raw []byte)
	Flush()
	ReportGap(gap domain.IngestionGap)
}

type Options struct {
	Dir          string
	Fs           afero.Fs
	PollInterval time.Duration
	// Watch enables fsnotify wakeups in addition to polling.
	Watch  bool
	Logger *slog.Logger
	Clock  ports.Clock
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Clock == nil {
		o.Clock = ports.SystemClock{}
	}
	return o
}

// Follower is single-goroutine: Step and Run must not be called concurrently.
type Follower struct {
	sink   Sink
	opts   Options
	logger *slog.Logger

	file   string
	offset int64
	buf    []byte
	idle   bool
}

func New(sink Sink, opts Options) *Follower {
	opts = opts.withDefaults()
	return &Follower{
		sink:   sink,
		opts:   opts,
		logger: opts.Logger.With("component", "tail", "dir", opts.Dir),
		buf:    make([]byte, readChunkSize),
	}
}

// Position reports the file being followed and the next byte offset to read.
func (f *Follower) Position() (string, int64) {
	return f.file, f.offset
}

// IsJournalFile reports whether name looks like a game journal log.
func IsJournalFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, "Journal.") && strings.HasSuffix(base, ".log")
}

// LatestJournal returns the most recently modified journal in dir. Equal
// modification times fall back to the lexically greater name, which sorts
// by the timestamp embedded in the file name.
func LatestJournal(fsys afero.Fs, dir string) (string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("read journal dir: %w", err)
	}

	var (
		best    string
		bestMod time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !IsJournalFile(entry.Name()) {
			continue
		}
		mod := entry.ModTime()
		if best == "" || mod.After(bestMod) || (mod.Equal(bestMod) && entry.Name() > filepath.Base(best)) {
			best = filepath.Join(dir, entry.Name())
			bestMod = mod
		}
	}
	if best == "" {
		return "", ErrNoJournal
	}

	return best, nil
}

// Step performs one follow iteration: detect rotation, truncation or a
// vanished file, then forward any bytes appended since the last read.
func (f *Follower) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	latest, err := LatestJournal(f.opts.Fs, f.opts.Dir)
	if err != nil {
		if errors.Is(err, ErrNoJournal) {
			if !f.idle {
				f.logger.Info("waiting for a journal file")
				f.idle = true
			}
			return nil
		}
		return err
	}
	f.idle = false

	if f.file == "" {
		f.switchTo(latest)
	}

	if latest != f.file {
		// Drain what the game wrote to the old file before it rotated.
		if _, err := f.drain(ctx); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			f.gap(GapMissing)
		}
		f.sink.Flush()
		f.switchTo(latest)
	}

	info, err := f.opts.Fs.Stat(f.file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.gap(GapMissing)
			f.file = ""
			return nil
		}
		return fmt.Errorf("stat journal: %w", err)
	}
	if info.Size() < f.offset {
		f.gap(GapTruncated)
		f.offset = 0
	}

	_, err = f.drain(ctx)
	return err
}

// Run follows the journal directory until ctx is cancelled.
func (f *Follower) Run(ctx context.Context) error {
	var events <-chan fsnotify.Event
	var errs <-chan error

	if f.opts.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create journal watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(f.opts.Dir); err != nil {
			f.logger.Warn("journal dir watch failed, polling only", "error", err)
		} else {
			events = watcher.Events
			errs = watcher.Errors
		}
	}

	ticker := time.NewTicker(f.opts.PollInterval)
	defer ticker.Stop()

	if err := f.Step(ctx); err != nil {
		return f.stopErr(ctx, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !IsJournalFile(evt.Name) || !evt.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			f.logger.Warn("journal watcher error", "error", err)
			continue
		case <-ticker.C:
		}

		if err := f.Step(ctx); err != nil {
			return f.stopErr(ctx, err)
		}
	}
}

func (f *Follower) stopErr(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func (f *Follower) switchTo(path string) {
	f.file = path
	f.offset = 0
	f.logger.Info("following journal", "file", filepath.Base(path))
}

func (f *Follower) gap(reason string) {
	f.logger.Debug("journal ingestion gap", "reason", reason, "file", filepath.Base(f.file), "offset", f.offset)
	f.sink.ReportGap(domain.IngestionGap{
		Reason:     reason,
		File:       f.file,
		Offset:     f.offset,
		DetectedAt: f.opts.Clock.Now(),
	})
}

// drain forwards everything between the current offset and EOF.
func (f *Follower) drain(ctx context.Context) (int64, error) {
	file, err := f.opts.Fs.OpenFile(f.file, os.O_RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek journal: %w", err)
	}

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := file.Read(f.buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, f.buf[:n])
			f.sink.Ingest(chunk)
			f.offset += int64(n)
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("read journal: %w", err)
		}
	}
}
