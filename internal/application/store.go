package application

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/bnema/edc/internal/domain"
)

var ErrStaleTransition = errors.New("transition built on a superseded snapshot")

// Transition is the next state computed from a base snapshot. It is only
// built inside this package.
type Transition struct {
	base   uint64
	next   Snapshot
	event  string
	change *domain.ContextChange
}

func (t Transition) Event() string                 { return t.event }
func (t Transition) Change() *domain.ContextChange { return t.change }

// Store publishes snapshots. Readers never block: Snapshot loads the
// current version with a single atomic read.
type Store struct {
	current atomic.Pointer[Snapshot]

	mu      sync.Mutex
	subs    map[int]chan uint64
	nextSub int
}

func NewStore(initial Snapshot) *Store {
	s := &Store{subs: map[int]chan uint64{}}
	s.current.Store(&initial)
	return s
}

func (s *Store) Snapshot() Snapshot {
	return *s.current.Load()
}

// Commit publishes the transition as the next version. A transition whose
// base is no longer current is rejected.
func (s *Store) Commit(t Transition) (Snapshot, error) {
	cur := s.current.Load()
	if cur.version != t.base {
		return *cur, ErrStaleTransition
	}

	next := t.next
	next.version = cur.version + 1
	if !s.current.CompareAndSwap(cur, &next) {
		return *s.current.Load(), ErrStaleTransition
	}

	s.notify(next.version)
	return next, nil
}

// Subscribe returns a channel receiving the latest committed version.
// Notifications coalesce: a slow subscriber only sees the newest version.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan uint64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan uint64, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- version:
		default:
		}
	}
}
