// Package views holds the per-screen state of the console. Each view loads
// its resource fresh on entry, tolerates fetch failures by keeping its last
// known state, and derives its aggregates from what it holds.
package views

import (
	"sync"

	"github.com/kunalgharate/token-generation-admin-panel/internal/journal"
	"github.com/kunalgharate/token-generation-admin-panel/internal/stats"
)

type Options struct {
	Clock   stats.Clock
	Journal Recorder
}

func (o Options) clock() stats.Clock {
	if o.Clock == nil {
		return stats.SystemClock
	}
	return o.Clock
}

// state is the bookkeeping shared by every view. mu also guards the fields of
// the embedding view.
type state struct {
	mu       sync.RWMutex
	inflight int
	closed   bool
}

// Loading is true while at least one fetch is outstanding.
func (s *state) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Close detaches the view. Fetches that resolve afterwards are discarded.
func (s *state) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *state) startLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.inflight++
	return true
}

func (s *state) finishLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
}

var _ Recorder = (*journal.Journal)(nil)
