package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/onewordstory/internal/dependencies/clock"
	"github.com/mcoot/onewordstory/internal/storage"
)

type window struct {
	count   int64
	resetAt time.Time
}

// Storage is an in-memory implementation of the counter interface.
// Windows live in this process only, so counts are per server instance.
type Storage struct {
	mu      sync.Mutex
	clock   clock.Clock
	windows map[string]*window
}

// Ensure Storage implements the interface
var _ storage.Counter = (*Storage)(nil)

// New creates a new in-memory counter store
func New(clk clock.Clock) *Storage {
	return &Storage{
		clock:   clk,
		windows: make(map[string]*window),
	}
}

// Increment records a hit, opening a new window if the previous one has lapsed
func (s *Storage) Increment(_ context.Context, key string, length time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(length)}
		s.windows[key] = w
	}
	w.count++

	return w.count, w.resetAt.Sub(now), nil
}

// Reset discards the window for key
func (s *Storage) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

// Sweep drops lapsed windows so idle clients do not accumulate
func (s *Storage) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked windows
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
