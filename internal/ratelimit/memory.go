package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps hit logs in process memory. State is lost on restart and
// not shared between processes; use RedisStore for that.
type MemoryStore struct {
	mu   sync.Mutex
	logs map[string]*hitLog
}

type hitLog struct {
	hits   []time.Time
	window time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[string]*hitLog)}
}

func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration, max int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.logs[key]
	if !ok {
		log = &hitLog{}
		s.logs[key] = log
	}
	log.window = window
	log.prune(now.Add(-window))

	if len(log.hits) >= max {
		return Result{Allowed: false, Count: len(log.hits)}, nil
	}
	log.hits = append(log.hits, now)
	return Result{Allowed: true, Count: len(log.hits)}, nil
}

// prune drops hits at or before cutoff. Hits are appended in order, so the survivors are a suffix.
func (l *hitLog) prune(cutoff time.Time) {
	i := 0
	for i < len(l.hits) && !l.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.hits = append(l.hits[:0], l.hits[i:]...)
	}
}

// Sweep discards expired hits and forgets keys with none left.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, log := range s.logs {
		log.prune(now.Add(-log.window))
		if len(log.hits) == 0 {
			delete(s.logs, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

// Run sweeps every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
