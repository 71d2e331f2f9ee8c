package gamehub

import (
	"sync"
	"time"
)

// Scheduler owns at most one pending timer per key. Arming a key replaces
// any timer already armed for it, so overlapping countdowns for the same
// room or session cannot exist. Callbacks run on timer goroutines and must
// only post events into the hub loop, never touch hub state directly.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[string]*time.Timer)}
}

// Arm schedules fn after d, cancelling any previous timer for key.
func (s *Scheduler) Arm(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		// Only forget the entry if it is still ours; a re-arm may have
		// replaced it while this callback was waiting on the lock.
		if cur, ok := s.timers[key]; ok && cur == t {
			delete(s.timers, key)
		}
		s.mu.Unlock()
		fn()
	})
	s.timers[key] = t
}

// Cancel stops any pending timer for key. Idempotent.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}
