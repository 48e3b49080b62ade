// fake_scheduler.go - Virtual-time scheduler for testing deferred actions
package testutil

import (
	"sort"
	"sync"
	"time"
)

type scheduledAction struct {
	due    time.Duration
	seq    int64
	action func()
}

// FakeScheduler implements upload.Scheduler on a virtual clock. Nothing
// runs until Advance moves the clock past an action's due time.
type FakeScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int64
	pending []scheduledAction
}

// NewFakeScheduler creates a scheduler with its clock at zero.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// After queues action to run once the virtual clock reaches now+d.
func (f *FakeScheduler) After(d time.Duration, action func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	f.pending = append(f.pending, scheduledAction{
		due:    f.now + d,
		seq:    f.seq,
		action: action,
	})
}

// Advance moves the clock forward by d and runs every action that has
// come due, ordered by due time and then by scheduling order. Actions run
// without the scheduler lock held, so they may schedule further actions.
func (f *FakeScheduler) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	f.mu.Unlock()

	for {
		f.mu.Lock()
		sort.SliceStable(f.pending, func(i, j int) bool {
			if f.pending[i].due != f.pending[j].due {
				return f.pending[i].due < f.pending[j].due
			}
			return f.pending[i].seq < f.pending[j].seq
		})
		if len(f.pending) == 0 || f.pending[0].due > target {
			f.now = target
			f.mu.Unlock()
			return
		}
		next := f.pending[0]
		f.pending = f.pending[1:]
		f.now = next.due
		f.mu.Unlock()

		next.action()
	}
}

// Now returns the virtual clock reading.
func (f *FakeScheduler) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Pending returns how many actions have not run yet.
func (f *FakeScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
