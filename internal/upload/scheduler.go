package upload

import "time"

// Scheduler runs a one-shot action after a delay. Scheduled actions cannot
// be cancelled.
type Scheduler interface {
	After(d time.Duration, action func())
}

// TimerScheduler schedules actions on the wall clock.
type TimerScheduler struct{}

// After runs action on its own goroutine once d has elapsed.
func (TimerScheduler) After(d time.Duration, action func()) {
	time.AfterFunc(d, action)
}
