package orchestration

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running and reports whether it did.
	Stop() bool
}

// Scheduler runs delayed calls. Sessions use it for the composing delay and
// capture restarts.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
