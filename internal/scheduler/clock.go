package scheduler

import "time"

// Clock abstracts wall-clock time and the poll ticker so the runner is
// testable without real waits.
type Clock interface {
	Now() time.Time
	Tick(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Tick(d time.Duration) <-chan time.Time { return time.Tick(d) }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }
