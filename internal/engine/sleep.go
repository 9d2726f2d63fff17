package engine

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// Clock abstracts wall-clock sleeping so tests can inject a fake and never
// block on real time, mirroring the Clock/RandomGenerator injection
// pattern the teacher package uses for NOW/TODAY/RAND.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// SleepCompletion is one delayed write produced by a SLEEP(n) task.
type SleepCompletion struct {
	Ref   CellReference
	Value int32
}

// SleepCoordinator schedules SLEEP(n) completions on detached worker
// goroutines and exposes a non-blocking drain for the interactive loop.
// Each coordinator owns its own completion channel, created with it; one
// Context holds one coordinator, so every SLEEP scheduled through that
// Context shares the channel. Coordinators of different Contexts do not
// share completions, and the channel is not a package-level global.
type SleepCoordinator struct {
	clock Clock
	ch    chan SleepCompletion
	group *errgroup.Group
}

// NewSleepCoordinator creates a coordinator backed by the given clock. A
// nil clock uses real wall-clock time.
func NewSleepCoordinator(clock Clock) *SleepCoordinator {
	if clock == nil {
		clock = realClock{}
	}
	return &SleepCoordinator{clock: clock, ch: make(chan SleepCompletion, 1024), group: &errgroup.Group{}}
}

// Schedule enqueues a worker that, after n seconds, pushes a completion
// record onto the shared channel. Negative n is treated as 0. Scheduling
// never blocks the caller.
func (s *SleepCoordinator) Schedule(ref CellReference, n int32) {
	if n < 0 {
		n = 0
	}
	s.group.Go(func() error {
		s.clock.Sleep(time.Duration(n) * time.Second)
		s.ch <- SleepCompletion{Ref: ref, Value: n}
		return nil
	})
}

// Drain non-blockingly empties every completion currently queued.
func (s *SleepCoordinator) Drain() []SleepCompletion {
	var out []SleepCompletion
	for {
		select {
		case c := <-s.ch:
			out = append(out, c)
		default:
			return out
		}
	}
}

// Shutdown blocks until every outstanding sleep worker has finished. The
// interactive "q" command does NOT call this — per SPEC_FULL §7, quitting
// terminates without draining outstanding tasks. Shutdown exists for
// tests and for callers that embed the engine and want a clean join.
func (s *SleepCoordinator) Shutdown() {
	_ = s.group.Wait()
}
