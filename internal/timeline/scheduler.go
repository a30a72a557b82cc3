// Package timeline paces the decorative progress steps shown while a run is
// in flight. It knows nothing about whether the run succeeds.
package timeline

import (
	"sync"
	"time"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

// Step is one scheduled timeline event, offset from the run start.
type Step struct {
	Title  string
	Note   string
	Offset time.Duration
}

// Sink observes each emitted event. It is called with the scheduler lock
// held and must not call back into the scheduler.
type Sink func(domain.TimelineEvent)

// Scheduler emits one run's steps in order and can be cancelled at any time.
type Scheduler struct {
	mu sync.Mutex
	// gen identifies the live schedule; timers from older schedules see a
	// different value and do nothing.
	gen     uint64
	steps   []Step
	next    int
	timers  []*time.Timer
	events  []domain.TimelineEvent
	sink    Sink
	nowFunc func() time.Time
}

// NewScheduler creates an idle scheduler. sink may be nil.
func NewScheduler(sink Sink) *Scheduler {
	return &Scheduler{sink: sink, nowFunc: time.Now}
}

// Start replaces any running schedule. The first step is emitted before Start
// returns; the rest fire at startedAt plus their offset.
func (s *Scheduler) Start(startedAt time.Time, steps []Step) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.events = nil
	s.steps = append([]Step(nil), steps...)
	s.next = 0
	if len(s.steps) == 0 {
		return
	}

	gen := s.gen
	s.emitThroughLocked(0)

	now := s.nowFunc()
	for i := 1; i < len(s.steps); i++ {
		idx := i
		delay := startedAt.Add(s.steps[i].Offset).Sub(now)
		if delay < 0 {
			delay = 0
		}
		s.timers = append(s.timers, time.AfterFunc(delay, func() {
			s.fire(gen, idx)
		}))
	}
}

// Cancel stops the schedule. No event is emitted after Cancel returns, even
// from a timer that already fired and is waiting for the lock. Already
// emitted events are kept. Cancel is idempotent.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
}

// Clear cancels the schedule and drops the emitted events.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	s.cancelLocked()
	s.events = nil
	s.mu.Unlock()
}

// Events returns the emitted events in schedule order.
func (s *Scheduler) Events() []domain.TimelineEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.TimelineEvent{}, s.events...)
}

// Running reports whether steps are still pending.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next < len(s.steps)
}

func (s *Scheduler) fire(gen uint64, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.emitThroughLocked(idx)
	if s.next >= len(s.steps) {
		s.timers = nil
	}
}

// emitThroughLocked emits every pending step up to idx so that timers firing
// out of order still produce events in schedule order.
func (s *Scheduler) emitThroughLocked(idx int) {
	for s.next <= idx && s.next < len(s.steps) {
		step := s.steps[s.next]
		s.next++
		ev := domain.TimelineEvent{Title: step.Title, Note: step.Note, Offset: step.Offset}
		s.events = append(s.events, ev)
		if s.sink != nil {
			s.sink(ev)
		}
	}
}

func (s *Scheduler) cancelLocked() {
	s.gen++
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.steps = nil
	s.next = 0
}
