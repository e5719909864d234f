package notify

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ScheduledAlert records a single ScheduleAt call made against the stub.
type ScheduledAlert struct {
	Handle  Handle
	At      time.Time
	Content Content
}

// StubScheduler is an in-memory Scheduler for tests.
type StubScheduler struct {
	mu        sync.Mutex
	seq       int
	failWith  error
	Scheduled []ScheduledAlert
	Cancelled []Handle
}

func NewStubScheduler() *StubScheduler {
	return &StubScheduler{}
}

// FailWith makes every subsequent ScheduleAt and Cancel return err.
func (s *StubScheduler) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *StubScheduler) ScheduleAt(_ context.Context, at time.Time, content Content) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	s.seq++
	handle := Handle(fmt.Sprintf("alert-%d", s.seq))
	s.Scheduled = append(s.Scheduled, ScheduledAlert{Handle: handle, At: at, Content: content})
	return handle, nil
}

func (s *StubScheduler) Cancel(_ context.Context, handle Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.Cancelled = append(s.Cancelled, handle)
	return nil
}

// Live returns handles that were scheduled and not cancelled, in order.
func (s *StubScheduler) Live() []Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled := map[Handle]bool{}
	for _, h := range s.Cancelled {
		cancelled[h] = true
	}
	var live []Handle
	for _, alert := range s.Scheduled {
		if !cancelled[alert.Handle] {
			live = append(live, alert.Handle)
		}
	}
	return live
}
