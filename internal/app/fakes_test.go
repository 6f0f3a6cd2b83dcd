package app

import (
	"context"
	"sync"
	"time"

	"vinjerock_watcher/internal/domain/notify"
	"vinjerock_watcher/internal/domain/ticket"
)

// --- fake scheduler ---

type fakeTimer struct {
	delay     time.Duration
	fn        func()
	recurring bool
	canceled  bool
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (f *fakeScheduler) add(d time.Duration, fn func(), recurring bool) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	timer := &fakeTimer{delay: d, fn: fn, recurring: recurring}
	f.timers = append(f.timers, timer)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		timer.canceled = true
	}
}

func (f *fakeScheduler) After(d time.Duration, fn func()) func() { return f.add(d, fn, false) }
func (f *fakeScheduler) Every(d time.Duration, fn func()) func() { return f.add(d, fn, true) }

func (f *fakeScheduler) active(recurring bool) []*fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*fakeTimer
	for _, timer := range f.timers {
		if timer.recurring == recurring && !timer.canceled {
			out = append(out, timer)
		}
	}
	return out
}

// --- fake ticket source ---

type fakeResponse struct {
	availability *ticket.Availability
	err          error
}

type fakeSource struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []string
}

func newFakeSource(responses map[string]fakeResponse) *fakeSource {
	return &fakeSource{responses: responses}
}

func (f *fakeSource) Fetch(_ context.Context, categoryID string) (*ticket.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, categoryID)
	resp, ok := f.responses[categoryID]
	if !ok {
		return &ticket.Availability{Groups: []ticket.Group{}, Offers: []ticket.Offer{}}, nil
	}
	return resp.availability, resp.err
}

func (f *fakeSource) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// --- fake notifier ---

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakeNotifier) notifications() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Notification(nil), f.sent...)
}
