package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs one-shot and recurring jobs on a single cron engine.
type Scheduler struct {
	cronEngine *cron.Cron
	logger     *logrus.Logger
}

func NewScheduler(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local), // Use local time, countdown is shown in local time too
			cron.WithChain(cron.Recover(cron.PrintfLogger(logger))),
		),
		logger: logger,
	}
}

func (s *Scheduler) Start() {
	s.logger.Debug("Starting scheduler...")
	s.cronEngine.Start()
}

// After runs fn once, d from now. The returned func cancels it if it has not fired yet.
func (s *Scheduler) After(d time.Duration, fn func()) func() {
	var id cron.EntryID
	ready := make(chan struct{})
	id = s.cronEngine.Schedule(&onceSchedule{at: time.Now().Add(d)}, cron.FuncJob(func() {
		<-ready
		s.cronEngine.Remove(id) // Fired entries would otherwise stay in the engine forever
		fn()
	}))
	close(ready)

	return func() { s.cronEngine.Remove(id) }
}

// Every runs fn every d until the returned func is called. cron rounds d to whole seconds.
func (s *Scheduler) Every(d time.Duration, fn func()) func() {
	id := s.cronEngine.Schedule(cron.Every(d), cron.FuncJob(fn))
	return func() { s.cronEngine.Remove(id) }
}

func (s *Scheduler) Stop() {
	s.logger.Debug("Stopping scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Debug("Scheduler gracefully stopped.")
}

// onceSchedule activates exactly once. cron asks for Next when the entry is
// added and again after each run; only the first answer is a real time.
type onceSchedule struct {
	mu   sync.Mutex
	at   time.Time
	used bool
}

func (o *onceSchedule) Next(time.Time) time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.used {
		return time.Time{} // Zero time means the entry never runs again
	}
	o.used = true
	return o.at
}
