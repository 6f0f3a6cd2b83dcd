// internal/app/poll_loop.go
package app

import (
	"context"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"vinjerock_watcher/internal/domain/notify"
	"vinjerock_watcher/internal/domain/ticket"
	"vinjerock_watcher/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	NotificationTitle = "Vinjerock"
	StartupMessage    = "Ser etter billetter alle 2ish minutter"
)

// Scheduler arms timers. Both methods return a func that cancels the timer.
type Scheduler interface {
	After(d time.Duration, fn func()) func()
	Every(d time.Duration, fn func()) func()
}

// PollLoopConfig holds the per-deployment constants of the loop.
type PollLoopConfig struct {
	BaseInterval        time.Duration
	TicketmasterURL     string
	NotificationIcon    string
	NotificationTimeout time.Duration
	CountdownOutput     io.Writer // nil disables the countdown line
}

// CycleResult is the outcome of checking one category.
type CycleResult struct {
	Category  ticket.Category
	Available bool
	Err       error // Fetch or notification failure, already logged
}

// PollLoop drives the fetch, evaluate, notify, reschedule cycle.
type PollLoop struct {
	source     ticket.Source
	notifier   notify.Notifier
	scheduler  Scheduler
	metrics    metrics.Recorder
	logger     *logrus.Logger
	cfg        PollLoopConfig
	categories []ticket.Category
	countdown  *CountdownRenderer

	now    func() time.Time
	random func() float64

	mu         sync.Mutex
	nextRunAt  time.Time
	cancelNext func()
	stopped    bool
}

func NewPollLoop(
	source ticket.Source,
	notifier notify.Notifier,
	scheduler Scheduler,
	recorder metrics.Recorder,
	logger *logrus.Logger,
	cfg PollLoopConfig,
) *PollLoop {
	l := &PollLoop{
		source:     source,
		notifier:   notifier,
		scheduler:  scheduler,
		metrics:    recorder,
		logger:     logger,
		cfg:        cfg,
		categories: ticket.Categories(),
		now:        time.Now,
		random:     rand.Float64,
	}
	l.countdown = NewCountdownRenderer(cfg.CountdownOutput, scheduler, l.NextRunAt, func() time.Time { return l.now() })
	return l
}

// Start sends the startup notification and runs the first cycle.
func (l *PollLoop) Start(ctx context.Context) {
	l.StartupNotify(ctx)
	l.RunCycle(ctx)
}

// StartupNotify tells the user the watcher is running. Failures are only logged.
func (l *PollLoop) StartupNotify(ctx context.Context) {
	err := l.notifier.Notify(ctx, notify.Notification{
		Title:        NotificationTitle,
		Message:      StartupMessage,
		ContentImage: l.cfg.NotificationIcon,
		Timeout:      l.cfg.NotificationTimeout,
	})
	l.metrics.ObserveNotification(err)
	if err != nil {
		l.logger.WithError(err).Error("Failed to send startup notification")
	}
}

// RunCycle checks every category once, then arms the next cycle and the countdown.
func (l *PollLoop) RunCycle(ctx context.Context) []CycleResult {
	if l.isStopped() {
		return nil
	}
	l.countdown.Stop()

	log := l.logger.WithField("cycle_id", uuid.NewString())
	results := l.check(ctx, log)
	l.reschedule(ctx, log)

	if err := l.metrics.Push(ctx); err != nil {
		log.WithError(err).Warn("Failed to push metrics")
	}
	return results
}

// Check fetches every category once and notifies where tickets are available.
// Unlike RunCycle it schedules nothing.
func (l *PollLoop) Check(ctx context.Context) []CycleResult {
	return l.check(ctx, l.logger.WithField("cycle_id", uuid.NewString()))
}

func (l *PollLoop) check(ctx context.Context, log *logrus.Entry) []CycleResult {
	log.Info("🔄 Checking for tickets...")

	results := make([]CycleResult, len(l.categories))
	var wg sync.WaitGroup
	for i, category := range l.categories {
		i, category := i, category
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = l.checkCategory(ctx, log.WithField("category", category.Name), category)
		}()
	}
	wg.Wait()
	return results
}

func (l *PollLoop) checkCategory(ctx context.Context, log *logrus.Entry, category ticket.Category) CycleResult {
	result := CycleResult{Category: category}

	availability, err := l.source.Fetch(ctx, category.ID)
	if err != nil {
		log.WithError(err).Error("💥 Something went wrong 💥")
		l.metrics.ObserveCheck(category.Name, metrics.ResultError)
		result.Err = err
		return result
	}

	if !availability.IsAvailable() {
		log.Infof("😔 Found no %s tickets", category.Name)
		l.metrics.ObserveCheck(category.Name, metrics.ResultUnavailable)
		return result
	}

	result.Available = true
	log.Infof("😱 Found %s tickets!", category.Name)
	l.metrics.ObserveCheck(category.Name, metrics.ResultAvailable)

	err = l.notifier.Notify(ctx, notify.Notification{
		Title:        NotificationTitle,
		Message:      category.Message,
		ContentImage: l.cfg.NotificationIcon,
		OpenURL:      l.cfg.TicketmasterURL,
		Timeout:      l.cfg.NotificationTimeout,
	})
	l.metrics.ObserveNotification(err)
	if err != nil {
		log.WithError(err).Error("Failed to send ticket notification")
		result.Err = err
	}
	return result
}

func (l *PollLoop) reschedule(ctx context.Context, log *logrus.Entry) {
	if ctx.Err() != nil {
		log.Debug("Context done, not scheduling another check")
		return
	}
	delay := ComputeDelay(l.cfg.BaseInterval, l.random)

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	if l.cancelNext != nil {
		l.cancelNext() // RunCycle called before the previous timer fired
	}
	l.nextRunAt = l.now().Add(delay)
	next := l.nextRunAt
	l.cancelNext = l.scheduler.After(delay, func() { l.RunCycle(ctx) })
	l.mu.Unlock()

	l.metrics.SetNextRun(next)
	log.Debugf("Next check in %s at %s", delay, next.Format("15:04:05"))
	l.countdown.Start()
}

// NextRunAt returns when the next cycle is due.
func (l *PollLoop) NextRunAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextRunAt
}

// Stop cancels the pending cycle and the countdown. Timers firing afterwards do nothing.
func (l *PollLoop) Stop() {
	l.mu.Lock()
	l.stopped = true
	cancel := l.cancelNext
	l.cancelNext = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.countdown.Stop()
}

func (l *PollLoop) isStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// ComputeDelay returns base plus a jitter of round(r*1000)*60 ms, i.e. between 0 and 60s.
func ComputeDelay(base time.Duration, random func() float64) time.Duration {
	jitterMs := math.Round(random()*1000) * 60
	return base + time.Duration(jitterMs)*time.Millisecond
}
