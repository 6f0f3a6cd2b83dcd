package app

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

var hourglasses = [2]string{"⌛", "⏳"}

// CountdownRenderer redraws a single "next update in" line once per second.
// It is idle until Start and goes back to idle on Stop.
type CountdownRenderer struct {
	out       *termenv.Output
	scheduler Scheduler
	deadline  func() time.Time
	now       func() time.Time

	mu     sync.Mutex
	cancel func()
	frames int
}

// NewCountdownRenderer returns nil when w is nil; a nil renderer never draws.
func NewCountdownRenderer(w io.Writer, scheduler Scheduler, deadline, now func() time.Time) *CountdownRenderer {
	if w == nil {
		return nil
	}
	return &CountdownRenderer{
		out:       termenv.NewOutput(w),
		scheduler: scheduler,
		deadline:  deadline,
		now:       now,
	}
}

// Start switches to rendering. A renderer that is already running is restarted.
func (r *CountdownRenderer) Start() {
	if r == nil {
		return
	}
	r.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = r.scheduler.Every(time.Second, r.render)
}

// Stop cancels the recurring redraw and leaves the cursor on a fresh line.
func (r *CountdownRenderer) Stop() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.cancel = nil
	if r.frames > 0 {
		_, _ = io.WriteString(r.out, "\n")
	}
	r.frames = 0
}

// Active reports whether the renderer is in the rendering state.
func (r *CountdownRenderer) Active() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *CountdownRenderer) render() {
	remaining := r.deadline().Sub(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return // Stopped while this tick was pending
	}
	r.frames++
	text := fmt.Sprintf("%s Next update in %s", hourglasses[r.frames%2], FormatRemaining(remaining))

	r.out.ClearLine()
	_, _ = fmt.Fprintf(r.out, "\r%s", text)
}

// FormatRemaining renders d as whole minutes and seconds, e.g. "1 minute and 30 seconds".
// Negative durations render as zero.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	minutes, seconds := total/60, total%60
	return fmt.Sprintf("%d %s and %d %s", minutes, plural(minutes, "minute"), seconds, plural(seconds, "second"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
