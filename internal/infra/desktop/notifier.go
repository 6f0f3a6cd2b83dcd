// internal/infra/desktop/notifier.go
package desktop

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"vinjerock_watcher/internal/domain/notify"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
)

const terminalNotifierBinary = "terminal-notifier"

// Notifier shows OS-level desktop notifications. On macOS it prefers
// terminal-notifier, which can open a link when the alert is clicked.
// Everywhere else, or when the binary is missing, it falls back to beeep.
type Notifier struct {
	logger   *logrus.Logger
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
	fallback func(title, message, icon string) error
}

func NewNotifier(logger *logrus.Logger) *Notifier {
	return &Notifier{
		logger:   logger,
		lookPath: exec.LookPath,
		run:      runCommand,
		fallback: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// Notify delivers the notification and blocks until the OS accepted it or the timeout expired.
func (n *Notifier) Notify(ctx context.Context, msg notify.Notification) error {
	if msg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, msg.Timeout)
		defer cancel()
	}

	if path, err := n.lookPath(terminalNotifierBinary); err == nil {
		if err := n.run(ctx, path, terminalNotifierArgs(msg)...); err != nil {
			return &notify.NotifyError{Channel: "terminal-notifier", Err: err}
		}
		return nil
	}

	if msg.OpenURL != "" {
		n.logger.Debugf("terminal-notifier not found, link %s will not be clickable", msg.OpenURL)
	}
	if err := n.fallback(msg.Title, msg.Message, msg.ContentImage); err != nil {
		return &notify.NotifyError{Channel: "desktop", Err: err}
	}
	return nil
}

func terminalNotifierArgs(msg notify.Notification) []string {
	args := []string{"-title", msg.Title, "-message", msg.Message}
	if msg.ContentImage != "" {
		args = append(args, "-contentImage", msg.ContentImage)
	}
	if msg.OpenURL != "" {
		args = append(args, "-open", msg.OpenURL)
	}
	return args
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (output: %s)", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
