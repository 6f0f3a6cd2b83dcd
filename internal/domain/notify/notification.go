// internal/domain/notify/notification.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Notification is a user-visible alert.
type Notification struct {
	Title        string
	Message      string
	ContentImage string        // Optional path to an image shown in the alert
	OpenURL      string        // Optional link opened when the alert is activated
	Timeout      time.Duration // How long the alert stays on screen
}

// Notifier delivers notifications. Delivery failures are returned, never panicked.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifyError reports that a notification channel failed to deliver.
type NotifyError struct {
	Channel string
	Err     error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify via %s: %v", e.Channel, e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// Multi fans a notification out to every notifier it holds.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
