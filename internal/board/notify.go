package board

import (
	"time"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// toastDuration matches the auto-dismiss delay of the board toasts.
const toastDuration = 3200 * time.Millisecond

// Notifier surfaces short-lived feedback from the transition lifecycle.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type Notification struct {
	Message   string
	Severity  Severity
	ExpiresAt time.Time
}

// Feed is a stacking notification sink. New entries pile on top of existing
// ones instead of replacing them, and each one expires on its own clock.
type Feed struct {
	now     func() time.Time
	entries []Notification
}

func NewFeed() *Feed {
	return &Feed{now: time.Now}
}

// NewFeedWithClock allows tests to control expiry.
func NewFeedWithClock(now func() time.Time) *Feed {
	return &Feed{now: now}
}

func (f *Feed) Success(message string) { f.push(message, SeveritySuccess) }
func (f *Feed) Error(message string)   { f.push(message, SeverityError) }

func (f *Feed) push(message string, severity Severity) {
	f.prune()
	f.entries = append(f.entries, Notification{
		Message:   message,
		Severity:  severity,
		ExpiresAt: f.now().Add(toastDuration),
	})
}

// Active returns the notifications still on screen, oldest first.
func (f *Feed) Active() []Notification {
	f.prune()
	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *Feed) prune() {
	now := f.now()
	kept := f.entries[:0]
	for _, n := range f.entries {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	f.entries = kept
	if len(f.entries) == 0 {
		f.entries = nil
	}
}
