// Package toast keeps the ordered stack of transient notifications shown by
// the UI and expires them on a timer.
package toast

import "time"

// Action is an optional button on a toast.
type Action struct {
	Label string
	Do    func()
}

// Toast is one notification. Duration zero means it persists until removed.
type Toast struct {
	ID          string
	Kind        Kind
	Title       string
	Description string
	Duration    time.Duration
	Action      *Action
	CreatedAt   time.Time
}

// Persistent reports whether the toast has no expiry timer.
func (t Toast) Persistent() bool {
	return t.Duration <= 0
}

type addOptions struct {
	description string
	duration    *time.Duration
	action      *Action
}

// Option customizes a single Add call.
type Option func(*addOptions)

func WithDescription(desc string) Option {
	return func(o *addOptions) { o.description = desc }
}

// WithDuration overrides the kind's default lifetime. Zero keeps the toast
// until it is removed.
func WithDuration(d time.Duration) Option {
	return func(o *addOptions) {
		if d < 0 {
			d = 0
		}
		o.duration = &d
	}
}

func WithAction(label string, do func()) Option {
	return func(o *addOptions) { o.action = &Action{Label: label, Do: do} }
}
