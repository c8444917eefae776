package toast

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the severity of a toast.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindWarning
	KindInfo
	KindLoading
)

var kindNames = [...]string{"success", "error", "warning", "info", "loading"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the lowercase kind names, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if s == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown toast kind %q", s)
}

// Icon is the glyph shown next to the title. Loading toasts are drawn with a
// spinner by the UI, this is the static fallback.
func (k Kind) Icon() string {
	switch k {
	case KindSuccess:
		return "✓"
	case KindError:
		return "✗"
	case KindWarning:
		return "!"
	case KindInfo:
		return "i"
	case KindLoading:
		return "…"
	default:
		return "?"
	}
}

// Policy holds the lifetime a toast gets when Add is not given WithDuration.
// Zero means the toast stays until removed.
type Policy struct {
	Success time.Duration
	Error   time.Duration
	Warning time.Duration
	Info    time.Duration
	Loading time.Duration
}

// DefaultPolicy expires informational toasts after five seconds and keeps
// errors and loading indicators until dismissed.
func DefaultPolicy() Policy {
	return Policy{
		Success: 5 * time.Second,
		Warning: 5 * time.Second,
		Info:    5 * time.Second,
	}
}

// For returns the default lifetime for kind.
func (p Policy) For(kind Kind) time.Duration {
	var d time.Duration
	switch kind {
	case KindSuccess:
		d = p.Success
	case KindError:
		d = p.Error
	case KindWarning:
		d = p.Warning
	case KindInfo:
		d = p.Info
	case KindLoading:
		d = p.Loading
	}
	if d < 0 {
		return 0
	}
	return d
}
