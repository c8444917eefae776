package toast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Manager owns the toast stack. Timers fire on their own goroutines, so every
// operation takes the lock. One Manager is shared by the whole application.
type Manager struct {
	clock    clockwork.Clock
	policy   Policy
	onChange func()
	log      *zap.Logger
	newID    func() string

	mu     sync.Mutex
	toasts []Toast
	timers map[string]clockwork.Timer
	closed bool
}

// ManagerOption configures NewManager.
type ManagerOption func(*Manager)

func WithClock(c clockwork.Clock) ManagerOption {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

func WithPolicy(p Policy) ManagerOption {
	return func(m *Manager) { m.policy = p }
}

// WithOnChange registers a callback run after every mutation, outside the lock.
func WithOnChange(fn func()) ManagerOption {
	return func(m *Manager) { m.onChange = fn }
}

func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		clock:  clockwork.NewRealClock(),
		policy: DefaultPolicy(),
		log:    zap.NewNop(),
		newID:  uuid.NewString,
		timers: make(map[string]clockwork.Timer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add appends a toast and returns its id. A positive lifetime schedules the
// toast's removal. Empty titles are rejected with an empty id.
func (m *Manager) Add(kind Kind, title string, opts ...Option) string {
	if title == "" {
		m.log.Warn("toast rejected: empty title", zap.Stringer("kind", kind))
		return ""
	}

	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.log.Debug("toast dropped after close", zap.String("title", title))
		return ""
	}
	duration := m.policy.For(kind)
	if o.duration != nil {
		duration = *o.duration
	}
	t := Toast{
		ID:          m.newID(),
		Kind:        kind,
		Title:       title,
		Description: o.description,
		Duration:    duration,
		Action:      o.action,
		CreatedAt:   m.clock.Now(),
	}
	m.toasts = append(m.toasts, t)
	if duration > 0 {
		id := t.ID
		m.timers[id] = m.clock.AfterFunc(duration, func() { m.expire(id) })
	}
	m.mu.Unlock()

	m.log.Debug("toast added",
		zap.String("id", t.ID),
		zap.Stringer("kind", kind),
		zap.Duration("duration", duration))
	m.changed()
	return t.ID
}

func (m *Manager) expire(id string) {
	m.mu.Lock()
	delete(m.timers, id)
	m.mu.Unlock()
	m.Remove(id)
}

// Remove deletes the toast with id. Unknown ids are ignored. A pending
// expiry timer is left to fire and find nothing.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.toasts = append(m.toasts[:idx:idx], m.toasts[idx+1:]...)
	m.mu.Unlock()

	m.log.Debug("toast removed", zap.String("id", id))
	m.changed()
}

// Clear removes every toast.
func (m *Manager) Clear() {
	m.mu.Lock()
	n := len(m.toasts)
	m.toasts = nil
	m.mu.Unlock()

	if n > 0 {
		m.log.Debug("toasts cleared", zap.Int("count", n))
	}
	m.changed()
}

// Toasts returns a copy of the stack, oldest first.
func (m *Manager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

func (m *Manager) Get(id string) (Toast, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx := m.indexLocked(id); idx >= 0 {
		return m.toasts[idx], true
	}
	return Toast{}, false
}

// Invoke runs the action of toast id, which stays on the stack. It reports
// whether an action ran.
func (m *Manager) Invoke(id string) bool {
	t, ok := m.Get(id)
	if !ok || t.Action == nil || t.Action.Do == nil {
		return false
	}
	m.log.Debug("toast action", zap.String("id", id), zap.String("label", t.Action.Label))
	t.Action.Do()
	return true
}

func (m *Manager) Success(title string, opts ...Option) string {
	return m.Add(KindSuccess, title, opts...)
}

func (m *Manager) Error(title string, opts ...Option) string {
	return m.Add(KindError, title, opts...)
}

func (m *Manager) Warning(title string, opts ...Option) string {
	return m.Add(KindWarning, title, opts...)
}

func (m *Manager) Info(title string, opts ...Option) string {
	return m.Add(KindInfo, title, opts...)
}

func (m *Manager) Loading(title string, opts ...Option) string {
	return m.Add(KindLoading, title, opts...)
}

// SetOnChange replaces the change callback. The UI registers itself here
// after the manager has been placed in its context.
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// SetPolicy changes the defaults for toasts added from now on.
func (m *Manager) SetPolicy(p Policy) {
	m.mu.Lock()
	m.policy = p
	m.mu.Unlock()
}

// Close stops every pending timer. Later Adds are ignored; the current stack
// is kept for a final render.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}

// Pending is the number of expiry timers that have not fired.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manager) indexLocked(id string) int {
	for i := range m.toasts {
		if m.toasts[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) changed() {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}
