package session

import (
	"context"
	"sync"
)

// Session is the client-visible identity established by a successful
// authentication. At most one session is active per manager.
type Session struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Initials string `json:"initials"`
}

// Store persists a session under a fixed key between restarts.
type Store interface {
	Save(s Session) error
	// Load returns (nil, nil) when no session is persisted.
	Load() (*Session, error)
	Clear() error
}

// Listener is notified with the current session on every change;
// nil means logged out.
type Listener func(s *Session)

// Manager owns the process-wide session state. It is constructed once at
// application start and shared; mutations are serialized by its mutex.
type Manager struct {
	creds CredentialProvider
	store Store

	mu        sync.Mutex
	current   *Session
	listeners map[int]Listener
	nextID    int
}

func NewManager(creds CredentialProvider, store Store) *Manager {
	return &Manager{
		creds:     creds,
		store:     store,
		listeners: make(map[int]Listener),
	}
}

// Restore loads any persisted session from the store. Corrupted or
// unreadable state is discarded and treated as logged out.
func (m *Manager) Restore() {
	s, err := m.store.Load()
	if err != nil {
		_ = m.store.Clear()
		return
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
}

// SignIn authenticates the given credentials, establishes the session,
// persists it and notifies subscribers.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := m.creds.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = &s
	_ = m.store.Save(s)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(&s)
	}
	return &s, nil
}

// SignOut clears the persisted session and notifies all subscribers
// with nil, exactly once each.
func (m *Manager) SignOut() {
	m.mu.Lock()
	m.current = nil
	_ = m.store.Clear()
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}

// Current returns the active session, or nil when logged out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers fn for session-change notifications. The new
// listener is immediately invoked once with the current state (even if
// nil), then on every subsequent change. The returned func unregisters
// exactly that listener.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	cur := m.current
	m.mu.Unlock()

	fn(cur)

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// snapshotListeners must be called with the mutex held.
func (m *Manager) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		out = append(out, fn)
	}
	return out
}
