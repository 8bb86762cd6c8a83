package routectl

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionContextKey is the RequestContext key under which SessionMiddleware stores the session
const SessionContextKey = "routectl.session"

// Session is a per-client key/value store. Lookups may hit external storage,
// so every call takes a context.
type Session interface {
	ID() string
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// SessionStore loads and persists sessions
type SessionStore interface {
	// Load returns the session with the given id, or a fresh one when id is
	// empty or unknown. isNew reports which.
	Load(ctx context.Context, id string) (s Session, isNew bool, err error)
	Save(ctx context.Context, s Session) error
}

// SessionMiddleware loads the session named by cookieName before the handler
// runs and saves it afterwards. New sessions get their cookie set up front.
func SessionMiddleware(store SessionStore, cookieName string) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			var id string
			if ck, err := c.Request().Cookie(cookieName); err == nil {
				id = ck.Value
			}

			sess, isNew, err := store.Load(c.Context(), id)
			if err != nil {
				return ErrInternalServerError("failed to load session", err)
			}
			if isNew {
				c.Response().SetCookie(Cookie{
					Name:     cookieName,
					Value:    sess.ID(),
					Path:     "/",
					HttpOnly: true,
					SameSite: SameSiteLaxMode,
				})
			}
			c.Set(SessionContextKey, sess)

			if err := next(c); err != nil {
				return err
			}
			return store.Save(c.Context(), sess)
		}
	}
}

// SessionOf returns the session installed by SessionMiddleware, or nil
func SessionOf(c RequestContext) Session {
	sess, _ := c.Get(SessionContextKey).(Session)
	return sess
}

// SessionValue reads key from s. A nil session, a missing key, a failed
// lookup or a value of another type all yield the zero value of T.
func SessionValue[T any](ctx context.Context, s Session, key string) T {
	var zero T
	if s == nil {
		return zero
	}
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return zero
	}
	v, ok := raw.(T)
	if !ok {
		return zero
	}
	return v
}

// SessionPtr is SessionValue with typed absence: it returns nil instead of a zero value
func SessionPtr[T any](ctx context.Context, s Session, key string) *T {
	if s == nil {
		return nil
	}
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return nil
	}
	v, ok := raw.(T)
	if !ok {
		return nil
	}
	return &v
}

// DefaultSessionIdleTimeout is how long a MemorySessionStore keeps a session nobody loads
const DefaultSessionIdleTimeout = 30 * time.Minute

// MemorySessionStore keeps sessions in process memory. It suits development,
// tests and single-instance deployments: sessions are lost on restart and
// are not shared between processes. Sessions idle for longer than the idle
// timeout are evicted.
type MemorySessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*memoryEntry
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type memoryEntry struct {
	values map[string]any
	seen   time.Time
}

// MemoryStoreOption configures a MemorySessionStore
type MemoryStoreOption func(*MemorySessionStore)

// WithIdleTimeout sets how long an unused session survives. Zero or less keeps sessions forever.
func WithIdleTimeout(d time.Duration) MemoryStoreOption {
	return func(m *MemorySessionStore) {
		m.idle = d
	}
}

// NewMemorySessionStore creates an empty in-memory store
func NewMemorySessionStore(opts ...MemoryStoreOption) *MemorySessionStore {
	m := &MemorySessionStore{
		sessions: make(map[string]*memoryEntry),
		idle:     DefaultSessionIdleTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load implements SessionStore. An expired id loads as a fresh session.
func (m *MemorySessionStore) Load(_ context.Context, id string) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	if id != "" {
		if entry, ok := m.sessions[id]; ok && !m.expired(entry, now) {
			entry.seen = now
			return &memorySession{id: id, store: m}, false, nil
		}
		delete(m.sessions, id)
	}
	id = uuid.NewString()
	m.sessions[id] = &memoryEntry{values: make(map[string]any), seen: now}
	return &memorySession{id: id, store: m}, true, nil
}

// Save implements SessionStore. Memory sessions write through, so there is nothing to flush.
func (m *MemorySessionStore) Save(context.Context, Session) error {
	return nil
}

// Len returns the number of stored sessions, expired ones not yet swept included
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemorySessionStore) expired(entry *memoryEntry, now time.Time) bool {
	return m.idle > 0 && now.Sub(entry.seen) > m.idle
}

// sweep drops expired sessions, at most once per half idle timeout. Callers hold mu.
func (m *MemorySessionStore) sweep(now time.Time) {
	if m.idle <= 0 || now.Sub(m.lastSweep) < m.idle/2 {
		return
	}
	m.lastSweep = now
	for id, entry := range m.sessions {
		if m.expired(entry, now) {
			delete(m.sessions, id)
		}
	}
}

type memorySession struct {
	id    string
	store *MemorySessionStore
}

func (s *memorySession) ID() string { return s.id }

func (s *memorySession) Get(_ context.Context, key string) (any, bool, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	entry, ok := s.store.sessions[s.id]
	if !ok {
		return nil, false, nil
	}
	v, ok := entry.values[key]
	return v, ok, nil
}

func (s *memorySession) Set(_ context.Context, key string, value any) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	entry, ok := s.store.sessions[s.id]
	if !ok {
		entry = &memoryEntry{values: make(map[string]any), seen: s.store.now()}
		s.store.sessions[s.id] = entry
	}
	entry.values[key] = value
	return nil
}

func (s *memorySession) Delete(_ context.Context, key string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if entry, ok := s.store.sessions[s.id]; ok {
		delete(entry.values, key)
	}
	return nil
}
