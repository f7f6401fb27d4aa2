package session

import (
	"context"
	"sync"
	"time"
)

// Compile-time check to ensure MemoryBackend implements Backend
var _ Backend = (*MemoryBackend)(nil)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// MemoryBackend keeps sessions in process memory. Like the redis backend, a
// session expires ttl after its last write; a ttl <= 0 keeps sessions forever.
type MemoryBackend struct {
	mu        sync.Mutex
	data      map[string]*memorySession
	ttl       time.Duration
	clock     Clock
	lastSweep time.Time
}

type memorySession struct {
	values  map[string]string
	expires time.Time
}

func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{data: make(map[string]*memorySession), ttl: ttl, clock: realClock{}}
}

// WithClock replaces the time source used for expiry.
func (m *MemoryBackend) WithClock(c Clock) *MemoryBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = c
	return m
}

func (m *MemoryBackend) Scoped(sessionID string) Store {
	return &memoryStore{backend: m, id: sessionID}
}

func (m *MemoryBackend) Close() error { return nil }

// Len reports how many sessions are held, expired ones included until swept.
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// live returns the session if it has not expired, dropping it otherwise.
// Caller holds mu.
func (m *MemoryBackend) live(id string, now time.Time) *memorySession {
	s := m.data[id]
	if s == nil {
		return nil
	}
	if m.ttl > 0 && !now.Before(s.expires) {
		delete(m.data, id)
		return nil
	}
	return s
}

// sweep drops every expired session, at most once per ttl. Caller holds mu.
func (m *MemoryBackend) sweep(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.lastSweep) < m.ttl {
		return
	}
	m.lastSweep = now
	for id, s := range m.data {
		if !now.Before(s.expires) {
			delete(m.data, id)
		}
	}
}

type memoryStore struct {
	backend *MemoryBackend
	id      string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.live(s.id, m.clock.Now())
	if sess == nil {
		return "", ErrAbsent
	}
	v, ok := sess.values[key]
	if !ok {
		return "", ErrAbsent
	}
	return v, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	m := s.backend
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.sweep(now)

	sess := m.live(s.id, now)
	if sess == nil {
		sess = &memorySession{values: make(map[string]string)}
		m.data[s.id] = sess
	}
	sess.values[key] = value
	sess.expires = now.Add(m.ttl)
	return nil
}
