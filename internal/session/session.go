// Package session provides the in-memory store for per-candidate interview
// state. Sessions are created lazily on first reference, expire after a fixed
// TTL, and are swept eagerly before each request rather than on a timer.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/avolkov/interviewd/internal/model"
)

// DefaultTTL is how long a session stays reachable after creation.
const DefaultTTL = 30 * time.Minute

// NormalizeDomain maps the sentinel "none" to "general" so sessions without
// a chosen domain share the general question pool.
func NormalizeDomain(domain string) string {
	if domain == "none" {
		return "general"
	}
	return domain
}

// Store is a process-wide mapping from session id to session record. The map
// itself is guarded by a mutex; individual records carry their own lock so
// handlers can serialize read-modify-write per id without blocking unrelated
// sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	ttl      time.Duration
}

// NewStore creates an empty store. A non-positive ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*model.Session),
		ttl:      ttl,
	}
}

// GetOrCreate returns the session for id, creating it with empty history if
// the id is unknown. Role, domain, and mode are only consulted at creation;
// the domain sentinel "none" is normalized to "general" first.
func (st *Store) GetOrCreate(id, role, domain, mode string) *model.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if sess, ok := st.sessions[id]; ok {
		return sess
	}
	sess := &model.Session{
		ID:        id,
		Role:      role,
		Domain:    NormalizeDomain(domain),
		Mode:      mode,
		Asked:     make(map[string]struct{}),
		CreatedAt: time.Now(),
	}
	st.sessions[id] = sess
	return sess
}

// Get returns the session for id if present.
func (st *Store) Get(id string) (*model.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// Delete removes the session for id. Unknown ids are a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// DeleteMatching removes every session whose id contains "-{domain}-{mode}-"
// and returns how many were removed. Clients embed domain and mode in the ids
// they generate, so this clears all sessions for one domain/mode combination.
func (st *Store) DeleteMatching(domain, mode string) int {
	marker := "-" + domain + "-" + mode + "-"

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id := range st.sessions {
		if strings.Contains(id, marker) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// SweepExpired removes every session older than the store TTL as of now and
// returns how many were removed.
func (st *Store) SweepExpired(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if now.Sub(sess.CreatedAt) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
