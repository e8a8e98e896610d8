package dp

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxSessions = 1024
	DefaultSessionTTL  = 30 * time.Minute
)

// Store keeps live editing sessions in memory. Sessions are never persisted;
// they are dropped on Delete, after ttl without access, or when the store is full.
type Store struct {
	comp     *Compositor
	sessions *expirable.LRU[string, *Session]
}

func NewStore(comp *Compositor, maxSessions int, ttl time.Duration) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	onEvict := func(id string, _ *Session) {
		log.Debug().Str("session", id).Msg("session discarded")
	}
	return &Store{
		comp:     comp,
		sessions: expirable.NewLRU[string, *Session](maxSessions, onEvict, ttl),
	}
}

func (st *Store) Compositor() *Compositor {
	return st.comp
}

// Create opens a new session seeded from p.
func (st *Store) Create(p Prefill) (*Session, error) {
	s, err := NewSession(uuid.NewString(), st.comp, p)
	if err != nil {
		return nil, err
	}
	st.sessions.Add(s.ID, s)
	return s, nil
}

// Get returns the session and restarts its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	s, ok := st.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	st.sessions.Add(id, s)
	return s, nil
}

// Delete discards a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	return st.sessions.Remove(id)
}

func (st *Store) Len() int {
	return st.sessions.Len()
}
