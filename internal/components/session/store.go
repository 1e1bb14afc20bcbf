package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/andrasnagy-data/langdetect/internal/shared/config"
)

// Store holds live sessions in process memory. Nothing is persisted, so all
// sessions end with the process.
type Store struct {
	sessions *cache.Cache
	idleTTL  time.Duration
}

func NewStore(cfg *config.Config) *Store {
	return newStore(cfg.SessionIdleTTL)
}

// newStore with idleTTL <= 0 keeps sessions until Discard or process exit.
func newStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		return &Store{sessions: cache.New(cache.NoExpiration, 0), idleTTL: cache.NoExpiration}
	}
	return &Store{sessions: cache.New(idleTTL, idleTTL), idleTTL: idleTTL}
}

func (s *Store) Create() *Session {
	sess := New()
	s.Add(sess)
	return sess
}

// Add starts tracking a session built with New.
func (s *Store) Add(sess *Session) {
	s.sessions.Set(sess.ID.String(), sess, s.idleTTL)
}

// Get returns the session and, with an idle TTL, pushes its expiry forward.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	v, ok := s.sessions.Get(id.String())
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	if s.idleTTL > 0 {
		s.sessions.Set(id.String(), sess, s.idleTTL)
	}
	return sess, true
}

func (s *Store) Discard(id uuid.UUID) {
	s.sessions.Delete(id.String())
}

func (s *Store) Count() int {
	return s.sessions.ItemCount()
}
