package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "AUTHENTICATED"
	default:
		return "ANONYMOUS"
	}
}

// Session is the per-browser context object handed to every handler.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.RWMutex
	loggedIn bool
	username string
	flash    *Flash
}

// View is an immutable copy of the session used for rendering.
type View struct {
	LoggedIn bool
	Username string
}

type Flash struct {
	Kind string
	Text string
}

func New() *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Session) Login(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.username = username
}

// Logout resets the session to {false, ""}.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.username = ""
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loggedIn {
		return Authenticated
	}
	return Anonymous
}

func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{LoggedIn: s.loggedIn, Username: s.username}
}

// SetFlash stores a message shown once on the next render.
func (s *Session) SetFlash(kind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash = &Flash{Kind: kind, Text: text}
}

// PopFlash returns and clears the pending flash message, if any.
func (s *Session) PopFlash() *Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flash
	s.flash = nil
	return f
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session. Handlers mounted behind the
// session middleware always get a non-nil value.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
