package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/langdetect/internal/components/session"
	"github.com/andrasnagy-data/langdetect/internal/shared/config"
	"github.com/andrasnagy-data/langdetect/internal/shared/cookie"
)

// Sessions attaches a *session.Session to every request. A browser without a
// known cookie gets a fresh anonymous session that is only stored, and only
// gets a cookie, once a handler calls Save or Renew.
type Sessions struct {
	store  *session.Store
	secret []byte
	secure bool
}

// NewSessions decodes SESSION_SECRET as a hex AES key. Without one a random
// 32-byte key is generated, so cookies from a previous process are ignored.
func NewSessions(store *session.Store, cfg *config.Config) (*Sessions, error) {
	var secret []byte
	if cfg.SessionSecret != "" {
		key, err := hex.DecodeString(cfg.SessionSecret)
		if err != nil {
			return nil, fmt.Errorf("invalid hex SESSION_SECRET: %w", err)
		}
		switch len(key) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("SESSION_SECRET must be 16, 24 or 32 bytes, got %d", len(key))
		}
		secret = key
	} else {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}

	return &Sessions{store: store, secret: secret, secure: cfg.CookieSecure}, nil
}

func (m *Sessions) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := m.Lookup(r)
		if !ok {
			sess = session.New()
		}

		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// Lookup returns the stored session the request's cookie points at.
func (m *Sessions) Lookup(r *http.Request) (*session.Session, bool) {
	id, err := cookie.GetSessionID(r, m.secret)
	if err != nil {
		return nil, false
	}
	return m.store.Get(id)
}

// Save stores sess and sets its cookie, unless it is stored already.
func (m *Sessions) Save(w http.ResponseWriter, sess *session.Session) error {
	if _, ok := m.store.Get(sess.ID); ok {
		return nil
	}
	if err := cookie.SetSessionID(w, sess.ID, m.secret, m.secure); err != nil {
		return err
	}
	m.store.Add(sess)
	return nil
}

// Renew drops the request's current session and issues a new one with a new
// id and cookie. Call it before any privilege change such as login.
func (m *Sessions) Renew(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if old := session.FromContext(r.Context()); old != nil {
		m.store.Discard(old.ID)
	}

	sess := m.store.Create()
	if err := cookie.SetSessionID(w, sess.ID, m.secret, m.secure); err != nil {
		m.store.Discard(sess.ID)
		return nil, err
	}
	hlog.FromRequest(r).Debug().Str("session_id", sess.ID.String()).Msg("New session")
	return sess, nil
}

// End resets the request's session to anonymous and stops tracking it.
func (m *Sessions) End(r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		return
	}
	sess.Logout()
	m.store.Discard(sess.ID)
}

// RequireAuth redirects anonymous sessions to loginPath. It must run after Sessions.Handler.
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess == nil || sess.State() != session.Authenticated {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
