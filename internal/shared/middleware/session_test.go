package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrasnagy-data/langdetect/internal/components/session"
	"github.com/andrasnagy-data/langdetect/internal/shared/config"
)

func newTestSessions(t *testing.T) (*Sessions, *session.Store) {
	t.Helper()
	cfg := &config.Config{CookieSecure: false}
	store := session.NewStore(cfg)
	m, err := NewSessions(store, cfg)
	require.NoError(t, err)
	return m, store
}

func serve(h http.Handler, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessions_AnonymousRequestsAreNotStored(t *testing.T) {
	m, store := newTestSessions(t)

	var seen *session.Session
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context())
	}))

	for range 200 {
		rec := serve(h)
		assert.Empty(t, rec.Result().Cookies())
	}

	require.NotNil(t, seen)
	assert.Equal(t, session.Anonymous, seen.State())
	assert.Equal(t, 0, store.Count())
}

func TestSessions_SaveThenReuse(t *testing.T) {
	m, store := newTestSessions(t)

	var seen []*session.Session
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		seen = append(seen, sess)
		sess.SetFlash("info", "hi")
		require.NoError(t, m.Save(w, sess))
	}))

	rec := serve(h)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 1, store.Count())

	// saving a stored session again is a no-op
	rec = serve(h, cookies[0])
	assert.Empty(t, rec.Result().Cookies())

	require.Len(t, seen, 2)
	assert.Same(t, seen[0], seen[1])
	assert.Equal(t, 1, store.Count())
}

func TestSessions_UnknownCookieGetsFreshSession(t *testing.T) {
	m, store := newTestSessions(t)
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, m.Save(w, session.FromContext(r.Context())))
	}))
	first := serve(h).Result().Cookies()[0]

	// a different process key makes the old cookie undecryptable
	other, otherStore := newTestSessions(t)
	var seen *session.Session
	oh := other.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.FromContext(r.Context())
	}))
	serve(oh, first)

	require.NotNil(t, seen)
	assert.Equal(t, session.Anonymous, seen.State())
	assert.Equal(t, 1, store.Count())
	assert.Equal(t, 0, otherStore.Count())
}

func TestSessions_RenewIssuesNewIDAndCookie(t *testing.T) {
	m, store := newTestSessions(t)

	var old, renewed *session.Session
	save := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		old = session.FromContext(r.Context())
		require.NoError(t, m.Save(w, old))
	}))
	renew := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		renewed, err = m.Renew(w, r)
		require.NoError(t, err)
		renewed.Login("alice")
	}))

	before := serve(save).Result().Cookies()[0]
	rec := serve(renew, before)
	after := rec.Result().Cookies()
	require.Len(t, after, 1)

	assert.NotEqual(t, before.Value, after[0].Value)
	assert.NotEqual(t, old.ID, renewed.ID)
	assert.Equal(t, session.Anonymous, old.State())
	assert.Equal(t, 1, store.Count())

	// the pre-login cookie no longer reaches any session
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(before)
	_, ok := m.Lookup(req)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(after[0])
	got, ok := m.Lookup(req)
	require.True(t, ok)
	assert.Same(t, renewed, got)
}

func TestSessions_End(t *testing.T) {
	m, store := newTestSessions(t)
	sess := store.Create()
	sess.Login("alice")

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	m.End(req.WithContext(session.WithSession(req.Context(), sess)))

	assert.Equal(t, session.View{}, sess.View())
	assert.Equal(t, 0, store.Count())
}

func TestNewSessions_Secret(t *testing.T) {
	store := session.NewStore(&config.Config{})

	_, err := NewSessions(store, &config.Config{SessionSecret: "zz"})
	assert.Error(t, err)

	_, err = NewSessions(store, &config.Config{SessionSecret: "abcd"})
	assert.Error(t, err)

	m, err := NewSessions(store, &config.Config{SessionSecret: "000102030405060708090a0b0c0d0e0f"})
	require.NoError(t, err)
	assert.Len(t, m.secret, 16)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth("/auth/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	sess := session.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(session.WithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))

	sess.Login("alice")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
