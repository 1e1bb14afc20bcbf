package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/langdetect/internal/components/credentials"
	"github.com/andrasnagy-data/langdetect/internal/components/session"
	"github.com/andrasnagy-data/langdetect/internal/shared/metrics"
	"github.com/andrasnagy-data/langdetect/internal/shared/middleware"
	"github.com/andrasnagy-data/langdetect/internal/shared/web"
)

const (
	msgRegistered         = "✅ Registration successful! Please login."
	msgInvalidCredentials = "❌ Invalid username or password"
	msgUsernameTaken      = "🚫 Username already exists."
	msgEmptyCredentials   = "❗ Username and password cannot be empty"
	msgPasswordMismatch   = "❗ Passwords do not match"
	msgInternal           = "Something went wrong. Please try again."
)

type (
	Router struct {
		service  credentials.Service
		renderer *web.Renderer
		metrics  *metrics.Manager
		sessions *middleware.Sessions
	}
)

func NewRouter(service credentials.Service, renderer *web.Renderer, m *metrics.Manager, sessions *middleware.Sessions) chi.Router {
	router := &Router{service: service, renderer: renderer, metrics: m, sessions: sessions}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/login", r.LoginPage)
	router.Post("/login", r.HandleLogin)
	router.Get("/register", r.RegisterPage)
	router.Post("/register", r.HandleRegister)
	router.Post("/logout", r.HandleLogout)
	return router
}

func (r *Router) render(w http.ResponseWriter, req *http.Request, status int, name string, page web.Page) {
	if err := r.renderer.Render(w, status, name, page); err != nil {
		hlog.FromRequest(req).Error().Err(err).Str("page", name).Msg("Failed to render page")
	}
}

// redirectIfLoggedIn sends authenticated sessions to the detector, since the
// login and register views only exist for anonymous sessions.
func redirectIfLoggedIn(w http.ResponseWriter, req *http.Request, sess *session.Session) bool {
	if sess.State() == session.Authenticated {
		http.Redirect(w, req, "/", http.StatusSeeOther)
		return true
	}
	return false
}

func (r *Router) LoginPage(w http.ResponseWriter, req *http.Request) {
	sess := session.FromContext(req.Context())
	if redirectIfLoggedIn(w, req, sess) {
		return
	}
	r.render(w, req, http.StatusOK, web.PageLogin, web.NewPage("Login", sess))
}

// HandleLogin authenticates, swaps the anonymous session for a fresh
// authenticated one, then redirects so the next render already shows the detector.
func (r *Router) HandleLogin(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)
	sess := session.FromContext(ctx)

	username := req.FormValue("username")
	password := req.FormValue("password")

	logger.Debug().Str("username", username).Msg("Login attempt")

	user, err := r.service.Authenticate(ctx, username, password)
	if err != nil {
		page := web.NewPage("Login", sess)
		page.Form["username"] = username

		if errors.Is(err, credentials.ErrInvalidCredentials) {
			logger.Warn().Str("username", username).Msg("Login failed: invalid credentials")
			r.metrics.CounterLogins.WithLabelValues(metrics.ResultRejected).Inc()
			page.Add(web.KindError, msgInvalidCredentials)
			r.render(w, req, http.StatusUnauthorized, web.PageLogin, page)
			return
		}

		logger.Error().Err(err).Str("username", username).Msg("Login failed")
		r.metrics.CounterLogins.WithLabelValues(metrics.ResultError).Inc()
		page.Add(web.KindError, msgInternal)
		r.render(w, req, http.StatusInternalServerError, web.PageLogin, page)
		return
	}

	fresh, err := r.sessions.Renew(w, req)
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Failed to issue session")
		r.metrics.CounterLogins.WithLabelValues(metrics.ResultError).Inc()
		page := web.NewPage("Login", sess)
		page.Add(web.KindError, msgInternal)
		r.render(w, req, http.StatusInternalServerError, web.PageLogin, page)
		return
	}

	fresh.Login(user.Username)
	fresh.SetFlash(web.KindSuccess, "🎉 Welcome back, "+user.Username+"!")
	r.metrics.CounterLogins.WithLabelValues(metrics.ResultOK).Inc()
	logger.Info().Str("username", user.Username).Str("session_id", fresh.ID.String()).Msg("Login successful")

	http.Redirect(w, req, "/", http.StatusSeeOther)
}

func (r *Router) RegisterPage(w http.ResponseWriter, req *http.Request) {
	sess := session.FromContext(req.Context())
	if redirectIfLoggedIn(w, req, sess) {
		return
	}
	r.render(w, req, http.StatusOK, web.PageRegister, web.NewPage("Register", sess))
}

func (r *Router) HandleRegister(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)
	sess := session.FromContext(ctx)

	in := credentials.RegisterIn{
		Username:        req.FormValue("username"),
		Password:        req.FormValue("password"),
		PasswordConfirm: req.FormValue("password_confirm"),
	}

	user, err := r.service.Register(ctx, in)
	if err == nil {
		logger.Info().Str("username", user.Username).Msg("User registered")
		r.metrics.CounterRegistrations.WithLabelValues(metrics.ResultOK).Inc()

		sess.SetFlash(web.KindSuccess, msgRegistered)
		if err := r.sessions.Save(w, sess); err != nil {
			logger.Error().Err(err).Msg("Failed to save session")
		}
		http.Redirect(w, req, "/auth/login", http.StatusSeeOther)
		return
	}

	page := web.NewPage("Register", sess)
	page.Form["username"] = in.Username
	status := http.StatusBadRequest
	result := metrics.ResultRejected

	switch {
	case errors.Is(err, credentials.ErrPasswordMismatch):
		page.Add(web.KindError, msgPasswordMismatch)
	case errors.Is(err, credentials.ErrEmptyCredentials):
		page.Add(web.KindError, msgEmptyCredentials)
	case errors.Is(err, credentials.ErrUsernameTaken):
		status = http.StatusConflict
		page.Add(web.KindError, msgUsernameTaken)
	default:
		logger.Error().Err(err).Str("username", in.Username).Msg("Registration failed")
		status = http.StatusInternalServerError
		result = metrics.ResultError
		page.Add(web.KindError, msgInternal)
	}

	logger.Debug().Err(err).Str("username", in.Username).Msg("Registration rejected")
	r.metrics.CounterRegistrations.WithLabelValues(result).Inc()
	r.render(w, req, status, web.PageRegister, page)
}

// HandleLogout resets the session to anonymous and drops it from the store.
// The next request starts over with a fresh anonymous session.
func (r *Router) HandleLogout(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)
	sess := session.FromContext(req.Context())

	if sess.State() == session.Authenticated {
		logger.Info().Str("username", sess.View().Username).Msg("Logout")
		r.metrics.CounterLogouts.Inc()
	}
	r.sessions.End(req)

	http.Redirect(w, req, "/auth/login", http.StatusSeeOther)
}
