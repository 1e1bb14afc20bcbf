package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/langdetect/internal/components/session"
	"github.com/andrasnagy-data/langdetect/internal/shared/config"
	"github.com/andrasnagy-data/langdetect/internal/shared/metrics"
	"github.com/andrasnagy-data/langdetect/internal/shared/middleware"
	"github.com/andrasnagy-data/langdetect/internal/shared/web"
)

type (
	// Server represents the HTTP server with all dependencies
	Server struct {
		server       *http.Server
		config       *config.Config
		logger       zerolog.Logger
		sentryWriter *sentryzerolog.Writer
	}

	Params struct {
		fx.In

		Config        *config.Config
		Logger        zerolog.Logger
		SentryWriter  *sentryzerolog.Writer
		HealthHandler http.HandlerFunc
		Registry      *prometheus.Registry
		Metrics       *metrics.Manager
		Sessions      *middleware.Sessions
		SessionStore  *session.Store
		AuthRouter    chi.Router `name:"authRouter"`
		DetectRouter  chi.Router `name:"detectRouter"`
	}
)

func initSentry(cfg *config.Config, logger zerolog.Logger) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.Version,
		AttachStacktrace: true,
		// form posts carry passwords
		SendDefaultPII:   false,
		EnableTracing:    true,
		TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
			if ctx.Span.Name == "GET /health" || ctx.Span.Name == "GET /metrics" {
				return 0.0
			}
			return 1.0
		}),
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize Sentry")
	} else {
		logger.Debug().Str("environment", cfg.Environment).Msg("Sentry initialized")
	}
}

// NewRouter builds the full handler tree. Pages sit behind the session
// middleware; health, metrics and static assets do not create sessions.
func NewRouter(p Params) chi.Router {
	r := chi.NewRouter()

	if p.Config.IsEnvProd() {
		initSentry(p.Config, p.Logger)

		// Recover only in prod
		sentryHandler := sentryhttp.New(sentryhttp.Options{})
		r.Use(sentryHandler.Handle)
	}

	// Middleware
	r.Use(hlog.NewHandler(p.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("url", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	}))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", p.HealthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	r.Handle("/static/*", web.StaticHandler())

	r.Group(func(r chi.Router) {
		r.Use(p.Sessions.Handler)
		r.Mount("/auth", p.AuthRouter)
		r.Mount("/", p.DetectRouter)
	})

	return r
}

func NewServer(p Params) *Server {
	p.Metrics.RegisterActiveSessions(p.SessionStore.Count)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", p.Config.Port),
		Handler:           NewRouter(p),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		config:       p.Config,
		logger:       p.Logger.With().Str("component", "server").Logger(),
		server:       server,
		sentryWriter: p.SentryWriter,
	}
}

// Register hooks the server into the fx lifecycle
func Register(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})
}

// start starts the HTTP server
func (s *Server) start(_ context.Context) error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Str("environment", s.config.Environment).
		Str("user_store", s.config.UserStore).
		Bool("sentry_enabled", s.config.IsEnvProd()).
		Msg("Starting HTTP server")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Server failed to start")
		}
	}()

	return nil
}

// stop gracefully shuts down the HTTP server
func (s *Server) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.logger.Info().Msg("Shutting down HTTP server...")

	if s.config.IsEnvProd() {
		s.logger.Info().Msg("Flushing Sentry client and writer")
		if s.sentryWriter != nil {
			s.sentryWriter.Close()
		}
		sentry.Flush(2 * time.Second)
	}

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error during server shutdown")
		return err
	}

	s.logger.Info().Msg("HTTP server shutdown completed")
	return nil
}
