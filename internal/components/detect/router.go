package detect

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/langdetect/internal/components/session"
	"github.com/andrasnagy-data/langdetect/internal/shared/middleware"
	"github.com/andrasnagy-data/langdetect/internal/shared/web"
)

const title = "Language Detection"

type (
	Router struct {
		service  Service
		renderer *web.Renderer
	}
)

func NewRouter(service Service, renderer *web.Renderer) chi.Router {
	router := &Router{service: service, renderer: renderer}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth("/auth/login"))
	router.Get("/", r.DetectPage)
	router.Post("/detect", r.HandleDetect)
	return router
}

func (r *Router) DetectPage(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	page := web.NewPage(title, session.FromContext(req.Context()))
	if err := r.renderer.Render(w, http.StatusOK, web.PageDetect, page); err != nil {
		logger.Error().Err(err).Msg("Failed to render detect page")
	}
}

// HandleDetect runs one detection and re-renders the whole page with the
// result, a warning for blank input, or the API error as received.
func (r *Router) HandleDetect(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)
	sess := session.FromContext(ctx)

	text := req.FormValue("text")
	page := web.NewPage(title, sess)
	page.Form["text"] = text
	status := http.StatusOK

	result, err := r.service.Detect(ctx, text)
	var apiErr *APIError
	switch {
	case err == nil:
		page.Result = strings.TrimSpace(result.Language)
		logger.Debug().
			Str("username", sess.View().Username).
			Bool("cached", result.Cached).
			Msg("Language detected")
	case errors.Is(err, ErrEmptyInput):
		status = http.StatusBadRequest
		page.Add(web.KindWarning, "⚠️ Please enter some text.")
	case errors.As(err, &apiErr):
		logger.Warn().Int("upstream_status", apiErr.StatusCode).Msg("Inference API returned an error")
		status = http.StatusBadGateway
		page.Add(web.KindError, "❌ "+apiErr.Error())
	default:
		logger.Error().Err(err).Msg("Language detection failed")
		status = http.StatusBadGateway
		page.Add(web.KindError, "❌ Detection failed: "+err.Error())
	}

	if err := r.renderer.Render(w, status, web.PageDetect, page); err != nil {
		logger.Error().Err(err).Msg("Failed to render detect page")
	}
}
