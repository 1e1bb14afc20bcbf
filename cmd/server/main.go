// Language Detector
// A server-rendered web app: register or log in, then ask the Gemini API which
// language a piece of text is written in.

package main

import (
	"go.uber.org/fx"

	"github.com/andrasnagy-data/langdetect/internal/components/auth"
	"github.com/andrasnagy-data/langdetect/internal/components/credentials"
	"github.com/andrasnagy-data/langdetect/internal/components/detect"
	"github.com/andrasnagy-data/langdetect/internal/components/session"
	"github.com/andrasnagy-data/langdetect/internal/server"
	"github.com/andrasnagy-data/langdetect/internal/shared/config"
	"github.com/andrasnagy-data/langdetect/internal/shared/logging"
	"github.com/andrasnagy-data/langdetect/internal/shared/metrics"
	"github.com/andrasnagy-data/langdetect/internal/shared/middleware"
	"github.com/andrasnagy-data/langdetect/internal/shared/web"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			metrics.NewRegistry,
			metrics.NewManager,
			web.NewRenderer,
			server.NewServer,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			credentials.NewStore,
			credentials.NewService,
			session.NewStore,
			middleware.NewSessions,
			detect.NewClient,
			detect.NewService,
			fx.Annotate(auth.NewRouter, fx.ResultTags(`name:"authRouter"`)),
			fx.Annotate(detect.NewRouter, fx.ResultTags(`name:"detectRouter"`)),
		),
		fx.Invoke(server.Register),
	).Run()
}
