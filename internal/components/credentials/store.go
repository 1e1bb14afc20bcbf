package credentials

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/langdetect/internal/shared/config"
	"github.com/andrasnagy-data/langdetect/internal/shared/database"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Store persists username -> digest records.
type Store interface {
	// Get returns ErrUserNotFound for unknown usernames.
	Get(ctx context.Context, username string) (*User, error)
	// Create returns ErrUsernameTaken and leaves the existing record as is
	// when the username is already present.
	Create(ctx context.Context, user User) error
	Ping(ctx context.Context) error
}

// NewStore picks the backend named by USER_STORE. The postgres pool is closed on shutdown.
func NewStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "credentials").Str("store", cfg.UserStore).Logger()

	switch cfg.UserStore {
	case StoreFile, "":
		logger.Info().Str("path", cfg.UsersFile).Msg("Using file user store")
		return NewFileStore(cfg.UsersFile), nil
	case StorePostgres:
		pool, err := database.NewPgxPool(context.Background(), cfg, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				pool.Close()
				return nil
			},
		})
		store := NewPostgresStore(pool)
		lc.Append(fx.Hook{
			OnStart: store.Migrate,
		})
		return store, nil
	default:
		return nil, fmt.Errorf("unknown user store %q", cfg.UserStore)
	}
}
