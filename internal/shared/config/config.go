package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Version     string `env:"VERSION" envDefault:"0.1.0"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string `env:"SENTRY_DSN"`

	// Gemini inference API
	APIKey          string        `env:"MY_API_KEY,required,notEmpty"`
	GeminiBaseURL   string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	GeminiModel     string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	DetectTimeout   time.Duration `env:"DETECT_TIMEOUT" envDefault:"0s"`
	DetectCacheSize int           `env:"DETECT_CACHE_SIZE" envDefault:"0"`
	DetectCacheTTL  time.Duration `env:"DETECT_CACHE_TTL" envDefault:"1h"`

	// Credential store
	UserStore      string `env:"USER_STORE" envDefault:"file"`
	UsersFile      string `env:"USERS_FILE" envDefault:"users.json"`
	DatabaseURL    string `env:"DATABASE_URL"`
	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"sha256"`

	// Sessions
	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"0s"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

// NewConfig loads an optional .env file from the working directory and then
// parses the process environment. A missing API key is an error.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}
