package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/andrasnagy-data/langdetect/internal/shared/config"
)

func TestNewLogger_Dev(t *testing.T) {
	logger, sentryWriter := NewLogger(&config.Config{Environment: "dev", LogLevel: "debug"})
	assert.Nil(t, sentryWriter)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.NotEqual(t, zerolog.Disabled, logger.GetLevel())
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	_, sentryWriter := NewLogger(&config.Config{LogLevel: "loud"})
	assert.Nil(t, sentryWriter)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
