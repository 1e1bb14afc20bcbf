package detect

import (
	"context"
	"crypto/sha256"
	"errors"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog"

	"github.com/andrasnagy-data/langdetect/internal/shared/config"
	"github.com/andrasnagy-data/langdetect/internal/shared/metrics"
)

var ErrEmptyInput = errors.New("please enter some text")

type (
	detector interface {
		Detect(ctx context.Context, text string) (string, error)
	}

	Result struct {
		Language string
		Cached   bool
	}

	Service interface {
		Detect(ctx context.Context, text string) (*Result, error)
	}

	service struct {
		client   detector
		cache    *freecache.Cache
		cacheTTL int
		metrics  *metrics.Manager
		logger   zerolog.Logger
	}
)

func NewService(client *Client, cfg *config.Config, m *metrics.Manager, logger zerolog.Logger) Service {
	return newService(client, cfg.DetectCacheSize, cfg.DetectCacheTTL, m, logger)
}

// newService with cacheSize 0 disables the result cache. freecache rounds
// small sizes up to its 512KB minimum.
func newService(client detector, cacheSize int, cacheTTL time.Duration, m *metrics.Manager, logger zerolog.Logger) *service {
	s := &service{
		client:   client,
		cacheTTL: int(cacheTTL.Seconds()),
		metrics:  m,
		logger:   logger.With().Str("component", "detect").Logger(),
	}
	if cacheSize > 0 {
		s.cache = freecache.NewCache(cacheSize)
	}
	return s
}

func cacheKey(text string) []byte {
	sum := sha256.Sum256([]byte(text))
	return sum[:]
}

// Detect rejects blank input, then answers from the cache or with one call to
// the inference API. Failed calls are not cached.
func (s *service) Detect(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		s.metrics.CounterDetections.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, ErrEmptyInput
	}

	key := cacheKey(text)
	if s.cache != nil {
		if cached, err := s.cache.Get(key); err == nil {
			s.logger.Debug().Int("text_len", len(text)).Msg("Detection served from cache")
			s.metrics.CounterDetections.WithLabelValues(metrics.ResultOK).Inc()
			return &Result{Language: string(cached), Cached: true}, nil
		}
	}

	start := time.Now()
	language, err := s.client.Detect(ctx, text)
	s.metrics.HistDetectDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.CounterDetections.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}
	s.metrics.CounterDetections.WithLabelValues(metrics.ResultOK).Inc()

	if s.cache != nil {
		if err := s.cache.Set(key, []byte(language), s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache detection result")
		}
	}

	return &Result{Language: language}, nil
}
