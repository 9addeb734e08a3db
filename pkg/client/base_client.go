package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Transport performs read-only GET calls against an upstream service.
// Implementations must be safe for concurrent use.
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPStatusError is returned for non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPStatusError) Unwrap() error {
	return models.ErrConnection
}

type BaseClient struct {
	name           string
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
	cache          *ResponseCache
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
	multiplier     float64
}

type ClientConfig struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	Multiplier      float64
	Threshold       int
	BreakerInterval time.Duration
	BreakerTimeout  time.Duration
}

// NewBaseClient builds a transport with per-attempt timeouts, retries and a
// circuit breaker. cache may be nil.
func NewBaseClient(name string, config ClientConfig, cache *ResponseCache, logger *zap.Logger) *BaseClient {
	httpClient := &http.Client{
		Timeout: config.Timeout,
	}
	return newBaseClient(name, httpClient, config, cache, logger)
}

func newBaseClient(name string, httpClient HTTPClient, config ClientConfig, cache *ResponseCache, logger *zap.Logger) *BaseClient {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = 3
	}

	breakerSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    config.BreakerInterval,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(threshold) && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BaseClient{
		name:           name,
		client:         httpClient,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
		cache:          cache,
		timeout:        config.Timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
		multiplier:     config.Multiplier,
	}
}

// Get returns the response body for url, serving it from the cache when a
// fresh copy is held. Every failure wraps models.ErrConnection.
func (c *BaseClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(rawURL); ok {
			c.logger.Debug("Cache hit", zap.String("client", c.name), zap.String("url", redactURL(rawURL)))
			return body, nil
		}
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doGetWithRetry(ctx, rawURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w: %v", c.name, models.ErrConnection, err)
		}
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	body := result.([]byte)
	if c.cache != nil {
		c.cache.Set(rawURL, body)
	}
	return body, nil
}

func (c *BaseClient) doGetWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(c.retryDelay) * math.Pow(c.multiplier, float64(attempt-1)))
			c.logger.Debug("Retrying request",
				zap.String("url", redactURL(rawURL)),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", models.ErrConnection, ctx.Err())
			case <-time.After(delay):
			}
		}

		body, retry, err := c.doGet(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		c.logger.Warn("HTTP request failed",
			zap.String("client", c.name),
			zap.String("url", redactURL(rawURL)),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if !retry {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("max retries exceeded, last error: %w", lastErr)
}

// doGet performs one attempt bounded by the client timeout and reports
// whether a failure is worth retrying.
func (c *BaseClient) doGet(ctx context.Context, rawURL string) ([]byte, bool, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: creating request failed: %v", models.ErrConnection, redactError(err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", models.ErrConnection, redactError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("%w: reading body: %v", models.ErrConnection, err)
		}

		c.logger.Debug("Request successful",
			zap.String("url", redactURL(rawURL)),
			zap.Int("status", resp.StatusCode),
			zap.Int("body_size", len(body)))

		return body, false, nil
	}

	// Don't retry on client errors (4xx) except 429 (rate limiting)
	statusErr := &HTTPStatusError{StatusCode: resp.StatusCode}
	retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
	return nil, retry, statusErr
}

// secretParams are query keys whose values never leave the process in logs
// or error text.
var secretParams = []string{"appid", "apikey", "api_key", "key", "token"}

// redactURL masks credential query values. Unparseable input is replaced
// wholesale since it cannot be inspected safely.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[unparseable url]"
	}

	query := u.Query()
	changed := false
	for key := range query {
		for _, secret := range secretParams {
			if strings.EqualFold(key, secret) {
				query.Set(key, "REDACTED")
				changed = true
			}
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// redactError strips credentials from the URL that net/http embeds in
// transport errors.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}
	return err
}
