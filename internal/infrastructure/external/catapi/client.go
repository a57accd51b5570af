// Package catapi implements the Cat API client.
// This package handles all communication with the upstream breed and image
// provider: the breed catalog feed and random breed-tagged images.
package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
	"github.com/purrboard/purrboard-bot/pkg/circuitbreaker"
	"github.com/purrboard/purrboard-bot/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Cat API client.
type ClientConfig struct {
	// BaseURL is the Cat API base URL.
	BaseURL string

	// APIKey is the x-api-key value (optional, raises upstream quotas).
	APIKey string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// RequestsPerSecond caps the steady request rate to the upstream.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int

	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables debug logging.
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:           baseURL,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Cat API client. Requests go through a token-bucket rate
// limiter, a circuit breaker and bounded retries with backoff.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	retrier    *retry.Retrier
	mapper     *Mapper
}

// NewClient creates a new Cat API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 5
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}

	logger := config.Logger
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		breaker: circuitbreaker.CatAPIBreaker(func(name string, from, to circuitbreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		}),
		retrier: retry.CatAPIRetrier(),
		mapper:  NewMapper(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BREED OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// ListBreeds fetches the full breed catalog. Malformed records are skipped,
// not fatal: one broken upstream row must not block a catalog sync.
func (c *Client) ListBreeds(ctx context.Context) ([]*breed.Breed, error) {
	var dtos []BreedDTO
	if err := c.doRequest(ctx, "/v1/breeds", nil, &dtos); err != nil {
		return nil, err
	}

	breeds, skipped := c.mapper.ToBreeds(dtos)
	if skipped > 0 {
		c.logger.Warn("skipped malformed breed payloads", "count", skipped)
	}
	if len(breeds) == 0 && len(dtos) > 0 {
		return nil, shared.ErrCatAPIInvalidResponse
	}

	return breeds, nil
}

// GetRandomWithBreed fetches one random image that has breed data attached.
func (c *Client) GetRandomWithBreed(ctx context.Context) (*BreedCard, error) {
	var dtos []ImageDTO
	params := url.Values{}
	params.Set("has_breeds", "1")
	params.Set("limit", "1")

	if err := c.doRequest(ctx, "/v1/images/search", params, &dtos); err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, shared.ErrCatAPIInvalidResponse
	}

	return c.mapper.ToBreedCard(dtos[0])
}

// GetRandomByBreed fetches a random image of a specific breed.
func (c *Client) GetRandomByBreed(ctx context.Context, breedID string) (*BreedCard, error) {
	var dtos []ImageDTO
	params := url.Values{}
	params.Set("breed_ids", breedID)
	params.Set("limit", "1")

	if err := c.doRequest(ctx, "/v1/images/search", params, &dtos); err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, shared.ErrCatAPIInvalidResponse
	}

	return c.mapper.ToBreedCard(dtos[0])
}

// GetImageByID fetches a single image by its identifier.
func (c *Client) GetImageByID(ctx context.Context, imageID string) (*ImageDTO, error) {
	var dto ImageDTO
	if err := c.doRequest(ctx, "/v1/images/"+url.PathEscape(imageID), nil, &dto); err != nil {
		return nil, err
	}
	if dto.URL == "" {
		return nil, shared.ErrCatAPIInvalidResponse
	}

	return &dto, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSPORT
// ══════════════════════════════════════════════════════════════════════════════

// RateLimitError reports an upstream 429 with its advised wait.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("cat api rate limited: retry after %s: %s", e.RetryAfter, e.Message)
}

// Is makes errors.Is(err, shared.ErrRateLimited) work.
func (e *RateLimitError) Is(target error) bool {
	return errors.Is(shared.ErrRateLimited, target)
}

// doRequest performs a GET with rate limiting, circuit breaking and retries.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Permanent(fmt.Errorf("rate limiter: %w", err))
			}
			return c.doSingleRequest(ctx, path, params, result)
		})
	})
}

// doSingleRequest performs a single HTTP request.
func (c *Client) doSingleRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	fullURL := c.config.BaseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("x-api-key", c.config.APIKey)
	}

	if c.config.Debug {
		c.logger.Debug("cat api request", "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(shared.WrapError("catapi", "Request",
			shared.ErrUpstreamUnavailable, "http request failed", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	// Upstream throttling: retry after the advised delay.
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 60 * time.Second
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return retry.Retryable(&RateLimitError{
			RetryAfter: retryAfter,
			Message:    "rate limit exceeded",
		})
	}

	if resp.StatusCode >= 500 {
		return retry.Retryable(shared.WrapError("catapi", "Request",
			shared.ErrUpstreamUnavailable,
			fmt.Sprintf("server error: status %d", resp.StatusCode), nil))
	}

	if resp.StatusCode >= 400 {
		var apiErr APIErrorDTO
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			apiErr.Status = resp.StatusCode
			return retry.Permanent(&apiErr)
		}
		return retry.Permanent(fmt.Errorf("cat api error: status %d", resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return retry.Permanent(shared.WrapError("catapi", "Parse",
				shared.ErrInvalidFormat, "unmarshal response failed", err))
		}
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH AND STATUS
// ══════════════════════════════════════════════════════════════════════════════

// IsHealthy checks if the Cat API is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	var dtos []BreedDTO
	params := url.Values{}
	params.Set("limit", "1")
	err := c.doSingleRequest(ctx, "/v1/breeds", params, &dtos)
	return err == nil
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}
