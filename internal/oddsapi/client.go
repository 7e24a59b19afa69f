// Package oddsapi is a client for The Odds API v4.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

const (
	DefaultBaseURL = "https://api.the-odds-api.com"

	endpointSports = "sports"
	endpointOdds   = "odds"

	maxErrorBody = 512
)

// Config holds client settings
type Config struct {
	BaseURL                string
	APIKey                 string
	Regions                string
	Markets                string
	Timeout                time.Duration
	MaxRetries             int
	RetryWaitMin           time.Duration
	RetryWaitMax           time.Duration
	RateLimit              float64 // requests per second, 0 disables
	CircuitBreakerMax      int
	CircuitBreakerCooldown time.Duration
	SportsCacheTTL         time.Duration
	OddsCacheTTL           time.Duration
}

// DefaultConfig returns recommended defaults for the public API
func DefaultConfig() Config {
	return Config{
		BaseURL:                DefaultBaseURL,
		Regions:                "us",
		Markets:                models.MarketHeadToHead,
		Timeout:                30 * time.Second,
		MaxRetries:             3,
		RetryWaitMin:           500 * time.Millisecond,
		RetryWaitMax:           10 * time.Second,
		RateLimit:              1,
		CircuitBreakerMax:      5,
		CircuitBreakerCooldown: time.Minute,
		SportsCacheTTL:         time.Hour,
		OddsCacheTTL:           30 * time.Minute,
	}
}

// Client fetches sports and odds. It satisfies refresh.OddsProvider.
type Client struct {
	cfg       Config
	transport *transport
	cache     *responseCache
	log       *logrus.Entry
}

// NewClient creates a client. A nil logger discards output.
func NewClient(cfg Config, log *logrus.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Regions == "" {
		cfg.Regions = defaults.Regions
	}
	if cfg.Markets == "" {
		cfg.Markets = defaults.Markets
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.CircuitBreakerCooldown <= 0 {
		cfg.CircuitBreakerCooldown = defaults.CircuitBreakerCooldown
	}

	entry := log.WithField("component", "oddsapi")
	return &Client{
		cfg:       cfg,
		transport: newTransport(cfg, entry),
		cache:     newResponseCache(cfg.SportsCacheTTL, cfg.OddsCacheTTL),
		log:       entry,
	}, nil
}

// Sports lists the provider's in-season sports
func (c *Client) Sports(ctx context.Context) ([]models.ProviderSport, error) {
	if sports, ok := c.cache.sports(); ok {
		return sports, nil
	}

	var sports []models.ProviderSport
	if err := c.getJSON(ctx, endpointSports, "/v4/sports", nil, &sports); err != nil {
		return nil, err
	}

	c.cache.setSports(sports)
	return sports, nil
}

// FetchOdds returns upcoming events with bookmaker prices in decimal format
func (c *Client) FetchOdds(ctx context.Context, sportKey string) ([]models.Event, error) {
	sportKey = strings.TrimSpace(sportKey)
	if sportKey == "" {
		return nil, fmt.Errorf("sport key is required")
	}
	if events, ok := c.cache.events(sportKey); ok {
		return events, nil
	}

	params := url.Values{}
	params.Set("regions", c.cfg.Regions)
	params.Set("markets", c.cfg.Markets)
	params.Set("oddsFormat", "decimal")
	params.Set("dateFormat", "iso")

	var events []models.Event
	path := "/v4/sports/" + url.PathEscape(sportKey) + "/odds"
	if err := c.getJSON(ctx, endpointOdds, path, params, &events); err != nil {
		return nil, err
	}

	c.cache.setEvents(sportKey, events)
	return events, nil
}

// InvalidateCache drops all cached responses
func (c *Client) InvalidateCache() {
	c.cache.flush()
}

// Close releases idle connections
func (c *Client) Close() error {
	c.transport.close()
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.cfg.APIKey)
	target := c.cfg.BaseURL + path + "?" + params.Encode()

	start := time.Now()
	resp, err := c.transport.get(ctx, target)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("failed to call odds api %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordProviderRequest(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())

	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		c.log.WithFields(logrus.Fields{
			"endpoint":           endpoint,
			"requests_remaining": remaining,
			"requests_used":      resp.Header.Get("x-requests-used"),
		}).Debug("Odds api quota")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode odds api %s response: %w", endpoint, err)
	}
	return nil
}
