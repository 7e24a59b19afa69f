package oddsapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
)

// ErrCircuitOpen is returned while the provider is considered unavailable
var ErrCircuitOpen = errors.New("odds provider circuit breaker open")

// transport wraps retryablehttp.Client with rate limiting and a circuit breaker
type transport struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	log     *logrus.Entry
	now     func() time.Time

	breakerMax      int
	breakerCooldown time.Duration

	mu                sync.Mutex
	consecutiveErrors int
	openUntil         time.Time
	lastError         error
}

func newTransport(cfg Config, log *logrus.Entry) *transport {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	// request URLs carry the API key, so retryablehttp's own logging stays off
	retryClient.Logger = nil
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			log.WithFields(logrus.Fields{
				"path":    req.URL.Path,
				"attempt": attempt,
			}).Debug("Retrying odds provider request")
		}
	}
	// hand the last response back to the caller instead of a generic error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &transport{
		client:          retryClient,
		limiter:         rate.NewLimiter(limit, 1),
		log:             log,
		now:             time.Now,
		breakerMax:      cfg.CircuitBreakerMax,
		breakerCooldown: cfg.CircuitBreakerCooldown,
	}
}

// get executes a GET request with rate limiting and the circuit breaker
func (t *transport) get(ctx context.Context, url string) (*http.Response, error) {
	if err := t.allow(); err != nil {
		return nil, err
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.failure(err)
		return nil, err
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		t.failure(fmt.Errorf("status %d", resp.StatusCode))
	} else {
		t.success()
	}
	return resp, nil
}

func (t *transport) allow() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.openUntil.IsZero() {
		return nil
	}
	if t.now().Before(t.openUntil) {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, t.lastError)
	}
	// cooldown elapsed; let one request probe the provider
	t.openUntil = time.Time{}
	t.consecutiveErrors = t.breakerMax - 1
	metrics.UpdateProviderCircuit(false)
	return nil
}

func (t *transport) failure(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.consecutiveErrors++
	t.lastError = err
	if t.breakerMax > 0 && t.consecutiveErrors >= t.breakerMax {
		t.openUntil = t.now().Add(t.breakerCooldown)
		metrics.UpdateProviderCircuit(true)
		t.log.WithError(err).WithFields(logrus.Fields{
			"consecutive_errors": t.consecutiveErrors,
			"cooldown":           t.breakerCooldown.String(),
		}).Warn("Circuit breaker opened")
	}
}

func (t *transport) success() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.consecutiveErrors = 0
	t.lastError = nil
}

func (t *transport) close() {
	t.client.HTTPClient.CloseIdleConnections()
}

// retryPolicy retries network errors, 429 and 5xx responses
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
