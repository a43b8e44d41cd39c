package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/sony/gobreaker/v2"
)

// Custom error types
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAPIKeyMissing    = errors.New("API key missing")
	ErrExternalAPI      = errors.New("external API error")
	ErrMalformedPayload = errors.New("malformed provider payload")
)

// providerClient issues single GET requests to one upstream behind a circuit breaker.
// It never retries; an open breaker fails the call without touching the network.
type providerClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	userAgent  string
}

func newProviderClient(name, userAgent string, httpClient *http.Client) *providerClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.GetHTTPClientTimeout()}
	}
	failures, openTimeout := config.GetBreakerConfig()
	return &providerClient{
		httpClient: httpClient,
		breaker:    newBreaker(name, failures, openTimeout),
		userAgent:  userAgent,
	}
}

func newBreaker(name string, failures uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker[*http.Response] {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			config.GetLogger().Warnw("Provider circuit breaker state changed", "provider", name, "from", from.String(), "to", to.String())
		},
	})
}

// get returns the response for any status below 500 other than 429; the caller closes the body.
func (p *providerClient) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.breaker.Execute(func() (*http.Response, error) {
		r, doErr := p.httpClient.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if r.StatusCode >= http.StatusInternalServerError || r.StatusCode == http.StatusTooManyRequests {
			r.Body.Close()
			return nil, fmt.Errorf("upstream returned %d", r.StatusCode)
		}
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalAPI, err)
	}
	return resp, nil
}
