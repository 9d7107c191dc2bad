// Package restcountries fetches the country list from the REST Countries API.
package restcountries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rshade/countries/internal/cache"
	"github.com/rshade/countries/internal/country"
	"github.com/rshade/countries/internal/logging"
	"github.com/rshade/countries/pkg/version"
)

// DefaultEndpoint returns every country with only the fields the UI renders.
// The upstream API rejects /all without a field list.
const DefaultEndpoint = "https://restcountries.com/v3.1/all?fields=name,cca2,cca3,altSpellings,idd,flags,flag"

// maxBodyBytes caps the response body. The full dataset is well under 1 MiB.
const maxBodyBytes = 16 << 20

var (
	// ErrUnexpectedStatus is wrapped by StatusError for any non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrMalformedBody is returned when the body is not a JSON array of countries.
	ErrMalformedBody = errors.New("malformed country list")
)

// StatusError carries the HTTP status of a rejected response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnexpectedStatus, e.Status)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Fetcher loads the full country list. The TUI and list command depend on
// this rather than on *Client so tests can substitute a fixture.
type Fetcher func(ctx context.Context) ([]country.Country, error)

// Client performs the single GET against the countries endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	store      *cache.FileStore
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each fetch. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCache keeps successful responses in store, keyed by endpoint.
// A nil or disabled store turns caching off.
func WithCache(store *cache.FileStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// NewClient returns a Client for endpoint. An empty endpoint is an error.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("restcountries: endpoint cannot be empty")
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		userAgent:  version.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the URL the client fetches.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetcher adapts the client to the Fetcher type. The first call may be
// answered from the cache; every later call is a reload and goes to the network.
func (c *Client) Fetcher() Fetcher {
	var loaded atomic.Bool
	return func(ctx context.Context) ([]country.Country, error) {
		if loaded.CompareAndSwap(false, true) {
			return c.FetchCached(ctx)
		}
		return c.FetchAll(ctx)
	}
}

// FetchCached returns the cached list when a fresh entry exists and
// otherwise falls back to FetchAll. An unreadable entry is discarded.
func (c *Client) FetchCached(ctx context.Context) ([]country.Country, error) {
	if !c.store.IsEnabled() {
		return c.FetchAll(ctx)
	}
	log := logging.FromContext(ctx)

	entry, err := c.store.Get(c.endpoint)
	switch {
	case err == nil:
		countries, decodeErr := decode(bytes.NewReader(entry.Data))
		if decodeErr == nil {
			log.Debug().
				Str("component", "restcountries").
				Int("count", len(countries)).
				Dur("age", entry.Age(time.Now())).
				Msg("countries served from cache")
			return countries, nil
		}
		log.Warn().Str("component", "restcountries").Err(decodeErr).Msg("discarding unreadable cache entry")
		_ = c.store.Delete(c.endpoint)
	case errors.Is(err, cache.ErrCacheNotFound), errors.Is(err, cache.ErrCacheExpired):
		log.Debug().Str("component", "restcountries").Err(err).Msg("cache miss")
	default:
		log.Warn().Str("component", "restcountries").Err(err).Msg("cache read failed")
	}
	return c.FetchAll(ctx)
}

// FetchAll issues one GET and decodes the response. There is no retry;
// cancelling ctx aborts the request.
func (c *Client) FetchAll(ctx context.Context) ([]country.Country, error) {
	log := logging.FromContext(ctx)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	log.Debug().
		Str("component", "restcountries").
		Str("endpoint", c.endpoint).
		Msg("fetching countries")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching countries: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	countries, err := decode(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if c.store.IsEnabled() {
		if setErr := c.store.Set(c.endpoint, body); setErr != nil {
			log.Warn().Str("component", "restcountries").Err(setErr).Msg("caching countries failed")
		}
	}

	log.Debug().
		Str("component", "restcountries").
		Int("count", len(countries)).
		Dur("duration_ms", time.Since(start)).
		Msg("fetched countries")
	return countries, nil
}

func decode(r io.Reader) ([]country.Country, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	var countries []country.Country
	if err := json.Unmarshal(raw, &countries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if countries == nil {
		// A literal null is not a list.
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedBody)
	}
	return countries, nil
}
