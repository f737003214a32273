// Package client provides the HTTP client for a paginated artist collection
// endpoint: URL building, status classification, and page normalization.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/artist-pager/pkg/artist"
	"github.com/Sternrassler/artist-pager/pkg/pagination"
	"github.com/google/go-querystring/query"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for collection requests.
var (
	artistRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artist_requests_total",
		Help: "Total artist page requests by status",
	}, []string{"status"})

	artistRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "artist_request_duration_seconds",
		Help:    "Artist page request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	artistErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artist_errors_total",
		Help: "Total artist page request errors by class",
	}, []string{"class"})
)

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

// DefaultPath is the collection path served by the artist REST controller.
const DefaultPath = "/api/artists"

// Config holds the client configuration.
type Config struct {
	// BaseURL is the scheme and host of the backend, e.g. "http://localhost:8080".
	BaseURL string

	// Path is the collection endpoint path (default: DefaultPath).
	Path string

	// UserAgent header sent with every request.
	UserAgent string

	// HTTPClient overrides the transport. nil uses a client without an
	// explicit timeout, leaving it to the network stack.
	HTTPClient *http.Client
}

// DefaultConfig returns a configuration for the standard collection path.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:   baseURL,
		Path:      DefaultPath,
		UserAgent: userAgent,
	}
}

// Request describes one page request.
type Request struct {
	// Page is the page index to request.
	Page int `url:"page"`

	// Size is the page size; 0 omits the parameter.
	Size int `url:"size,omitempty"`

	artist.Filter
}

// Client fetches pages of artist records.
type Client struct {
	httpClient *http.Client
	endpoint   url.URL
	config     Config
	logger     zerolog.Logger
}

// New creates a new collection client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	endpoint := *base
	endpoint.Path = strings.TrimRight(base.Path, "/") + "/" + strings.TrimLeft(cfg.Path, "/")
	endpoint.RawQuery = ""
	endpoint.Fragment = ""

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		config:     cfg,
		logger:     log.With().Str("component", "artist-client").Logger(),
	}, nil
}

// Endpoint returns the collection URL without query parameters.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// BuildURL returns the fully encoded URL for a page request.
func (c *Client) BuildURL(req Request) (string, error) {
	values, err := query.Values(req)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	u := c.endpoint
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// FetchPage performs a GET for one page and normalizes the response.
// Every failure is a *RequestError.
func (c *Client) FetchPage(ctx context.Context, req Request) (*pagination.Page[artist.Record], error) {
	startTime := time.Now()
	defer func() {
		artistRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	target, err := c.BuildURL(req)
	if err != nil {
		return nil, &RequestError{ErrorClass: ErrorClassMalformed, Message: "build request url", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &RequestError{ErrorClass: ErrorClassNetwork, Message: "create request", Err: err}
	}
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("url", target).
		Int("page", req.Page).
		Int("size", req.Size).
		Msg("Requesting artist page")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		artistRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, c.fail(&RequestError{ErrorClass: ErrorClassNetwork, Message: "request failed", Err: err})
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	artistRequestsTotal.WithLabelValues(status).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := resp.Status
		if text := strings.TrimSpace(string(snippet)); text != "" {
			msg = resp.Status + ": " + text
		}
		return nil, c.fail(&RequestError{
			StatusCode: resp.StatusCode,
			ErrorClass: classifyStatus(resp.StatusCode),
			Message:    msg,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&RequestError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		})
	}

	page, err := pagination.Decode[artist.Record](body)
	if err != nil {
		return nil, c.fail(&RequestError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassMalformed,
			Message:    "decode page",
			Err:        err,
		})
	}

	c.logger.Debug().
		Int("page", req.Page).
		Int("items", page.Len()).
		Str("shape", string(page.Shape)).
		Dur("duration", time.Since(startTime)).
		Msg("Artist page received")

	return page, nil
}

// fail records and logs a request error before returning it.
func (c *Client) fail(err *RequestError) *RequestError {
	artistErrorsTotal.WithLabelValues(string(err.ErrorClass)).Inc()

	event := c.logger.Warn().Str("error_class", string(err.ErrorClass))
	if err.StatusCode > 0 {
		event = event.Int("status", err.StatusCode)
	}
	event.Err(err).Msg("Artist page request failed")

	return err
}
