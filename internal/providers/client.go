// Package providers talks to the upstream travel API. Each adapter builds the
// request shape its endpoint expects (query string or JSON body) and
// extracts the slice of the response the rest of the service uses.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dharmasatrya/travelhub/internal/ratelimit"
)

var (
	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelhub_provider_requests_total",
		Help: "Upstream provider requests by operation and HTTP status",
	}, []string{"operation", "status"})

	providerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "travelhub_provider_request_duration_seconds",
		Help:    "Upstream provider request duration in seconds by operation",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})
)

// Operation names one upstream endpoint. It labels metrics, rate limits and
// error policies.
type Operation string

const (
	OpFlightOffers          Operation = "flight_offers"
	OpFlightOffersMultiCity Operation = "flight_offers_multi_city"
	OpFlightPrice           Operation = "flight_price"
	OpFlightDates           Operation = "flight_dates"
	OpHotelList             Operation = "hotel_list"
	OpHotelOffers           Operation = "hotel_offers"
	OpTransferOffers        Operation = "transfer_offers"
	OpLocations             Operation = "locations"
	OpTripParser            Operation = "trip_parser"
	OpActivities            Operation = "activities"
	OpSafety                Operation = "safety"
)

const (
	TestBaseURL       = "https://test.api.amadeus.com"
	ProductionBaseURL = "https://api.amadeus.com"

	tokenPath        = "/v1/security/oauth2/token"
	maxResponseBytes = 10 << 20
	defaultTimeout   = 10 * time.Second
)

// BaseURLForEnvironment maps the environment selector to the API host.
func BaseURLForEnvironment(env string) (string, error) {
	switch strings.ToLower(env) {
	case "test", "":
		return TestBaseURL, nil
	case "production":
		return ProductionBaseURL, nil
	default:
		return "", fmt.Errorf("unknown provider environment %q", env)
	}
}

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string

	// Timeout bounds each call, including waiting on the rate limiter.
	Timeout time.Duration

	Limiter *ratelimit.Limiter

	// Policies overrides DefaultPolicies when non-nil.
	Policies map[Operation]ErrorPolicy

	// HTTPClient is used for token and API calls. Defaults to a client with
	// Timeout set.
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *ratelimit.Limiter
	policies   map[Operation]ErrorPolicy
	logger     zerolog.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider base url is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("provider client credentials are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	policies := cfg.Policies
	if policies == nil {
		policies = DefaultPolicies()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: credentials.Client(tokenCtx),
		timeout:    timeout,
		limiter:    cfg.Limiter,
		policies:   policies,
		logger:     log.With().Str("component", "provider-client").Logger(),
	}, nil
}

// Policy reports the error policy applied to op.
func (c *Client) Policy(op Operation) ErrorPolicy {
	return c.policies[op]
}

type apiRequest struct {
	op      Operation
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

// do runs r and decodes the response into out. Failures are returned or
// swallowed according to the operation's policy; when swallowed, out is
// left untouched.
func (c *Client) do(ctx context.Context, r apiRequest, out any) error {
	err := c.send(ctx, r, out)
	if err == nil {
		return nil
	}

	if c.Policy(r.op) == EmptyResult {
		c.logger.Warn().Err(err).Str("operation", string(r.op)).Msg("Upstream call failed, returning empty result")
		return nil
	}

	c.logger.Error().Err(err).Str("operation", string(r.op)).Msg("Upstream call failed")
	return err
}

func (c *Client) send(ctx context.Context, r apiRequest, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, string(r.op)); err != nil {
			return NewUpstreamError(r.op, 0, ErrorClassRateLimit, fmt.Errorf("rate limiter: %w", err))
		}
	}

	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return NewUpstreamError(r.op, 0, ErrorClassClient, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, body)
	if err != nil {
		return NewUpstreamError(r.op, 0, ErrorClassClient, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.amadeus+json, application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	clientRef := uuid.NewString()
	req.Header.Set("ama-client-ref", clientRef)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	providerRequestDuration.WithLabelValues(string(r.op)).Observe(elapsed.Seconds())
	if err != nil {
		providerRequestsTotal.WithLabelValues(string(r.op), "error").Inc()
		return NewUpstreamError(r.op, 0, classifyTransportError(err), err)
	}
	defer resp.Body.Close()

	providerRequestsTotal.WithLabelValues(string(r.op), strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug().
		Str("operation", string(r.op)).
		Str("client_ref", clientRef).
		Int("status_code", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("Provider call")

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return NewUpstreamError(r.op, resp.StatusCode, classifyTransportError(err), fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewUpstreamError(r.op, resp.StatusCode, classifyStatus(resp.StatusCode), fmt.Errorf("%s", summarizeError(data)))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewUpstreamError(r.op, resp.StatusCode, ErrorClassDecode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

type apiErrors struct {
	Errors []struct {
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// summarizeError extracts the upstream error titles, falling back to a
// truncated body.
func summarizeError(body []byte) string {
	var parsed apiErrors
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		parts := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			msg := e.Title
			if e.Detail != "" {
				msg += ": " + e.Detail
			}
			parts = append(parts, msg)
		}
		return strings.Join(parts, "; ")
	}

	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		s = "empty response body"
	}
	return s
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func commaJoin(values []string) string {
	return strings.Join(values, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
