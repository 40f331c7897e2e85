package darksky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"darksky-forecast/models"

	"go.uber.org/zap"
)

// Doer is the HTTP backend used by the client. *http.Client satisfies it;
// any other transport (instrumented, proxied, recorded) can be swapped in.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes a single forecast request.
type Request struct {
	Latitude  float64
	Longitude float64
	Time      *time.Time // set for a time machine request
	Options   Options
}

// Response is a decoded forecast plus the metadata the API reports in
// response headers.
type Response struct {
	Forecast     models.Forecast
	StatusCode   int
	APICalls     *int   // X-Forecast-API-Calls: calls made today with this token
	ResponseTime string // X-Response-Time: server side processing time
}

// ForecastFetcher is anything that can execute a forecast request.
type ForecastFetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP backend.
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithBaseURL points the client at another host, e.g. a test server or a
// compatible mirror of the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// Client talks to the Dark Sky forecast API.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	httpClient Doer
	logger     *zap.Logger
}

// NewClient creates a client for the given API token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		token:     token,
		baseURL:   APIURL,
		userAgent: "darksky-forecast",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetForecast retrieves the forecast for a location with units chosen
// automatically from the location.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	return c.forecast(ctx, Request{
		Latitude:  lat,
		Longitude: lon,
		Options:   Options{}.Unit(UnitAuto),
	})
}

// GetForecastWithOptions retrieves the forecast for a location, letting
// configure build the request options:
//
//	client.GetForecastWithOptions(ctx, lat, lon, func(o darksky.Options) darksky.Options {
//		return o.Exclude(darksky.BlockMinutely).ExtendHourly()
//	})
func (c *Client) GetForecastWithOptions(ctx context.Context, lat, lon float64, configure func(Options) Options) (*models.Forecast, error) {
	return c.forecast(ctx, Request{
		Latitude:  lat,
		Longitude: lon,
		Options:   applyOptions(configure),
	})
}

// GetForecastTimeMachine retrieves observed or forecast conditions for a
// location at a past or future time. The response is always expressed in
// the local time of the location.
func (c *Client) GetForecastTimeMachine(ctx context.Context, lat, lon float64, at time.Time, configure func(Options) Options) (*models.Forecast, error) {
	return c.forecast(ctx, Request{
		Latitude:  lat,
		Longitude: lon,
		Time:      &at,
		Options:   applyOptions(configure),
	})
}

func applyOptions(configure func(Options) Options) Options {
	if configure == nil {
		return Options{}
	}
	return configure(Options{})
}

func (c *Client) forecast(ctx context.Context, req Request) (*models.Forecast, error) {
	resp, err := c.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return &resp.Forecast, nil
}

// Fetch executes a forecast request and returns the decoded forecast along
// with the response metadata.
func (c *Client) Fetch(ctx context.Context, req Request) (*Response, error) {
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	// Build URL
	endpoint := buildURI(c.baseURL, c.token, req.Latitude, req.Longitude, req.Time, req.Options)
	logger := c.logger.With(zap.String("url", redact(endpoint, c.token)))

	// Create request
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	// Execute request
	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Debug("forecast request failed", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer httpResp.Body.Close()

	// Read response body
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug("forecast response",
		zap.Int("status", httpResp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	// Check for error status code
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, newAPIError(httpResp.StatusCode, body)
	}

	// Parse response
	resp := &Response{
		StatusCode:   httpResp.StatusCode,
		APICalls:     parseCallCount(httpResp.Header.Get("X-Forecast-API-Calls")),
		ResponseTime: httpResp.Header.Get("X-Response-Time"),
	}
	if err := json.Unmarshal(body, &resp.Forecast); err != nil {
		return nil, &DecodeError{Err: err, Body: body}
	}

	return resp, nil
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, lon)
	}
	return nil
}

func parseCallCount(header string) *int {
	if header == "" {
		return nil
	}
	n, err := strconv.Atoi(header)
	if err != nil {
		return nil
	}
	return &n
}

// Verify that Client satisfies ForecastFetcher
var _ ForecastFetcher = (*Client)(nil)
