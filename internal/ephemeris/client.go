package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/astrovia/engine/models"
)

// Client talks to a hosted ephemeris API with rate limiting and retries.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
}

// Options configures the ephemeris client.
type Options struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	RequestsPerSec float64
}

// NewClient creates a new ephemeris API client with rate limiting.
func NewClient(opts Options) *Client {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSec), int(opts.RequestsPerSec)),
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		logger:     log.With().Str("component", "ephemeris_client").Logger(),
	}
}

// positionsResponse is the wire shape of the positions endpoint. Failed
// bodies come back in errors instead of positions.
type positionsResponse struct {
	Positions map[string]models.EphemerisPosition `json:"positions"`
	Errors    map[string]string                   `json:"errors,omitempty"`
	Status    string                              `json:"status,omitempty"`
	Message   string                              `json:"message,omitempty"`
}

type housesResponse struct {
	Cusps     []float64 `json:"cusps"`
	Ascendant float64   `json:"ascendant"`
	Midheaven float64   `json:"midheaven"`
	Status    string    `json:"status,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Positions fetches raw positions for the requested bodies at a Julian Day.
// A total API failure is reported as ErrEphemerisUnavailable; per-body
// failures land in the returned set's Failed map.
func (c *Client) Positions(ctx context.Context, julianDay float64, bodies []models.Body) (*models.PositionSet, error) {
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = string(b)
	}

	q := url.Values{}
	q.Set("jd", fmt.Sprintf("%.8f", julianDay))
	q.Set("bodies", strings.Join(names, ","))

	body, err := c.get(ctx, "/positions", q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEphemerisUnavailable, err)
	}

	var data positionsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("error parsing positions JSON")
		return nil, fmt.Errorf("%w: parsing positions: %v", models.ErrEphemerisUnavailable, err)
	}
	if data.Status == "error" {
		return nil, fmt.Errorf("%w: %s", models.ErrEphemerisUnavailable, data.Message)
	}

	set := &models.PositionSet{
		Positions: make(map[models.Body]models.EphemerisPosition, len(data.Positions)),
		Failed:    make(map[models.Body]string),
	}
	for name, pos := range data.Positions {
		set.Positions[models.Body(name)] = pos
	}
	for name, reason := range data.Errors {
		set.Failed[models.Body(name)] = reason
	}

	c.logger.Debug().Int("count", len(set.Positions)).Float64("jd", julianDay).Msg("fetched positions")
	return set, nil
}

// Houses fetches the twelve cusps and the chart angles for a location.
func (c *Client) Houses(ctx context.Context, julianDay, lat, lon float64, system models.HouseSystem) (*models.HouseData, error) {
	q := url.Values{}
	q.Set("jd", fmt.Sprintf("%.8f", julianDay))
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))
	q.Set("system", string(system))

	body, err := c.get(ctx, "/houses", q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEphemerisUnavailable, err)
	}

	var data housesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("error parsing houses JSON")
		return nil, fmt.Errorf("%w: parsing houses: %v", models.ErrEphemerisUnavailable, err)
	}
	if data.Status == "error" {
		return nil, fmt.Errorf("%w: %s", models.ErrEphemerisUnavailable, data.Message)
	}
	if len(data.Cusps) != 12 {
		return nil, fmt.Errorf("%w: expected 12 cusps, got %d", models.ErrEphemerisUnavailable, len(data.Cusps))
	}

	houses := &models.HouseData{
		Ascendant: data.Ascendant,
		Midheaven: data.Midheaven,
	}
	copy(houses.Cusps[:], data.Cusps)
	return houses, nil
}

// get performs a rate-limited GET with exponential-backoff retries.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}
	reqURL := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var body []byte
	operation := func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("non-200 status code: %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 15 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, fmt.Errorf("after retries: %w", err)
	}
	return body, nil
}
