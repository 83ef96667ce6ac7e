// Package geocode resolves Brazilian postal codes to coordinates through
// ViaCEP and the Google Maps web services.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"local-market/pkg/metrics"
	"local-market/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 5 * time.Second
	cepLength      = 8
	maxBodyBytes   = 1 << 20
)

var (
	ErrInvalidCEP  = errors.New("cep must have 8 digits")
	ErrCEPNotFound = errors.New("cep not found")
	ErrNoResults   = errors.New("address has no geocoding results")
)

// UpstreamError is returned when a provider answers with an unexpected status.
type UpstreamError struct {
	Upstream string
	Status   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Upstream, e.Status)
}

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

type Client struct {
	viaCEPURL  string
	mapsURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	log        *zap.Logger
}

type Option func(*Client)

// WithCache enables the coordinates cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithHTTPClient replaces the default client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg utils.GeocodeConfig, log *zap.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = max(1, int(cfg.RateLimit))
	}

	c := &Client{
		viaCEPURL:  strings.TrimRight(cfg.ViaCEPURL, "/"),
		mapsURL:    strings.TrimRight(cfg.GoogleMapsURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		cache:      nopCache{},
		log:        log.With(zap.String("component", "geocode")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Coordinates resolves cep to an address through ViaCEP and then the address
// to a point through the Google Geocoding API.
func (c *Client) Coordinates(ctx context.Context, cep string) (Coordinates, error) {
	digits := utils.DigitsOnly(cep)
	if len(digits) != cepLength {
		return Coordinates{}, ErrInvalidCEP
	}

	if coords, ok, err := c.cache.Get(ctx, digits); err != nil {
		c.log.Warn("Geocode cache read failed", zap.Error(err), zap.String("cep", digits))
	} else if ok {
		metrics.GeocodeRequests.WithLabelValues("cache", "hit").Inc()
		return coords, nil
	}
	metrics.GeocodeRequests.WithLabelValues("cache", "miss").Inc()

	address, err := c.lookupCEP(ctx, digits)
	if err != nil {
		return Coordinates{}, err
	}

	coords, err := c.resolveAddress(ctx, address)
	if err != nil {
		return Coordinates{}, err
	}

	if err := c.cache.Set(ctx, digits, coords); err != nil {
		c.log.Warn("Geocode cache write failed", zap.Error(err), zap.String("cep", digits))
	}

	c.log.Debug("Cep resolved",
		zap.String("cep", digits),
		zap.Float64("lat", coords.Latitude),
		zap.Float64("lng", coords.Longitude),
	)
	return coords, nil
}

// Geocode returns the raw Google Geocoding response for address.
func (c *Client) Geocode(ctx context.Context, address string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)
	return c.getRaw(ctx, "google", c.mapsURL+"/geocode/json?"+q.Encode())
}

// Directions returns the raw Google Directions response.
func (c *Client) Directions(ctx context.Context, origin, destination string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("key", c.apiKey)
	return c.getRaw(ctx, "google", c.mapsURL+"/directions/json?"+q.Encode())
}

type viaCEPResponse struct {
	Cep        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

func (r viaCEPResponse) notFound() bool {
	e := strings.Trim(string(r.Erro), `"`)
	return e != "" && e != "false"
}

func (r viaCEPResponse) address() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{r.Logradouro, r.Bairro, r.Localidade, r.UF, r.Cep} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, "Brasil")
	return strings.Join(parts, ", ")
}

func (c *Client) lookupCEP(ctx context.Context, digits string) (string, error) {
	raw, err := c.getRaw(ctx, "viacep", fmt.Sprintf("%s/%s/json/", c.viaCEPURL, digits))
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) && upstream.Status == http.StatusBadRequest {
			return "", ErrInvalidCEP
		}
		return "", err
	}

	var body viaCEPResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("decode viacep response: %w", err)
	}
	if body.notFound() {
		return "", ErrCEPNotFound
	}

	return body.address(), nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

func (c *Client) resolveAddress(ctx context.Context, address string) (Coordinates, error) {
	raw, err := c.Geocode(ctx, address)
	if err != nil {
		return Coordinates{}, err
	}

	var body geocodeResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Coordinates{}, ErrNoResults
	default:
		return Coordinates{}, fmt.Errorf("geocode status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return Coordinates{}, ErrNoResults
	}

	return body.Results[0].Geometry.Location, nil
}

func (c *Client) getRaw(ctx context.Context, upstream, endpoint string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s rate limit: %w", upstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues(upstream, "error").Inc()
		return nil, fmt.Errorf("%s request: %w", upstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues(upstream, "error").Inc()
		return nil, fmt.Errorf("read %s response: %w", upstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeRequests.WithLabelValues(upstream, "error").Inc()
		c.log.Warn("Upstream returned non-200",
			zap.String("upstream", upstream),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &UpstreamError{Upstream: upstream, Status: resp.StatusCode}
	}

	metrics.GeocodeRequests.WithLabelValues(upstream, "ok").Inc()
	return json.RawMessage(body), nil
}
