package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-predictor/external/provider"
	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

const (
	providerName   = "weather_api"
	defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client reads current conditions by location name.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
	flight     resilience.SingleFlight[matchcontext.Weather]
}

var _ usecase.WeatherProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
	}
}

func (c *Client) FetchByLocation(ctx context.Context, location string) (matchcontext.Weather, error) {
	const op = "current"
	location = strings.TrimSpace(location)
	if location == "" {
		return matchcontext.Weather{}, provider.NewFetchError(providerName, op, provider.ErrNotFound, fmt.Errorf("empty location"))
	}

	values := url.Values{}
	values.Set("q", location)
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	fullURL := c.baseURL + "?" + values.Encode()

	out, err, _ := c.flight.Do(ctx, strings.ToLower(location), func(ctx context.Context) (matchcontext.Weather, error) {
		return c.fetch(ctx, op, fullURL)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && err == ctxErr {
			err = provider.NewFetchError(providerName, op, nil, err)
		}
		c.logger.WarnContext(ctx, "weather request failed", "location", location, "error", err)
		return matchcontext.Weather{}, err
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, op, fullURL string) (matchcontext.Weather, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return matchcontext.Weather{}, provider.NewFetchError(providerName, op, provider.ErrUnavailable, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return matchcontext.Weather{}, provider.NewFetchError(providerName, op, provider.Classify(err), fmt.Errorf("send request: %s", c.redact(err.Error())))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return matchcontext.Weather{}, provider.NewFetchError(providerName, op, nil, fmt.Errorf("read response body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return matchcontext.Weather{}, provider.NewFetchError(providerName, op, provider.KindForStatus(resp.StatusCode), fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
	}

	var payload currentWeather
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return matchcontext.Weather{}, provider.NewFetchError(providerName, op, provider.ErrMalformed, fmt.Errorf("decode payload: %w", err))
	}
	if err := payload.check(); err != nil {
		return matchcontext.Weather{}, provider.NewFetchError(providerName, op, provider.ErrMalformed, err)
	}

	return matchcontext.Weather{
		Available:    true,
		TemperatureC: *payload.Main.Temp,
		Description:  strings.TrimSpace(payload.Weather[0].Description),
		WindSpeedMS:  payload.Wind.Speed,
		HumidityPct:  payload.Main.Humidity,
	}, nil
}

func (c *Client) redact(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

type currentWeather struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity int      `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (w currentWeather) check() error {
	switch {
	case w.Main == nil:
		return fmt.Errorf("missing main block")
	case w.Main.Temp == nil:
		return fmt.Errorf("missing main.temp")
	case len(w.Weather) == 0:
		return fmt.Errorf("missing weather description")
	}
	return nil
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
