// Package openweathermap implements the weather.Provider interface
// against the OpenWeatherMap API.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/photoscout/photoscout/internal/provider/resilience"
	"github.com/photoscout/photoscout/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultOneCallURL is the OpenWeatherMap OneCall API 3.0 base URL.
	DefaultOneCallURL = "https://api.openweathermap.org/data/3.0/onecall"
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// OneCallURL is the OneCall API URL (optional).
	OneCallURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	oneCallURL string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	oneCallURL := cfg.OneCallURL
	if oneCallURL == "" {
		oneCallURL = DefaultOneCallURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		oneCallURL: oneCallURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Current fetches the current-conditions snapshot for a location.
func (c *Client) Current(ctx context.Context, lat, lng float64) (*weather.Snapshot, error) {
	url := fmt.Sprintf("%s/weather?lat=%.6f&lon=%.6f&appid=%s&units=metric",
		c.baseURL, lat, lng, c.apiKey)

	var owmResp currentWeatherResponse
	if err := c.getJSON(ctx, url, &owmResp); err != nil {
		return nil, err
	}

	return toSnapshot(&owmResp), nil
}

// DailyForecast fetches per-day snapshots for a location.
func (c *Client) DailyForecast(ctx context.Context, lat, lng float64) (*weather.Forecast, error) {
	url := fmt.Sprintf("%s?lat=%.6f&lon=%.6f&appid=%s&units=metric&exclude=minutely,hourly,alerts",
		c.oneCallURL, lat, lng, c.apiKey)

	var owmResp oneCallResponse
	if err := c.getJSON(ctx, url, &owmResp); err != nil {
		return nil, err
	}

	return toForecast(&owmResp), nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// toSnapshot converts an OpenWeatherMap response to the generic snapshot
// shape. Absent upstream fields stay nil so the adapter can apply its
// neutral defaults.
func toSnapshot(resp *currentWeatherResponse) *weather.Snapshot {
	snap := &weather.Snapshot{
		ObservedAt: time.Unix(resp.Dt, 0),
	}

	if resp.Main != nil {
		snap.TemperatureC = &resp.Main.Temp
	}
	if resp.Wind != nil {
		snap.WindSpeedMS = &resp.Wind.Speed
	}
	if resp.Clouds != nil {
		snap.CloudCoverPercent = &resp.Clouds.All
	}
	if resp.Visibility != nil {
		v := float64(*resp.Visibility)
		snap.VisibilityMeters = &v
	}

	return snap
}

// toForecast converts an OpenWeatherMap OneCall response to per-day
// snapshots. Daily entries carry precipitation probability as a 0-1
// fraction upstream; it is normalized to a percentage here.
func toForecast(resp *oneCallResponse) *weather.Forecast {
	forecast := &weather.Forecast{
		Lat:       resp.Lat,
		Lng:       resp.Lon,
		Days:      make([]weather.DaySnapshot, 0, len(resp.Daily)),
		FetchedAt: time.Now(),
	}

	for _, d := range resp.Daily {
		snap := weather.Snapshot{
			ObservedAt: time.Unix(d.Dt, 0),
		}
		if d.Temp != nil {
			snap.TemperatureC = &d.Temp.Day
		}
		if d.WindSpeed != nil {
			snap.WindSpeedMS = d.WindSpeed
		}
		if d.Clouds != nil {
			snap.CloudCoverPercent = d.Clouds
		}
		if d.Pop != nil {
			pct := *d.Pop * 100
			snap.PrecipitationProbability = &pct
		}

		forecast.Days = append(forecast.Days, weather.DaySnapshot{
			Date:     time.Unix(d.Dt, 0).UTC().Truncate(24 * time.Hour),
			Snapshot: snap,
		})
	}

	return forecast
}

// OpenWeatherMap API response structures. Optional blocks are pointers
// so that missing JSON fields are detectable.

type currentWeatherResponse struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Pressure float64 `json:"pressure"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Visibility *int `json:"visibility"`
	Wind       *struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds *struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Dt int64 `json:"dt"`
}

type oneCallResponse struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp *struct {
			Day float64 `json:"day"`
		} `json:"temp"`
		WindSpeed *float64 `json:"wind_speed"`
		Clouds    *float64 `json:"clouds"`
		Pop       *float64 `json:"pop"`
	} `json:"daily"`
}
