package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// Client fetches current conditions from the OpenWeather API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OpenWeather current-weather client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		logger:  logger,
	}
}

// Current returns the live observation at the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lng float64) (domain.Observation, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":   {strconv.FormatFloat(lng, 'f', 6, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Observation{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var owResp response
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.Observation{}, fmt.Errorf("decode response: %w", err)
	}

	desc := ""
	if len(owResp.Weather) > 0 {
		desc = owResp.Weather[0].Description
	}

	obs := domain.Observation{
		Temperature: domain.Round1(owResp.Main.Temp),
		Humidity:    domain.Round1(owResp.Main.Humidity),
		// OpenWeather reports wind in m/s.
		WindSpeed:   domain.Round1(owResp.Wind.Speed * 3.6),
		Rainfall:    domain.Round1(owResp.Rain.OneHour),
		Source:      domain.SourceLive,
		Description: desc,
		ObservedAt:  domain.Now(),
	}
	return obs, nil
}

// OpenWeather API response types.

type response struct {
	Main    mainBlock      `json:"main"`
	Wind    windBlock      `json:"wind"`
	Rain    rainBlock      `json:"rain"`
	Weather []weatherBlock `json:"weather"`
}

type mainBlock struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
}

type rainBlock struct {
	OneHour float64 `json:"1h"`
}

type weatherBlock struct {
	Description string `json:"description"`
}
