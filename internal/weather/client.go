package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Sentinel errors mapped to the two fixed user-visible strings.
var (
	ErrCityNotFound        = errors.New("city not found")
	ErrForecastUnavailable = errors.New("forecast fetch failed")
)

// Client talks to the public weather/geocoding API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New creates a new weather client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Location is a geocoded city.
type Location struct {
	Name string
	Lat  float64
	Lon  float64
}

// Entry is one forecast point.
type Entry struct {
	Timestamp   time.Time
	TempC       float64
	Description string
	Icon        string
	Humidity    int
	WindKph     float64
}

// Geocode resolves a free-text city name to coordinates.
// An empty result set means the city is unknown, not a transport failure.
func (c *Client) Geocode(ctx context.Context, city string) (*Location, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("limit", "1")
	params.Set("appid", c.APIKey)

	var results []struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	}
	if err := c.get(ctx, "/geo/1.0/direct?"+params.Encode(), &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}
	if len(results) == 0 {
		return nil, ErrCityNotFound
	}

	return &Location{Name: results[0].Name, Lat: results[0].Lat, Lon: results[0].Lon}, nil
}

// Forecast fetches the multi-point forecast for coordinates, oldest first.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]Entry, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("units", "metric")
	params.Set("appid", c.APIKey)

	var resp struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
			Wind struct {
				Speed float64 `json:"speed"` // m/s
			} `json:"wind"`
		} `json:"list"`
	}
	if err := c.get(ctx, "/data/2.5/forecast?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}

	entries := make([]Entry, 0, len(resp.List))
	for _, item := range resp.List {
		entry := Entry{
			Timestamp: time.Unix(item.Dt, 0).UTC(),
			TempC:     item.Main.Temp,
			Humidity:  item.Main.Humidity,
			WindKph:   item.Wind.Speed * 3.6,
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
			entry.Icon = item.Weather[0].Icon
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
