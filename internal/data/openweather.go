package data

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solar-sim/internal/log"
	"solar-sim/internal/model"
)

const (
	openWeatherProvider       = "openweather"
	defaultOpenWeatherBaseURL = "https://api.openweathermap.org"

	// uviToKWhM2 is the rough conversion from UV index to hourly irradiance.
	uviToKWhM2 = 0.12
	// goodUVI is the UV index above which conditions count as great.
	goodUVI = 6
)

// OpenWeatherClient talks to the OpenWeatherMap One Call 3.0 and geocoding
// APIs.
type OpenWeatherClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewOpenWeatherClient creates a client. If baseURL is empty the public
// endpoint is used.
func NewOpenWeatherClient(apiKey, baseURL string) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = defaultOpenWeatherBaseURL
	}
	return &OpenWeatherClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type owWeather struct {
	Description string `json:"description"`
}

type owCurrent struct {
	Clouds  *int        `json:"clouds"`
	UVI     *float64    `json:"uvi"`
	Weather []owWeather `json:"weather"`
}

type owHourly struct {
	Dt  int64   `json:"dt"`
	UVI float64 `json:"uvi"`
}

// OneCallResponse is the subset of the One Call response we read.
type OneCallResponse struct {
	Current *owCurrent `json:"current"`
	Hourly  []owHourly `json:"hourly"`
}

// Conditions summarizes the current weather for display.
type Conditions struct {
	Clouds          *int     `json:"clouds,omitempty"`
	Description     string   `json:"description"`
	UVI             *float64 `json:"uvi,omitempty"`
	IrradianceKWhM2 float64  `json:"irradiance_kwh_m2"`
	Tip             string   `json:"tip"`
}

// UVIToIrradiance estimates hourly irradiance (kWh/m²) from a UV index,
// rounded to two decimals.
func UVIToIrradiance(uvi float64) float64 {
	if uvi <= 0 {
		return 0
	}
	return math.Round(uvi*uviToKWhM2*100) / 100
}

// ConditionsTip is the one-line advice shown with current conditions.
func ConditionsTip(uvi float64) string {
	if uvi > goodUVI {
		return "Great conditions!"
	}
	return "Consider tilt optimization."
}

// NormalizeCityQuery rewrites a free-text city for the geocoder: "UK" becomes
// the ISO code "GB", and a bare city name is assumed to be in GB.
func NormalizeCityQuery(city string) string {
	q := strings.TrimSpace(city)
	q = strings.ReplaceAll(q, ", UK", ",GB")
	q = strings.ReplaceAll(q, ",UK", ",GB")
	if !strings.Contains(q, ",") {
		q += ",GB"
	}
	return q
}

// OneCall fetches current and hourly conditions for a coordinate.
func (c *OpenWeatherClient) OneCall(ctx context.Context, lat, lon float64) (*OneCallResponse, error) {
	q := url.Values{}
	q.Set("lat", formatFloat(lat))
	q.Set("lon", formatFloat(lon))
	q.Set("exclude", "minutely,daily,alerts")
	q.Set("units", "metric")

	var out OneCallResponse
	if err := c.get(ctx, "/data/3.0/onecall", q, &out); err != nil {
		return nil, err
	}
	if out.Current == nil || out.Hourly == nil {
		return nil, &ProviderError{
			Provider: openWeatherProvider,
			Code:     CodeNoData,
			Message:  "No 'current' or 'hourly' data returned.",
		}
	}
	return &out, nil
}

// Generation implements IrradianceSource using the hourly UV forecast.
func (c *OpenWeatherClient) Generation(ctx context.Context, req Request) ([]model.Interval, error) {
	resp, err := c.OneCall(ctx, req.Site.Latitude, req.Site.Longitude)
	if err != nil {
		return nil, err
	}
	hourly := resp.Hourly
	if hours := capHours(req.Hours); len(hourly) > hours {
		hourly = hourly[:hours]
	}
	if len(hourly) == 0 {
		return nil, &ProviderError{Provider: openWeatherProvider, Code: CodeNoData, Message: "hourly forecast is empty"}
	}
	out := make([]model.Interval, len(hourly))
	for i, h := range hourly {
		irr := UVIToIrradiance(h.UVI)
		out[i] = model.Interval{
			Time:            time.Unix(h.Dt, 0).UTC(),
			GenerationKWh:   req.Site.EnergyKWh(irr),
			IrradianceKWhM2: irr,
		}
	}
	return out, nil
}

// Current returns the present conditions at a coordinate.
func (c *OpenWeatherClient) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	resp, err := c.OneCall(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	cur := resp.Current
	var uvi float64
	if cur.UVI != nil {
		uvi = *cur.UVI
	}
	desc := ""
	if len(cur.Weather) > 0 {
		desc = capitalize(cur.Weather[0].Description)
	}
	return &Conditions{
		Clouds:          cur.Clouds,
		Description:     desc,
		UVI:             cur.UVI,
		IrradianceKWhM2: UVIToIrradiance(uvi),
		Tip:             ConditionsTip(uvi),
	}, nil
}

type geoResult struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Geocode resolves a city name to coordinates. An empty result is reported
// as a ProviderError with CodeNoData.
func (c *OpenWeatherClient) Geocode(ctx context.Context, city string) (lat, lon float64, err error) {
	query := NormalizeCityQuery(city)
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")

	var results []geoResult
	if err := c.get(ctx, "/geo/1.0/direct", q, &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, &ProviderError{
			Provider: openWeatherProvider,
			Code:     CodeNoData,
			Message:  fmt.Sprintf("no results for %q", query),
		}
	}
	return results[0].Lat, results[0].Lon, nil
}

func (c *OpenWeatherClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ProviderError{
			Provider: openWeatherProvider,
			Code:     CodeMissingAPIKey,
			Message:  "API key is required",
		}
	}
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	l := log.Ctx(ctx).With("provider", openWeatherProvider, "path", path)
	l.DebugContext(ctx, "request")

	// The key is added after logging so it never ends up in the logs.
	q.Set("appid", c.APIKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	started := time.Now()
	res, err := c.Client.Do(httpReq)
	duration := time.Since(started)
	if err != nil {
		l.ErrorContext(ctx, "request failed", "error", err, "duration", duration)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()

	l.DebugContext(ctx, "response", "status", res.StatusCode, "duration", duration)
	if res.StatusCode != http.StatusOK {
		l.WarnContext(ctx, "upstream error", "status", res.StatusCode)
		return statusError(openWeatherProvider, res.StatusCode, res.Status, res.Header.Get("Retry-After"))
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		l.ErrorContext(ctx, "error decoding response", "error", err)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
