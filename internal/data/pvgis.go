package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"solar-sim/internal/log"
	"solar-sim/internal/model"
)

const (
	pvgisProvider       = "pvgis"
	defaultPVGISBaseURL = "https://re.jrc.ec.europa.eu"
	pvgisTimeLayout     = "20060102:1504"
)

// PVGISClient fetches hourly plane-of-array irradiance from the EU JRC PVGIS
// seriescalc endpoint. No API key is needed.
type PVGISClient struct {
	BaseURL string
	Client  *http.Client
	// Cache is optional; nil disables memoization.
	Cache *ResponseCache
}

// NewPVGISClient creates a client. If baseURL is empty the public JRC
// endpoint is used.
func NewPVGISClient(baseURL string, cache *ResponseCache) *PVGISClient {
	if baseURL == "" {
		baseURL = defaultPVGISBaseURL
	}
	return &PVGISClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		Cache: cache,
	}
}

// PVGISHourly is one row of outputs.hourly.
type PVGISHourly struct {
	Time string  `json:"time"`
	GI   float64 `json:"G(i)"`
	T2m  float64 `json:"T2m"`
}

// PVGISResponse is the subset of the seriescalc response we read.
type PVGISResponse struct {
	Outputs struct {
		Hourly []PVGISHourly `json:"hourly"`
	} `json:"outputs"`
}

// Intervals converts the first hours rows into generation for site.
// G(i) is W/m² averaged over the hour, so /1000 gives kWh/m².
func (r *PVGISResponse) Intervals(site model.Site, hours int) ([]model.Interval, error) {
	rows := r.Outputs.Hourly
	if hours > 0 && len(rows) > hours {
		rows = rows[:hours]
	}
	out := make([]model.Interval, 0, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(pvgisTimeLayout, row.Time)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid time %q: %w", i, row.Time, err)
		}
		irr := row.GI / 1000
		out = append(out, model.Interval{
			Time:            ts,
			GenerationKWh:   site.EnergyKWh(irr),
			IrradianceKWhM2: irr,
			TempC:           row.T2m,
		})
	}
	return out, nil
}

// Generation implements IrradianceSource.
func (c *PVGISClient) Generation(ctx context.Context, req Request) ([]model.Interval, error) {
	hours := capHours(req.Hours)
	site := req.Site
	key := CacheKey(pvgisProvider, site.Latitude, site.Longitude, site.TiltDeg, site.Orientation.Aspect(), site.SystemLossPct)

	if cached, ok := c.Cache.Get(key); ok {
		log.Ctx(ctx).DebugContext(ctx, "pvgis cache hit", "intervals", len(cached))
		return scaleCached(cached, site, hours), nil
	}

	resp, err := c.fetch(ctx, site)
	if err != nil {
		return nil, err
	}
	// Cache the full irradiance series; panel size is applied per request.
	all, err := resp.Intervals(site, 0)
	if err != nil {
		return nil, &ProviderError{Provider: pvgisProvider, Code: CodeUpstream, Message: err.Error()}
	}
	if len(all) == 0 {
		return nil, &ProviderError{Provider: pvgisProvider, Code: CodeNoData, Message: "response contained no hourly data"}
	}
	c.Cache.Set(key, all)
	if len(all) > hours {
		all = all[:hours]
	}
	return all, nil
}

// scaleCached recomputes generation for site from cached irradiance.
func scaleCached(cached []model.Interval, site model.Site, hours int) []model.Interval {
	if len(cached) > hours {
		cached = cached[:hours]
	}
	for i := range cached {
		cached[i].GenerationKWh = site.EnergyKWh(cached[i].IrradianceKWhM2)
	}
	return cached
}

func (c *PVGISClient) fetch(ctx context.Context, site model.Site) (*PVGISResponse, error) {
	u, err := url.Parse(c.BaseURL + "/api/v5_2/seriescalc")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("lat", formatFloat(site.Latitude))
	q.Set("lon", formatFloat(site.Longitude))
	q.Set("raddatabase", "PVGIS-SARAH")
	q.Set("startyear", "2016")
	q.Set("endyear", "2016")
	q.Set("outputformat", "json")
	q.Set("optimalangles", "0")
	q.Set("angle", formatFloat(site.TiltDeg))
	q.Set("aspect", formatFloat(site.Orientation.Aspect()))
	q.Set("pvtechchoice", "crystSi")
	q.Set("loss", formatFloat(site.SystemLossPct))
	u.RawQuery = q.Encode()

	l := log.Ctx(ctx).With("provider", pvgisProvider, "lat", site.Latitude, "lon", site.Longitude)
	l.DebugContext(ctx, "request", "path", u.Path)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	started := time.Now()
	res, err := c.Client.Do(httpReq)
	duration := time.Since(started)
	if err != nil {
		l.ErrorContext(ctx, "request failed", "error", err, "duration", duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()

	l.DebugContext(ctx, "response", "status", res.StatusCode, "duration", duration)
	if res.StatusCode != http.StatusOK {
		l.WarnContext(ctx, "upstream error", "status", res.StatusCode)
		return nil, statusError(pvgisProvider, res.StatusCode, res.Status, res.Header.Get("Retry-After"))
	}

	var out PVGISResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		l.ErrorContext(ctx, "error decoding response", "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
