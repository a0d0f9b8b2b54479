package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"solar-sim/internal/api/models"
	"solar-sim/internal/data"
	"solar-sim/internal/model"
	"solar-sim/internal/service"

	"github.com/gin-gonic/gin"
)

// LocationHandler serves the known cities and current conditions.
type LocationHandler struct {
	list     *data.LocationList
	resolver *data.Resolver
	weather  *data.OpenWeatherClient
}

// NewLocationHandler creates a location handler. weather may be nil, in
// which case conditions are unavailable and unknown cities are not geocoded.
func NewLocationHandler(list *data.LocationList, weather *data.OpenWeatherClient) *LocationHandler {
	if list == nil {
		list = data.DefaultLocations()
	}
	r := &data.Resolver{List: list}
	if weather != nil {
		r.Geocoder = weather
	}
	return &LocationHandler{list: list, resolver: r, weather: weather}
}

// ListLocations handles GET /api/v1/locations
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations := make([]models.LocationInfo, 0, len(h.list.Locations))
	for _, l := range h.list.Locations {
		locations = append(locations, models.LocationInfo{
			Name:      l.Name,
			Country:   l.Country,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		})
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// GetConditions handles GET /api/v1/conditions?city= or ?lat=&lon=
func (h *LocationHandler) GetConditions(c *gin.Context) {
	if h.weather == nil {
		respondError(c, fmt.Errorf("%w: openweather", service.ErrSourceUnavailable))
		return
	}
	var req models.ConditionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	var lat, lon float64
	switch {
	case req.Lat != nil && req.Lon != nil:
		lat, lon = *req.Lat, *req.Lon
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			respondError(c, fmt.Errorf("%w: coordinates out of range", model.ErrInvalidInput))
			return
		}
	case strings.TrimSpace(req.City) != "":
		var err error
		if lat, lon, err = h.resolver.Resolve(ctx, req.City); err != nil {
			respondError(c, err)
			return
		}
	default:
		respondError(c, fmt.Errorf("%w: city or lat and lon are required", model.ErrInvalidInput))
		return
	}

	cond, err := h.weather.Current(ctx, lat, lon)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConditionsResponse{
		Latitude:        lat,
		Longitude:       lon,
		Clouds:          cond.Clouds,
		Description:     cond.Description,
		UVI:             cond.UVI,
		IrradianceKWhM2: cond.IrradianceKWhM2,
		Tip:             cond.Tip,
	})
}
