package main

import (
	"context"
	"testing"

	"solar-sim/internal/data"

	"github.com/stretchr/testify/assert"
)

type fakeGeocoder map[string][2]float64

func (f fakeGeocoder) Geocode(_ context.Context, city string) (float64, float64, error) {
	if c, ok := f[city]; ok {
		return c[0], c[1], nil
	}
	return 0, 0, &data.ProviderError{Provider: "openweather", Code: data.CodeNoData, Message: "no results"}
}

func TestRefreshLocations(t *testing.T) {
	seed := []data.Location{
		{Name: "London", Country: "GB", Latitude: 1, Longitude: 1},
		{Name: "Atlantis", Country: "GB", Latitude: 2, Longitude: 2},
	}
	got, updated := refreshLocations(context.Background(), fakeGeocoder{"London,GB": {51.5, -0.12}}, seed)

	assert.Equal(t, 1, updated)
	assert.Equal(t, []data.Location{
		{Name: "London", Country: "GB", Latitude: 51.5, Longitude: -0.12},
		{Name: "Atlantis", Country: "GB", Latitude: 2, Longitude: 2},
	}, got)
	assert.Equal(t, 1.0, seed[0].Latitude, "seed is not modified")
}
