package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Location is a named place with coordinates.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationList is the on-disk locations file.
type LocationList struct {
	UpdatedAt string     `json:"updated_at"` // ISO 8601 timestamp
	Locations []Location `json:"locations"`
}

// KnownCities are the cities offered in the site picker.
var KnownCities = []Location{
	{Name: "London", Country: "GB", Latitude: 51.5072, Longitude: -0.1276},
	{Name: "Manchester", Country: "GB", Latitude: 53.4808, Longitude: -2.2426},
	{Name: "Edinburgh", Country: "GB", Latitude: 55.9533, Longitude: -3.1883},
	{Name: "Cardiff", Country: "GB", Latitude: 51.4816, Longitude: -3.1791},
	{Name: "Belfast", Country: "GB", Latitude: 54.5973, Longitude: -5.9301},
	{Name: "Birmingham", Country: "GB", Latitude: 52.4862, Longitude: -1.8904},
	{Name: "Glasgow", Country: "GB", Latitude: 55.8642, Longitude: -4.2518},
}

// Find returns the location whose name matches city, ignoring case and any
// ", country" suffix.
func (l *LocationList) Find(city string) (Location, bool) {
	if l == nil {
		return Location{}, false
	}
	name := strings.TrimSpace(city)
	if i := strings.Index(name, ","); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	for _, loc := range l.Locations {
		if strings.EqualFold(loc.Name, name) {
			return loc, true
		}
	}
	return Location{}, false
}

// Geocoder resolves a city name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (lat, lon float64, err error)
}

// Resolver looks a city up in a local list first and falls back to a
// Geocoder. Either may be nil.
type Resolver struct {
	List     *LocationList
	Geocoder Geocoder
}

// Resolve returns the coordinates for city.
func (r *Resolver) Resolve(ctx context.Context, city string) (lat, lon float64, err error) {
	if loc, ok := r.List.Find(city); ok {
		return loc.Latitude, loc.Longitude, nil
	}
	if r.Geocoder == nil {
		return 0, 0, &ProviderError{
			Provider: "locations",
			Code:     CodeNoData,
			Message:  fmt.Sprintf("unknown city %q", city),
		}
	}
	return r.Geocoder.Geocode(ctx, city)
}

// DefaultLocations wraps KnownCities in a list.
func DefaultLocations() *LocationList {
	locs := make([]Location, len(KnownCities))
	copy(locs, KnownCities)
	return &LocationList{Locations: locs}
}

// LoadLocations loads locations from a JSON file
func LoadLocations(filePath string) (*LocationList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}

	var list LocationList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse locations file: %w", err)
	}

	return &list, nil
}

// SaveLocations saves locations to a JSON file
func SaveLocations(list *LocationList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal locations: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write locations file: %w", err)
	}

	return nil
}

// GetDefaultLocationsPath returns the default path for locations file
func GetDefaultLocationsPath() string {
	if path := os.Getenv("LOCATIONS_FILE"); path != "" {
		return path
	}
	return "./data/locations.json"
}
