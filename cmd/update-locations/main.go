package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solar-sim/internal/data"
	"solar-sim/internal/log"

	"github.com/spf13/pflag"
)

func main() {
	var (
		outputPath = pflag.StringP("output", "o", "", "Output file path (default: ./data/locations.json)")
		seedFile   = pflag.String("seed", "", "Path to existing locations file to use as seed")
		baseURL    = pflag.String("openweather-url", "", "OpenWeather base URL (defaults to the public endpoint)")
	)
	pflag.Parse()

	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "OPENWEATHER_API_KEY environment variable is required")
		os.Exit(2)
	}
	if *outputPath == "" {
		*outputPath = data.GetDefaultLocationsPath()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	seed := data.KnownCities
	seedPath := *seedFile
	if seedPath == "" {
		seedPath = data.GetDefaultLocationsPath()
	}
	if list, err := data.LoadLocations(seedPath); err == nil && len(list.Locations) > 0 {
		seed = list.Locations
		fmt.Printf("Loaded %d existing locations from %s\n", len(seed), seedPath)
	}

	client := data.NewOpenWeatherClient(apiKey, *baseURL)
	locations, updated := refreshLocations(ctx, client, seed)
	fmt.Printf("Successfully updated %d/%d locations\n", updated, len(seed))

	list := &data.LocationList{
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Locations: locations,
	}
	if err := data.SaveLocations(list, *outputPath); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to save locations", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %d locations to %s\n", len(locations), *outputPath)
}

// refreshLocations geocodes every seed location. A location that fails to
// resolve keeps its previous coordinates.
func refreshLocations(ctx context.Context, g data.Geocoder, seed []data.Location) ([]data.Location, int) {
	out := make([]data.Location, 0, len(seed))
	updated := 0
	for _, loc := range seed {
		query := loc.Name
		if loc.Country != "" {
			query += "," + loc.Country
		}
		lat, lon, err := g.Geocode(ctx, query)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to geocode location", "name", loc.Name, "error", err)
			out = append(out, loc)
			continue
		}
		loc.Latitude, loc.Longitude = lat, lon
		out = append(out, loc)
		updated++
		fmt.Printf("  updated: %s (%.4f, %.4f)\n", loc.Name, lat, lon)
	}
	return out, updated
}
