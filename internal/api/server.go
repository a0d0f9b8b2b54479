package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"solar-sim/internal/api/handlers"
	"solar-sim/internal/config"
	"solar-sim/internal/data"
	"solar-sim/internal/log"
	"solar-sim/internal/metrics"
	"solar-sim/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/levenlabs/go-lflag"
)

// Server owns the HTTP listener and the long-lived collaborators behind it.
type Server struct {
	listenAddr string
	deps       Deps
	cache      *data.ResponseCache

	httpServer *http.Server
}

// Configured registers the server's flags. The returned Server is usable
// once lflag.Configure has run.
func Configured() *Server {
	srv := &Server{}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	release := lflag.String("release", "development", "Release environment (production or development)")
	openWeatherKey := lflag.String("openweather-api-key", os.Getenv("OPENWEATHER_API_KEY"), "OpenWeather One Call API key; empty disables the openweather source")
	pvgisURL := lflag.String("pvgis-url", "", "PVGIS base URL (defaults to the public JRC endpoint)")
	cacheTTL := lflag.Duration("provider-cache-ttl", data.DefaultCacheTTL, "How long provider responses are reused")
	resultTTL := lflag.Duration("result-ttl", handlers.DefaultResultTTL, "How long simulation results stay downloadable")
	batteryDir := lflag.String("battery-dir", handlers.DefaultBatteryDir(), "Directory of battery YAML files")
	locationsFile := lflag.String("locations-file", data.GetDefaultLocationsPath(), "JSON list of known locations")
	flagStaticDir := lflag.String("static-dir", staticDir, "Directory of the built web UI")
	allowedOrigins := lflag.String("allowed-origins", "", "comma-delimited list of CORS origins; empty allows any")

	lflag.Do(func() {
		if *release == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv.listenAddr = *listenAddr

		m := metrics.New()
		srv.cache = data.NewResponseCache(*cacheTTL)
		sources := map[config.Source]data.IrradianceSource{
			config.SourcePVGIS: data.NewPVGISClient(*pvgisURL, srv.cache),
		}
		var weather *data.OpenWeatherClient
		if strings.TrimSpace(*openWeatherKey) != "" {
			weather = data.NewOpenWeatherClient(*openWeatherKey, "")
			sources[config.SourceOpenWeather] = weather
		}

		locations, err := data.LoadLocations(*locationsFile)
		if err != nil {
			locations = data.DefaultLocations()
		}

		srv.deps = Deps{
			Service:        service.New(sources, m),
			Store:          handlers.NewResultStore(*resultTTL, m.SetStoredSimulations),
			Metrics:        m,
			BatteryDir:     *batteryDir,
			Locations:      locations,
			Weather:        weather,
			StaticDir:      *flagStaticDir,
			AllowedOrigins: splitList(*allowedOrigins),
		}
	})
	return srv
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	defer s.close()

	s.httpServer = &http.Server{
		Addr:        s.listenAddr,
		Handler:     NewRouter(s.deps),
		ReadTimeout: 15 * time.Second,
		// simulations fetch from upstream providers before responding
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server",
			slog.String("addr", s.listenAddr),
			slog.Bool("openweather", s.deps.Weather != nil),
			slog.String("battery_dir", s.deps.BatteryDir),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	return s.wait(ctx, errChan)
}

// wait blocks until ctx is done or the listener exits. A closed errChan means
// the listener stopped cleanly.
func (s *Server) wait(ctx context.Context, errChan <-chan error) error {
	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err, ok := <-errChan:
		if !ok || err == nil {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

func (s *Server) close() {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.deps.Store != nil {
		s.deps.Store.Close()
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
