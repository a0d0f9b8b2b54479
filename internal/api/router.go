// Package api assembles the HTTP surface: JSON endpoints under /api/v1, the
// simulation websocket, health, metrics and the optional web UI.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"solar-sim/internal/api/handlers"
	"solar-sim/internal/api/middleware"
	"solar-sim/internal/api/stream"
	"solar-sim/internal/data"
	"solar-sim/internal/metrics"
	"solar-sim/internal/service"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Service *service.Service
	Store   *handlers.ResultStore
	Metrics *metrics.Metrics

	// BatteryDir holds battery YAML files; empty disables them.
	BatteryDir string
	Locations  *data.LocationList
	// Weather enables /api/v1/conditions and geocoding of unknown cities.
	Weather *data.OpenWeatherClient

	// StaticDir, when it exists, is served as a single-page app.
	StaticDir      string
	AllowedOrigins []string
}

// NewRouter builds the gin engine.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(d.AllowedOrigins...))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}

	batteryHandler := handlers.NewBatteryHandler(d.BatteryDir)
	simulationHandler := handlers.NewSimulationHandler(d.Service, d.Store, batteryHandler)
	locationHandler := handlers.NewLocationHandler(d.Locations, d.Weather)
	estimateHandler := handlers.NewEstimateHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	router.GET("/ws", gin.WrapH(stream.NewHandler(simulationHandler)))

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulationHandler.RunSimulation)
		api.POST("/simulate/compare", simulationHandler.Compare)
		api.GET("/simulations/:id/trace", simulationHandler.GetTrace)
		api.GET("/simulations/:id/trace.csv", simulationHandler.GetTraceCSV)
		api.GET("/simulations/:id/report", simulationHandler.GetReport)

		api.GET("/batteries", batteryHandler.ListBatteries)
		api.GET("/locations", locationHandler.ListLocations)
		api.GET("/conditions", locationHandler.GetConditions)
		api.POST("/estimate", estimateHandler.Estimate)
	}

	serveStatic(router, d.StaticDir)
	return router
}

// serveStatic serves index.html for every non-API route so client-side
// routing works.
func serveStatic(router *gin.Engine, dir string) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": handlers.CodeNotFound, "message": "Not found"}})
	}
	if dir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		router.NoRoute(notFound)
		return
	}
	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
}
