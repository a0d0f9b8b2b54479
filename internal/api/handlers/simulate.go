package handlers

import (
	"context"
	"fmt"
	"net/http"

	"solar-sim/internal/analysis"
	"solar-sim/internal/api/models"
	"solar-sim/internal/config"
	"solar-sim/internal/model"
	"solar-sim/internal/report"
	"solar-sim/internal/service"
	"solar-sim/internal/simulation"

	"github.com/gin-gonic/gin"
)

// SimulationHandler handles simulation requests
type SimulationHandler struct {
	svc       *service.Service
	store     *ResultStore
	batteries *BatteryHandler
}

// NewSimulationHandler creates a new simulation handler. batteries may be
// nil, in which case battery_file is rejected.
func NewSimulationHandler(svc *service.Service, store *ResultStore, batteries *BatteryHandler) *SimulationHandler {
	return &SimulationHandler{svc: svc, store: store, batteries: batteries}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	resp, err := h.Run(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Compare handles POST /api/v1/simulate/compare
func (h *SimulationHandler) Compare(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	resp, err := h.RunCompare(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetTrace handles GET /api/v1/simulations/:id/trace
func (h *SimulationHandler) GetTrace(c *gin.Context) {
	id := c.Param("id")
	run, _, ok := h.store.Get(id)
	if !ok {
		notFound(c, id)
		return
	}
	c.JSON(http.StatusOK, models.TraceResponse{
		ID:    id,
		Count: len(run.Result.Trace),
		Trace: run.Result.Trace,
	})
}

// GetTraceCSV handles GET /api/v1/simulations/:id/trace.csv
func (h *SimulationHandler) GetTraceCSV(c *gin.Context) {
	id := c.Param("id")
	run, _, ok := h.store.Get(id)
	if !ok {
		notFound(c, id)
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".csv"))
	c.Status(http.StatusOK)
	if err := simulation.WriteTraceCSV(c.Writer, run.Result.Trace); err != nil {
		_ = c.Error(err)
	}
}

// GetReport handles GET /api/v1/simulations/:id/report
func (h *SimulationHandler) GetReport(c *gin.Context) {
	id := c.Param("id")
	run, currency, ok := h.store.Get(id)
	if !ok {
		notFound(c, id)
		return
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.WriteReport(c.Writer, run.Summary, currency, run.Result.Trace); err != nil {
		_ = c.Error(err)
	}
}

// Run simulates req and stores the result.
func (h *SimulationHandler) Run(ctx context.Context, req models.SimulateRequest) (*models.SimulateResponse, error) {
	cfg, in, err := h.prepare(req)
	if err != nil {
		return nil, err
	}
	run, err := h.svc.Simulate(ctx, cfg, in)
	if err != nil {
		return nil, err
	}
	resp := &models.SimulateResponse{
		ID:      h.store.Put(run, cfg.Tariff.Currency),
		Status:  "completed",
		Source:  run.Source,
		Summary: run.Summary,
	}
	if req.Options.IncludeTrace {
		resp.Trace = run.Result.Trace
	}
	return resp, nil
}

// RunCompare runs req against every preset.
func (h *SimulationHandler) RunCompare(ctx context.Context, req models.SimulateRequest) (*models.CompareResponse, error) {
	cfg, in, err := h.prepare(req)
	if err != nil {
		return nil, err
	}
	outcomes, source, err := h.svc.Compare(ctx, cfg, in)
	if err != nil {
		return nil, err
	}
	return &models.CompareResponse{Source: source, Comparison: comparisonResults(outcomes)}, nil
}

// prepare decodes the request config and builds the caller-supplied inputs.
// Server-side file paths are never accepted from a request.
func (h *SimulationHandler) prepare(req models.SimulateRequest) (*config.Config, service.Inputs, error) {
	var resolve config.BatteryResolver
	if h.batteries != nil {
		resolve = h.batteries.Resolve
	}
	cfg, err := config.DecodeJSON(req.Config, resolve)
	if err != nil {
		return nil, service.Inputs{}, err
	}
	if cfg.Load.File != "" || cfg.Simulation.Source == config.SourceFile {
		return nil, service.Inputs{}, fmt.Errorf("%w: file paths are not accepted over the API", model.ErrInvalidInput)
	}

	var in service.Inputs
	if req.Generation != nil {
		if len(req.Generation) == 0 {
			return nil, service.Inputs{}, fmt.Errorf("%w: generation is empty", model.ErrInvalidInput)
		}
		start, err := cfg.Simulation.StartDate()
		if err != nil {
			return nil, service.Inputs{}, fmt.Errorf("%w: simulation.start: %v", model.ErrInvalidInput, err)
		}
		in.Generation = model.IntervalsFromValues(req.Generation, start)
	}
	in.Load = req.Load
	return cfg, in, nil
}

func comparisonResults(outcomes []analysis.PresetOutcome) []models.ComparisonResult {
	out := make([]models.ComparisonResult, len(outcomes))
	for i, o := range outcomes {
		out[i] = models.ComparisonResult{Rank: i + 1, Preset: o.Preset, Summary: o.Summary}
	}
	return out
}

func notFound(c *gin.Context, id string) {
	writeError(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("simulation %q not found or expired", id), nil)
}
