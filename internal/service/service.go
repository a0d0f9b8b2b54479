// Package service wires generation sources, the simulator and the analysis
// into the operations exposed by the API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solar-sim/internal/analysis"
	"solar-sim/internal/config"
	"solar-sim/internal/data"
	"solar-sim/internal/log"
	"solar-sim/internal/metrics"
	"solar-sim/internal/model"
	"solar-sim/internal/simulation"
	"solar-sim/internal/solar"
)

// ErrSourceUnavailable is returned when the configured source was not wired
// (for example OpenWeather without an API key).
var ErrSourceUnavailable = errors.New("generation source unavailable")

// SourceInline labels runs whose generation was supplied by the caller.
const SourceInline = "inline"

// Service runs simulations. It is safe for concurrent use.
type Service struct {
	sources map[config.Source]data.IrradianceSource
	metrics *metrics.Metrics
}

// New creates a Service. Sources may omit providers that are not configured;
// the synthetic source is always available. m may be nil.
func New(sources map[config.Source]data.IrradianceSource, m *metrics.Metrics) *Service {
	s := &Service{
		sources: make(map[config.Source]data.IrradianceSource, len(sources)+1),
		metrics: m,
	}
	for k, v := range sources {
		if v != nil {
			s.sources[k] = v
		}
	}
	if _, ok := s.sources[config.SourceSynthetic]; !ok {
		s.sources[config.SourceSynthetic] = solar.SyntheticSource{}
	}
	return s
}

// Inputs carries caller-supplied series that replace what the config would
// fetch or read.
type Inputs struct {
	Generation []model.Interval
	Load       []float64
}

// Run is one completed simulation.
type Run struct {
	Source     string
	Generation []model.Interval
	Result     *simulation.Result
	Summary    analysis.Summary
}

// Generation fetches the series for cfg from its configured source.
func (s *Service) Generation(ctx context.Context, cfg *config.Config) ([]model.Interval, error) {
	src, err := s.source(cfg)
	if err != nil {
		return nil, err
	}
	start, err := cfg.Simulation.StartDate()
	if err != nil {
		return nil, fmt.Errorf("%w: simulation.start: %v", model.ErrInvalidInput, err)
	}
	req := data.Request{
		Site:  cfg.Site.ToModel(),
		Hours: cfg.Simulation.Hours,
		Days:  cfg.Simulation.Days,
		Start: start,
	}
	gen, err := src.Generation(ctx, req)
	if err != nil {
		var perr *data.ProviderError
		if errors.As(err, &perr) {
			s.metrics.ProviderError(perr.Provider, perr.Code)
		}
		return nil, err
	}
	return gen, nil
}

func (s *Service) source(cfg *config.Config) (data.IrradianceSource, error) {
	if cfg.Simulation.Source == config.SourceFile {
		return data.FileSource{Path: cfg.Simulation.File}, nil
	}
	src, ok := s.sources[cfg.Simulation.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, cfg.Simulation.Source)
	}
	return src, nil
}

// Load reads cfg's load file, if any. A file that is not a single column is
// ignored so the run falls back to the base load.
func (s *Service) Load(ctx context.Context, cfg *config.Config) ([]float64, error) {
	if cfg.Load.File == "" {
		return nil, nil
	}
	load, err := data.ReadLoadCSVFile(cfg.Load.File)
	if errors.Is(err, data.ErrLoadColumns) {
		log.Ctx(ctx).WarnContext(ctx, "ignoring load file", "file", cfg.Load.File, "error", err)
		return nil, nil
	}
	return load, err
}

// inputs resolves the generation and load for a run.
func (s *Service) inputs(ctx context.Context, cfg *config.Config, in Inputs) (gen []model.Interval, load []float64, source string, err error) {
	gen, source = in.Generation, SourceInline
	if gen == nil {
		source = string(cfg.Simulation.Source)
		if gen, err = s.Generation(ctx, cfg); err != nil {
			return nil, nil, source, err
		}
	}
	load = in.Load
	if load == nil {
		if load, err = s.Load(ctx, cfg); err != nil {
			return nil, nil, source, err
		}
	}
	return gen, load, source, nil
}

// Simulate runs cfg end to end: source, simulator, summary.
func (s *Service) Simulate(ctx context.Context, cfg *config.Config, in Inputs) (run *Run, err error) {
	started := time.Now()
	source := SourceInline
	defer func() {
		s.metrics.ObserveSimulation(source, time.Since(started), err)
	}()

	gen, load, source, err := s.inputs(ctx, cfg, in)
	if err != nil {
		return nil, err
	}
	params, err := cfg.Battery.ToModelParams()
	if err != nil {
		return nil, err
	}
	engine := simulation.New(simulation.Options{BaseLoadKWh: cfg.Load.BaseLoadKWh})
	res, err := engine.Simulate(model.SimulationInputs{Generation: gen, Load: load, Battery: params})
	if err != nil {
		return nil, err
	}
	summary := analysis.Summarize(res, cfg.Tariff.PricePerKWh)
	s.metrics.SetSelfSufficiency(presetLabel(cfg.Battery), summary.SelfSufficiencyPct)

	log.Ctx(ctx).DebugContext(ctx, "simulation complete",
		"source", source,
		"intervals", len(res.Trace),
		"load_fallback", res.LoadFallback,
	)
	return &Run{Source: source, Generation: gen, Result: res, Summary: summary}, nil
}

// Compare runs the same inputs through every preset. A custom battery in cfg
// is included alongside them.
func (s *Service) Compare(ctx context.Context, cfg *config.Config, in Inputs) ([]analysis.PresetOutcome, string, error) {
	gen, load, source, err := s.inputs(ctx, cfg, in)
	if err != nil {
		return nil, source, err
	}
	params, err := cfg.Battery.ToModelParams()
	if err != nil {
		return nil, source, err
	}
	var extra []model.Preset
	if id, _ := model.ParsePresetID(presetLabel(cfg.Battery)); id == model.PresetCustom {
		extra = append(extra, model.Preset{ID: model.PresetCustom, Name: "Custom", CapacityKWh: params.CapacityKWh})
	}
	engine := simulation.New(simulation.Options{BaseLoadKWh: cfg.Load.BaseLoadKWh})
	out, err := analysis.ComparePresets(engine, gen, load, params.Efficiency, cfg.Tariff.PricePerKWh, extra...)
	return out, source, err
}

// Estimate computes the headline estimate for cfg's site and tariff.
func (s *Service) Estimate(cfg *config.Config) (*solar.Estimate, error) {
	o, err := model.ParseOrientation(cfg.Site.Orientation)
	if err != nil {
		return nil, err
	}
	return solar.EstimateOutput(solar.EstimateInput{
		City:               cfg.Site.City,
		PanelAreaM2:        cfg.Site.PanelAreaM2,
		PanelEfficiencyPct: cfg.Site.PanelEfficiencyPct,
		Orientation:        o,
		PricePerKWh:        cfg.Tariff.PricePerKWh,
		CostPerM2:          cfg.Tariff.CostPerM2,
	})
}

func presetLabel(b config.BatteryConfig) string {
	if b.Preset == "" {
		return string(model.PresetCustom)
	}
	if id, err := model.ParsePresetID(b.Preset); err == nil {
		return string(id)
	}
	return b.Preset
}
