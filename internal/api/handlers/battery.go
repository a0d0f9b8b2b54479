package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"solar-sim/internal/api/models"
	"solar-sim/internal/config"
	"solar-sim/internal/log"
	"solar-sim/internal/model"

	"github.com/gin-gonic/gin"
)

// BatteryHandler serves the fixed presets plus any battery YAML files found
// in a directory.
type BatteryHandler struct {
	batteryDir string
}

// DefaultBatteryDir returns BATTERY_DIR, falling back to ./examples/batteries.
func DefaultBatteryDir() string {
	dir := os.Getenv("BATTERY_DIR")
	if dir == "" {
		dir = filepath.Join(".", "examples", "batteries")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

// NewBatteryHandler creates a new battery handler. An empty dir disables
// battery files.
func NewBatteryHandler(dir string) *BatteryHandler {
	return &BatteryHandler{batteryDir: dir}
}

// ListBatteries handles GET /api/v1/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	batteries := make([]models.BatteryInfo, 0, 8)
	for _, p := range model.Presets() {
		batteries = append(batteries, models.BatteryInfo{
			ID:          string(p.ID),
			Name:        p.Name,
			CapacityKWh: p.CapacityKWh,
			Efficiency:  model.DefaultEfficiency,
		})
	}

	ctx := c.Request.Context()
	for _, name := range h.fileNames() {
		info, err := h.loadBatteryInfo(name)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "skipping battery file", "file", name, "error", err)
			continue
		}
		batteries = append(batteries, *info)
	}

	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}

// Resolve loads the battery file id from the battery directory. Only bare
// names are accepted so a request cannot reach outside the directory.
func (h *BatteryHandler) Resolve(id string) (config.BatteryConfig, error) {
	if h.batteryDir == "" {
		return config.BatteryConfig{}, fmt.Errorf("%w: battery files are not available", model.ErrInvalidInput)
	}
	id = strings.TrimSuffix(id, ".yaml")
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return config.BatteryConfig{}, fmt.Errorf("%w: invalid battery_file %q", model.ErrInvalidInput, id)
	}
	b, err := config.LoadBatteryFile(filepath.Join(h.batteryDir, id+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return config.BatteryConfig{}, fmt.Errorf("%w: unknown battery_file %q", model.ErrInvalidInput, id)
	}
	if err != nil {
		return config.BatteryConfig{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return b, nil
}

func (h *BatteryHandler) fileNames() []string {
	if h.batteryDir == "" {
		return nil
	}
	entries, err := os.ReadDir(h.batteryDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	return names
}

func (h *BatteryHandler) loadBatteryInfo(id string) (*models.BatteryInfo, error) {
	b, err := h.Resolve(id)
	if err != nil {
		return nil, err
	}
	if b.Preset == "" && b.CapacityKWh == 0 {
		return nil, fmt.Errorf("battery file %s has no preset or capacity", id)
	}
	params, err := b.ToModelParams()
	if err != nil {
		return nil, err
	}
	name := b.Name
	if name == "" {
		name = id
	}
	return &models.BatteryInfo{
		ID:          id,
		Name:        name,
		CapacityKWh: params.CapacityKWh,
		Efficiency:  params.Efficiency,
		File:        id,
	}, nil
}
