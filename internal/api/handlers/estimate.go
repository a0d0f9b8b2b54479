package handlers

import (
	"net/http"

	"solar-sim/internal/api/models"
	"solar-sim/internal/model"
	"solar-sim/internal/solar"

	"github.com/gin-gonic/gin"
)

// EstimateHandler computes the headline estimate for an array.
type EstimateHandler struct{}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler() *EstimateHandler {
	return &EstimateHandler{}
}

// Estimate handles POST /api/v1/estimate
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	o, err := model.ParseOrientation(req.Orientation)
	if err != nil {
		respondError(c, err)
		return
	}
	est, err := solar.EstimateOutput(solar.EstimateInput{
		City:               req.City,
		PanelAreaM2:        req.PanelAreaM2,
		PanelEfficiencyPct: req.PanelEfficiencyPct,
		Orientation:        o,
		PricePerKWh:        req.PricePerKWh,
		CostPerM2:          req.CostPerM2,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimateResponse(est))
}

func estimateResponse(est *solar.Estimate) models.EstimateResponse {
	resp := models.EstimateResponse{
		DailyKWh:       est.DailyKWh,
		AnnualSavings:  est.AnnualSavings.InexactFloat64(),
		SystemCost:     est.SystemCost.InexactFloat64(),
		BreakEvenYears: est.BreakEvenYears,
		Monthly:        make([]models.MonthlyEstimate, len(est.Monthly)),
		Tips:           est.Tips,
	}
	if resp.Tips == nil {
		resp.Tips = []string{}
	}
	for i, m := range est.Monthly {
		resp.Monthly[i] = models.MonthlyEstimate{
			Month:     m.Month.String(),
			Factor:    m.Factor,
			DailyKWh:  m.DailyKWh,
			Days:      m.Days,
			EnergyKWh: m.EnergyKWh,
			Savings:   m.Savings.InexactFloat64(),
		}
	}
	return resp
}
