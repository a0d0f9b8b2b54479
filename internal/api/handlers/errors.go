package handlers

import (
	"context"
	"errors"
	"net/http"

	"solar-sim/internal/api/models"
	"solar-sim/internal/data"
	"solar-sim/internal/log"
	"solar-sim/internal/model"
	"solar-sim/internal/service"

	"github.com/gin-gonic/gin"
)

// Error codes returned in models.ErrorDetail.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeTimeout           = "TIMEOUT"
	CodeInternal          = "INTERNAL_ERROR"
)

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Classify maps an error to an HTTP status and an error body.
func Classify(err error) (int, models.ErrorDetail) {
	var perr *data.ProviderError
	switch {
	case errors.As(err, &perr):
		status := http.StatusBadGateway
		if perr.Code == data.CodeRateLimitExceeded {
			status = http.StatusTooManyRequests
		}
		return status, models.ErrorDetail{
			Code:    perr.Code,
			Message: perr.Error(),
			Details: map[string]interface{}{
				"provider":    perr.Provider,
				"status_code": perr.StatusCode,
				"retry_after": perr.RetryAfter,
			},
		}
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, models.ErrorDetail{Code: CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, service.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, models.ErrorDetail{Code: CodeSourceUnavailable, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, models.ErrorDetail{Code: CodeTimeout, Message: "request timed out"}
	default:
		return http.StatusInternalServerError, models.ErrorDetail{Code: CodeInternal, Message: "An unexpected error occurred"}
	}
}

// respondError logs err and writes its classified form.
func respondError(c *gin.Context, err error) {
	status, detail := Classify(err)
	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		log.Ctx(ctx).ErrorContext(ctx, "request failed", "error", err, "code", detail.Code)
	} else {
		log.Ctx(ctx).InfoContext(ctx, "request rejected", "error", err, "code", detail.Code)
	}
	if detail.Code == data.CodeRateLimitExceeded {
		if ra, _ := detail.Details["retry_after"].(string); ra != "" {
			c.Header("Retry-After", ra)
		}
	}
	c.JSON(status, models.ErrorResponse{Error: detail})
}
