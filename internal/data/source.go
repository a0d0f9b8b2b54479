package data

import (
	"context"
	"fmt"
	"time"

	"solar-sim/internal/model"
)

// Request describes the generation series a source should produce.
type Request struct {
	Site model.Site
	// Hours caps forecast-style sources. Zero means the source default.
	Hours int
	// Days and Start drive the synthetic source.
	Days  int
	Start time.Time
}

// IrradianceSource produces an hourly generation series for a site.
type IrradianceSource interface {
	Generation(ctx context.Context, req Request) ([]model.Interval, error)
}

// DefaultForecastHours is how many hourly rows the forecast sources keep.
const DefaultForecastHours = 48

// ProviderError represents a failed call to an upstream data provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Error codes carried by ProviderError.
const (
	CodeMissingAPIKey     = "MISSING_API_KEY"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeNoData            = "NO_DATA"
	CodeUpstream          = "UPSTREAM_ERROR"
)

// statusError maps a non-200 upstream response to a ProviderError.
func statusError(provider string, status int, statusText, retryAfter string) *ProviderError {
	switch status {
	case 401, 403:
		return &ProviderError{
			Provider:   provider,
			StatusCode: status,
			Code:       CodeUnauthorized,
			Message:    "Invalid API key or insufficient permissions",
		}
	case 429:
		return &ProviderError{
			Provider:   provider,
			StatusCode: status,
			Code:       CodeRateLimitExceeded,
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return &ProviderError{
			Provider:   provider,
			StatusCode: status,
			Code:       CodeUpstream,
			Message:    fmt.Sprintf("API returned status %d: %s", status, statusText),
		}
	}
}

func capHours(hours int) int {
	if hours <= 0 {
		return DefaultForecastHours
	}
	return hours
}
