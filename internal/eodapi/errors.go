package eodapi

import (
	"fmt"
	"time"
)

// APIError represents a non-success response from the EOD Historical Data API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eod api error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError is returned when the client-side rate limiter is interrupted,
// typically by context cancellation, before a request slot became available.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("eod api rate limit exceeded, retry after %v", e.RetryAfter)
}
