package provider

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-200 answer from the model API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

var quotaMarkers = []string{
	"resource_exhausted",
	"quota",
	"rate limit",
	"rate-limit",
	"ratelimit",
	"too many requests",
	"429",
}

// IsQuotaError reports whether err looks like a quota or rate-limit
// rejection, which callers surface as a temporary outage rather than a
// server fault.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
