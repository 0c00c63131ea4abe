package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRefreshFailed    = errors.New("token refresh failed")
	ErrNotFound         = errors.New("record not found")
	ErrUnknownEntity    = errors.New("unknown entity type")
)

// APIError represents a non-2xx response from the API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 response. The sync
// engine uses this to decide on the single refresh-and-retry.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
