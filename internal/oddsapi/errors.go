package oddsapi

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by NewClient when no key is configured
var ErrMissingAPIKey = errors.New("odds api key is required")

// APIError is a non-2xx response from the provider
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("odds api %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a provider 404, e.g. an unknown sport key
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
