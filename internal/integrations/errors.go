// Package integrations holds the shared failure types for the upstream
// service clients.
package integrations

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network call when the secret API
// key or an endpoint URL is missing from the process configuration.
var ErrNotConfigured = errors.New("upstream service is not configured")

// UpstreamError carries a dependency's non-success HTTP status and raw
// error body so handlers can mirror the status and attach the text as
// detail.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream returned status %d: %s", e.Service, e.StatusCode, e.Body)
}
