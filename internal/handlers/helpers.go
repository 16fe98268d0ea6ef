package handlers

import (
	"errors"
	"net/http"

	"medrep-hub-backend/internal/integrations"
	"medrep-hub-backend/internal/services"
	"medrep-hub-backend/pkg/httputil"
)

// respondServiceError maps a service-layer error onto the failure envelope:
// validation errors are 400 with no upstream call made, configuration
// errors are 500, upstream failures mirror the dependency's status with
// the raw error text attached as details, anything else is a generic 500.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var upstream *integrations.UpstreamError
	switch {
	case errors.Is(err, services.ErrChatValidation),
		errors.Is(err, services.ErrDocValidation),
		errors.Is(err, services.ErrUnsupportedFileType):
		httputil.RespondError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, integrations.ErrNotConfigured):
		httputil.RespondError(w, http.StatusInternalServerError, "Server configuration error: upstream service key is not set", "")
	case errors.As(err, &upstream):
		httputil.RespondError(w, upstream.StatusCode, fallback, upstream.Body)
	default:
		httputil.RespondError(w, http.StatusInternalServerError, fallback, "")
	}
}
