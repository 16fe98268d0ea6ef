// Package httputil writes the API's standard JSON envelope:
// {"success": bool, ...data | "error", "details"?, "timestamp"}.
package httputil

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
		// Can't write the header again here, just log the error
	}
}

// RespondSuccess writes a success envelope. The data fields are flattened
// into the envelope alongside success and timestamp.
func RespondSuccess(w http.ResponseWriter, statusCode int, data map[string]interface{}) {
	envelope := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		envelope[k] = v
	}
	envelope["success"] = true
	envelope["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	RespondJSON(w, statusCode, envelope)
}

// RespondError writes a failure envelope. details carries the raw upstream
// error text when one is available and is omitted otherwise.
func RespondError(w http.ResponseWriter, statusCode int, message string, details string) {
	envelope := map[string]interface{}{
		"success":   false,
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if details != "" {
		envelope["details"] = details
	}
	RespondJSON(w, statusCode, envelope)
}
