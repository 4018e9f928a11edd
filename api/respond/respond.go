// Package respond writes the JSON bodies shared by the API handlers.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/mealplan/core/monitoring"
)

// ErrorBody is the payload of every non-2xx JSON response.
type ErrorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Invalid writes a 422 listing the offending fields.
func Invalid(w http.ResponseWriter, msg string, fields map[string][]string) {
	JSON(w, http.StatusUnprocessableEntity, ErrorBody{Error: msg, Fields: fields})
}

// Internal reports err to the monitor and hides its details from the client.
func Internal(w http.ResponseWriter, r *http.Request, module string, err error) {
	monitoring.CaptureException(err, map[string]string{
		"module": module,
		"method": r.Method,
		"path":   r.URL.Path,
	})
	Error(w, http.StatusInternalServerError, "internal error")
}

// Decode reads a JSON body into v, rejecting unknown fields. It writes a 400
// and returns false on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}
