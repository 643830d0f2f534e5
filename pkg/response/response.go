// Package response writes the JSON envelope shared by every endpoint:
//
//	{"success": bool, "message": "...", "error": "...", <payload key>: ...}
package response

import (
	"encoding/json"
	"net/http"
)

// H is a response body. Payload keys sit next to success/message/error.
type H map[string]interface{}

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Fail writes {success:false, message, error}. err may be nil.
func Fail(w http.ResponseWriter, status int, message string, err error) {
	JSON(w, status, FailBody(message, err))
}

// FailBody builds the failure envelope; errors are rendered as strings.
func FailBody(message string, err error) H {
	body := H{"success": false}
	if message != "" {
		body["message"] = message
	}
	if err != nil {
		body["error"] = err.Error()
	}
	return body
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Fail(w, http.StatusUnauthorized, "Unauthorized", nil)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Fail(w, http.StatusNotFound, "Not found", nil)
}
