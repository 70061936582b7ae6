package utils

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// IsAjax reports whether the request came from the grid/snippet script.
func IsAjax(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	response := Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// WriteJSON encodes v as the whole response body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// ResponseError answers AJAX callers with the JSON envelope and browsers with plain text.
func ResponseError(w http.ResponseWriter, r *http.Request, code int, message string) {
	if IsAjax(r) {
		ResponseJSON(w, code, false, message, nil, nil)
		return
	}
	http.Error(w, message, code)
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, r *http.Request, message string) {
	ResponseError(w, r, http.StatusForbidden, message)
}

// returns 429 Too Many Requests
func ResponseTooManyRequests(w http.ResponseWriter, r *http.Request) {
	ResponseError(w, r, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, r *http.Request, message string) {
	ResponseError(w, r, http.StatusInternalServerError, message)
}
