package utils

import (
	"encoding/json"
	"net/http"
	"strings"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteJSONResponse(w, http.StatusOK, data)
}

func WriteCreatedResponse(w http.ResponseWriter, data interface{}) {
	WriteJSONResponse(w, http.StatusCreated, data)
}

func WriteErrorResponseWithCode(w http.ResponseWriter, statusCode int, code, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	code := strings.ToUpper(strings.ReplaceAll(http.StatusText(statusCode), " ", "_"))
	WriteErrorResponseWithCode(w, statusCode, code, message, "")
}

func WriteBadRequestResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusBadRequest, "BAD_REQUEST", message, "")
}

func WriteUnauthorizedResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusUnauthorized, "UNAUTHORIZED", message, "")
}

func WriteForbiddenResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusForbidden, "FORBIDDEN", message, "")
}

func WriteNotFoundResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusNotFound, "NOT_FOUND", message, "")
}

func WriteConflictResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusConflict, "CONFLICT", message, "")
}

func WriteInternalServerErrorResponse(w http.ResponseWriter, message string) {
	WriteErrorResponseWithCode(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, "")
}

// ParseJSONBody decodes the request body into v.
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
