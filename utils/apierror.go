package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// APIError is a typed request failure carrying the HTTP status the handler
// should answer with. Handlers translate these 1:1 into {"message": ...}
// responses; anything else becomes a 500.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string { return e.Message }

// NewNotFound reports a missing customer/product/order/vendor.
func NewNotFound(message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Message: message}
}

// NewBadRequest reports malformed or out-of-range input.
func NewBadRequest(message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Message: message}
}

// NewPreconditionFailed reports a missing required binding, such as a
// customer without an associated vendor.
func NewPreconditionFailed(message string) *APIError {
	return &APIError{StatusCode: http.StatusPreconditionFailed, Message: message}
}

// NewConflict reports a uniqueness violation (phone number, email, vendor
// code) or an illegal status transition.
func NewConflict(message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Message: message}
}

// NewInsufficientStock reports a decrement that would take a product's stock
// below zero.
func NewInsufficientStock(message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Message: message}
}

// NewDataIntegrityError reports an unrecoverable data problem, such as a
// product carrying an unrecognized unit.
func NewDataIntegrityError(message string) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, Message: message}
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// WriteError translates an error into a client-visible response.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		WriteJSON(w, apiErr.StatusCode, apiErr)
		return
	}
	log.Printf("Internal error: %v", err)
	WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
}
