package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want int
	}{
		{name: "not found", err: NewNotFound("x"), want: http.StatusNotFound},
		{name: "bad request", err: NewBadRequest("x"), want: http.StatusBadRequest},
		{name: "precondition failed", err: NewPreconditionFailed("x"), want: http.StatusPreconditionFailed},
		{name: "conflict", err: NewConflict("x"), want: http.StatusConflict},
		{name: "insufficient stock", err: NewInsufficientStock("x"), want: http.StatusConflict},
		{name: "data integrity", err: NewDataIntegrityError("x"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode)
			assert.Equal(t, "x", tt.err.Error())
		})
	}
}

func TestWriteErrorAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewNotFound("Order not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Order not found", body["message"])
}

func TestWriteErrorWrappedAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("placing order: %w", NewInsufficientStock("Not enough stock for product Rice")))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not enough stock for product Rice", body["message"])
}

func TestWriteErrorInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("mongo: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// Internal details never leak to the client.
	assert.Equal(t, "Internal server error", body["message"])
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
