package services

import (
	"net/http"
	"testing"

	"go-grocery/models"
	"go-grocery/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionForwardProgression(t *testing.T) {
	steps := []string{
		models.StatusPlaced,
		models.StatusPacking,
		models.StatusReady,
		models.StatusDispatch,
		models.StatusDelivered,
		models.StatusCollected,
		models.StatusCompleted,
	}
	for i := 0; i < len(steps)-1; i++ {
		assert.True(t, CanTransition(steps[i], steps[i+1]),
			"%s -> %s should be legal", steps[i], steps[i+1])
	}
}

func TestCanTransitionCancellation(t *testing.T) {
	cancellable := []string{models.StatusPlaced, models.StatusPacking, models.StatusReady}
	for _, from := range cancellable {
		assert.True(t, CanTransition(from, models.StatusCancelled), "%s should be cancellable", from)
	}
	notCancellable := []string{models.StatusDispatch, models.StatusDelivered, models.StatusCompleted, models.StatusCancelled}
	for _, from := range notCancellable {
		assert.False(t, CanTransition(from, models.StatusCancelled), "%s should not be cancellable", from)
	}
}

func TestCanTransitionRejectsSkipsAndReversals(t *testing.T) {
	assert.False(t, CanTransition(models.StatusPlaced, models.StatusReady))
	assert.False(t, CanTransition(models.StatusPlaced, models.StatusDelivered))
	assert.False(t, CanTransition(models.StatusDelivered, models.StatusPlaced))
	assert.False(t, CanTransition(models.StatusCompleted, models.StatusPlaced))
	assert.False(t, CanTransition(models.StatusCancelled, models.StatusPacking))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(models.StatusPlaced))
	assert.True(t, IsValidStatus(models.StatusCancelled))
	assert.False(t, IsValidStatus("shipped"))
	assert.False(t, IsValidStatus(""))
}

func TestCheckTransition(t *testing.T) {
	assert.NoError(t, CheckTransition(models.StatusPlaced, models.StatusPacking))

	err := CheckTransition(models.StatusPlaced, "shipped")
	require.Error(t, err)
	apiErr, ok := err.(*utils.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	err = CheckTransition(models.StatusDelivered, models.StatusCancelled)
	require.Error(t, err)
	apiErr, ok = err.(*utils.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}
