package services

import (
	"fmt"

	"go-grocery/models"
	"go-grocery/utils"
)

// legalTransitions is the order state machine: the forward fulfillment
// progression plus explicit cancellation before delivery. Single-order
// updates must follow this table; vendor bulk updates only exclude
// delivered orders (see UpdateVendorOrderStatus).
var legalTransitions = map[string][]string{
	models.StatusPlaced:    {models.StatusPacking, models.StatusCancelled},
	models.StatusPacking:   {models.StatusReady, models.StatusCancelled},
	models.StatusReady:     {models.StatusDispatch, models.StatusCancelled},
	models.StatusDispatch:  {models.StatusDelivered},
	models.StatusDelivered: {models.StatusCollected, models.StatusCompleted},
	models.StatusCollected: {models.StatusCompleted},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
}

// terminalStatuses are excluded from "pending work" vendor views.
var terminalStatuses = []string{
	models.StatusDelivered,
	models.StatusCollected,
	models.StatusCompleted,
}

// IsValidStatus reports whether s is a recognized order status.
func IsValidStatus(s string) bool {
	_, ok := legalTransitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a typed error when the requested move is not in
// the legal-transition table.
func CheckTransition(from, to string) error {
	if !IsValidStatus(to) {
		return utils.NewBadRequest(fmt.Sprintf("unknown order status %q", to))
	}
	if !CanTransition(from, to) {
		return utils.NewConflict(fmt.Sprintf("cannot move order from %q to %q", from, to))
	}
	return nil
}
