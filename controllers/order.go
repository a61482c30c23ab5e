package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go-grocery/middleware"
	"go-grocery/models"
	"go-grocery/services"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderController handles order placement, customer order views and the
// vendor fulfillment endpoints.
type OrderController struct {
	Service *services.OrderService
	Users   *mongo.Collection
	Email   *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, service *services.OrderService, email *utils.EmailService) *OrderController {
	return &OrderController{
		Service: service,
		Users:   client.Database("grocery").Collection("users"),
		Email:   email,
	}
}

// PlaceOrder handles checkout for the authenticated customer.
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body struct {
		Items []services.OrderItemInput `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, utils.NewBadRequest("Invalid input"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.PlaceOrder(ctx, customer, body.Items)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	// Confirmation email is best-effort and must not delay the response.
	go oc.sendConfirmation(customer, order)

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (oc *OrderController) sendConfirmation(customerID primitive.ObjectID, order *models.Order) {
	if oc.Email == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var customer models.User
	if err := oc.Users.FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer); err != nil {
		log.Printf("Order confirmation skipped, customer lookup failed: %v", err)
		return
	}
	if customer.Email == "" {
		return
	}
	if err := oc.Email.SendOrderConfirmationEmail(customer.Email, customer.Name, order.OrderID, order.Batch, order.TotalPrice); err != nil {
		log.Printf("Failed to send order confirmation for %s: %v", order.OrderID, err)
	}
}

// GetOrders lists orders scoped by the caller's role: customers see their
// own orders, vendors their assigned orders, admins everything.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	customer, vendor, err := callerScope(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	filter := orderFilterFromQuery(r)
	filter.Customer = customer
	filter.Vendor = vendor

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, err := oc.Service.GetOrders(ctx, filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// GetOrderByID returns one fully joined order, scoped to the caller's role:
// customers see their own orders, vendors their assigned orders, admins any.
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	customer, vendor, err := callerScope(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	view, err := oc.Service.GetOrderByID(ctx, id, customer, vendor)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// callerScope derives the order-access scope from the caller's claims:
// (customer, nil) for customer sessions, (nil, vendor) for vendor sessions,
// (nil, nil) for admins.
func callerScope(r *http.Request) (*primitive.ObjectID, *primitive.ObjectID, error) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return nil, nil, &utils.APIError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}
	}
	switch claims.Role {
	case models.RoleCustomer:
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return nil, nil, utils.NewBadRequest("Invalid user id")
		}
		return &id, nil, nil
	case models.RoleVendor:
		id, err := primitive.ObjectIDFromHex(claims.VendorID)
		if err != nil {
			return nil, nil, utils.NewBadRequest("Invalid vendor id")
		}
		return nil, &id, nil
	}
	return nil, nil, nil
}

// GetRecentOrders returns the authenticated customer's latest orders.
func (oc *OrderController) GetRecentOrders(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	views, err := oc.Service.GetCustomerOrders(ctx, customer, queryInt(r, "limit"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, views)
}

// CancelOrder cancels the authenticated customer's own order.
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	id, err := objectIDParam(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.CancelOrder(ctx, customer, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// TrackOrder returns the current status of the customer's own order.
func (oc *OrderController) TrackOrder(w http.ResponseWriter, r *http.Request) {
	customer, err := customerID(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	id, err := objectIDParam(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	info, err := oc.Service.TrackOrder(ctx, customer, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, info)
}

// GetVendorOrdersMorning returns one page of a vendor's pending orders in
// the Morning batch.
func (oc *OrderController) GetVendorOrdersMorning(w http.ResponseWriter, r *http.Request) {
	oc.vendorBatchOrders(w, r, models.BatchMorning)
}

// GetVendorOrdersEvening returns one page of a vendor's pending orders in
// the Evening batch.
func (oc *OrderController) GetVendorOrdersEvening(w http.ResponseWriter, r *http.Request) {
	oc.vendorBatchOrders(w, r, models.BatchEvening)
}

func (oc *OrderController) vendorBatchOrders(w http.ResponseWriter, r *http.Request, batch string) {
	vendorID, err := objectIDParam(r, "vendorId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if !oc.vendorAllowed(w, r, vendorID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, err := oc.Service.GetVendorOrders(ctx, vendorID, batch, orderFilterFromQuery(r))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// UpdateOrderStatus moves a single order to a new status, enforcing the
// legal-transition table. Vendor sessions can only move their own orders.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "orderId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	_, vendor, err := callerScope(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		utils.WriteError(w, utils.NewBadRequest("Status is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := oc.Service.UpdateOrderStatus(ctx, id, body.Status, vendor)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// UpdateVendorOrderStatus bulk-moves a vendor's not-yet-delivered orders,
// optionally narrowed to one batch.
func (oc *OrderController) UpdateVendorOrderStatus(w http.ResponseWriter, r *http.Request) {
	vendorID, err := objectIDParam(r, "vendorId")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if !oc.vendorAllowed(w, r, vendorID) {
		return
	}

	var body struct {
		Status string `json:"status"`
		Batch  string `json:"batch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		utils.WriteError(w, utils.NewBadRequest("Status is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	modified, err := oc.Service.UpdateVendorOrderStatus(ctx, vendorID, body.Status, body.Batch)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Orders updated successfully",
		"modified": modified,
	})
}

// vendorAllowed lets admins act on any vendor, while vendor sessions are
// restricted to their own vendor id.
func (oc *OrderController) vendorAllowed(w http.ResponseWriter, r *http.Request, vendorID primitive.ObjectID) bool {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	if claims.VendorID != vendorID.Hex() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}
