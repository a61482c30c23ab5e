package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go-grocery/models"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderFilter is the conjunction of optional filters on order views.
type OrderFilter struct {
	Status   string
	Search   string
	Customer *primitive.ObjectID
	Vendor   *primitive.ObjectID
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// CustomerSummary is the customer slice of an order view.
type CustomerSummary struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Phone     string             `json:"phone,omitempty"`
	Address   string             `json:"address,omitempty"`
	Latitude  *float64           `json:"latitude,omitempty"`
	Longitude *float64           `json:"longitude,omitempty"`
}

// VendorSummary is the vendor slice of an order view, with the display name
// resolved through the Vendor -> User relation.
type VendorSummary struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// OrderItemView is one order line joined with its product. Quantity keeps
// the raw stored value; FormattedQuantity re-expresses it for display
// (grams as kg). Price is the snapshot captured at placement.
type OrderItemView struct {
	Product           models.Product `json:"product"`
	Quantity          int            `json:"quantity"`
	FormattedQuantity string         `json:"formatted_quantity"`
	Price             float64        `json:"price"`
}

// OrderView is a fully joined order as served to vendor and detail
// endpoints. TotalPrice is the immutable snapshot computed at placement.
type OrderView struct {
	ID         primitive.ObjectID `json:"id"`
	OrderID    string             `json:"order_id"`
	Customer   CustomerSummary    `json:"customer"`
	Vendor     VendorSummary      `json:"vendor"`
	Items      []OrderItemView    `json:"items"`
	Date       string             `json:"date"`
	Time       string             `json:"time"`
	Status     string             `json:"status"`
	Batch      string             `json:"batch"`
	TotalPrice float64            `json:"total_price"`
}

// OrderPage is one page of joined order views.
type OrderPage struct {
	Results      []OrderView `json:"results"`
	Page         int         `json:"page"`
	Limit        int         `json:"limit"`
	TotalPages   int64       `json:"total_pages"`
	TotalResults int64       `json:"total_results"`
}

// BuildOrdersQuery composes an OrderFilter into a Mongo query. batch pins
// the delivery batch when non-empty; pendingOnly excludes the terminal
// statuses unless an explicit status filter overrides it. The search term
// matches order_id as a case-insensitive substring.
func BuildOrdersQuery(filter OrderFilter, batch string, pendingOnly bool) bson.M {
	query := bson.M{}

	if filter.Vendor != nil {
		query["vendor"] = *filter.Vendor
	}
	if filter.Customer != nil {
		query["customer"] = *filter.Customer
	}
	if batch != "" {
		query["batch"] = NormalizeBatch(batch)
	}

	switch {
	case filter.Status != "":
		query["status"] = filter.Status
	case pendingOnly:
		query["status"] = bson.M{"$nin": terminalStatuses}
	}

	if filter.Search != "" {
		query["order_id"] = bson.M{
			"$regex":   regexp.QuoteMeta(filter.Search),
			"$options": "i",
		}
	}

	if filter.DateFrom != nil || filter.DateTo != nil {
		createdAt := bson.M{}
		if filter.DateFrom != nil {
			createdAt["$gte"] = *filter.DateFrom
		}
		if filter.DateTo != nil {
			createdAt["$lte"] = *filter.DateTo
		}
		query["created_at"] = createdAt
	}

	return query
}

// GetVendorOrders returns one page of a vendor's orders scoped to a
// delivery batch. Without an explicit status filter the view shows pending
// work only (delivered/collected/completed excluded).
func (s *OrderService) GetVendorOrders(ctx context.Context, vendorID primitive.ObjectID, batch string, filter OrderFilter) (*OrderPage, error) {
	filter.Vendor = &vendorID
	return s.findOrderPage(ctx, BuildOrdersQuery(filter, batch, true), filter)
}

// GetOrders returns one page of orders for admin or customer-scoped
// listings. No pending-work exclusion applies.
func (s *OrderService) GetOrders(ctx context.Context, filter OrderFilter) (*OrderPage, error) {
	return s.findOrderPage(ctx, BuildOrdersQuery(filter, "", false), filter)
}

func (s *OrderService) findOrderPage(ctx context.Context, query bson.M, filter OrderFilter) (*OrderPage, error) {
	page, limit := NormalizePage(filter.Page, filter.Limit)
	skip := int64((page - 1) * limit)

	totalResults, err := s.Orders.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))
	cursor, err := s.Orders.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	views, err := s.buildOrderViews(ctx, orders)
	if err != nil {
		return nil, err
	}

	return &OrderPage{
		Results:      views,
		Page:         page,
		Limit:        limit,
		TotalPages:   TotalPages(totalResults, limit),
		TotalResults: totalResults,
	}, nil
}

// buildOrderViews joins a batch of orders with their customers, products
// and vendor display names in three bulk loads.
func (s *OrderService) buildOrderViews(ctx context.Context, orders []models.Order) ([]OrderView, error) {
	customerIDs := make([]primitive.ObjectID, 0, len(orders))
	vendorIDs := make([]primitive.ObjectID, 0, len(orders))
	productIDs := make([]primitive.ObjectID, 0)
	for _, order := range orders {
		customerIDs = append(customerIDs, order.Customer)
		vendorIDs = append(vendorIDs, order.Vendor)
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ProductID)
		}
	}

	customers, err := s.loadUsers(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	products := map[primitive.ObjectID]models.Product{}
	if len(productIDs) > 0 {
		products, err = s.loadProducts(ctx, productIDs)
		if err != nil {
			return nil, err
		}
	}
	vendorNames, err := s.resolveVendorNames(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		view := OrderView{
			ID:         order.ID,
			OrderID:    order.OrderID,
			Date:       order.CreatedAt.Format("02 Jan 2006"),
			Time:       order.CreatedAt.Format("15:04"),
			Status:     order.Status,
			Batch:      order.Batch,
			TotalPrice: order.TotalPrice,
			Vendor:     VendorSummary{ID: order.Vendor, Name: vendorNames[order.Vendor]},
		}
		if customer, ok := customers[order.Customer]; ok {
			view.Customer = CustomerSummary{
				ID:        customer.ID,
				Name:      customer.Name,
				Phone:     customer.PhoneNumber,
				Address:   customer.Address,
				Latitude:  customer.Latitude,
				Longitude: customer.Longitude,
			}
		} else {
			view.Customer = CustomerSummary{ID: order.Customer}
		}
		for _, item := range order.Items {
			itemView := OrderItemView{
				Quantity: item.Quantity,
				Price:    item.Price,
			}
			if product, ok := products[item.ProductID]; ok {
				product.Image = utils.AttachImageURL(s.BaseURL, product.Image)
				itemView.Product = product
				itemView.FormattedQuantity = FormatQuantity(product.Unit, item.Quantity)
			}
			view.Items = append(view.Items, itemView)
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *OrderService) loadUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	users := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := s.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	var list []models.User
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for _, u := range list {
		users[u.ID] = u
	}
	return users, nil
}

// resolveVendorNames maps vendor ids to display names via the Vendor ->
// User relation.
func (s *OrderService) resolveVendorNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	cursor, err := s.Vendors.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	var vendors []models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, fmt.Errorf("failed to decode vendors: %w", err)
	}

	userIDs := make([]primitive.ObjectID, 0, len(vendors))
	for _, v := range vendors {
		userIDs = append(userIDs, v.UserID)
	}
	users, err := s.loadUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, v := range vendors {
		names[v.ID] = users[v.UserID].Name
	}
	return names, nil
}

// BuildBulkStatusQuery scopes a vendor bulk move: only the vendor's own
// orders that are not yet delivered, optionally pinned to one batch. The
// batch is normalized to the stored capitalized form.
func BuildBulkStatusQuery(vendorID primitive.ObjectID, batch string) bson.M {
	query := bson.M{
		"vendor": vendorID,
		"status": bson.M{"$ne": models.StatusDelivered},
	}
	if batch != "" {
		query["batch"] = NormalizeBatch(batch)
	}
	return query
}

// BuildOrderAccessQuery scopes a single-order lookup to the caller:
// customers reach only their own orders, vendors only their assigned
// orders, admins (no scope) any order.
func BuildOrderAccessQuery(orderID primitive.ObjectID, customer, vendor *primitive.ObjectID) bson.M {
	query := bson.M{"_id": orderID}
	if customer != nil {
		query["customer"] = *customer
	}
	if vendor != nil {
		query["vendor"] = *vendor
	}
	return query
}

// UpdateVendorOrderStatus bulk-moves every order of a vendor that is not
// yet delivered (optionally narrowed to one batch) to newStatus. The
// matched and applied sets can differ under concurrent single-order
// updates; that is accepted bulk semantics, not all-or-nothing.
func (s *OrderService) UpdateVendorOrderStatus(ctx context.Context, vendorID primitive.ObjectID, newStatus, batch string) (int64, error) {
	if !IsValidStatus(newStatus) {
		return 0, utils.NewBadRequest(fmt.Sprintf("unknown order status %q", newStatus))
	}

	res, err := s.Orders.UpdateMany(ctx, BuildBulkStatusQuery(vendorID, batch), bson.M{
		"$set": bson.M{"status": newStatus, "updated_at": s.Now()},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update orders: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, utils.NewNotFound("No matching orders found or all are already delivered")
	}
	return res.ModifiedCount, nil
}

// UpdateOrderStatus moves a single order to newStatus, enforcing the
// legal-transition table. A non-nil vendor restricts the move to that
// vendor's own orders; anything outside the scope reads as not found.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID primitive.ObjectID, newStatus string, vendor *primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := s.Orders.FindOne(ctx, BuildOrderAccessQuery(orderID, nil, vendor)).Decode(&order); err != nil {
		return nil, utils.NewNotFound("Order not found")
	}
	if err := CheckTransition(order.Status, newStatus); err != nil {
		return nil, err
	}

	now := s.Now()
	_, err := s.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
		"$set": bson.M{"status": newStatus, "updated_at": now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = newStatus
	order.UpdatedAt = now
	return &order, nil
}

// CancelOrder cancels a customer's own order. Cancellation follows the same
// transition table as other moves, so orders already dispatched cannot be
// cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, customerID, orderID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := s.Orders.FindOne(ctx, bson.M{"_id": orderID, "customer": customerID}).Decode(&order); err != nil {
		return nil, utils.NewNotFound("Order not found")
	}
	if err := CheckTransition(order.Status, models.StatusCancelled); err != nil {
		return nil, err
	}

	now := s.Now()
	_, err := s.Orders.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": bson.M{"status": models.StatusCancelled, "updated_at": now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	order.Status = models.StatusCancelled
	order.UpdatedAt = now
	return &order, nil
}

// TrackingInfo is the customer-facing order tracking payload.
type TrackingInfo struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrackOrder returns the current status of a customer's own order.
func (s *OrderService) TrackOrder(ctx context.Context, customerID, orderID primitive.ObjectID) (*TrackingInfo, error) {
	var order models.Order
	if err := s.Orders.FindOne(ctx, bson.M{"_id": orderID, "customer": customerID}).Decode(&order); err != nil {
		return nil, utils.NewNotFound("Order not found")
	}
	return &TrackingInfo{Status: order.Status, UpdatedAt: order.UpdatedAt}, nil
}

// GetOrderByID returns one fully joined order, scoped to the caller: the
// joined view carries the customer's phone, address and coordinates, so
// customers reach only their own orders and vendors only their assigned
// ones. Admin callers pass no scope.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID primitive.ObjectID, customer, vendor *primitive.ObjectID) (*OrderView, error) {
	var order models.Order
	if err := s.Orders.FindOne(ctx, BuildOrderAccessQuery(orderID, customer, vendor)).Decode(&order); err != nil {
		return nil, utils.NewNotFound("Order not found")
	}
	views, err := s.buildOrderViews(ctx, []models.Order{order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetCustomerOrders returns a customer's most recent orders, fully joined.
func (s *OrderService) GetCustomerOrders(ctx context.Context, customerID primitive.ObjectID, limit int) ([]OrderView, error) {
	if limit <= 0 {
		limit = 5
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.Orders.Find(ctx, bson.M{"customer": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return s.buildOrderViews(ctx, orders)
}
