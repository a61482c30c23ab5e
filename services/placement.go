package services

import (
	"context"
	"fmt"
	"log"

	"go-grocery/models"
	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItemInput is one checkout line. Quantity is in the product's native
// unit: grams for kg products, count for piece products.
type OrderItemInput struct {
	ProductID primitive.ObjectID `json:"product_id"`
	Quantity  int                `json:"quantity"`
}

// BuildOrderLines resolves checkout inputs against the loaded products,
// snapshotting the current price into each line and summing line costs.
// The returned total is rounded to two decimals.
func BuildOrderLines(products map[primitive.ObjectID]models.Product, inputs []OrderItemInput) ([]models.OrderItem, float64, error) {
	lines := make([]models.OrderItem, 0, len(inputs))
	total := 0.0
	for _, input := range inputs {
		product, ok := products[input.ProductID]
		if !ok {
			return nil, 0, utils.NewNotFound(fmt.Sprintf("Product not found: %s", input.ProductID.Hex()))
		}
		if input.Quantity <= 0 {
			return nil, 0, utils.NewBadRequest(fmt.Sprintf("Invalid quantity for product %s", product.Name))
		}
		cost, err := LineCost(product.Unit, product.Price, input.Quantity)
		if err != nil {
			return nil, 0, err
		}
		total += cost
		lines = append(lines, models.OrderItem{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			Price:     product.Price,
		})
	}
	return lines, Round2(total), nil
}

// PlaceOrder converts a customer's checkout into an order: price
// computation with snapshotted per-item prices, batch assignment, atomic
// per-product stock decrement with a zero floor, and cart clearing.
//
// The write sequence (order insert, N stock decrements, cart clear) is not
// one transaction. A failure partway leaves the order created and earlier
// decrements applied; the error is surfaced and nothing is rolled back.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID primitive.ObjectID, inputs []OrderItemInput) (*models.Order, error) {
	if len(inputs) == 0 {
		return nil, utils.NewBadRequest("Order must contain at least one item")
	}

	var customer models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer); err != nil {
		return nil, utils.NewNotFound("Customer not found")
	}
	if customer.VendorID == nil {
		return nil, utils.NewPreconditionFailed("Customer does not have an associated vendor")
	}

	ids := make([]primitive.ObjectID, 0, len(inputs))
	for _, input := range inputs {
		ids = append(ids, input.ProductID)
	}
	products, err := s.loadProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines, total, err := BuildOrderLines(products, inputs)
	if err != nil {
		return nil, err
	}

	batch := s.determineBatch(ctx)

	orderID, err := s.NextOrderID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	order := models.Order{
		OrderID:    orderID,
		Customer:   customerID,
		Vendor:     *customer.VendorID,
		Items:      lines,
		TotalPrice: total,
		Status:     models.StatusPlaced,
		Batch:      batch,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res, err := s.Orders.InsertOne(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	for _, line := range lines {
		if err := s.decrementStock(ctx, line, products[line.ProductID].Name); err != nil {
			return nil, err
		}
	}

	// Cached catalog listings now carry stale stock figures.
	if err := s.Cache.InvalidateSet(ctx, utils.ProductListCacheSet); err != nil {
		log.Printf("Failed to invalidate product listing cache: %v", err)
	}

	if _, err := s.Carts.DeleteMany(ctx, bson.M{"customer": customerID}); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return &order, nil
}

// BuildStockDecrement composes the conditional update for one line's stock
// effect: the filter only matches while remaining stock covers the quantity,
// so the $inc can never take stock below zero even under concurrent
// checkouts of the same product.
func BuildStockDecrement(productID primitive.ObjectID, quantity int) (bson.M, bson.M) {
	return bson.M{"_id": productID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}}
}

// BuildStockDeactivation composes the follow-up update that drops a product
// out of the catalog once its stock falls below one unit.
func BuildStockDeactivation(productID primitive.ObjectID) (bson.M, bson.M) {
	return bson.M{"_id": productID, "stock": bson.M{"$lt": 1}},
		bson.M{"$set": bson.M{"active": false}}
}

// decrementStock applies one line's stock effect. A zero match on the
// conditional decrement means remaining stock cannot cover the quantity.
func (s *OrderService) decrementStock(ctx context.Context, line models.OrderItem, productName string) error {
	filter, update := BuildStockDecrement(line.ProductID, line.Quantity)
	res, err := s.Products.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewInsufficientStock(fmt.Sprintf("Not enough stock for product %s", productName))
	}

	filter, update = BuildStockDeactivation(line.ProductID)
	if _, err := s.Products.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	return nil
}

// determineBatch reads the active delivery slots and delegates to the
// configured strategy. Slot read failures fall back to the Morning default
// rather than failing the checkout.
func (s *OrderService) determineBatch(ctx context.Context) string {
	var slots []models.DeliverySlot
	cursor, err := s.Slots.Find(ctx, bson.M{"is_active": true})
	if err == nil {
		if err := cursor.All(ctx, &slots); err != nil {
			slots = nil
		}
	}
	return s.BatchStrategy.Batch(s.Now(), slots)
}

// loadProducts bulk-loads products by id into a lookup map.
func (s *OrderService) loadProducts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	cursor, err := s.Products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make(map[primitive.ObjectID]models.Product, len(list))
	for _, p := range list {
		products[p.ID] = p
	}
	return products, nil
}
