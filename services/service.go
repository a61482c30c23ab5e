package services

import (
	"time"

	"go-grocery/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// OrderService owns the order lifecycle: placement, vendor fulfillment
// views, bulk status transitions, stats and reporting aggregates. The
// document store's per-record atomicity is the only isolation guarantee in
// use; multi-document writes are sequences of independent atomic steps.
type OrderService struct {
	Orders   *mongo.Collection
	Products *mongo.Collection
	Carts    *mongo.Collection
	Users    *mongo.Collection
	Vendors  *mongo.Collection
	Slots    *mongo.Collection
	Counters *mongo.Collection

	BatchStrategy BatchStrategy
	BaseURL       string
	Cache         *utils.Cache
	Now           func() time.Time
}

// NewOrderService creates an OrderService over the grocery database.
func NewOrderService(client *mongo.Client, strategy BatchStrategy, baseURL string) *OrderService {
	db := client.Database("grocery")
	return &OrderService{
		Orders:        db.Collection("orders"),
		Products:      db.Collection("products"),
		Carts:         db.Collection("carts"),
		Users:         db.Collection("users"),
		Vendors:       db.Collection("vendors"),
		Slots:         db.Collection("deliveryslots"),
		Counters:      db.Collection("counters"),
		BatchStrategy: strategy,
		BaseURL:       baseURL,
		Now:           time.Now,
	}
}

// NormalizePage clamps caller-supplied pagination to a 1-indexed page and a
// limit between 1 and 100, defaulting to 10.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// TotalPages is ceil(totalResults/limit).
func TotalPages(totalResults int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (totalResults + int64(limit) - 1) / int64(limit)
}
