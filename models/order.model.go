package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Orders move forward through placed -> packing -> ready ->
// dispatch -> delivered, with collected/completed as terminal follow-ups and
// cancelled as the only sideways exit before delivery.
const (
	StatusPlaced    = "placed"
	StatusPacking   = "packing"
	StatusReady     = "ready"
	StatusDispatch  = "dispatch"
	StatusDelivered = "delivered"
	StatusCollected = "collected"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Delivery batches
const (
	BatchMorning = "Morning"
	BatchEvening = "Evening"
)

// OrderItem is one line of an order. Price is the product price snapshotted
// at creation time and never recomputed from the catalog afterwards.
// Quantity is in the product's native unit (grams for kg products).
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// Order is the ledger entry for one checkout. OrderID is the human-readable
// identifier issued from a monotonic counter at creation; TotalPrice is
// computed once at creation and immutable thereafter.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID    string             `bson:"order_id" json:"order_id"`
	Customer   primitive.ObjectID `bson:"customer" json:"customer"`
	Vendor     primitive.ObjectID `bson:"vendor" json:"vendor"`
	Items      []OrderItem        `bson:"items" json:"items"`
	TotalPrice float64            `bson:"total_price" json:"total_price"`
	Status     string             `bson:"status" json:"status"`
	Batch      string             `bson:"batch" json:"batch"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
