package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one row of a customer's cart: a single (customer, product)
// pair with the desired quantity in the product's native unit. Adding the
// same product again replaces the quantity. All of a customer's rows are
// deleted after a successful checkout.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Customer  primitive.ObjectID `bson:"customer" json:"customer"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
