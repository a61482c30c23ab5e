package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product units. Weight-based products are priced per kg with quantities and
// stock tracked in grams; piece products are priced and tracked per unit.
const (
	UnitKg    = "kg"
	UnitPiece = "piece"
)

// Product is a catalog entry. Stock is kept in the product's native quantity
// unit (grams for kg products, count for piece products) and must never go
// negative; Active gates purchasability and is dropped automatically when
// stock runs out during order placement.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Subcategory string             `bson:"subcategory" json:"subcategory"`
	Price       float64            `bson:"price" json:"price"`
	Unit        string             `bson:"unit" json:"unit"`
	Stock       int                `bson:"stock" json:"stock"`
	Active      bool               `bson:"active" json:"active"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	QuickPicks  bool               `bson:"quick_picks" json:"quick_picks"`
	NewlyAdd    bool               `bson:"newly_add" json:"newly_add"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
