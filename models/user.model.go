package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

// User represents an account in the system. Customers, vendors and admins
// share one collection and are distinguished by Role. A customer carries a
// VendorID binding to the single vendor responsible for fulfilling their
// orders; a vendor's User holds the display name resolved in order views.
type User struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Email       string              `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string              `bson:"phone_number" json:"phone_number"`
	Password    string              `bson:"password,omitempty" json:"-"`
	Role        string              `bson:"role" json:"role"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	VendorID    *primitive.ObjectID `bson:"vendor_id,omitempty" json:"vendor_id,omitempty"`
	Address     string              `bson:"address,omitempty" json:"address,omitempty"`
	MapURL      string              `bson:"map_url,omitempty" json:"map_url,omitempty"`
	LandMark    string              `bson:"land_mark,omitempty" json:"land_mark,omitempty"`
	Latitude    *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	IsVeg       bool                `bson:"is_veg" json:"is_veg"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}
