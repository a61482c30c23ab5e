package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vendor statuses
const (
	VendorActive    = "active"
	VendorInactive  = "inactive"
	VendorSuspended = "suspended"
)

// Vendor holds the fulfillment-side record for a vendor account. The 1:1
// User referenced by UserID carries the name, phone number and location;
// this record carries the government-ID document paths, the unique vendor
// code and the locations the vendor serves.
type Vendor struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           primitive.ObjectID `bson:"user_id" json:"user_id"`
	GovtID           string             `bson:"govt_id" json:"govt_id"`
	GovtID2          string             `bson:"govt_id2" json:"govt_id2"`
	VendorCode       string             `bson:"vendor_code" json:"vendor_code"`
	ServiceLocations []string           `bson:"service_locations" json:"service_locations"`
	Rating           float64            `bson:"rating" json:"rating"`
	Status           string             `bson:"status" json:"status"`
}
