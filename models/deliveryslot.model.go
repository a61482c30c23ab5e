package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliverySlot is a named fulfillment window. Only the two batches Morning
// and Evening are meaningful; StartTime and EndTime are 12-hour clock
// strings ("07:00 AM"). Inactive slots do not participate in batch
// determination.
type DeliverySlot struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	StartTime string             `bson:"start_time" json:"start_time"`
	EndTime   string             `bson:"end_time" json:"end_time"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
