package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextOrderID atomically reserves the next order number. Numbers are issued
// from a dedicated counter document so they stay unique and strictly
// increasing even under concurrent checkouts.
func (s *OrderService) NextOrderID(ctx context.Context) (string, error) {
	res := s.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "orders"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&counter); err != nil {
		return "", fmt.Errorf("failed to reserve order number: %w", err)
	}
	return FormatOrderID(counter.Seq), nil
}

// FormatOrderID renders a sequence number as the human-readable order
// identifier, e.g. ORD_00042.
func FormatOrderID(seq int64) string {
	return fmt.Sprintf("ORD_%05d", seq)
}
