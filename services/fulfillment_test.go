package services

import (
	"testing"
	"time"

	"go-grocery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildOrdersQueryDefaults(t *testing.T) {
	query := BuildOrdersQuery(OrderFilter{}, "", false)
	assert.Empty(t, query)
}

func TestBuildOrdersQueryVendorBatchScope(t *testing.T) {
	vendorID := primitive.NewObjectID()
	query := BuildOrdersQuery(OrderFilter{Vendor: &vendorID}, "morning", true)

	assert.Equal(t, vendorID, query["vendor"])
	assert.Equal(t, "Morning", query["batch"])
	assert.Equal(t, bson.M{"$nin": terminalStatuses}, query["status"])
}

func TestBuildOrdersQueryExplicitStatusOverridesPendingOnly(t *testing.T) {
	query := BuildOrdersQuery(OrderFilter{Status: models.StatusDelivered}, "", true)
	assert.Equal(t, models.StatusDelivered, query["status"])
}

func TestBuildOrdersQuerySearchEscapesRegex(t *testing.T) {
	query := BuildOrdersQuery(OrderFilter{Search: "ORD_0001"}, "", false)
	pattern, ok := query["order_id"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, `ORD_0001`, pattern["$regex"])
	assert.Equal(t, "i", pattern["$options"])

	query = BuildOrdersQuery(OrderFilter{Search: "a.b*"}, "", false)
	pattern = query["order_id"].(bson.M)
	assert.Equal(t, `a\.b\*`, pattern["$regex"])
}

func TestBuildOrdersQueryDateRange(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	query := BuildOrdersQuery(OrderFilter{DateFrom: &from, DateTo: &to}, "", false)

	createdAt, ok := query["created_at"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, from, createdAt["$gte"])
	assert.Equal(t, to, createdAt["$lte"])
}

func TestBuildOrdersQueryCustomerScope(t *testing.T) {
	customerID := primitive.NewObjectID()
	query := BuildOrdersQuery(OrderFilter{Customer: &customerID}, "", false)
	assert.Equal(t, customerID, query["customer"])
	_, hasStatus := query["status"]
	assert.False(t, hasStatus)
}

func TestBuildBulkStatusQuery(t *testing.T) {
	vendorID := primitive.NewObjectID()

	query := BuildBulkStatusQuery(vendorID, "morning")
	assert.Equal(t, vendorID, query["vendor"])
	assert.Equal(t, bson.M{"$ne": models.StatusDelivered}, query["status"])
	assert.Equal(t, "Morning", query["batch"])
}

func TestBuildBulkStatusQueryWithoutBatch(t *testing.T) {
	vendorID := primitive.NewObjectID()

	query := BuildBulkStatusQuery(vendorID, "")
	assert.Equal(t, vendorID, query["vendor"])
	assert.Equal(t, bson.M{"$ne": models.StatusDelivered}, query["status"])
	_, hasBatch := query["batch"]
	assert.False(t, hasBatch)
}

func TestBuildOrderAccessQuery(t *testing.T) {
	orderID := primitive.NewObjectID()
	customerID := primitive.NewObjectID()
	vendorID := primitive.NewObjectID()

	// Admin: no scope beyond the order id.
	query := BuildOrderAccessQuery(orderID, nil, nil)
	assert.Equal(t, bson.M{"_id": orderID}, query)

	// Customer sessions reach only their own orders.
	query = BuildOrderAccessQuery(orderID, &customerID, nil)
	assert.Equal(t, bson.M{"_id": orderID, "customer": customerID}, query)

	// Vendor sessions reach only their assigned orders.
	query = BuildOrderAccessQuery(orderID, nil, &vendorID)
	assert.Equal(t, bson.M{"_id": orderID, "vendor": vendorID}, query)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 10},
		{name: "negative page", page: -3, limit: 20, wantPage: 1, wantLimit: 20},
		{name: "limit capped", page: 2, limit: 500, wantPage: 2, wantLimit: 100},
		{name: "passthrough", page: 3, limit: 25, wantPage: 3, wantLimit: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(1, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(0), TotalPages(5, 0))
}
