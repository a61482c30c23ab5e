package services

import (
	"net/http"
	"testing"

	"go-grocery/models"
	"go-grocery/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func productFixture(name, unit string, price float64) models.Product {
	return models.Product{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Unit:  unit,
		Price: price,
		Stock: 100000,
	}
}

func TestBuildOrderLines(t *testing.T) {
	rice := productFixture("Rice", models.UnitKg, 100)
	eggs := productFixture("Eggs", models.UnitPiece, 8)
	products := map[primitive.ObjectID]models.Product{
		rice.ID: rice,
		eggs.ID: eggs,
	}

	lines, total, err := BuildOrderLines(products, []OrderItemInput{
		{ProductID: rice.ID, Quantity: 2000},
		{ProductID: eggs.ID, Quantity: 6},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// 100/kg * 2kg + 8 * 6
	assert.Equal(t, 248.0, total)

	assert.Equal(t, rice.ID, lines[0].ProductID)
	assert.Equal(t, 2000, lines[0].Quantity)
	assert.Equal(t, 100.0, lines[0].Price)
	assert.Equal(t, eggs.ID, lines[1].ProductID)
	assert.Equal(t, 8.0, lines[1].Price)
}

func TestBuildOrderLinesSnapshotsPrice(t *testing.T) {
	rice := productFixture("Rice", models.UnitKg, 100)
	products := map[primitive.ObjectID]models.Product{rice.ID: rice}

	lines, _, err := BuildOrderLines(products, []OrderItemInput{{ProductID: rice.ID, Quantity: 500}})
	require.NoError(t, err)

	// A later catalog price change must not affect the captured line price.
	rice.Price = 150
	products[rice.ID] = rice
	assert.Equal(t, 100.0, lines[0].Price)
}

func TestBuildOrderLinesRoundsTotal(t *testing.T) {
	item := productFixture("Lentils", models.UnitKg, 99.99)
	products := map[primitive.ObjectID]models.Product{item.ID: item}

	_, total, err := BuildOrderLines(products, []OrderItemInput{{ProductID: item.ID, Quantity: 333}})
	require.NoError(t, err)
	assert.Equal(t, 33.30, total)
}

func TestBuildOrderLinesUnknownProduct(t *testing.T) {
	_, _, err := BuildOrderLines(map[primitive.ObjectID]models.Product{}, []OrderItemInput{
		{ProductID: primitive.NewObjectID(), Quantity: 1},
	})
	require.Error(t, err)
	apiErr, ok := err.(*utils.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestBuildOrderLinesRejectsNonPositiveQuantity(t *testing.T) {
	rice := productFixture("Rice", models.UnitKg, 100)
	products := map[primitive.ObjectID]models.Product{rice.ID: rice}

	for _, quantity := range []int{0, -5} {
		_, _, err := BuildOrderLines(products, []OrderItemInput{{ProductID: rice.ID, Quantity: quantity}})
		require.Error(t, err)
		apiErr, ok := err.(*utils.APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	}
}

func TestBuildStockDecrement(t *testing.T) {
	productID := primitive.NewObjectID()
	filter, update := BuildStockDecrement(productID, 2000)

	// The decrement only matches while remaining stock covers the quantity,
	// so stock can never go negative.
	assert.Equal(t, productID, filter["_id"])
	assert.Equal(t, bson.M{"$gte": 2000}, filter["stock"])
	assert.Equal(t, bson.M{"$inc": bson.M{"stock": -2000}}, update)
}

func TestBuildStockDeactivation(t *testing.T) {
	productID := primitive.NewObjectID()
	filter, update := BuildStockDeactivation(productID)

	assert.Equal(t, productID, filter["_id"])
	assert.Equal(t, bson.M{"$lt": 1}, filter["stock"])
	assert.Equal(t, bson.M{"$set": bson.M{"active": false}}, update)
}

func TestBuildOrderLinesBadUnit(t *testing.T) {
	broken := productFixture("Broken", "litre", 10)
	products := map[primitive.ObjectID]models.Product{broken.ID: broken}

	_, _, err := BuildOrderLines(products, []OrderItemInput{{ProductID: broken.ID, Quantity: 1}})
	require.Error(t, err)
	apiErr, ok := err.(*utils.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}
