package services

import (
	"testing"

	"go-grocery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineCost(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		price    float64
		quantity int
		want     float64
	}{
		{name: "kg product priced per gram fraction", unit: models.UnitKg, price: 100, quantity: 2000, want: 200},
		{name: "kg product sub-kilo quantity", unit: models.UnitKg, price: 80, quantity: 250, want: 20},
		{name: "piece product", unit: models.UnitPiece, price: 15, quantity: 3, want: 45},
		{name: "piece product single unit", unit: models.UnitPiece, price: 9.5, quantity: 1, want: 9.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LineCost(tt.unit, tt.price, tt.quantity)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLineCostUnknownUnit(t *testing.T) {
	_, err := LineCost("litre", 10, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "litre")
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2 kg", FormatQuantity(models.UnitKg, 2000))
	assert.Equal(t, "1.5 kg", FormatQuantity(models.UnitKg, 1500))
	assert.Equal(t, "0.25 kg", FormatQuantity(models.UnitKg, 250))
	assert.Equal(t, "3 pcs", FormatQuantity(models.UnitPiece, 3))
	assert.Equal(t, "7", FormatQuantity("unknown", 7))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.556))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 10.0, Round2(10.0001))
	assert.Equal(t, 0.1, Round2(0.1))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "200.00", Money(200))
	assert.Equal(t, "19.99", Money(19.99))
	assert.Equal(t, "0.00", Money(0))
}
