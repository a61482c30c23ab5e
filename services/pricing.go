package services

import (
	"fmt"
	"math"
	"strconv"

	"go-grocery/models"
	"go-grocery/utils"
)

// LineCost computes the cost of one order line at the given product price.
// Weight-based products are priced per kg with quantities in grams; piece
// products are priced per unit. Any other unit value is a data error.
func LineCost(unit string, price float64, quantity int) (float64, error) {
	switch unit {
	case models.UnitKg:
		return price * (float64(quantity) / 1000), nil
	case models.UnitPiece:
		return price * float64(quantity), nil
	default:
		return 0, utils.NewDataIntegrityError(fmt.Sprintf("unknown unit %q", unit))
	}
}

// FormatQuantity renders a raw quantity in display form: grams re-expressed
// as kg for weight products ("1.5 kg"), a plain count for piece products
// ("3 pcs").
func FormatQuantity(unit string, quantity int) string {
	switch unit {
	case models.UnitKg:
		kg := float64(quantity) / 1000
		return strconv.FormatFloat(kg, 'f', -1, 64) + " kg"
	case models.UnitPiece:
		return fmt.Sprintf("%d pcs", quantity)
	default:
		return strconv.Itoa(quantity)
	}
}

// Round2 rounds a currency amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Money renders a currency amount with exactly two decimals.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
