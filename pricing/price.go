package pricing

import (
	"fmt"
	"math"

	"campuseats/models"
)

// CurrencySymbol prefixes every formatted price.
const CurrencySymbol = "₹"

// ComputeTotal returns (basePrice + size delta + add-on prices) * quantity.
// A nil size contributes nothing and quantity is clamped to at least 1.
// No rounding is applied; use FormatPrice or Round2 for display.
func ComputeTotal(basePrice float64, size *models.SizeOption, addons []models.AddonOption, quantity int) float64 {
	return UnitPrice(basePrice, size, addons) * float64(ClampQuantity(quantity))
}

// UnitPrice is the price of a single customised item.
func UnitPrice(basePrice float64, size *models.SizeOption, addons []models.AddonOption) float64 {
	total := basePrice
	if size != nil {
		total += size.PriceDelta
	}
	for _, a := range addons {
		total += a.Price
	}
	return total
}

// ClampQuantity coerces quantities below 1 to 1.
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPrice renders v for display, e.g. "₹180.00".
func FormatPrice(v float64) string {
	return fmt.Sprintf("%s%.2f", CurrencySymbol, Round2(v))
}
