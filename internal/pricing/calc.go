package pricing

import (
	"github.com/shopspring/decimal"
)

// ComputeSalePrice derives a finished-item price: material value rounded to the
// nearest rupiah, plus the fixed labor cost. Rounding happens once, on the
// weight times per-gram product, never on intermediate terms.
func ComputeSalePrice(weightGram decimal.Decimal, pricePerGram int64, laborCost int64) int64 {
	return materialValue(weightGram, pricePerGram) + laborCost
}

// ComputeBuybackPrice derives the value of raw gold bought from a customer.
// No labor cost: the store is purchasing material, not a finished product.
func ComputeBuybackPrice(weightGram decimal.Decimal, pricePerGram int64) int64 {
	return materialValue(weightGram, pricePerGram)
}

func materialValue(weightGram decimal.Decimal, pricePerGram int64) int64 {
	return weightGram.Mul(decimal.NewFromInt(pricePerGram)).Round(0).IntPart()
}
