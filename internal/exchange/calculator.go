package exchange

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/internal/pricing"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

// OldGoldItem describes one piece of customer gold offered for buyback.
type OldGoldItem struct {
	GoldType   enums.GoldType
	GoldPurity int
	WeightGram decimal.Decimal
}

// ValuedItem is an OldGoldItem priced against the day's buy-side quotes.
type ValuedItem struct {
	OldGoldItem
	PerGram int64
	Value   int64
}

// BuybackValuation aggregates the buy-side value of a set of old gold items.
type BuybackValuation struct {
	Items []ValuedItem
	Total int64
}

// ValueBuyback prices each old-gold item at the buy-side per-gram quote, no
// labor cost. An item whose (type, purity) pair has no quote today fails the
// whole valuation: the counter cannot buy what it cannot price.
func ValueBuyback(snapshot *pricing.Snapshot, items []OldGoldItem) (*BuybackValuation, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one old gold item is required")
	}

	valuation := &BuybackValuation{Items: make([]ValuedItem, 0, len(items))}
	for _, item := range items {
		if !item.GoldType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid gold type %q", item.GoldType))
		}
		if !enums.ValidPurity(item.GoldPurity) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid purity %d", item.GoldPurity))
		}
		if !item.WeightGram.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
		}

		perGram, ok := snapshot.BuyPerGram(item.GoldType, item.GoldPurity)
		if !ok {
			return nil, pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("no buy price today for %s %d", item.GoldType, item.GoldPurity),
			)
		}

		value := pricing.ComputeBuybackPrice(item.WeightGram, perGram)
		valuation.Items = append(valuation.Items, ValuedItem{
			OldGoldItem: item,
			PerGram:     perGram,
			Value:       value,
		})
		valuation.Total += value
	}
	return valuation, nil
}

// Difference returns what the customer owes for an exchange. Positive means
// the customer pays the difference, negative means the store returns change,
// zero is an even trade. Receipt labels key off this sign.
func Difference(oldGoldTotal, newGoldTotal int64) int64 {
	return newGoldTotal - oldGoldTotal
}
