package exchange

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/internal/pricing"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

func TestDifferenceSign(t *testing.T) {
	t.Parallel()

	if got := Difference(3_000_000, 5_450_000); got != 2_450_000 {
		t.Fatalf("expected customer to pay 2450000, got %d", got)
	}
	if got := Difference(5_450_000, 3_000_000); got != -2_450_000 {
		t.Fatalf("expected store change -2450000, got %d", got)
	}
	if got := Difference(4_000_000, 4_000_000); got != 0 {
		t.Fatalf("expected even trade, got %d", got)
	}
}

func TestValueBuyback(t *testing.T) {
	t.Parallel()

	snap := pricing.NewSnapshot("2026-09-01", []pricing.Quote{
		{GoldType: enums.GoldTypeLM, Purity: 999, BuyPerGram: 950_000, SellPerGram: 1_050_000},
		{GoldType: enums.GoldTypeLokal, Purity: 700, BuyPerGram: 500_000, SellPerGram: 560_000},
	})

	valuation, err := ValueBuyback(snap, []OldGoldItem{
		{GoldType: enums.GoldTypeLM, GoldPurity: 999, WeightGram: decimal.RequireFromString("10.0")},
		{GoldType: enums.GoldTypeLokal, GoldPurity: 700, WeightGram: decimal.RequireFromString("3.5")},
	})
	if err != nil {
		t.Fatalf("value buyback: %v", err)
	}

	if len(valuation.Items) != 2 {
		t.Fatalf("expected 2 valued items, got %d", len(valuation.Items))
	}
	if valuation.Items[0].Value != 9_500_000 {
		t.Fatalf("expected 9500000 for LM bar, got %d", valuation.Items[0].Value)
	}
	if valuation.Items[1].Value != 1_750_000 {
		t.Fatalf("expected 1750000 for local gold, got %d", valuation.Items[1].Value)
	}
	if valuation.Total != 11_250_000 {
		t.Fatalf("expected total 11250000, got %d", valuation.Total)
	}
}

func TestValueBuybackUnquotedPairFails(t *testing.T) {
	t.Parallel()

	snap := pricing.NewSnapshot("2026-09-01", []pricing.Quote{
		{GoldType: enums.GoldTypeLM, Purity: 999, BuyPerGram: 950_000, SellPerGram: 1_050_000},
	})

	_, err := ValueBuyback(snap, []OldGoldItem{
		{GoldType: enums.GoldTypeUBS, GoldPurity: 750, WeightGram: decimal.RequireFromString("2.0")},
	})
	if err == nil {
		t.Fatal("expected error for unquoted pair")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValueBuybackValidation(t *testing.T) {
	t.Parallel()

	snap := pricing.NewSnapshot("2026-09-01", nil)

	if _, err := ValueBuyback(snap, nil); err == nil {
		t.Fatal("expected error for empty item list")
	}
	if _, err := ValueBuyback(snap, []OldGoldItem{
		{GoldType: enums.GoldTypeLM, GoldPurity: 999, WeightGram: decimal.Zero},
	}); err == nil {
		t.Fatal("expected error for zero weight")
	}
}
