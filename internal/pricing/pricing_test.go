package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

func TestComputeSalePrice(t *testing.T) {
	t.Parallel()

	got := ComputeSalePrice(decimal.RequireFromString("5.0"), 1_050_000, 200_000)
	if got != 5_450_000 {
		t.Fatalf("expected 5450000, got %d", got)
	}

	// Fractional weights round once, on the final material value.
	got = ComputeSalePrice(decimal.RequireFromString("2.335"), 1_050_000, 150_000)
	if got != 2_451_750+150_000 {
		t.Fatalf("expected 2601750, got %d", got)
	}
}

func TestComputeBuybackPriceHasNoLaborCost(t *testing.T) {
	t.Parallel()

	got := ComputeBuybackPrice(decimal.RequireFromString("10.0"), 950_000)
	if got != 9_500_000 {
		t.Fatalf("expected 9500000, got %d", got)
	}
}

func TestSnapshotLookupAbsenceSemantics(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot("2026-09-01", []Quote{
		{GoldType: enums.GoldTypeLM, Purity: 999, BuyPerGram: 950_000, SellPerGram: 1_050_000},
		{GoldType: enums.GoldTypeLokal, Purity: 700, BuyPerGram: 0, SellPerGram: 0},
	})

	if sell, ok := snap.SellPerGram(enums.GoldTypeLM, 999); !ok || sell != 1_050_000 {
		t.Fatalf("expected quoted sell price, got %d ok=%v", sell, ok)
	}
	if buy, ok := snap.BuyPerGram(enums.GoldTypeLM, 999); !ok || buy != 950_000 {
		t.Fatalf("expected quoted buy price, got %d ok=%v", buy, ok)
	}

	// No fallback across purities.
	if _, ok := snap.SellPerGram(enums.GoldTypeLM, 750); ok {
		t.Fatal("expected no quote for unlisted purity")
	}

	// A stored zero price is "no price today", not a free item.
	if _, ok := snap.SellPerGram(enums.GoldTypeLokal, 700); ok {
		t.Fatal("expected zero quote to read as unpriced")
	}

	var nilSnap *Snapshot
	if _, ok := nilSnap.SellPerGram(enums.GoldTypeLM, 999); ok {
		t.Fatal("nil snapshot must report absent quotes")
	}
}

type stubQuoteSource struct {
	rows []models.GoldPrice
	err  error

	gotDate string
}

func (s *stubQuoteSource) ListByDate(_ context.Context, date string) ([]models.GoldPrice, error) {
	s.gotDate = date
	return s.rows, s.err
}

func TestServiceTodaySnapshot(t *testing.T) {
	t.Parallel()

	source := &stubQuoteSource{rows: []models.GoldPrice{
		{Date: "2026-09-01", GoldType: enums.GoldTypeUBS, Purity: 750, BuyPrice: 800_000, SellPrice: 880_000},
	}}
	now := func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	svc, err := NewService(source, now)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	snap, err := svc.TodaySnapshot(context.Background())
	if err != nil {
		t.Fatalf("today snapshot: %v", err)
	}
	if source.gotDate != "2026-09-01" {
		t.Fatalf("unexpected date queried: %s", source.gotDate)
	}
	if sell, ok := snap.SellPerGram(enums.GoldTypeUBS, 750); !ok || sell != 880_000 {
		t.Fatalf("expected sell 880000, got %d ok=%v", sell, ok)
	}
}

func TestServiceSnapshotForRejectsBadDate(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubQuoteSource{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.SnapshotFor(context.Background(), "01-09-2026")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}
