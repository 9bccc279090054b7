package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

// DateLayout is the canonical day key used by the price table.
const DateLayout = "2006-01-02"

type quoteSource interface {
	ListByDate(ctx context.Context, date string) ([]models.GoldPrice, error)
}

// Service resolves daily price snapshots for the cart and calculators.
type Service interface {
	TodaySnapshot(ctx context.Context) (*Snapshot, error)
	SnapshotFor(ctx context.Context, date string) (*Snapshot, error)
}

type service struct {
	source quoteSource
	now    func() time.Time
}

// NewService builds a pricing service backed by the provided quote source.
func NewService(source quoteSource, now func() time.Time) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("quote source required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{source: source, now: now}, nil
}

func (s *service) TodaySnapshot(ctx context.Context) (*Snapshot, error) {
	return s.SnapshotFor(ctx, s.now().Format(DateLayout))
}

func (s *service) SnapshotFor(ctx context.Context, date string) (*Snapshot, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD")
	}
	rows, err := s.source.ListByDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gold prices")
	}
	quotes := make([]Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, Quote{
			GoldType:    row.GoldType,
			Purity:      row.Purity,
			BuyPerGram:  row.BuyPrice,
			SellPerGram: row.SellPrice,
		})
	}
	return NewSnapshot(date, quotes), nil
}
