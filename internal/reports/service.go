package reports

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/internal/pricing"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

// DashboardSummary feeds the owner's landing screen: today against
// yesterday plus the stock position.
type DashboardSummary struct {
	TodaySales         int64           `json:"todaySales"`
	TodayTransactions  int64           `json:"todayTransactions"`
	TotalStock         int64           `json:"totalStock"`
	TotalWeight        decimal.Decimal `json:"totalWeight"`
	SalesChange        float64         `json:"salesChange"`
	TransactionsChange float64         `json:"transactionsChange"`
}

// PaymentBreakdown splits a day's takings by method.
type PaymentBreakdown struct {
	Cash         int64 `json:"cash"`
	QRIS         int64 `json:"qris"`
	BankTransfer int64 `json:"bankTransfer"`
}

// DailySummary is the end-of-day closing sheet for one date.
type DailySummary struct {
	Date           string           `json:"date"`
	SalesCount     int64            `json:"salesCount"`
	SalesAmount    int64            `json:"salesAmount"`
	BuybackCount   int64            `json:"buybackCount"`
	BuybackAmount  int64            `json:"buybackAmount"`
	ExchangeCount  int64            `json:"exchangeCount"`
	ExchangeAmount int64            `json:"exchangeAmount"`
	Payments       PaymentBreakdown `json:"payments"`
}

// Service aggregates the ledger into the report screens. Everything here is
// read-only.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardSummary, error)
	SalesReport(ctx context.Context, dateFrom, dateTo string) ([]SalesByDayRow, error)
	DailySummary(ctx context.Context, date string) (*DailySummary, error)
	StockReport(ctx context.Context) ([]StockByCategoryRow, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the reports service.
func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	now := s.now()
	today := now.Format(pricing.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(pricing.DateLayout)

	todaySales, _, err := s.repo.CompletedTotalForDate(ctx, today, enums.TransactionTypeSale)
	if err != nil {
		return nil, wrapErr(err, "today's sales")
	}
	yesterdaySales, _, err := s.repo.CompletedTotalForDate(ctx, yesterday, enums.TransactionTypeSale)
	if err != nil {
		return nil, wrapErr(err, "yesterday's sales")
	}
	todayCount, err := s.repo.CompletedCountForDate(ctx, today)
	if err != nil {
		return nil, wrapErr(err, "today's transaction count")
	}
	yesterdayCount, err := s.repo.CompletedCountForDate(ctx, yesterday)
	if err != nil {
		return nil, wrapErr(err, "yesterday's transaction count")
	}
	stockCount, stockWeight, err := s.repo.AvailableStock(ctx)
	if err != nil {
		return nil, wrapErr(err, "available stock")
	}

	return &DashboardSummary{
		TodaySales:         todaySales,
		TodayTransactions:  todayCount,
		TotalStock:         stockCount,
		TotalWeight:        stockWeight,
		SalesChange:        percentChange(todaySales, yesterdaySales),
		TransactionsChange: percentChange(todayCount, yesterdayCount),
	}, nil
}

func (s *service) SalesReport(ctx context.Context, dateFrom, dateTo string) ([]SalesByDayRow, error) {
	from, err := time.Parse(pricing.DateLayout, dateFrom)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date-from must be formatted YYYY-MM-DD")
	}
	to, err := time.Parse(pricing.DateLayout, dateTo)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date-to must be formatted YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date-to is before date-from")
	}

	rows, err := s.repo.SalesByDay(ctx, dateFrom, dateTo)
	if err != nil {
		return nil, wrapErr(err, "sales report")
	}
	return rows, nil
}

func (s *service) DailySummary(ctx context.Context, date string) (*DailySummary, error) {
	if _, err := time.Parse(pricing.DateLayout, date); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD")
	}

	summary := &DailySummary{Date: date}
	var err error
	if summary.SalesAmount, summary.SalesCount, err = s.repo.CompletedTotalForDate(ctx, date, enums.TransactionTypeSale); err != nil {
		return nil, wrapErr(err, "daily sales")
	}
	if summary.BuybackAmount, summary.BuybackCount, err = s.repo.CompletedTotalForDate(ctx, date, enums.TransactionTypeBuyback); err != nil {
		return nil, wrapErr(err, "daily buyback")
	}
	if summary.ExchangeAmount, summary.ExchangeCount, err = s.repo.CompletedTotalForDate(ctx, date, enums.TransactionTypeExchange); err != nil {
		return nil, wrapErr(err, "daily exchange")
	}

	payments, err := s.repo.PaymentTotalsForDate(ctx, date)
	if err != nil {
		return nil, wrapErr(err, "daily payments")
	}
	summary.Payments = PaymentBreakdown{
		Cash:         payments[enums.PaymentMethodCash],
		QRIS:         payments[enums.PaymentMethodQRIS],
		BankTransfer: payments[enums.PaymentMethodBankTransfer],
	}
	return summary, nil
}

func (s *service) StockReport(ctx context.Context) ([]StockByCategoryRow, error) {
	rows, err := s.repo.StockByCategory(ctx)
	if err != nil {
		return nil, wrapErr(err, "stock report")
	}
	return rows, nil
}

// percentChange reports today against yesterday rounded to one decimal.
// A zero yesterday yields 100 when today has movement, 0 otherwise.
func percentChange(today, yesterday int64) float64 {
	if yesterday == 0 {
		if today > 0 {
			return 100
		}
		return 0
	}
	change := (float64(today) - float64(yesterday)) / float64(yesterday) * 100
	return math.Round(change*10) / 10
}

func wrapErr(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
