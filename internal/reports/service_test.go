package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
)

var fixedNow = time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

type stubRepo struct {
	totalsByDate map[string]int64
	countsByDate map[string]int64
	typeTotals   map[string][2]int64
	payments     map[enums.PaymentMethod]int64

	stockCount  int64
	stockWeight decimal.Decimal
}

func (s *stubRepo) CompletedTotalForDate(_ context.Context, date string, trxType enums.TransactionType) (int64, int64, error) {
	if s.typeTotals != nil {
		row := s.typeTotals[date+"|"+string(trxType)]
		return row[0], row[1], nil
	}
	if trxType == enums.TransactionTypeSale {
		return s.totalsByDate[date], 0, nil
	}
	return 0, 0, nil
}

func (s *stubRepo) CompletedCountForDate(_ context.Context, date string) (int64, error) {
	return s.countsByDate[date], nil
}

func (s *stubRepo) AvailableStock(context.Context) (int64, decimal.Decimal, error) {
	return s.stockCount, s.stockWeight, nil
}

func (s *stubRepo) SalesByDay(_ context.Context, _, _ string) ([]SalesByDayRow, error) {
	return []SalesByDayRow{}, nil
}

func (s *stubRepo) PaymentTotalsForDate(_ context.Context, _ string) (map[enums.PaymentMethod]int64, error) {
	return s.payments, nil
}

func (s *stubRepo) StockByCategory(context.Context) ([]StockByCategoryRow, error) {
	return nil, nil
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo, func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestDashboardComparesAgainstYesterday(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		totalsByDate: map[string]int64{
			"2026-09-01": 12_000_000,
			"2026-08-31": 10_000_000,
		},
		countsByDate: map[string]int64{
			"2026-09-01": 6,
			"2026-08-31": 8,
		},
		stockCount:  42,
		stockWeight: decimal.RequireFromString("215.5"),
	}
	svc := newTestService(t, repo)

	summary, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if summary.TodaySales != 12_000_000 || summary.TodayTransactions != 6 {
		t.Fatalf("today = %d/%d, want 12000000/6", summary.TodaySales, summary.TodayTransactions)
	}
	if summary.SalesChange != 20.0 {
		t.Fatalf("sales change = %v, want 20.0", summary.SalesChange)
	}
	if summary.TransactionsChange != -25.0 {
		t.Fatalf("transactions change = %v, want -25.0", summary.TransactionsChange)
	}
	if summary.TotalStock != 42 || !summary.TotalWeight.Equal(decimal.RequireFromString("215.5")) {
		t.Fatalf("stock = %d/%s", summary.TotalStock, summary.TotalWeight)
	}
}

func TestPercentChangeEdgeCases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		today     int64
		yesterday int64
		want      float64
	}{
		{"no movement either day", 0, 0, 0},
		{"first sales ever", 500, 0, 100},
		{"down to zero", 0, 500, -100},
		{"one decimal rounding", 1000, 3000, -66.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := percentChange(tc.today, tc.yesterday); got != tc.want {
				t.Fatalf("percentChange(%d, %d) = %v, want %v", tc.today, tc.yesterday, got, tc.want)
			}
		})
	}
}

func TestDailySummaryBreaksDownPayments(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		typeTotals: map[string][2]int64{
			"2026-09-01|sale":     {9_000_000, 3},
			"2026-09-01|buyback":  {2_000_000, 1},
			"2026-09-01|exchange": {1_500_000, 1},
		},
		payments: map[enums.PaymentMethod]int64{
			enums.PaymentMethodCash: 5_000_000,
			enums.PaymentMethodQRIS: 4_000_000,
		},
	}
	svc := newTestService(t, repo)

	summary, err := svc.DailySummary(context.Background(), "2026-09-01")
	if err != nil {
		t.Fatalf("DailySummary: %v", err)
	}
	if summary.SalesAmount != 9_000_000 || summary.SalesCount != 3 {
		t.Fatalf("sales = %d/%d", summary.SalesAmount, summary.SalesCount)
	}
	if summary.ExchangeAmount != 1_500_000 {
		t.Fatalf("exchange = %d", summary.ExchangeAmount)
	}
	if summary.Payments.Cash != 5_000_000 || summary.Payments.QRIS != 4_000_000 || summary.Payments.BankTransfer != 0 {
		t.Fatalf("payments = %+v", summary.Payments)
	}
}

func TestSalesReportValidatesRange(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubRepo{})

	_, err := svc.SalesReport(context.Background(), "2026/09/01", "2026-09-02")
	assertValidation(t, err)

	_, err = svc.SalesReport(context.Background(), "2026-09-02", "2026-09-01")
	assertValidation(t, err)
}

func assertValidation(t *testing.T, err error) {
	t.Helper()

	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
