package reports

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// SalesByDayRow is one day of the range report.
type SalesByDayRow struct {
	Date             string `json:"date"`
	TotalSales       int64  `json:"totalSales"`
	TotalBuyback     int64  `json:"totalBuyback"`
	TransactionCount int64  `json:"transactionCount"`
}

// StockByCategoryRow aggregates the stock ledger per catalog category.
type StockByCategoryRow struct {
	Category       string          `json:"category"`
	TotalItems     int64           `json:"totalItems"`
	AvailableItems int64           `json:"availableItems"`
	SoldItems      int64           `json:"soldItems"`
	TotalWeight    decimal.Decimal `json:"totalWeight"`
	TotalValue     int64           `json:"totalValue"`
}

// Repository runs the read-only aggregate queries behind the report screens.
type Repository interface {
	CompletedTotalForDate(ctx context.Context, date string, trxType enums.TransactionType) (amount int64, count int64, err error)
	CompletedCountForDate(ctx context.Context, date string) (int64, error)
	AvailableStock(ctx context.Context) (count int64, weight decimal.Decimal, err error)
	SalesByDay(ctx context.Context, dateFrom, dateTo string) ([]SalesByDayRow, error)
	PaymentTotalsForDate(ctx context.Context, date string) (map[enums.PaymentMethod]int64, error)
	StockByCategory(ctx context.Context) ([]StockByCategoryRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CompletedTotalForDate(ctx context.Context, date string, trxType enums.TransactionType) (int64, int64, error) {
	var row struct {
		Amount int64
		Count  int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) AS amount, COUNT(*) AS count
		FROM transactions
		WHERE type = ? AND status = ? AND DATE(created_at) = ?`,
		trxType, enums.TransactionStatusCompleted, date,
	).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Amount, row.Count, nil
}

func (r *repository) CompletedCountForDate(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM transactions
		WHERE status = ? AND DATE(created_at) = ?`,
		enums.TransactionStatusCompleted, date,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) AvailableStock(ctx context.Context) (int64, decimal.Decimal, error) {
	var row struct {
		Count  int64
		Weight decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS count, COALESCE(SUM(p.weight_gram), 0) AS weight
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.status = ?`,
		enums.InventoryStatusAvailable,
	).Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	return row.Count, row.Weight, nil
}

func (r *repository) SalesByDay(ctx context.Context, dateFrom, dateTo string) ([]SalesByDayRow, error) {
	var rows []SalesByDayRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE(created_at) AS date,
			COALESCE(SUM(CASE WHEN type = 'sale' AND status = 'completed' THEN total ELSE 0 END), 0) AS total_sales,
			COALESCE(SUM(CASE WHEN type = 'buyback' AND status = 'completed' THEN total ELSE 0 END), 0) AS total_buyback,
			COUNT(*) AS transaction_count
		FROM transactions
		WHERE DATE(created_at) BETWEEN ? AND ?
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)`,
		dateFrom, dateTo,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) PaymentTotalsForDate(ctx context.Context, date string) (map[enums.PaymentMethod]int64, error) {
	var rows []struct {
		Method enums.PaymentMethod
		Amount int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.method AS method, COALESCE(SUM(p.amount), 0) AS amount
		FROM payments p
		JOIN transactions t ON t.id = p.transaction_id
		WHERE p.status = ? AND DATE(t.created_at) = ?
		GROUP BY p.method`,
		enums.PaymentStatusSuccess, date,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[enums.PaymentMethod]int64, len(rows))
	for _, row := range rows {
		totals[row.Method] = row.Amount
	}
	return totals, nil
}

func (r *repository) StockByCategory(ctx context.Context) ([]StockByCategoryRow, error) {
	var rows []StockByCategoryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.name AS category,
			COUNT(*) AS total_items,
			COALESCE(SUM(CASE WHEN i.status = 'available' THEN 1 ELSE 0 END), 0) AS available_items,
			COALESCE(SUM(CASE WHEN i.status = 'sold' THEN 1 ELSE 0 END), 0) AS sold_items,
			COALESCE(SUM(CASE WHEN i.status = 'available' THEN p.weight_gram ELSE 0 END), 0) AS total_weight,
			COALESCE(SUM(CASE WHEN i.status = 'available' THEN i.purchase_price ELSE 0 END), 0) AS total_value
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		JOIN categories c ON c.id = p.category_id
		GROUP BY c.id, c.name
		ORDER BY c.name`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
