package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// ListFilter narrows the transaction journal query.
type ListFilter struct {
	DateFrom *string
	DateTo   *string
	Type     *enums.TransactionType
	Status   *enums.TransactionStatus
	Limit    int
}

// Repository persists transaction headers, lines, and payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error)
	CreateItems(ctx context.Context, items []models.TransactionItem) error
	CreateBuybackItems(ctx context.Context, items []models.BuybackItem) error
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	CountByInvoicePattern(ctx context.Context, pattern string) (int64, error)
	SumSucceededPayments(ctx context.Context, transactionID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TransactionStatus) error
	UpdateStatusAndNotes(ctx context.Context, id uuid.UUID, status enums.TransactionStatus, notes string) error
	ReserveInventory(ctx context.Context, inventoryIDs []uuid.UUID) error
	MarkInventorySold(ctx context.Context, transactionID uuid.UUID, soldAt time.Time) error
	RestoreInventory(ctx context.Context, transactionID uuid.UUID) error
	BumpCustomerTransactions(ctx context.Context, customerID uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a transactions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(trx).Error; err != nil {
		return nil, err
	}
	return trx, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) CreateBuybackItems(ctx context.Context, items []models.BuybackItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var trx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("BuybackItems").
		Preload("Payments").
		Where("id = ?", id).
		First(&trx).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *repository) CountByInvoicePattern(ctx context.Context, pattern string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("invoice_no LIKE ?", pattern).
		Count(&count).Error
	return count, err
}

func (r *repository) SumSucceededPayments(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("SUM(amount)").
		Where("transaction_id = ? AND status = ?", transactionID, enums.PaymentStatusSuccess).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TransactionStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) UpdateStatusAndNotes(ctx context.Context, id uuid.UUID, status enums.TransactionStatus, notes string) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": status,
			"notes":  notes,
		}).Error
}

func (r *repository) ReserveInventory(ctx context.Context, inventoryIDs []uuid.UUID) error {
	if len(inventoryIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id IN ?", inventoryIDs).
		Update("status", enums.InventoryStatusReserved).Error
}

func (r *repository) MarkInventorySold(ctx context.Context, transactionID uuid.UUID, soldAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id IN (?)", r.db.Model(&models.TransactionItem{}).
			Select("inventory_id").
			Where("transaction_id = ?", transactionID),
		).
		Updates(map[string]any{
			"status":  enums.InventoryStatusSold,
			"sold_at": soldAt,
		}).Error
}

func (r *repository) RestoreInventory(ctx context.Context, transactionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id IN (?)", r.db.Model(&models.TransactionItem{}).
			Select("inventory_id").
			Where("transaction_id = ?", transactionID),
		).
		Updates(map[string]any{
			"status":  enums.InventoryStatusAvailable,
			"sold_at": nil,
		}).Error
}

func (r *repository) BumpCustomerTransactions(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("total_transactions", gorm.Expr("total_transactions + 1")).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		// DateTo is inclusive, so compare against the end of that day.
		query = query.Where("created_at < ?", *filter.DateTo+" 23:59:59.999999")
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []models.Transaction
	err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
