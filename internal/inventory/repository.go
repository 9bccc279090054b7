package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ListFilter narrows the stock listing.
type ListFilter struct {
	BranchID *uuid.UUID
	Status   *enums.InventoryStatus
	Limit    int
}

// Stats is the stock overview shown on the inventory screen.
type Stats struct {
	Total           int64           `json:"total"`
	Available       int64           `json:"available"`
	Sold            int64           `json:"sold"`
	AvailableWeight decimal.Decimal `json:"availableWeight"`
	AvailableValue  int64           `json:"availableValue"`
}

// Repository persists the per-piece stock ledger and its catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error)
	List(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, location string) error
	Stats(ctx context.Context, branchID uuid.UUID) (*Stats, error)

	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("barcode = ?", barcode).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryItem{}).Preload("Product")
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var items []models.InventoryItem
	err := query.Order("created_at DESC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateLocation(ctx context.Context, id uuid.UUID, location string) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("location", location).Error
}

func (r *repository) Stats(ctx context.Context, branchID uuid.UUID) (*Stats, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.InventoryItem{})
		if branchID != uuid.Nil {
			q = q.Where("branch_id = ?", branchID)
		}
		return q
	}

	var stats Stats
	if err := scoped().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("status = ?", enums.InventoryStatusAvailable).Count(&stats.Available).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("status = ?", enums.InventoryStatusSold).Count(&stats.Sold).Error; err != nil {
		return nil, err
	}

	weightQuery := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("COALESCE(SUM(products.weight_gram), 0)").
		Joins("JOIN products ON products.id = inventory.product_id").
		Where("inventory.status = ?", enums.InventoryStatusAvailable)
	if branchID != uuid.Nil {
		weightQuery = weightQuery.Where("inventory.branch_id = ?", branchID)
	}
	var weight decimal.Decimal
	if err := weightQuery.Scan(&weight).Error; err != nil {
		return nil, err
	}
	stats.AvailableWeight = weight

	var value *int64
	valueQuery := scoped().Where("status = ?", enums.InventoryStatusAvailable).Select("SUM(purchase_price)")
	if err := valueQuery.Scan(&value).Error; err != nil {
		return nil, err
	}
	if value != nil {
		stats.AvailableValue = *value
	}
	return &stats, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
