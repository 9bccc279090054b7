package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  sku TEXT,
  name TEXT NOT NULL,
  description TEXT,
  gold_type TEXT NOT NULL,
  gold_purity INTEGER NOT NULL,
  weight_gram NUMERIC NOT NULL,
  labor_cost INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`
	inventory := `
CREATE TABLE IF NOT EXISTS inventory (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  branch_id TEXT NOT NULL,
  barcode TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'available',
  location TEXT,
  purchase_price INTEGER NOT NULL,
  purchase_date DATETIME,
  supplier TEXT,
  notes TEXT,
  sold_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(inventory).Error)
	return db
}

func newCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func newProduct(t *testing.T, db *gorm.DB, category *models.Category, name string, weight string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       name,
		GoldType:   enums.GoldTypeLM,
		GoldPurity: 999,
		WeightGram: decimal.RequireFromString(weight),
		LaborCost:  150_000,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func newItem(t *testing.T, db *gorm.DB, product *models.Product, branchID uuid.UUID, barcode string, status enums.InventoryStatus, price int64) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:            uuid.New(),
		ProductID:     product.ID,
		BranchID:      branchID,
		Barcode:       barcode,
		Status:        status,
		PurchasePrice: price,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestInventoryFindByBarcodePreloadsProduct(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := newCategory(t, db, "Cincin")
	product := newProduct(t, db, category, "Cincin Polos 24K", "5.0")
	branchID := uuid.New()
	newItem(t, db, product, branchID, "AU-0001", enums.InventoryStatusAvailable, 4_000_000)

	item, err := repo.FindByBarcode(ctx, "AU-0001")
	require.NoError(t, err)
	require.NotNil(t, item.Product)
	assert.Equal(t, "Cincin Polos 24K", item.Product.Name)

	_, err = repo.FindByBarcode(ctx, "AU-9999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInventoryListFiltersByStatusAndBranch(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := newCategory(t, db, "Kalung")
	product := newProduct(t, db, category, "Kalung Rantai", "10.0")
	branchA := uuid.New()
	branchB := uuid.New()
	newItem(t, db, product, branchA, "AU-0001", enums.InventoryStatusAvailable, 9_000_000)
	newItem(t, db, product, branchA, "AU-0002", enums.InventoryStatusSold, 9_000_000)
	newItem(t, db, product, branchB, "AU-0003", enums.InventoryStatusAvailable, 9_000_000)

	status := enums.InventoryStatusAvailable
	items, err := repo.List(ctx, ListFilter{BranchID: &branchA, Status: &status})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AU-0001", items[0].Barcode)

	items, err = repo.List(ctx, ListFilter{BranchID: &branchA})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestInventoryStats(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := newCategory(t, db, "Gelang")
	light := newProduct(t, db, category, "Gelang Tipis", "2.5")
	heavy := newProduct(t, db, category, "Gelang Tebal", "7.5")
	branchID := uuid.New()
	newItem(t, db, light, branchID, "AU-0001", enums.InventoryStatusAvailable, 2_000_000)
	newItem(t, db, heavy, branchID, "AU-0002", enums.InventoryStatusAvailable, 6_000_000)
	newItem(t, db, heavy, branchID, "AU-0003", enums.InventoryStatusSold, 6_000_000)

	stats, err := repo.Stats(ctx, branchID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Available)
	assert.Equal(t, int64(1), stats.Sold)
	assert.True(t, stats.AvailableWeight.Equal(decimal.RequireFromString("10.0")), "weight = %s", stats.AvailableWeight)
	assert.Equal(t, int64(8_000_000), stats.AvailableValue)
}

func TestInventoryListProductsSkipsInactive(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := newCategory(t, db, "Anting")
	newProduct(t, db, category, "Anting Bulat", "1.5")

	inactive := &models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "Anting Lama",
		GoldType:   enums.GoldTypeLokal,
		GoldPurity: 700,
		WeightGram: decimal.RequireFromString("1.0"),
		IsActive:   false,
	}
	require.NoError(t, db.Create(inactive).Error)
	// The model's default tag makes gorm skip false on insert.
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Anting Bulat", products[0].Name)
}
