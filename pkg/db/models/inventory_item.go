package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// InventoryItem is one uniquely barcoded physical piece. Quantity never
// applies here; two identical rings are two rows.
type InventoryItem struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	BranchID      uuid.UUID             `gorm:"column:branch_id;type:uuid;not null"`
	Barcode       string                `gorm:"column:barcode;not null;uniqueIndex"`
	Status        enums.InventoryStatus `gorm:"column:status;not null;default:available"`
	Location      *string               `gorm:"column:location"`
	PurchasePrice int64                 `gorm:"column:purchase_price;not null"`
	PurchaseDate  *time.Time            `gorm:"column:purchase_date"`
	Supplier      *string               `gorm:"column:supplier"`
	Notes         *string               `gorm:"column:notes"`
	SoldAt        *time.Time            `gorm:"column:sold_at"`
	Product       *Product              `gorm:"foreignKey:ProductID"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (InventoryItem) TableName() string { return "inventory" }
