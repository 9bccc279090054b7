package models

import (
	"github.com/google/uuid"
)

// TransactionItem links a transaction to one inventory item at the price it
// was rung up.
type TransactionItem struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID uuid.UUID      `gorm:"column:transaction_id;type:uuid;not null"`
	InventoryID   uuid.UUID      `gorm:"column:inventory_id;type:uuid;not null"`
	Quantity      int            `gorm:"column:quantity;not null;default:1"`
	UnitPrice     int64          `gorm:"column:unit_price;not null"`
	Subtotal      int64          `gorm:"column:subtotal;not null"`
	GoldPriceRef  *int64         `gorm:"column:gold_price_ref"`
	Inventory     *InventoryItem `gorm:"foreignKey:InventoryID"`
}
