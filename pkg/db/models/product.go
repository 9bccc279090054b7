package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// Product is the catalog definition an inventory item is minted from: what
// the piece is, its gold type and fineness, weight, and making charge.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	SKU         *string         `gorm:"column:sku"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	GoldType    enums.GoldType  `gorm:"column:gold_type;not null"`
	GoldPurity  int             `gorm:"column:gold_purity;not null"`
	WeightGram  decimal.Decimal `gorm:"column:weight_gram;type:numeric(10,3);not null"`
	LaborCost   int64           `gorm:"column:labor_cost;not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
