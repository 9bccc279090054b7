package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// BuybackItem records customer-sold gold on a buyback or exchange
// transaction. These are raw-material entries, so they carry weight and
// purity instead of an inventory reference.
type BuybackItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null"`
	GoldType      enums.GoldType  `gorm:"column:gold_type;not null"`
	GoldPurity    int             `gorm:"column:gold_purity;not null"`
	WeightGram    decimal.Decimal `gorm:"column:weight_gram;type:numeric(10,3);not null"`
	UnitPrice     int64           `gorm:"column:unit_price;not null"`
}
