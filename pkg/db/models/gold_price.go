package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// GoldPrice is one day's quote for a (gold type, purity) pair. Prices are
// rupiah per gram; at most one row exists per date/type/purity.
type GoldPrice struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Date      string         `gorm:"column:date;not null;uniqueIndex:idx_gold_prices_day,priority:1"`
	GoldType  enums.GoldType `gorm:"column:gold_type;not null;uniqueIndex:idx_gold_prices_day,priority:2"`
	Purity    int            `gorm:"column:purity;not null;uniqueIndex:idx_gold_prices_day,priority:3"`
	BuyPrice  int64          `gorm:"column:buy_price;not null"`
	SellPrice int64          `gorm:"column:sell_price;not null"`
	Source    *string        `gorm:"column:source"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}
