package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// Transaction is the header row for a sale, buyback, or exchange. Totals are
// stored denormalized so a receipt can be reprinted with the amounts as they
// were at the counter.
type Transaction struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID     uuid.UUID               `gorm:"column:branch_id;type:uuid;not null"`
	UserID       uuid.UUID               `gorm:"column:user_id;type:uuid;not null"`
	CustomerID   *uuid.UUID              `gorm:"column:customer_id;type:uuid"`
	InvoiceNo    string                  `gorm:"column:invoice_no;not null;uniqueIndex"`
	Type         enums.TransactionType   `gorm:"column:type;not null"`
	Subtotal     int64                   `gorm:"column:subtotal;not null"`
	Discount     int64                   `gorm:"column:discount;not null;default:0"`
	Tax          int64                   `gorm:"column:tax;not null;default:0"`
	Total        int64                   `gorm:"column:total;not null"`
	Notes        *string                 `gorm:"column:notes"`
	Status       enums.TransactionStatus `gorm:"column:status;not null;default:pending"`
	Customer     *Customer               `gorm:"foreignKey:CustomerID"`
	Items        []TransactionItem       `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	BuybackItems []BuybackItem           `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	Payments     []Payment               `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
}
