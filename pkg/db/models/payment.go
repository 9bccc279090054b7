package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID uuid.UUID           `gorm:"column:transaction_id;type:uuid;not null"`
	Method        enums.PaymentMethod `gorm:"column:method;not null"`
	Amount        int64               `gorm:"column:amount;not null"`
	ReferenceNo   *string             `gorm:"column:reference_no"`
	BankName      *string             `gorm:"column:bank_name"`
	Status        enums.PaymentStatus `gorm:"column:status;not null;default:pending"`
	PaidAt        *time.Time          `gorm:"column:paid_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
