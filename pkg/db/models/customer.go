package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string    `gorm:"column:name;not null"`
	Phone             *string   `gorm:"column:phone"`
	NIK               *string   `gorm:"column:nik"`
	Address           *string   `gorm:"column:address"`
	Notes             *string   `gorm:"column:notes"`
	TotalTransactions int       `gorm:"column:total_transactions;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}
