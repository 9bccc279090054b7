package models

import (
	"time"

	"github.com/google/uuid"
)

// Branch is one physical shop location.
type Branch struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Address   *string    `gorm:"column:address"`
	Phone     *string    `gorm:"column:phone"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Branch) TableName() string { return "branches" }
