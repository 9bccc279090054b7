package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurumid/goldpos-backend/pkg/enums"
)

// User is an operator account. Kasir accounts run the POS screen; owner
// accounts additionally manage prices, users, and reports.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID     uuid.UUID      `gorm:"column:branch_id;type:uuid;not null"`
	Username     string         `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FullName     string         `gorm:"column:full_name;not null"`
	Role         enums.UserRole `gorm:"column:role;not null"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLogin    *time.Time     `gorm:"column:last_login"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
