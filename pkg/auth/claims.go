package auth

import (
	"github.com/aurumid/goldpos-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	BranchID uuid.UUID
	Role     enums.UserRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to cashier terminals.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	BranchID uuid.UUID      `json:"branch_id"`
	Role     enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
