package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/aurumid/goldpos-backend/pkg/auth"
	"github.com/aurumid/goldpos-backend/pkg/config"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/logger"
	"github.com/aurumid/goldpos-backend/pkg/security"
)

type userSource interface {
	FindActiveByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// LoginResult is a minted session for one operator.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Service authenticates operators and mints access tokens.
type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type service struct {
	users userSource
	jwt   config.JWTConfig
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds the auth service.
func NewService(users userSource, jwt config.JWTConfig, logg *logger.Logger, now func() time.Time) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user source required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{users: users, jwt: jwt, logg: logg, now: now}, nil
}

// Login verifies the credentials and returns a signed access token. Unknown
// usernames and wrong passwords report the same error so the response does
// not reveal which accounts exist.
func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password required")
	}

	user, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, invalidCredentials()
	}

	now := s.now()
	token, err := pkgauth.MintAccessToken(s.jwt, now, pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		BranchID: user.BranchID,
		Role:     user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	// Best effort: a failed timestamp update must not block the login.
	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "update last login")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(s.jwt.ExpirationMinutes) * time.Minute),
		User:      user,
	}, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
}
