package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurumid/goldpos-backend/pkg/config"
	"github.com/aurumid/goldpos-backend/pkg/db/models"
	"github.com/aurumid/goldpos-backend/pkg/enums"
	pkgerrors "github.com/aurumid/goldpos-backend/pkg/errors"
	"github.com/aurumid/goldpos-backend/pkg/security"
)

// low-cost params keep argon2 fast in tests
var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubRepo struct {
	byID      map[uuid.UUID]*models.User
	createErr error

	passwordHash string
	active       *bool
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user.ID = uuid.New()
	if s.byID == nil {
		s.byID = map[uuid.UUID]*models.User{}
	}
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubRepo) FindActiveByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range s.byID {
		if user.Username == username && user.IsActive {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(context.Context) ([]models.User, error) { return nil, nil }

func (s *stubRepo) UpdatePasswordHash(_ context.Context, _ uuid.UUID, hash string) error {
	s.passwordHash = hash
	return nil
}

func (s *stubRepo) SetActive(_ context.Context, _ uuid.UUID, active bool) error {
	s.active = &active
	return nil
}

func (s *stubRepo) TouchLastLogin(context.Context, uuid.UUID) error { return nil }

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo, testPasswordCfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateGeneratesTempPasswordWhenBlank(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)

	result, err := svc.Create(context.Background(), CreateInput{
		BranchID: uuid.New(),
		Username: "Kasir1",
		FullName: "Dewi Kasir",
		Role:     enums.UserRoleKasir,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.TempPassword == "" {
		t.Fatal("expected a generated temp password")
	}
	if result.User.Username != "kasir1" {
		t.Fatalf("username = %q, want lowercased", result.User.Username)
	}

	ok, err := security.VerifyPassword(result.TempPassword, result.User.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("temp password must verify against stored hash (ok=%v err=%v)", ok, err)
	}
}

func TestCreateKeepsExplicitPassword(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)

	result, err := svc.Create(context.Background(), CreateInput{
		BranchID: uuid.New(),
		Username: "owner",
		Password: "rahasia-toko-1",
		FullName: "Pak Owner",
		Role:     enums.UserRoleOwner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.TempPassword != "" {
		t.Fatal("explicit password must not produce a temp one")
	}
	ok, err := security.VerifyPassword("rahasia-toko-1", result.User.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("password must verify (ok=%v err=%v)", ok, err)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"blank username", CreateInput{BranchID: uuid.New(), FullName: "x", Role: enums.UserRoleKasir}},
		{"blank full name", CreateInput{BranchID: uuid.New(), Username: "x", Role: enums.UserRoleKasir}},
		{"bad role", CreateInput{BranchID: uuid.New(), Username: "x", FullName: "x", Role: "admin"}},
		{"missing branch", CreateInput{Username: "x", FullName: "x", Role: enums.UserRoleKasir}},
		{"short password", CreateInput{BranchID: uuid.New(), Username: "x", FullName: "x", Role: enums.UserRoleKasir, Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, &stubRepo{})
			_, err := svc.Create(context.Background(), tc.input)
			var coded *pkgerrors.Error
			if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDuplicateUsernameConflicts(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{createErr: errors.New(`duplicate key value violates unique constraint "idx_users_username"`)}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateInput{
		BranchID: uuid.New(),
		Username: "kasir1",
		FullName: "Dewi",
		Role:     enums.UserRoleKasir,
	})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestChangePasswordRequiresExistingUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubRepo{})
	err := svc.ChangePassword(context.Background(), uuid.New(), "panjang-sekali-1")
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetActiveTogglesFlag(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Username: "kasir1", IsActive: true}
	repo := &stubRepo{byID: map[uuid.UUID]*models.User{user.ID: user}}
	svc := newTestService(t, repo)

	if err := svc.SetActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if repo.active == nil || *repo.active {
		t.Fatal("expected repo to record deactivation")
	}
}
