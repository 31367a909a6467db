package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"payrollportal/internal/config"
	"payrollportal/internal/model"
	"payrollportal/internal/repository"
	"payrollportal/internal/security"
)

var (
	ErrDuplicateOwner = errors.New("owner id already registered")
	// ErrInvalidCredentials covers both an unknown owner id and a wrong
	// password; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFieldsRequired     = errors.New("owner id and password are required")
)

// AccountService defines the use cases of the credential store.
type AccountService interface {
	// Register creates an employee account. Fails with ErrDuplicateOwner if
	// the owner id is already taken; the existing account stays unchanged.
	Register(ctx context.Context, ownerID, password, displayName string) (*model.Account, error)

	// Authenticate returns the account iff the owner id exists and the
	// password matches its hash; otherwise ErrInvalidCredentials.
	Authenticate(ctx context.Context, ownerID, password string) (*model.Account, error)

	// ListEmployees returns the non-admin roster.
	ListEmployees(ctx context.Context) ([]model.Account, error)

	// Delete removes an account. Missing accounts are a no-op. Documents
	// belonging to the owner are deliberately left in place.
	Delete(ctx context.Context, ownerID string) error

	// EnsureAdmin seeds the administrator account if it does not exist yet.
	// Idempotent across restarts.
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type accountService struct {
	repo repository.AccountRepository
}

// NewAccountService constructs a new AccountService.
func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) Register(ctx context.Context, ownerID, password, displayName string) (*model.Account, error) {
	if ownerID == "" || password == "" {
		return nil, ErrFieldsRequired
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &model.Account{
		OwnerID:      ownerID,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         model.RoleEmployee,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateOwner
		}
		return nil, err
	}
	return acc, nil
}

func (s *accountService) Authenticate(ctx context.Context, ownerID, password string) (*model.Account, error) {
	if ownerID == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	acc, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.VerifyPassword(password, acc.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

func (s *accountService) ListEmployees(ctx context.Context) ([]model.Account, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *accountService) Delete(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return ErrFieldsRequired
	}
	return s.repo.Delete(ctx, ownerID)
}

func (s *accountService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	_, err := s.repo.FindByOwnerID(ctx, cfg.OwnerID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &model.Account{
		OwnerID:      cfg.OwnerID,
		PasswordHash: hash,
		DisplayName:  cfg.DisplayName,
		Role:         model.RoleAdmin,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		// A concurrent seeder beat us to it; the account exists, job done.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return err
	}
	return nil
}
