package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/pkg/id"
	"github.com/campus-portal-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateAdminRequest) (*domain.Admin, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Admin, string, error)
	Get(ctx context.Context, adminID string) (*domain.Admin, error)
	Delete(ctx context.Context, adminID string) error
	EnsureBootstrap(ctx context.Context, username, email, password string) error
}

type adminStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Put(ctx context.Context, a *domain.Admin) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Admin, string, error)
	Get(ctx context.Context, adminID string) (*domain.Admin, error)
	SoftDelete(ctx context.Context, adminID string) error
}

type sessionStore interface {
	SoftDeleteByAdmin(ctx context.Context, adminID string) error
}

type ServiceDeps struct {
	AdminRepo   adminStore
	SessionRepo sessionStore
}

type service struct {
	repo        adminStore
	sessionRepo sessionStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.AdminRepo, sessionRepo: deps.SessionRepo}
}

func (s *service) Create(ctx context.Context, req domain.CreateAdminRequest) (*domain.Admin, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	email := domain.NormalizeEmail(req.Email)
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", domain.ErrConflict)
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleStaff
	}
	now := time.Now().UTC()
	a := &domain.Admin{
		AdminID:      id.New(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Admin, string, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, adminID string) (*domain.Admin, error) {
	a, err := s.repo.Get(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !a.Enable {
		return nil, fmt.Errorf("admin not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

// Delete disables the account and all of its sessions.
func (s *service) Delete(ctx context.Context, adminID string) error {
	if err := s.repo.SoftDelete(ctx, adminID); err != nil {
		return err
	}
	return s.sessionRepo.SoftDeleteByAdmin(ctx, adminID)
}

// EnsureBootstrap creates the first admin account from configuration when
// no account with that username exists yet.
func (s *service) EnsureBootstrap(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	_, err := s.Create(ctx, domain.CreateAdminRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	slog.Info("bootstrap admin created", "username", username)
	return nil
}
