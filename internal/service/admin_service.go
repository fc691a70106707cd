package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/whistleblow-portal/internal/auth"
	"github.com/spec-kit/whistleblow-portal/internal/config"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

const minPasswordLength = 8

// AdminService manages handler accounts and the super-admin bootstrap.
type AdminService struct {
	admins     repository.AdminUserRepository
	logger     *zap.Logger
	bcryptCost int
	bootstrap  config.AdminConfig
}

// NewAdminService builds the service.
func NewAdminService(cfg config.Config, admins repository.AdminUserRepository, logger *zap.Logger) *AdminService {
	cost := cfg.Auth.BcryptCost
	if cost <= 0 {
		cost = 12
	}
	return &AdminService{
		admins:     admins,
		logger:     logger,
		bcryptCost: cost,
		bootstrap:  cfg.Admin,
	}
}

// EnsureSuperAdmin creates the bootstrap super admin when absent. Called
// once at startup so exactly one super admin always exists.
func (s *AdminService) EnsureSuperAdmin(ctx context.Context) error {
	_, err := s.admins.GetByUsername(ctx, s.bootstrap.Username)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return err
	}

	hash, err := auth.HashSecret(s.bootstrap.InitPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.AdminUser{
		Username:     s.bootstrap.Username,
		PasswordHash: hash,
		IsSuper:      true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap super admin created", zap.String("username", admin.Username))
	return nil
}

// List returns all handler accounts.
func (s *AdminService) List(ctx context.Context) ([]domain.AdminUser, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return admins, nil
}

// Create adds a non-super handler account.
func (s *AdminService) Create(ctx context.Context, username, email, password string) (*domain.AdminUser, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashSecret(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	admin := &domain.AdminUser{
		Username:     username,
		PasswordHash: hash,
		IsSuper:      false,
	}
	if email != "" {
		admin.Email = &email
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username or email already taken", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return admin, nil
}

// Delete removes a handler account. Super admins are never deletable and no
// admin may delete its own account, regardless of who asks.
func (s *AdminService) Delete(ctx context.Context, actor *domain.AdminUser, id string) error {
	if actor != nil && actor.ID == id {
		return apperrors.NewValidationError("you cannot delete your own account", nil)
	}

	target, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("admin user", nil)
		}
		return apperrors.MapError(err)
	}
	if target.IsSuper {
		return apperrors.NewValidationError("super admins cannot be deleted", nil)
	}

	if err := s.admins.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
