package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whistleblow-portal/internal/auth"
	"github.com/spec-kit/whistleblow-portal/internal/config"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// Throttle scopes, one per credential namespace so an attack on one login
// endpoint cannot exhaust the other's budget.
const (
	scopeAdminLogin  = "admin_login"
	scopeReportLogin = "report_login"
	scopeSubmit      = "submit"
)

// AuthService coordinates both login flows and issues the matching token
// kinds.
type AuthService struct {
	admins   repository.AdminUserRepository
	reports  repository.ReportRepository
	tokenMgr *auth.TokenManager
	login    auth.Throttle
	submit   auth.Throttle
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AdminRepo      repository.AdminUserRepository
	ReportRepo     repository.ReportRepository
	LoginThrottle  auth.Throttle
	SubmitThrottle auth.Throttle
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		admins:   deps.AdminRepo,
		reports:  deps.ReportRepo,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		login:    deps.LoginThrottle,
		submit:   deps.SubmitThrottle,
	}
}

// invalidCredentials is the single error for every failed login. Unknown
// subject and wrong secret must be indistinguishable to the caller.
func invalidCredentials() error {
	return apperrors.NewUnauthorized("invalid credentials")
}

// LoginAdmin authenticates a case handler and issues an admin token.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password, client string) (*domain.AdminUser, string, time.Time, error) {
	if err := s.checkThrottle(ctx, scopeAdminLogin, client); err != nil {
		return nil, "", time.Time{}, err
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.recordFailure(ctx, scopeAdminLogin, client)
			return nil, "", time.Time{}, invalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.CompareSecret(admin.PasswordHash, password); err != nil {
		s.recordFailure(ctx, scopeAdminLogin, client)
		return nil, "", time.Time{}, invalidCredentials()
	}

	token, exp, err := s.tokenMgr.Generate(admin.ID, domain.PrincipalAdmin)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return admin, token, exp, nil
}

// LoginReport authenticates a reporter by case code and secret and issues a
// report token carrying the report id.
func (s *AuthService) LoginReport(ctx context.Context, caseCode, secret, client string) (*domain.Report, string, time.Time, error) {
	if err := s.checkThrottle(ctx, scopeReportLogin, client); err != nil {
		return nil, "", time.Time{}, err
	}

	report, err := s.reports.GetByCaseCode(ctx, caseCode)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.recordFailure(ctx, scopeReportLogin, client)
			return nil, "", time.Time{}, invalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.CompareSecret(report.SecretHash, secret); err != nil {
		s.recordFailure(ctx, scopeReportLogin, client)
		return nil, "", time.Time{}, invalidCredentials()
	}

	token, exp, err := s.tokenMgr.Generate(report.ID, domain.PrincipalReport)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return report, token, exp, nil
}

// AllowSubmission throttles report submissions per client and records the
// accepted attempt.
func (s *AuthService) AllowSubmission(ctx context.Context, client string) error {
	if s.submit == nil {
		return nil
	}
	ok, err := s.submit.Allow(ctx, scopeSubmit, client)
	if err != nil {
		return nil
	}
	if !ok {
		return apperrors.NewTooManyRequests("too many submissions, please try again later")
	}
	_ = s.submit.Record(ctx, scopeSubmit, client)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) checkThrottle(ctx context.Context, scope, client string) error {
	if s.login == nil {
		return nil
	}
	ok, err := s.login.Allow(ctx, scope, client)
	if err != nil {
		return nil
	}
	if !ok {
		return apperrors.NewTooManyRequests("too many login attempts, please try again later")
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, scope, client string) {
	if s.login == nil {
		return
	}
	_ = s.login.Record(ctx, scope, client)
}
