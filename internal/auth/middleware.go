package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller: either a case handler or a
// report acting as its own pseudonymous account. Exactly one of Admin and
// Report is set.
type Principal struct {
	Kind   domain.PrincipalKind
	Admin  *domain.AdminUser
	Report *domain.Report
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens  *TokenManager
	admins  repository.AdminUserRepository
	reports repository.ReportRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, admins repository.AdminUserRepository, reports repository.ReportRepository) *Middleware {
	return &Middleware{tokens: tokens, admins: admins, reports: reports}
}

// RequireAdmin authenticates an admin token and rejects every other kind.
func (m *Middleware) RequireAdmin(c *fiber.Ctx) error {
	return m.require(c, domain.PrincipalAdmin)
}

// RequireReport authenticates a report token and rejects every other kind.
func (m *Middleware) RequireReport(c *fiber.Ctx) error {
	return m.require(c, domain.PrincipalReport)
}

// RequireAny accepts either token kind; handlers branch on the resolved
// principal. Used by the attachment download endpoint.
func (m *Middleware) RequireAny(c *fiber.Ctx) error {
	return m.require(c, "")
}

func (m *Middleware) require(c *fiber.Ctx, wantKind domain.PrincipalKind) error {
	claims, err := m.parseBearer(c)
	if err != nil {
		return err
	}
	if wantKind != "" && claims.Kind != wantKind {
		return apperrors.NewForbidden("access denied")
	}

	principal := &Principal{Kind: claims.Kind}

	switch claims.Kind {
	case domain.PrincipalAdmin:
		admin, err := m.admins.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("invalid token")
			}
			return apperrors.MapError(err)
		}
		principal.Admin = admin
	case domain.PrincipalReport:
		report, err := m.reports.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("invalid token")
			}
			return apperrors.MapError(err)
		}
		principal.Report = report
	default:
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *Middleware) parseBearer(c *fiber.Ctx) (*Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	return claims, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireSuperAdmin ensures the admin principal carries the super flag. Must
// run after RequireAdmin.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Admin == nil {
			return apperrors.NewUnauthorized("admin required")
		}
		if !principal.Admin.IsSuper {
			return apperrors.NewForbidden("super admin required")
		}
		return c.Next()
	}
}
