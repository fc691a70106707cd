package dto

import (
	"time"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
)

// AdminUserResponse describes a handler account. Password hashes never leave
// the server.
type AdminUserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	IsSuper   bool      `json:"is_super"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAdminRequest is the super-admin account creation body.
type CreateAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateSettingsRequest is the settings upsert body.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings"`
}

// FromAdminUser maps a handler account.
func FromAdminUser(u domain.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsSuper:   u.IsSuper,
		CreatedAt: u.CreatedAt,
	}
}
