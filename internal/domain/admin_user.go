package domain

import "time"

// AdminUser models a case handler with portal access. Exactly one super
// admin exists at all times; it is created at startup if absent and can
// never be deleted.
type AdminUser struct {
	ID           string
	Username     string
	Email        *string
	PasswordHash string
	IsSuper      bool
	CreatedAt    time.Time
}
