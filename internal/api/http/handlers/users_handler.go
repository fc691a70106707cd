package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whistleblow-portal/internal/api/dto"
	"github.com/spec-kit/whistleblow-portal/internal/service"
)

// UsersHandler exposes handler-account management, restricted to the super
// admin by route middleware.
type UsersHandler struct {
	admins *service.AdminService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(admins *service.AdminService) *UsersHandler {
	return &UsersHandler{admins: admins}
}

// List handles GET /api/admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.admins.List(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromAdminUser(u))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create handles POST /api/admin/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := requireJSONBody(c, &req); err != nil {
		return err
	}

	user, err := h.admins.Create(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromAdminUser(*user)})
}

// Delete handles DELETE /api/admin/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentAdmin(c)
	if err != nil {
		return err
	}
	if err := h.admins.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
