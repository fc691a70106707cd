package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whistleblow-portal/internal/api/dto"
	"github.com/spec-kit/whistleblow-portal/internal/service"
)

// SettingsHandler exposes the settings write surface for the super admin.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Update handles PUT /api/settings. Unknown keys are ignored.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := requireJSONBody(c, &req); err != nil {
		return err
	}

	values, err := h.settings.Update(c.Context(), req.Settings)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": values})
}
