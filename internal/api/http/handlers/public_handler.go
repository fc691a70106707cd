package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whistleblow-portal/internal/api/dto"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/service"
	"github.com/spec-kit/whistleblow-portal/internal/upload"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// PublicHandler exposes the unauthenticated intake surface.
type PublicHandler struct {
	reports  *service.ReportService
	auth     *service.AuthService
	settings *service.SettingsService
	intake   *upload.Intake
}

// NewPublicHandler constructs handler.
func NewPublicHandler(reports *service.ReportService, auth *service.AuthService, settings *service.SettingsService, intake *upload.Intake) *PublicHandler {
	return &PublicHandler{reports: reports, auth: auth, settings: settings, intake: intake}
}

// SubmitReport handles POST /api/reports. The body is multipart so files can
// ride along with the first message.
func (h *PublicHandler) SubmitReport(c *fiber.Ctx) error {
	if err := h.auth.AllowSubmission(c.Context(), c.IP()); err != nil {
		return err
	}

	content := c.FormValue("content")
	category := c.FormValue("category")

	var files []upload.StoredFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files, err = h.intake.Process(c.Context(), form.File["files"])
		if err != nil {
			return err
		}
	}

	_, creds, err := h.reports.Submit(c.Context(), content, category, files)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.SubmitReportResponse{
			CaseCode: creds.CaseCode,
			Secret:   creds.Secret,
			Warning:  dto.CredentialWarning,
		},
	})
}

// Categories handles GET /api/categories.
func (h *PublicHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.Categories()})
}

// Settings handles GET /api/settings. Presentation values only; the write
// side lives behind the super-admin surface.
func (h *PublicHandler) Settings(c *fiber.Ctx) error {
	values, err := h.settings.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": values})
}

// requireJSONBody parses a JSON body into dst.
func requireJSONBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}
