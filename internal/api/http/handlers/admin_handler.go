package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whistleblow-portal/internal/api/dto"
	"github.com/spec-kit/whistleblow-portal/internal/auth"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/service"
	"github.com/spec-kit/whistleblow-portal/internal/upload"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// AdminHandler serves the case-handler surface.
type AdminHandler struct {
	auth    *service.AuthService
	reports *service.ReportService
	export  *service.ExportService
	intake  *upload.Intake
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, reports *service.ReportService, export *service.ExportService, intake *upload.Intake) *AdminHandler {
	return &AdminHandler{auth: authService, reports: reports, export: export, intake: intake}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := requireJSONBody(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	admin, token, exp, err := h.auth.LoginAdmin(c.Context(), req.Username, req.Password, c.IP())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AdminLoginResponse{
			Token:     token,
			ExpiresAt: exp,
			Admin:     dto.FromAdminUser(*admin),
		},
	})
}

// ListReports handles GET /api/admin/reports.
func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	summaries, err := h.reports.ListSummaries(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.ReportSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.FromSummary(s))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GetReport handles GET /api/admin/reports/:id.
func (h *AdminHandler) GetReport(c *fiber.Ctx) error {
	report, msgs, err := h.reports.Thread(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromReportDetail(report, msgs)})
}

// AddMessage handles POST /api/admin/reports/:id/messages. Accepts multipart
// so handlers can attach documents to their replies.
func (h *AdminHandler) AddMessage(c *fiber.Ctx) error {
	content := c.FormValue("content")
	var files []upload.StoredFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files, err = h.intake.Process(c.Context(), form.File["files"])
		if err != nil {
			return err
		}
	}

	msg, err := h.reports.AddMessage(c.Context(), c.Params("id"), domain.SenderAdmin, content, files)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromMessage(*msg)})
}

// UpdateStatus handles PATCH /api/admin/reports/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := requireJSONBody(c, &req); err != nil {
		return err
	}

	report, err := h.reports.UpdateStatus(c.Context(), c.Params("id"), domain.ReportStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromReportDetail(report, nil)})
}

// ConfirmReceipt handles POST /api/admin/reports/:id/confirmation.
func (h *AdminHandler) ConfirmReceipt(c *fiber.Ctx) error {
	msg, err := h.reports.ConfirmReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromMessage(*msg)})
}

// ExportProtocol handles GET /api/admin/reports/:id/export.
func (h *AdminHandler) ExportProtocol(c *fiber.Ctx) error {
	payload, filename, err := h.export.CaseProtocol(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(payload)
}

// currentAdmin resolves the authenticated handler account.
func currentAdmin(c *fiber.Ctx) (*domain.AdminUser, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	return principal.Admin, nil
}
