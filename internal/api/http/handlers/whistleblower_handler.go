package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whistleblow-portal/internal/api/dto"
	"github.com/spec-kit/whistleblow-portal/internal/auth"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/service"
	"github.com/spec-kit/whistleblow-portal/internal/upload"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// WhistleblowerHandler serves the reporter-facing case surface. Every route
// except login requires a report token; the principal's own report id scopes
// all reads and writes, never a client-supplied one.
type WhistleblowerHandler struct {
	auth    *service.AuthService
	reports *service.ReportService
	intake  *upload.Intake
}

// NewWhistleblowerHandler constructs handler.
func NewWhistleblowerHandler(authService *service.AuthService, reports *service.ReportService, intake *upload.Intake) *WhistleblowerHandler {
	return &WhistleblowerHandler{auth: authService, reports: reports, intake: intake}
}

// Login handles POST /api/whistleblower/login.
func (h *WhistleblowerHandler) Login(c *fiber.Ctx) error {
	var req dto.ReportLoginRequest
	if err := requireJSONBody(c, &req); err != nil {
		return err
	}
	if req.CaseCode == "" || req.Secret == "" {
		return apperrors.NewValidationError("case_code and secret required", nil)
	}

	report, token, exp, err := h.auth.LoginReport(c.Context(), req.CaseCode, req.Secret, c.IP())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.ReportLoginResponse{
			Token:     token,
			ExpiresAt: exp,
			CaseCode:  report.CaseCode,
			Status:    string(report.Status),
		},
	})
}

// Thread handles GET /api/whistleblower/messages.
func (h *WhistleblowerHandler) Thread(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Report == nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	report, msgs, err := h.reports.Thread(c.Context(), principal.Report.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromReportDetail(report, msgs)})
}

// AddMessage handles POST /api/whistleblower/messages. Accepts multipart for
// follow-up evidence uploads.
func (h *WhistleblowerHandler) AddMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Report == nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	content := c.FormValue("content")
	var files []upload.StoredFile
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files, err = h.intake.Process(c.Context(), form.File["files"])
		if err != nil {
			return err
		}
	}

	msg, err := h.reports.AddMessage(c.Context(), principal.Report.ID, domain.SenderWhistleblower, content, files)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromMessage(*msg)})
}
