package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whistleblow-portal/internal/auth"
	"github.com/spec-kit/whistleblow-portal/internal/service"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// AttachmentsHandler streams stored evidence files. Either token kind may
// call it; the service decides per attachment.
type AttachmentsHandler struct {
	attachments *service.AttachmentService
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(attachments *service.AttachmentService) *AttachmentsHandler {
	return &AttachmentsHandler{attachments: attachments}
}

// Download handles GET /api/attachments/:id.
func (h *AttachmentsHandler) Download(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid token")
	}

	attachment, stream, err := h.attachments.Fetch(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, attachment.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", attachment.DisplayName))
	return c.SendStream(stream, int(attachment.SizeBytes))
}
