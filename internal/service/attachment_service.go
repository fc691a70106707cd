package service

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whistleblow-portal/internal/auth"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
	"github.com/spec-kit/whistleblow-portal/internal/storage"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// AttachmentService gates file retrieval behind the principal-ownership
// rule: admins read everything, a report principal reads only files of its
// own case.
type AttachmentService struct {
	attachments repository.AttachmentRepository
	store       storage.Storage
}

// NewAttachmentService builds the service.
func NewAttachmentService(attachments repository.AttachmentRepository, store storage.Storage) *AttachmentService {
	return &AttachmentService{attachments: attachments, store: store}
}

// attachmentNotFound covers both a missing attachment and one the principal
// may not read. A denied reporter must not be able to learn whether the id
// exists.
func attachmentNotFound() error {
	return apperrors.NewNotFound("attachment", nil)
}

// CanAccess decides whether the principal may read the attachment.
func (s *AttachmentService) CanAccess(principal *auth.Principal, owner *repository.OwnedAttachment) bool {
	if principal == nil {
		return false
	}
	switch principal.Kind {
	case domain.PrincipalAdmin:
		return principal.Admin != nil
	case domain.PrincipalReport:
		return principal.Report != nil && principal.Report.ID == owner.ReportID
	}
	return false
}

// Fetch resolves the attachment, applies the access filter and opens the
// payload stream. The caller must close the reader.
func (s *AttachmentService) Fetch(ctx context.Context, principal *auth.Principal, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	owned, err := s.attachments.GetWithOwner(ctx, attachmentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, attachmentNotFound()
		}
		return nil, nil, apperrors.MapError(err)
	}

	if !s.CanAccess(principal, owned) {
		return nil, nil, attachmentNotFound()
	}

	stream, err := s.store.Open(ctx, owned.Attachment.StorageKey)
	if err != nil {
		return nil, nil, attachmentNotFound()
	}
	return &owned.Attachment, stream, nil
}
