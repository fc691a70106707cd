package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whistleblow-portal/internal/auth"
	"github.com/spec-kit/whistleblow-portal/internal/credentials"
	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/events"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
	"github.com/spec-kit/whistleblow-portal/internal/upload"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

const confirmationTemplate = `Dear reporter,

we hereby confirm receipt of your report dated %s.

Your report is now being reviewed by our internal reporting office. In accordance with the statutory requirements, you will be informed about the measures taken within three months.

Thank you for your trust.

Your internal reporting office`

// IssuedCredentials is the one-time credential pair returned to the
// reporter. The secret exists in plaintext only in this value.
type IssuedCredentials struct {
	CaseCode string
	Secret   string
}

// ReportService coordinates case intake, messaging and lifecycle.
type ReportService struct {
	reports     repository.ReportRepository
	messages    repository.MessageRepository
	attachments repository.AttachmentRepository
	generator   *credentials.Generator
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// ReportDependencies bundles requirements for the report service.
type ReportDependencies struct {
	ReportRepo     repository.ReportRepository
	MessageRepo    repository.MessageRepository
	AttachmentRepo repository.AttachmentRepository
	Generator      *credentials.Generator
	Dispatcher     events.Dispatcher
	BcryptCost     int
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = 12
	}
	return &ReportService{
		reports:     deps.ReportRepo,
		messages:    deps.MessageRepo,
		attachments: deps.AttachmentRepo,
		generator:   deps.Generator,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cost,
	}
}

// Submit creates a new case with its first whistleblower message and returns
// the credential pair. An unknown category is coerced to OTHER, never
// rejected.
func (s *ReportService) Submit(ctx context.Context, content, category string, files []upload.StoredFile) (*domain.Report, *IssuedCredentials, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(files) == 0 {
		return nil, nil, apperrors.NewValidationError("report content or an attachment is required", nil)
	}

	secret, err := s.generator.Secret()
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	secretHash, err := auth.HashSecret(secret, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	report := &domain.Report{
		SecretHash: secretHash,
		Category:   domain.NormalizeCategory(category),
		Status:     domain.ReportStatusNew,
	}

	// The case code is not unique by construction; insert under the unique
	// constraint and regenerate on collision so concurrent submissions
	// cannot race past a pre-check.
	for {
		report.CaseCode, err = s.generator.CaseCode()
		if err != nil {
			return nil, nil, apperrors.NewInternalError(err)
		}
		err = s.reports.Create(ctx, report)
		if err == nil {
			break
		}
		if !repository.IsUniqueViolation(err) {
			return nil, nil, apperrors.NewInternalError(err)
		}
	}

	if _, err := s.appendMessage(ctx, report.ID, domain.SenderWhistleblower, content, files); err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventReportSubmitted,
		ReportID: report.ID,
		CaseCode: report.CaseCode,
		Payload:  events.ReportSubmittedPayload{Category: report.Category},
	})

	return report, &IssuedCredentials{CaseCode: report.CaseCode, Secret: secret}, nil
}

// AddMessage appends a message to an open case. Writes against a CLOSED
// report are refused for both principal kinds; an admin message against a
// NEW report advances it to IN_PROGRESS.
func (s *ReportService) AddMessage(ctx context.Context, reportID string, sender domain.SenderType, content string, files []upload.StoredFile) (*domain.Message, error) {
	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status == domain.ReportStatusClosed {
		return nil, apperrors.NewValidationError("case is closed; no further messages are accepted", nil)
	}

	content = strings.TrimSpace(content)
	if content == "" && len(files) == 0 {
		return nil, apperrors.NewValidationError("message content or an attachment is required", nil)
	}

	msg, err := s.appendMessage(ctx, report.ID, sender, content, files)
	if err != nil {
		return nil, err
	}

	if sender == domain.SenderAdmin {
		if err := s.autoAdvance(ctx, report); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventMessageAdded,
		ReportID: report.ID,
		CaseCode: report.CaseCode,
		Payload: events.MessageAddedPayload{
			MessageID:       msg.ID,
			SenderType:      msg.SenderType,
			AttachmentCount: len(msg.Attachments),
		},
	})
	return msg, nil
}

// Thread returns a case and its messages in creation order, attachments
// included.
func (s *ReportService) Thread(ctx context.Context, reportID string) (*domain.Report, []domain.Message, error) {
	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.messages.ListByReport(ctx, report.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	for i := range msgs {
		attachments, err := s.attachments.ListByMessage(ctx, msgs[i].ID)
		if err != nil {
			return nil, nil, apperrors.MapError(err)
		}
		msgs[i].Attachments = attachments
	}
	return report, msgs, nil
}

// ListSummaries returns all cases, newest first, for the admin dashboard.
func (s *ReportService) ListSummaries(ctx context.Context) ([]repository.ReportSummary, error) {
	summaries, err := s.reports.ListSummaries(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return summaries, nil
}

// UpdateStatus is the explicit administrative transition: any of the three
// states may be set from any other, including reopening a closed case.
func (s *ReportService) UpdateStatus(ctx context.Context, reportID string, status domain.ReportStatus) (*domain.Report, error) {
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	oldStatus := report.Status
	updated, err := s.reports.UpdateStatus(ctx, report.ID, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if oldStatus != updated.Status {
		s.publish(ctx, events.Event{
			Type:     events.EventReportStatusChanged,
			ReportID: updated.ID,
			CaseCode: updated.CaseCode,
			Payload:  events.ReportStatusChangedPayload{OldStatus: oldStatus, NewStatus: updated.Status},
		})
	}
	return updated, nil
}

// ConfirmReceipt performs the one-time legal acknowledgment: it appends the
// confirmation message, sets the flag and advances a NEW case, all in one
// transaction. A second call fails with a conflict and appends nothing.
func (s *ReportService) ConfirmReceipt(ctx context.Context, reportID string) (*domain.Message, error) {
	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.ConfirmationSent {
		return nil, apperrors.NewConflict("confirmation already sent", nil)
	}

	msg := &domain.Message{
		ReportID:   report.ID,
		SenderType: domain.SenderAdmin,
		Content:    fmt.Sprintf(confirmationTemplate, report.CreatedAt.Format("2006-01-02")),
	}
	newStatus := domain.AutoAdvance(report.Status)

	if err := s.reports.ConfirmReceipt(ctx, report.ID, newStatus, msg); err != nil {
		if err == repository.ErrConfirmationAlreadySent {
			return nil, apperrors.NewConflict("confirmation already sent", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventConfirmationSent,
		ReportID: report.ID,
		CaseCode: report.CaseCode,
	})
	if report.Status != newStatus {
		s.publish(ctx, events.Event{
			Type:     events.EventReportStatusChanged,
			ReportID: report.ID,
			CaseCode: report.CaseCode,
			Payload:  events.ReportStatusChangedPayload{OldStatus: report.Status, NewStatus: newStatus},
		})
	}
	return msg, nil
}

func (s *ReportService) getReport(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("report", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return report, nil
}

func (s *ReportService) appendMessage(ctx context.Context, reportID string, sender domain.SenderType, content string, files []upload.StoredFile) (*domain.Message, error) {
	msg := &domain.Message{
		ReportID:   reportID,
		SenderType: sender,
		Content:    content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, file := range files {
		record := &domain.Attachment{
			MessageID:   msg.ID,
			StorageKey:  file.StorageKey,
			DisplayName: file.DisplayName,
			MimeType:    file.MimeType,
			SizeBytes:   file.SizeBytes,
		}
		if err := s.attachments.Create(ctx, record); err != nil {
			return nil, apperrors.MapError(err)
		}
		msg.Attachments = append(msg.Attachments, *record)
	}
	return msg, nil
}

func (s *ReportService) autoAdvance(ctx context.Context, report *domain.Report) error {
	newStatus := domain.AutoAdvance(report.Status)
	if newStatus == report.Status {
		return nil
	}
	if _, err := s.reports.UpdateStatus(ctx, report.ID, newStatus); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		ReportID: report.ID,
		CaseCode: report.CaseCode,
		Payload:  events.ReportStatusChangedPayload{OldStatus: report.Status, NewStatus: newStatus},
	})
	return nil
}

func (s *ReportService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
