package dto

import (
	"time"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
	"github.com/spec-kit/whistleblow-portal/internal/repository"
)

// SubmitReportResponse carries the one-time credential pair. The secret is
// never shown again after this response.
type SubmitReportResponse struct {
	CaseCode string `json:"case_code"`
	Secret   string `json:"secret"`
	Warning  string `json:"warning"`
}

// CredentialWarning is returned alongside fresh credentials.
const CredentialWarning = "Save your case code and secret now. They cannot be recovered and are required to follow up on your report."

// UpdateStatusRequest is the admin status transition body.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AttachmentResponse describes one stored file.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	MimeType    string    `json:"mime_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageResponse describes one thread entry.
type MessageResponse struct {
	ID          string               `json:"id"`
	SenderType  domain.SenderType    `json:"sender_type"`
	Content     string               `json:"content"`
	Attachments []AttachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ReportSummaryResponse is one dashboard row.
type ReportSummaryResponse struct {
	ID                string                `json:"id"`
	CaseCode          string                `json:"case_code"`
	Category          domain.ReportCategory `json:"category"`
	Status            domain.ReportStatus   `json:"status"`
	ConfirmationSent  bool                  `json:"confirmation_sent"`
	ConfirmationDueAt time.Time             `json:"confirmation_due_at"`
	MessageCount      int                   `json:"message_count"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ReportDetailResponse is the full case view including the thread.
type ReportDetailResponse struct {
	ID                string                `json:"id"`
	CaseCode          string                `json:"case_code"`
	Category          domain.ReportCategory `json:"category"`
	Status            domain.ReportStatus   `json:"status"`
	ConfirmationSent  bool                  `json:"confirmation_sent"`
	ConfirmationDueAt time.Time             `json:"confirmation_due_at"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Messages          []MessageResponse     `json:"messages"`
}

// FromAttachment maps a domain attachment. Storage keys stay internal.
func FromAttachment(a domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		MimeType:    a.MimeType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}

// FromMessage maps a domain message with its attachments.
func FromMessage(m domain.Message) MessageResponse {
	attachments := make([]AttachmentResponse, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		attachments = append(attachments, FromAttachment(a))
	}
	return MessageResponse{
		ID:          m.ID,
		SenderType:  m.SenderType,
		Content:     m.Content,
		Attachments: attachments,
		CreatedAt:   m.CreatedAt,
	}
}

// FromSummary maps a dashboard row.
func FromSummary(s repository.ReportSummary) ReportSummaryResponse {
	return ReportSummaryResponse{
		ID:                s.Report.ID,
		CaseCode:          s.Report.CaseCode,
		Category:          s.Report.Category,
		Status:            s.Report.Status,
		ConfirmationSent:  s.Report.ConfirmationSent,
		ConfirmationDueAt: s.Report.ConfirmationDueAt(),
		MessageCount:      s.MessageCount,
		CreatedAt:         s.Report.CreatedAt,
		UpdatedAt:         s.Report.UpdatedAt,
	}
}

// FromReportDetail maps a case and its thread.
func FromReportDetail(r *domain.Report, msgs []domain.Message) ReportDetailResponse {
	out := ReportDetailResponse{
		ID:                r.ID,
		CaseCode:          r.CaseCode,
		Category:          r.Category,
		Status:            r.Status,
		ConfirmationSent:  r.ConfirmationSent,
		ConfirmationDueAt: r.ConfirmationDueAt(),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Messages:          make([]MessageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, FromMessage(m))
	}
	return out
}
