package events

import (
	"time"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportSubmitted     EventType = "report_submitted"
	EventReportStatusChanged EventType = "report_status_changed"
	EventMessageAdded        EventType = "message_added"
	EventConfirmationSent    EventType = "confirmation_sent"
)

// Event represents a domain event emitted by services. Payloads carry the
// case code but never report or message content; events feed outbound
// notification channels.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  string      `json:"report_id"`
	CaseCode  string      `json:"case_code"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ReportSubmittedPayload payload.
type ReportSubmittedPayload struct {
	Category domain.ReportCategory `json:"category"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	MessageID       string            `json:"message_id"`
	SenderType      domain.SenderType `json:"sender_type"`
	AttachmentCount int               `json:"attachment_count"`
}
