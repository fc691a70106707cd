package domain

import "time"

// SenderType indicates which side of the case conversation authored a
// message. Admin messages are attributed to the intake office as a whole,
// never to an individual handler.
type SenderType string

const (
	SenderWhistleblower SenderType = "WHISTLEBLOWER"
	SenderAdmin         SenderType = "ADMIN"
)

// Message is one immutable communication unit in a case thread.
type Message struct {
	ID          string
	ReportID    string
	SenderType  SenderType
	Content     string
	Attachments []Attachment
	CreatedAt   time.Time
}

// Attachment stores metadata for an uploaded file. StorageKey is the
// generated name used by the blob store; DisplayName is the sanitized
// user-supplied name and is the only one ever shown or served back.
type Attachment struct {
	ID          string
	MessageID   string
	StorageKey  string
	DisplayName string
	MimeType    string
	SizeBytes   int64
	CreatedAt   time.Time
}
