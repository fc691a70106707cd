package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
)

// OwnedAttachment pairs an attachment with the report that transitively owns
// it, resolved in one query for access-control decisions.
type OwnedAttachment struct {
	Attachment domain.Attachment
	ReportID   string
}

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	ListByMessage(ctx context.Context, messageID string) ([]domain.Attachment, error)
	// GetWithOwner resolves attachment -> message -> report.
	GetWithOwner(ctx context.Context, id string) (*OwnedAttachment, error)
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	const query = `
        INSERT INTO attachments (message_id, storage_key, display_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		attachment.MessageID,
		attachment.StorageKey,
		attachment.DisplayName,
		attachment.MimeType,
		attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) ListByMessage(ctx context.Context, messageID string) ([]domain.Attachment, error) {
	const query = `
        SELECT id, message_id, storage_key, display_name, mime_type, size_bytes, created_at
        FROM attachments WHERE message_id=$1`
	rows, err := r.pool.Query(ctx, query, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.MessageID,
			&attachment.StorageKey,
			&attachment.DisplayName,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

func (r *attachmentRepository) GetWithOwner(ctx context.Context, id string) (*OwnedAttachment, error) {
	const query = `
        SELECT a.id, a.message_id, a.storage_key, a.display_name, a.mime_type, a.size_bytes, a.created_at,
               m.report_id
        FROM attachments a
        JOIN messages m ON m.id = a.message_id
        WHERE a.id=$1`
	var owned OwnedAttachment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&owned.Attachment.ID,
		&owned.Attachment.MessageID,
		&owned.Attachment.StorageKey,
		&owned.Attachment.DisplayName,
		&owned.Attachment.MimeType,
		&owned.Attachment.SizeBytes,
		&owned.Attachment.CreatedAt,
		&owned.ReportID,
	); err != nil {
		return nil, err
	}
	return &owned, nil
}
