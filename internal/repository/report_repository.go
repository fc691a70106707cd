package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
)

// ErrConfirmationAlreadySent is returned when the receipt confirmation was
// already recorded for a report.
var ErrConfirmationAlreadySent = errors.New("confirmation already sent")

// ReportSummary is a list-view projection including the thread length.
type ReportSummary struct {
	Report       domain.Report
	MessageCount int
}

// ReportRepository encapsulates case persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	GetByCaseCode(ctx context.Context, caseCode string) (*domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error)
	ListSummaries(ctx context.Context) ([]ReportSummary, error)
	// ConfirmReceipt atomically appends the confirmation message, sets the
	// confirmation flag and advances the status. Either all three effects
	// commit or none does.
	ConfirmReceipt(ctx context.Context, reportID string, newStatus domain.ReportStatus, msg *domain.Message) error
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, used by the case-code collision retry loop.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (case_code, secret_hash, category, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, confirmation_sent, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.CaseCode,
		report.SecretHash,
		report.Category,
		report.Status,
	).Scan(&report.ID, &report.ConfirmationSent, &report.CreatedAt, &report.UpdatedAt)
}

const reportColumns = `id, case_code, secret_hash, category, status, confirmation_sent, created_at, updated_at`

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	return r.fetchSingle(ctx, `SELECT `+reportColumns+` FROM reports WHERE id=$1`, id)
}

func (r *reportRepository) GetByCaseCode(ctx context.Context, caseCode string) (*domain.Report, error) {
	return r.fetchSingle(ctx, `SELECT `+reportColumns+` FROM reports WHERE case_code=$1`, caseCode)
}

func (r *reportRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Report, error) {
	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&report.ID,
		&report.CaseCode,
		&report.SecretHash,
		&report.Category,
		&report.Status,
		&report.ConfirmationSent,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	const query = `
        UPDATE reports SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + reportColumns
	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&report.ID,
		&report.CaseCode,
		&report.SecretHash,
		&report.Category,
		&report.Status,
		&report.ConfirmationSent,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) ListSummaries(ctx context.Context) ([]ReportSummary, error) {
	const query = `
        SELECT r.id, r.case_code, r.secret_hash, r.category, r.status, r.confirmation_sent,
               r.created_at, r.updated_at, COUNT(m.id)
        FROM reports r
        LEFT JOIN messages m ON m.report_id = r.id
        GROUP BY r.id
        ORDER BY r.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ReportSummary
	for rows.Next() {
		var summary ReportSummary
		if err := rows.Scan(
			&summary.Report.ID,
			&summary.Report.CaseCode,
			&summary.Report.SecretHash,
			&summary.Report.Category,
			&summary.Report.Status,
			&summary.Report.ConfirmationSent,
			&summary.Report.CreatedAt,
			&summary.Report.UpdatedAt,
			&summary.MessageCount,
		); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

func (r *reportRepository) ConfirmReceipt(ctx context.Context, reportID string, newStatus domain.ReportStatus, msg *domain.Message) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Guard on the flag inside the transaction so a concurrent confirmation
	// cannot slip through between the service-level check and the commit.
	cmd, err := tx.Exec(ctx, `
        UPDATE reports SET confirmation_sent=TRUE, status=$1, updated_at=NOW()
        WHERE id=$2 AND confirmation_sent=FALSE`, newStatus, reportID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConfirmationAlreadySent
	}

	if err := tx.QueryRow(ctx, `
        INSERT INTO messages (report_id, sender_type, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`,
		msg.ReportID, msg.SenderType, msg.Content,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
