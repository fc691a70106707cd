package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whistleblow-portal/internal/domain"
)

// SettingRepository persists portal presentation settings.
type SettingRepository interface {
	Upsert(ctx context.Context, setting domain.SystemSetting) error
	List(ctx context.Context) ([]domain.SystemSetting, error)
}

type settingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository constructs repository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{pool: pool}
}

func (r *settingRepository) Upsert(ctx context.Context, setting domain.SystemSetting) error {
	const query = `
        INSERT INTO system_settings (key, value) VALUES ($1,$2)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, setting.Key, setting.Value)
	return err
}

func (r *settingRepository) List(ctx context.Context) ([]domain.SystemSetting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM system_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SystemSetting
	for rows.Next() {
		var setting domain.SystemSetting
		if err := rows.Scan(&setting.Key, &setting.Value); err != nil {
			return nil, err
		}
		result = append(result, setting)
	}
	return result, rows.Err()
}
