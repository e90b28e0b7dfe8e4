package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// SettingsRepository persists the single system settings record.
type SettingsRepository interface {
	// Get returns ErrNotFound until settings have been saved once.
	Get(ctx context.Context) (*domain.SystemSettings, error)
	Save(ctx context.Context, settings *domain.SystemSettings) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a Postgres-backed implementation.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	const query = `
        SELECT system_name, admin_email, support_phone, ticket_prefix, notification_email, updated_by::text, updated_at
        FROM system_settings WHERE id=1`
	var settings domain.SystemSettings
	if err := r.pool.QueryRow(ctx, query).Scan(
		&settings.SystemName,
		&settings.AdminEmail,
		&settings.SupportPhone,
		&settings.TicketPrefix,
		&settings.NotificationEmail,
		&settings.UpdatedBy,
		&settings.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *domain.SystemSettings) error {
	const query = `
        INSERT INTO system_settings (id, system_name, admin_email, support_phone, ticket_prefix, notification_email, updated_by, updated_at)
        VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
        ON CONFLICT (id) DO UPDATE SET
            system_name=EXCLUDED.system_name,
            admin_email=EXCLUDED.admin_email,
            support_phone=EXCLUDED.support_phone,
            ticket_prefix=EXCLUDED.ticket_prefix,
            notification_email=EXCLUDED.notification_email,
            updated_by=EXCLUDED.updated_by,
            updated_at=EXCLUDED.updated_at
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		settings.SystemName,
		settings.AdminEmail,
		settings.SupportPhone,
		settings.TicketPrefix,
		settings.NotificationEmail,
		settings.UpdatedBy,
	).Scan(&settings.UpdatedAt)
}
