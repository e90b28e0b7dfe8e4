package memstore

import (
	"context"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

const settingsRowID = "system"

type settingsRow struct {
	ID       string
	Settings domain.SystemSettings
}

type settingsRepository struct {
	store *Store
}

func (r *settingsRepository) Get(_ context.Context) (*domain.SystemSettings, error) {
	txn := r.store.db.Txn(false)
	raw, err := first(txn, tableSettings, indexID, settingsRowID)
	if err != nil {
		return nil, err
	}
	settings := raw.(*settingsRow).Settings
	settings.UpdatedBy = cloneString(settings.UpdatedBy)
	return &settings, nil
}

func (r *settingsRepository) Save(_ context.Context, settings *domain.SystemSettings) error {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	settings.UpdatedAt = r.store.timestamp()
	row := &settingsRow{ID: settingsRowID, Settings: *settings}
	row.Settings.UpdatedBy = cloneString(settings.UpdatedBy)
	if err := txn.Insert(tableSettings, row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
