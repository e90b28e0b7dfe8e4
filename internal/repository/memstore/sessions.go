package memstore

import (
	"context"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

type sessionRepository struct {
	store *Store
}

func (r *sessionRepository) Create(_ context.Context, session *domain.Session) error {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	found, err := exists(txn, tableSessions, indexID, session.ID)
	if err != nil {
		return err
	}
	if found {
		return repository.ErrConflict
	}
	row := *session
	if err := txn.Insert(tableSessions, &row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Get treats expired sessions as missing and drops them.
func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	txn := r.store.db.Txn(false)
	raw, err := first(txn, tableSessions, indexID, id)
	if err != nil {
		return nil, err
	}
	session := *raw.(*domain.Session)
	if session.Expired(r.store.now()) {
		_ = r.Delete(ctx, id)
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (r *sessionRepository) Delete(_ context.Context, id string) error {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(tableSessions, indexID, id); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
