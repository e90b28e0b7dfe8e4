package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

type authTokenRepository struct {
	store *Store
}

func (r *authTokenRepository) Create(_ context.Context, token *domain.AuthToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}

	txn := r.store.db.Txn(true)
	defer txn.Abort()

	found, err := exists(txn, tableAuthTokens, "token", token.Token)
	if err != nil {
		return err
	}
	if found {
		return repository.ErrConflict
	}
	found, err = exists(txn, tableAccounts, indexID, token.SubjectID)
	if err != nil {
		return err
	}
	if !found {
		return repository.ErrNotFound
	}

	token.CreatedAt = r.store.timestamp()
	row := *token
	if err := txn.Insert(tableAuthTokens, &row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *authTokenRepository) GetByToken(_ context.Context, purpose domain.AuthTokenPurpose, value string) (*domain.AuthToken, error) {
	txn := r.store.db.Txn(false)
	raw, err := first(txn, tableAuthTokens, "token", value)
	if err != nil {
		return nil, err
	}
	token := *raw.(*domain.AuthToken)
	if token.Purpose != purpose {
		return nil, repository.ErrNotFound
	}
	return &token, nil
}

func (r *authTokenRepository) MarkUsed(_ context.Context, id string, at time.Time) error {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	raw, err := first(txn, tableAuthTokens, indexID, id)
	if err != nil {
		return err
	}
	row := *raw.(*domain.AuthToken)
	if row.UsedAt != nil {
		return repository.ErrNotFound
	}
	usedAt := at
	row.UsedAt = &usedAt
	if err := txn.Insert(tableAuthTokens, &row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
