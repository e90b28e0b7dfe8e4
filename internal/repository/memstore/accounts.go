package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

type accountRepository struct {
	store *Store
}

func (r *accountRepository) Create(_ context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.Email = domain.NormalizeEmail(account.Email)

	txn := r.store.db.Txn(true)
	defer txn.Abort()

	for index, value := range map[string]string{indexID: account.ID, "email": account.Email} {
		found, err := exists(txn, tableAccounts, index, value)
		if err != nil {
			return err
		}
		if found {
			return repository.ErrConflict
		}
	}

	now := r.store.timestamp()
	account.CreatedAt = now
	account.UpdatedAt = now
	row := *account
	if err := txn.Insert(tableAccounts, &row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *accountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	return r.get(indexID, id)
}

func (r *accountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.get("email", domain.NormalizeEmail(email))
}

func (r *accountRepository) get(index, value string) (*domain.Account, error) {
	txn := r.store.db.Txn(false)
	raw, err := first(txn, tableAccounts, index, value)
	if err != nil {
		return nil, err
	}
	account := *raw.(*domain.Account)
	return &account, nil
}

func (r *accountRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.modify(id, func(account *domain.Account) {
		account.PasswordHash = passwordHash
	})
}

func (r *accountRepository) MarkEmailVerified(_ context.Context, id string, at time.Time) error {
	return r.modify(id, func(account *domain.Account) {
		verifiedAt := at
		account.EmailVerifiedAt = &verifiedAt
	})
}

func (r *accountRepository) modify(id string, mutate func(*domain.Account)) error {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	raw, err := first(txn, tableAccounts, indexID, id)
	if err != nil {
		return err
	}
	row := *raw.(*domain.Account)
	mutate(&row)
	row.UpdatedAt = r.store.timestamp()
	if err := txn.Insert(tableAccounts, &row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
