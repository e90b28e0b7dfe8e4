package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(_ context.Context, user *domain.UserProfile) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = domain.NormalizeEmail(user.Email)

	txn := r.store.db.Txn(true)
	defer txn.Abort()

	for index, value := range map[string]string{indexID: user.ID, "email": user.Email} {
		found, err := exists(txn, tableUsers, index, value)
		if err != nil {
			return err
		}
		if found {
			return repository.ErrConflict
		}
	}

	now := r.store.timestamp()
	user.CreatedAt = now
	user.UpdatedAt = now
	row := *user
	if err := txn.Insert(tableUsers, &row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.UserProfile) error {
	txn := r.store.db.Txn(true)
	defer txn.Abort()

	raw, err := first(txn, tableUsers, indexID, user.ID)
	if err != nil {
		return err
	}
	row := *raw.(*domain.UserProfile)
	row.Name = user.Name
	row.Department = user.Department
	row.Title = user.Title
	row.Role = user.Role
	row.UpdatedAt = r.store.timestamp()
	if err := txn.Insert(tableUsers, &row); err != nil {
		return err
	}
	txn.Commit()
	*user = row
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.UserProfile, error) {
	return r.get(indexID, id)
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	return r.get("email", domain.NormalizeEmail(email))
}

func (r *userRepository) get(index, value string) (*domain.UserProfile, error) {
	txn := r.store.db.Txn(false)
	raw, err := first(txn, tableUsers, index, value)
	if err != nil {
		return nil, err
	}
	user := *raw.(*domain.UserProfile)
	return &user, nil
}

func (r *userRepository) List(_ context.Context, filter repository.UserFilter) ([]domain.UserProfile, error) {
	txn := r.store.db.Txn(false)
	iter, err := txn.Get(tableUsers, indexID)
	if err != nil {
		return nil, err
	}

	search := ""
	if filter.SearchTerm != nil {
		search = strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
	}

	users := []domain.UserProfile{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		user := *raw.(*domain.UserProfile)
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Department != nil && user.Department != *filter.Department {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(user.Name), search) && !strings.Contains(user.Email, search) {
			continue
		}
		users = append(users, user)
	}

	sort.SliceStable(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return page(users, filter.Limit, filter.Offset, 50), nil
}

// page applies limit and offset the way the Postgres repositories do.
func page[T any](items []T, limit, offset, def int) []T {
	if limit <= 0 {
		limit = def
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
