package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// AuthTokenRepository manages single-use password reset and verification tokens.
type AuthTokenRepository interface {
	Create(ctx context.Context, token *domain.AuthToken) error
	GetByToken(ctx context.Context, purpose domain.AuthTokenPurpose, token string) (*domain.AuthToken, error)
	MarkUsed(ctx context.Context, id string, at time.Time) error
}

type authTokenRepository struct {
	pool *pgxpool.Pool
}

// NewAuthTokenRepository constructs repository.
func NewAuthTokenRepository(pool *pgxpool.Pool) AuthTokenRepository {
	return &authTokenRepository{pool: pool}
}

func (r *authTokenRepository) Create(ctx context.Context, token *domain.AuthToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO auth_tokens (id, purpose, subject_id, token, expires_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		token.ID,
		token.Purpose,
		token.SubjectID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.CreatedAt)
	return translate(err)
}

func (r *authTokenRepository) GetByToken(ctx context.Context, purpose domain.AuthTokenPurpose, tokenStr string) (*domain.AuthToken, error) {
	const query = `
        SELECT id, purpose, subject_id, token, expires_at, used_at, created_at
        FROM auth_tokens WHERE purpose=$1 AND token=$2`
	var token domain.AuthToken
	if err := r.pool.QueryRow(ctx, query, purpose, tokenStr).Scan(
		&token.ID,
		&token.Purpose,
		&token.SubjectID,
		&token.Token,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *authTokenRepository) MarkUsed(ctx context.Context, id string, at time.Time) error {
	const query = `
        UPDATE auth_tokens SET used_at=$1
        WHERE id=$2 AND used_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
