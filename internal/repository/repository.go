// Package repository defines persistence contracts and their Postgres
// implementations. The memstore subpackage provides an in-memory backend.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches, including rows hidden by row policies.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("record already exists")
	// ErrRowPolicy is returned when a write is rejected by a ticket row policy.
	ErrRowPolicy = errors.New("row policy violation")
)

const (
	uniqueViolation       = "23505"
	insufficientPrivilege = "42501"
)

// Viewer is the caller on whose behalf ticket rows are read or written.
type Viewer struct {
	UserID string
	Role   domain.Role
}

// CanSeeAll reports whether the viewer's role sees every ticket row.
func (v Viewer) CanSeeAll() bool {
	return v.Role.IsStaff()
}

type viewerKey struct{}

// ContextWithViewer attaches the caller used by ticket row policies.
func ContextWithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer)
}

// ViewerFromContext returns the attached viewer.
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	viewer, ok := ctx.Value(viewerKey{}).(Viewer)
	return viewer, ok
}

// withViewer runs fn in a transaction carrying the viewer's identity so the
// tickets row policies apply.
func withViewer(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	viewer, _ := ViewerFromContext(ctx)
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		const query = `SELECT set_config('app.user_id', $1, true), set_config('app.role', $2, true)`
		if _, err := tx.Exec(ctx, query, viewer.UserID, string(viewer.Role)); err != nil {
			return err
		}
		return fn(tx)
	})
}

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return ErrConflict
		case insufficientPrivilege:
			return ErrRowPolicy
		}
	}
	return err
}
