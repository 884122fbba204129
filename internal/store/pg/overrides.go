package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// OverrideRepo implementa repository.OverrideRepository.
// BulkUpsert corre en una transacción: un ListAll concurrente (REPEATABLE
// READ no hace falta, el commit es atómico) nunca ve el bulk a medias.
type OverrideRepo struct {
	pool querier
}

func (r *OverrideRepo) ListForRole(ctx context.Context, role string) ([]repository.Override, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role, slug, granted, updated_at
		  FROM role_permission_overrides
		 WHERE role = $1`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOverrides(rows)
}

func (r *OverrideRepo) ListAll(ctx context.Context) ([]repository.Override, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role, slug, granted, updated_at
		  FROM role_permission_overrides`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOverrides(rows)
}

func (r *OverrideRepo) Upsert(ctx context.Context, o repository.Override) (*repository.Override, error) {
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now().UTC()
	}

	var prev repository.Override
	err := r.pool.QueryRow(ctx, `
		SELECT role, slug, granted, updated_at
		  FROM role_permission_overrides
		 WHERE role = $1 AND slug = $2`, o.Role, o.Slug).
		Scan(&prev.Role, &prev.Slug, &prev.Granted, &prev.UpdatedAt)
	var previous *repository.Override
	switch err {
	case nil:
		previous = &prev
	case pgx.ErrNoRows:
	default:
		return nil, err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO role_permission_overrides (role, slug, granted, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (role, slug) DO UPDATE
		   SET granted = EXCLUDED.granted, updated_at = EXCLUDED.updated_at`,
		o.Role, o.Slug, o.Granted, o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return previous, nil
}

func (r *OverrideRepo) BulkUpsert(ctx context.Context, role string, grants map[string]bool) (map[string]repository.Override, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT role, slug, granted, updated_at
		  FROM role_permission_overrides
		 WHERE role = $1 FOR UPDATE`, role)
	if err != nil {
		return nil, err
	}
	existing, err := scanOverrides(rows)
	if err != nil {
		return nil, err
	}

	prev := make(map[string]repository.Override)
	for _, o := range existing {
		if _, ok := grants[o.Slug]; ok {
			prev[o.Slug] = o
		}
	}

	now := time.Now().UTC()
	for slug, granted := range grants {
		if _, err := tx.Exec(ctx, `
			INSERT INTO role_permission_overrides (role, slug, granted, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (role, slug) DO UPDATE
			   SET granted = EXCLUDED.granted, updated_at = EXCLUDED.updated_at`,
			role, slug, granted, now); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return prev, nil
}

func scanOverrides(rows pgx.Rows) ([]repository.Override, error) {
	var out []repository.Override
	for rows.Next() {
		var o repository.Override
		if err := rows.Scan(&o.Role, &o.Slug, &o.Granted, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
