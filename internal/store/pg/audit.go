package pg

import (
	"context"
	"strconv"


	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// AuditRepo implementa repository.AuditRepository (append-only).
type AuditRepo struct {
	pool querier
}

func (r *AuditRepo) Append(ctx context.Context, e repository.AuditEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO role_audit_trail (id, actor_id, role, slug, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ActorID, e.Role, e.Slug, e.OldValue, e.NewValue, e.CreatedAt)
	return err
}

func (r *AuditRepo) List(ctx context.Context, filter repository.ListAuditFilter) ([]repository.AuditEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, actor_id, role, slug, old_value, new_value, created_at
		  FROM role_audit_trail`
	args := []any{}
	if filter.Role != "" {
		query += ` WHERE role = $1`
		args = append(args, filter.Role)
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit) + ` OFFSET ` + strconv.Itoa(offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.AuditEntry
	for rows.Next() {
		var e repository.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Role, &e.Slug, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
