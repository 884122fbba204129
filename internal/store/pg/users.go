package pg

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// UserRepo implementa repository.UserRepository.
type UserRepo struct {
	pool querier
}

const userCols = `id, office_id, email, name, role, password_hash, verified_at, status, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	now := time.Now().UTC()
	u := repository.User{
		ID:           uuid.NewString(),
		OfficeID:     input.OfficeID,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: input.PasswordHash,
		Status:       repository.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO app_user (id, office_id, email, name, role, password_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'active', $7, $7)`,
		u.ID, u.OfficeID, u.Email, u.Name, u.Role, u.PasswordHash, now)
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, officeID, email string) (*repository.User, error) {
	var u repository.User
	var status string
	err := r.pool.QueryRow(ctx, `
		SELECT `+userCols+` FROM app_user
		 WHERE office_id = $1 AND email = $2 AND status <> 'scrubbed'`,
		officeID, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.OfficeID, &u.Email, &u.Name, &u.Role, &u.PasswordHash,
			&u.VerifiedAt, &status, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Status = repository.UserStatus(status)
	return &u, nil
}

func (r *UserRepo) getWhere(ctx context.Context, where string, arg any) (*repository.User, error) {
	var u repository.User
	var status string
	err := r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE `+where, arg).
		Scan(&u.ID, &u.OfficeID, &u.Email, &u.Name, &u.Role, &u.PasswordHash,
			&u.VerifiedAt, &status, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Status = repository.UserStatus(status)
	return &u, nil
}

func (r *UserRepo) SetVerified(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE app_user SET verified_at = $2, updated_at = now() WHERE id = $1`, id, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE app_user SET password_hash = $2, updated_at = now() WHERE id = $1`, id, newHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetStatus(ctx context.Context, id string, status repository.UserStatus) error {
	var tag pgconn.CommandTag
	var err error
	if status == repository.UserScrubbed {
		// borrado lógico: limpiar identificadores, conservar la fila
		tag, err = r.pool.Exec(ctx, `
			UPDATE app_user
			   SET status = 'scrubbed', email = '', name = '', password_hash = '',
			       updated_at = now()
			 WHERE id = $1`, id)
	} else {
		tag, err = r.pool.Exec(ctx, `
			UPDATE app_user SET status = $2, updated_at = now() WHERE id = $1`,
			id, string(status))
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
