package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// OfficeRepo implementa repository.OfficeRepository.
type OfficeRepo struct {
	pool querier
}

const officeCols = `id, name, COALESCE(slug,''), contact_email, contact_phone, address,
		default_tax_year, active, created_at, updated_at`

func (r *OfficeRepo) Create(ctx context.Context, input repository.CreateOfficeInput) (*repository.Office, error) {
	now := time.Now().UTC()
	o := repository.Office{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Slug:           input.Slug,
		ContactEmail:   input.ContactEmail,
		ContactPhone:   input.ContactPhone,
		Address:        input.Address,
		DefaultTaxYear: input.DefaultTaxYear,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var slug any
	if o.Slug != "" {
		slug = o.Slug
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO office (id, name, slug, contact_email, contact_phone, address,
		                    default_tax_year, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $8)`,
		o.ID, o.Name, slug, o.ContactEmail, o.ContactPhone, o.Address, o.DefaultTaxYear, now)
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OfficeRepo) GetByID(ctx context.Context, id string) (*repository.Office, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *OfficeRepo) GetBySlug(ctx context.Context, slug string) (*repository.Office, error) {
	return r.getWhere(ctx, `slug = $1`, slug)
}

func (r *OfficeRepo) getWhere(ctx context.Context, where string, arg any) (*repository.Office, error) {
	var o repository.Office
	err := r.pool.QueryRow(ctx, `SELECT `+officeCols+` FROM office WHERE `+where, arg).
		Scan(&o.ID, &o.Name, &o.Slug, &o.ContactEmail, &o.ContactPhone, &o.Address,
			&o.DefaultTaxYear, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OfficeRepo) List(ctx context.Context) ([]repository.Office, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+officeCols+` FROM office ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []repository.Office
	for rows.Next() {
		var o repository.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.ContactEmail, &o.ContactPhone, &o.Address,
			&o.DefaultTaxYear, &o.Active, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OfficeRepo) Update(ctx context.Context, office *repository.Office) error {
	var slug any
	if office.Slug != "" {
		slug = office.Slug
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE office
		   SET name = $2, slug = $3, contact_email = $4, contact_phone = $5,
		       address = $6, default_tax_year = $7, updated_at = now()
		 WHERE id = $1`,
		office.ID, office.Name, slug, office.ContactEmail, office.ContactPhone,
		office.Address, office.DefaultTaxYear)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OfficeRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE office SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
