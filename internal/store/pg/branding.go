package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// BrandingRepo implementa repository.BrandingRepository.
// El merge parcial es un único INSERT ... ON CONFLICT DO UPDATE con COALESCE
// por campo: una lectura concurrente ve la versión anterior o la nueva
// completa, nunca una mezcla.
type BrandingRepo struct {
	pool querier
}

const brandingCols = `office_id, company_name, logo_ref, primary_color, secondary_color,
		accent_color, default_theme, reply_to_email, reply_to_name, updated_at`

func (r *BrandingRepo) Get(ctx context.Context, officeID string) (*repository.Branding, error) {
	var b repository.Branding
	err := r.pool.QueryRow(ctx, `
		SELECT `+brandingCols+`
		  FROM office_branding
		 WHERE office_id = $1`, officeID).
		Scan(&b.OfficeID, &b.CompanyName, &b.LogoRef, &b.PrimaryColor, &b.SecondaryColor,
			&b.AccentColor, &b.DefaultTheme, &b.ReplyToEmail, &b.ReplyToName, &b.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandingRepo) Upsert(ctx context.Context, officeID string, p repository.BrandingPatch) (*repository.Branding, error) {
	var b repository.Branding
	err := r.pool.QueryRow(ctx, `
		INSERT INTO office_branding (`+brandingCols+`)
		VALUES ($1, COALESCE($2,''), COALESCE($3,''), COALESCE($4,''), COALESCE($5,''),
		        COALESCE($6,''), COALESCE($7,''), COALESCE($8,''), COALESCE($9,''), $10)
		ON CONFLICT (office_id) DO UPDATE SET
		    company_name    = COALESCE($2, office_branding.company_name),
		    logo_ref        = COALESCE($3, office_branding.logo_ref),
		    primary_color   = COALESCE($4, office_branding.primary_color),
		    secondary_color = COALESCE($5, office_branding.secondary_color),
		    accent_color    = COALESCE($6, office_branding.accent_color),
		    default_theme   = COALESCE($7, office_branding.default_theme),
		    reply_to_email  = COALESCE($8, office_branding.reply_to_email),
		    reply_to_name   = COALESCE($9, office_branding.reply_to_name),
		    updated_at      = $10
		RETURNING `+brandingCols,
		officeID, p.CompanyName, p.LogoRef, p.PrimaryColor, p.SecondaryColor,
		p.AccentColor, p.DefaultTheme, p.ReplyToEmail, p.ReplyToName, time.Now().UTC()).
		Scan(&b.OfficeID, &b.CompanyName, &b.LogoRef, &b.PrimaryColor, &b.SecondaryColor,
			&b.AccentColor, &b.DefaultTheme, &b.ReplyToEmail, &b.ReplyToName, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandingRepo) Delete(ctx context.Context, officeID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM office_branding WHERE office_id = $1`, officeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
