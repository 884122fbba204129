// Package office es el registro de oficinas (tenants) y sus slugs.
package office

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

var slugRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// Registry gestiona el alta y consulta de oficinas. Las oficinas las crean
// administradores de plataforma; usuarios y branding las referencian por id.
type Registry struct {
	offices repository.OfficeRepository
}

// NewRegistry crea el registro.
func NewRegistry(offices repository.OfficeRepository) *Registry {
	return &Registry{offices: offices}
}

// Create da de alta una oficina. El slug es opcional; si está presente se
// normaliza a minúsculas y debe ser único (estilo subdominio).
func (r *Registry) Create(ctx context.Context, input repository.CreateOfficeInput) (*repository.Office, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name required", repository.ErrInvalidInput)
	}
	if input.Slug != "" {
		input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
		if !slugRe.MatchString(input.Slug) {
			return nil, fmt.Errorf("%w: invalid slug %q", repository.ErrInvalidInput, input.Slug)
		}
	}
	return r.offices.Create(ctx, input)
}

// GetByID busca una oficina por UUID.
func (r *Registry) GetByID(ctx context.Context, id string) (*repository.Office, error) {
	return r.offices.GetByID(ctx, id)
}

// GetBySlug busca una oficina por slug.
func (r *Registry) GetBySlug(ctx context.Context, slug string) (*repository.Office, error) {
	return r.offices.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// List retorna todas las oficinas.
func (r *Registry) List(ctx context.Context) ([]repository.Office, error) {
	return r.offices.List(ctx)
}

// Update reemplaza nombre, slug, datos de contacto y ejercicio fiscal por
// defecto de una oficina existente. El slug sigue las mismas reglas que en
// Create; cambiarlo a uno ya ocupado retorna ErrConflict.
func (r *Registry) Update(ctx context.Context, id string, input repository.CreateOfficeInput) (*repository.Office, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name required", repository.ErrInvalidInput)
	}
	if input.Slug != "" {
		input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
		if !slugRe.MatchString(input.Slug) {
			return nil, fmt.Errorf("%w: invalid slug %q", repository.ErrInvalidInput, input.Slug)
		}
	}
	cur, err := r.offices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cur.Name = input.Name
	cur.Slug = input.Slug
	cur.ContactEmail = input.ContactEmail
	cur.ContactPhone = input.ContactPhone
	cur.Address = input.Address
	cur.DefaultTaxYear = input.DefaultTaxYear
	if err := r.offices.Update(ctx, cur); err != nil {
		return nil, err
	}
	return r.offices.GetByID(ctx, id)
}

// SetActive activa o desactiva una oficina.
func (r *Registry) SetActive(ctx context.Context, id string, active bool) error {
	return r.offices.SetActive(ctx, id, active)
}
