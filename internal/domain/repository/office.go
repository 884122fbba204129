package repository

import (
	"context"
	"time"
)

// Office representa una gestoría (tenant) del sistema.
type Office struct {
	ID             string
	Name           string
	Slug           string // opcional, único cuando está presente
	ContactEmail   string
	ContactPhone   string
	Address        string
	DefaultTaxYear int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateOfficeInput contiene los datos para dar de alta una oficina.
type CreateOfficeInput struct {
	Name           string
	Slug           string
	ContactEmail   string
	ContactPhone   string
	Address        string
	DefaultTaxYear int
}

// OfficeRepository define operaciones sobre oficinas.
type OfficeRepository interface {
	// Create da de alta una oficina. Retorna ErrConflict si el slug ya existe.
	Create(ctx context.Context, input CreateOfficeInput) (*Office, error)

	// GetByID busca una oficina por su UUID.
	GetByID(ctx context.Context, id string) (*Office, error)

	// GetBySlug busca una oficina por su slug.
	GetBySlug(ctx context.Context, slug string) (*Office, error)

	// List retorna todas las oficinas.
	List(ctx context.Context) ([]Office, error)

	// Update actualiza los campos de contacto y el ejercicio fiscal.
	Update(ctx context.Context, office *Office) error

	// SetActive activa o desactiva una oficina.
	SetActive(ctx context.Context, id string, active bool) error
}
