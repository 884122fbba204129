package repository

import (
	"context"
	"time"
)

// Branding representa la identidad visual custom de una oficina. A lo sumo un
// registro por oficina (1:1). Un campo vacío significa "sin personalizar":
// el resolver aplica fallback a nivel de campo, nunca de registro completo.
type Branding struct {
	OfficeID       string
	CompanyName    string
	LogoRef        string
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	DefaultTheme   string
	ReplyToEmail   string
	ReplyToName    string
	UpdatedAt      time.Time
}

// BrandingPatch contiene los campos a modificar en un upsert parcial.
// Un puntero nil deja el campo como estaba; un puntero a "" lo limpia
// (vuelve al default de plataforma para ese campo).
type BrandingPatch struct {
	CompanyName    *string
	LogoRef        *string
	PrimaryColor   *string
	SecondaryColor *string
	AccentColor    *string
	DefaultTheme   *string
	ReplyToEmail   *string
	ReplyToName    *string
}

// BrandingRepository define operaciones sobre branding por oficina.
type BrandingRepository interface {
	// Get retorna el registro custom de una oficina.
	// Retorna ErrNotFound si nunca se personalizó (caso normal, no error de
	// negocio: el resolver responde con los defaults de plataforma).
	Get(ctx context.Context, officeID string) (*Branding, error)

	// Upsert crea el registro en la primera escritura y después aplica merge
	// parcial: los campos omitidos conservan su valor. El merge es atómico
	// frente a lecturas concurrentes: Get nunca observa un registro con
	// campos de dos versiones distintas.
	Upsert(ctx context.Context, officeID string, patch BrandingPatch) (*Branding, error)

	// Delete elimina el registro custom, sin residuo.
	Delete(ctx context.Context, officeID string) error
}
