package repository

import (
	"context"
	"time"
)

// Override representa una excepción runtime al set de permisos por defecto de
// un rol: granted=true añade el permiso, granted=false lo revoca. Es el único
// estado de permisos mutable en runtime; el catálogo por defecto es
// configuración inmutable.
type Override struct {
	Role      string
	Slug      string
	Granted   bool
	UpdatedAt time.Time
}

// OverrideRepository define operaciones sobre la tabla de overrides.
// Única por (role, slug).
type OverrideRepository interface {
	// ListForRole retorna los overrides de un rol.
	ListForRole(ctx context.Context, role string) ([]Override, error)

	// ListAll retorna un snapshot consistente de todos los overrides.
	// Un BulkUpsert concurrente nunca es visible a medias.
	ListAll(ctx context.Context) ([]Override, error)

	// Upsert crea o actualiza un override. Idempotente.
	// Retorna el valor previo (nil si no existía) para auditoría.
	Upsert(ctx context.Context, o Override) (previous *Override, err error)

	// BulkUpsert aplica varios overrides de un rol como unidad atómica:
	// ningún lector concurrente observa una aplicación parcial.
	// Retorna los valores previos indexados por slug (ausente = no existía).
	BulkUpsert(ctx context.Context, role string, grants map[string]bool) (previous map[string]Override, err error)
}
