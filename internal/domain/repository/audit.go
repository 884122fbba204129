package repository

import (
	"context"
	"time"
)

// AuditEntry es un registro append-only de un cambio de permisos. Lo escriben
// las mutaciones del motor de permisos; lo lee reporting. OldValue nil
// significa que no existía override previo para (role, slug).
type AuditEntry struct {
	ID        string
	ActorID   string
	Role      string
	Slug      string
	OldValue  *bool
	NewValue  bool
	CreatedAt time.Time
}

// ListAuditFilter opciones para listar el audit trail.
type ListAuditFilter struct {
	Role   string // opcional: filtrar por rol
	Limit  int    // default 100
	Offset int
}

// AuditRepository define el audit trail de cambios de permisos.
// Solo append y lectura: las entradas nunca se modifican ni borran.
type AuditRepository interface {
	// Append registra una entrada.
	Append(ctx context.Context, entry AuditEntry) error

	// List retorna entradas ordenadas de más reciente a más antigua.
	List(ctx context.Context, filter ListAuditFilter) ([]AuditEntry, error)
}
