package repository

import (
	"context"
	"time"
)

// UserStatus es el estado de ciclo de vida de una cuenta. El borrado es
// lógico: una cuenta scrubbed conserva su fila (las referencias externas del
// CRM no quedan colgando) pero sus campos identificativos fueron limpiados.
type UserStatus string

const (
	UserActive      UserStatus = "active"
	UserDeactivated UserStatus = "deactivated"
	UserScrubbed    UserStatus = "scrubbed"
)

// User representa una cuenta del sistema: identidad, rol y membresía de
// oficina.
type User struct {
	ID           string
	OfficeID     string
	Email        string
	Name         string
	Role         string
	PasswordHash string
	VerifiedAt   *time.Time
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserInput contiene los datos para crear una cuenta.
type CreateUserInput struct {
	OfficeID     string
	Email        string
	Name         string
	Role         string
	PasswordHash string
}

// UserRepository define operaciones sobre cuentas.
type UserRepository interface {
	// Create crea una cuenta. Retorna ErrConflict si el email ya existe
	// dentro de la oficina.
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// GetByID busca una cuenta por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail busca una cuenta por email dentro de una oficina.
	GetByEmail(ctx context.Context, officeID, email string) (*User, error)

	// SetVerified marca el email de la cuenta como verificado.
	SetVerified(ctx context.Context, id string, at time.Time) error

	// UpdatePasswordHash reemplaza el hash de password.
	UpdatePasswordHash(ctx context.Context, id, newHash string) error

	// SetStatus cambia el estado de ciclo de vida. La transición a
	// UserScrubbed limpia email, nombre y hash además de cambiar el estado;
	// es irreversible.
	SetStatus(ctx context.Context, id string, status UserStatus) error
}
