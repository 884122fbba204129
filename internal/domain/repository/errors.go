package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: duplicado, constraint violation).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	// Se distingue de ErrNotFound: un rol desconocido es input inválido,
	// un token que no está en la tabla es not found.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTokenExpired indica que el token ya expiró.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenUsed indica que el token ya fue consumido.
	// "used" es un hecho permanente; "expired" se deriva del reloj. Un token
	// usado que además expiró reporta ErrTokenUsed.
	ErrTokenUsed = errors.New("token already used")

	// ErrPrivilegedRole indica que la operación no aplica a roles privilegiados
	// (admin, super_admin): su acceso no puede restringirse con overrides.
	ErrPrivilegedRole = errors.New("not applicable to privileged role")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
