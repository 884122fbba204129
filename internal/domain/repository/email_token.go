package repository

import (
	"context"
	"time"
)

// EmailToken representa un token temporal de un solo uso para verificación de
// email o password reset. El string opaco nunca se persiste: se guarda su hash
// SHA-256 y el plaintext se entrega una sola vez al emisor.
type EmailToken struct {
	ID          string
	UserID      string
	Email       string // solo tokens de verificación
	Type        EmailTokenType
	TokenHash   string
	ExpiresAt   time.Time
	UsedAt      *time.Time
	ResendCount int
	CreatedAt   time.Time
}

// EmailTokenType indica el propósito del token.
type EmailTokenType string

const (
	EmailTokenVerification  EmailTokenType = "email_verification"
	EmailTokenPasswordReset EmailTokenType = "password_reset"
)

// CreateEmailTokenInput contiene los datos para crear un token de email.
type CreateEmailTokenInput struct {
	UserID    string
	Email     string
	Type      EmailTokenType
	TokenHash string
	TTL       time.Duration
}

// EmailTokenRepository define operaciones sobre tokens de email temporales.
type EmailTokenRepository interface {
	// Create crea un nuevo token (verification o password reset).
	Create(ctx context.Context, input CreateEmailTokenInput) (*EmailToken, error)

	// GetByHash busca un token por su hash.
	// Retorna ErrNotFound si no existe. No muta estado.
	GetByHash(ctx context.Context, tokenHash string) (*EmailToken, error)

	// Consume marca el token como usado solo si sigue válido (no usado, no
	// expirado). La transición es compare-and-set: de dos consumos
	// concurrentes del mismo token exactamente uno retorna nil; el perdedor
	// recibe ErrTokenUsed. Retorna ErrTokenUsed, ErrTokenExpired o
	// ErrNotFound según corresponda (usado gana sobre expirado).
	Consume(ctx context.Context, tokenHash string) (*EmailToken, error)

	// IncrementResend incrementa el contador de reenvíos.
	// Solo bookkeeping: no invalida el token ni impone límite.
	IncrementResend(ctx context.Context, tokenHash string) (int, error)

	// DeleteExpired elimina tokens expirados o ya usados (sweep periódico).
	// Seguro frente a emisión/validación concurrentes. Retorna cuántos borró.
	DeleteExpired(ctx context.Context) (int, error)
}
