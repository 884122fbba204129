// Package tokens implementa el ciclo de vida de tokens de un solo uso para
// verificación de email y password reset.
//
// Máquina de estados: issued → used (consume antes de expirar, terminal) y
// issued → expired (el reloj pasa expires_at, terminal). Un token usado que
// además expiró reporta already_used: "usado" es un hecho permanente,
// "expirado" se deriva del reloj en el momento de la consulta.
package tokens

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"context"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	sectoken "github.com/dropDatabas3/gestoria/internal/security/token"
)

// Status es el resultado de validar o consumir un token.
type Status string

const (
	StatusValid       Status = "valid"
	StatusExpired     Status = "expired"
	StatusAlreadyUsed Status = "already_used"
	StatusNotFound    Status = "not_found"
)

const (
	// DefaultVerifyTTL es la vigencia por defecto de un token de verificación.
	DefaultVerifyTTL = 24 * time.Hour
	// DefaultResetTTL es la vigencia por defecto de un token de reset,
	// más corta por ser recuperación de credenciales.
	DefaultResetTTL = 1 * time.Hour

	tokenBytes = 32
)

// Issued es lo único que el core entrega al emisor: el string opaco (una sola
// vez, no se persiste) y su expiración. El cuerpo del email lo arma la capa
// de fuera.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// ConsumeResult describe el desenlace de un intento de consumo.
type ConsumeResult struct {
	Status Status
	UserID string
	Email  string
	Type   repository.EmailTokenType
}

// Service gestiona emisión, validación, consumo y purga de tokens.
type Service struct {
	tokens    repository.EmailTokenRepository
	users     repository.UserRepository
	verifyTTL time.Duration
	resetTTL  time.Duration
}

// Option configura el Service.
type Option func(*Service)

// WithVerifyTTL cambia la vigencia de tokens de verificación.
func WithVerifyTTL(d time.Duration) Option {
	return func(s *Service) { s.verifyTTL = d }
}

// WithResetTTL cambia la vigencia de tokens de reset.
func WithResetTTL(d time.Duration) Option {
	return func(s *Service) { s.resetTTL = d }
}

// NewService crea el manager. users se consulta en modo lectura para
// confirmar que la cuenta existe antes de emitir, y se escribe únicamente al
// consumir un token de verificación (marcar email verificado).
func NewService(tokens repository.EmailTokenRepository, users repository.UserRepository, opts ...Option) *Service {
	s := &Service{
		tokens:    tokens,
		users:     users,
		verifyTTL: DefaultVerifyTTL,
		resetTTL:  DefaultResetTTL,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// IssueVerification emite un token de verificación para (userID, email).
// El plaintext se retorna una sola vez; en DB queda solo su hash.
func (s *Service) IssueVerification(ctx context.Context, userID, email string) (*Issued, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.issue(ctx, repository.CreateEmailTokenInput{
		UserID: userID,
		Email:  email,
		Type:   repository.EmailTokenVerification,
		TTL:    s.verifyTTL,
	})
}

// IssueReset emite un token de password reset para userID.
func (s *Service) IssueReset(ctx context.Context, userID string) (*Issued, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.issue(ctx, repository.CreateEmailTokenInput{
		UserID: userID,
		Type:   repository.EmailTokenPasswordReset,
		TTL:    s.resetTTL,
	})
}

func (s *Service) issue(ctx context.Context, input repository.CreateEmailTokenInput) (*Issued, error) {
	plain, err := sectoken.GenerateOpaqueToken(tokenBytes)
	if err != nil {
		return nil, err
	}
	input.TokenHash = sectoken.SHA256Base64URL(plain)
	t, err := s.tokens.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return &Issued{Token: plain, ExpiresAt: t.ExpiresAt}, nil
}

// Validate clasifica un token sin mutar estado. El caller decide qué hacer
// con el status; expired y already_used son terminales y no reintenta.
func (s *Service) Validate(ctx context.Context, plain string) (Status, error) {
	if err := checkShape(plain); err != nil {
		return "", err
	}
	t, err := s.tokens.GetByHash(ctx, sectoken.SHA256Base64URL(plain))
	if errors.Is(err, repository.ErrNotFound) {
		return StatusNotFound, nil
	}
	if err != nil {
		return "", err
	}
	switch {
	case t.UsedAt != nil:
		return StatusAlreadyUsed, nil
	case time.Now().UTC().After(t.ExpiresAt):
		return StatusExpired, nil
	default:
		return StatusValid, nil
	}
}

// Consume marca el token como usado si y solo si sigue válido. El CAS vive en
// el repositorio: de dos consumos concurrentes exactamente uno recibe
// StatusValid; el perdedor recibe already_used, que es un desenlace normal
// bajo concurrencia, no una falla. Al consumir un token de verificación se
// marca la cuenta como verificada.
func (s *Service) Consume(ctx context.Context, plain string) (*ConsumeResult, error) {
	if err := checkShape(plain); err != nil {
		return nil, err
	}
	t, err := s.tokens.Consume(ctx, sectoken.SHA256Base64URL(plain))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &ConsumeResult{Status: StatusNotFound}, nil
	case errors.Is(err, repository.ErrTokenUsed):
		return &ConsumeResult{Status: StatusAlreadyUsed}, nil
	case errors.Is(err, repository.ErrTokenExpired):
		return &ConsumeResult{Status: StatusExpired}, nil
	case err != nil:
		return nil, err
	}

	if t.Type == repository.EmailTokenVerification {
		if err := s.users.SetVerified(ctx, t.UserID, time.Now().UTC()); err != nil {
			return nil, err
		}
	}
	return &ConsumeResult{Status: StatusValid, UserID: t.UserID, Email: t.Email, Type: t.Type}, nil
}

// IncrementResend incrementa el contador de reenvíos de un token de
// verificación. Solo bookkeeping para que la capa de arriba pueda limitar
// reenvíos; no es un punto de enforcement ni invalida el token.
func (s *Service) IncrementResend(ctx context.Context, plain string) (int, error) {
	if err := checkShape(plain); err != nil {
		return 0, err
	}
	return s.tokens.IncrementResend(ctx, sectoken.SHA256Base64URL(plain))
}

// PurgeExpired elimina tokens expirados o usados. Pensado para correr
// periódicamente; es seguro frente a emisión y validación concurrentes.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	return s.tokens.DeleteExpired(ctx)
}

// checkShape rechaza strings malformados antes de tocar estado: input
// inválido es un error distinto de not_found.
func checkShape(plain string) error {
	if plain == "" {
		return fmt.Errorf("%w: empty token", repository.ErrInvalidInput)
	}
	raw, err := base64.RawURLEncoding.DecodeString(plain)
	if err != nil || len(raw) < tokenBytes {
		return fmt.Errorf("%w: malformed token", repository.ErrInvalidInput)
	}
	return nil
}
