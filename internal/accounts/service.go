// Package accounts es el credential store: identidad, rol, membresía de
// oficina y estado de ciclo de vida de las cuentas.
package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/gestoria/internal/authz"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/security/password"
)

// RegisterInput contiene los datos de alta de una cuenta.
type RegisterInput struct {
	OfficeID string
	Email    string
	Name     string
	Role     string
	Password string
}

// Service implementa las operaciones de cuentas sobre el repositorio de
// usuarios. El hashing es argon2id; la política de passwords es configurable.
type Service struct {
	users  repository.UserRepository
	params password.Params
	policy password.Policy
}

// Option configura el Service.
type Option func(*Service)

// WithPolicy fija la política de passwords.
func WithPolicy(p password.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithParams fija los parámetros de argon2id.
func WithParams(p password.Params) Option {
	return func(s *Service) { s.params = p }
}

// NewService crea el servicio de cuentas.
func NewService(users repository.UserRepository, opts ...Option) *Service {
	s := &Service{
		users:  users,
		params: password.Default,
		policy: password.DefaultPolicy,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register da de alta una cuenta con rol validado y password hasheado.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*repository.User, error) {
	if _, err := authz.ParseRole(input.Role); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", repository.ErrInvalidInput)
	}
	if err := s.CheckPassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := password.Hash(s.params, input.Password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, repository.CreateUserInput{
		OfficeID:     input.OfficeID,
		Email:        email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: hash,
	})
}

// Authenticate verifica credenciales dentro de una oficina. Solo cuentas
// activas pueden autenticar; una cuenta desactivada o scrubbed responde
// como credenciales inválidas para no filtrar su estado.
func (s *Service) Authenticate(ctx context.Context, officeID, email, plain string) (*repository.User, error) {
	u, err := s.users.GetByEmail(ctx, officeID, email)
	if err != nil {
		return nil, err
	}
	if u.Status != repository.UserActive || !password.Verify(plain, u.PasswordHash) {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// CheckPassword valida un password contra la política sin tocar estado.
// Los flujos que gastan recursos de un solo uso (reset) lo llaman antes de
// consumir nada.
func (s *Service) CheckPassword(plain string) error {
	if ok, reasons := s.policy.Validate(plain); !ok {
		return fmt.Errorf("%w: weak password (%s)", repository.ErrInvalidInput, strings.Join(reasons, ","))
	}
	return nil
}

// SetPassword reemplaza el password de una cuenta (flujo de reset).
func (s *Service) SetPassword(ctx context.Context, userID, plain string) error {
	if err := s.CheckPassword(plain); err != nil {
		return err
	}
	hash, err := password.Hash(s.params, plain)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

// Get retorna una cuenta por ID.
func (s *Service) Get(ctx context.Context, userID string) (*repository.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Lookup retorna una cuenta por (oficina, email). Las scrubbed no aparecen.
func (s *Service) Lookup(ctx context.Context, officeID, email string) (*repository.User, error) {
	return s.users.GetByEmail(ctx, officeID, email)
}

// Deactivate pasa la cuenta a estado deactivated (reversible).
func (s *Service) Deactivate(ctx context.Context, userID string) error {
	return s.users.SetStatus(ctx, userID, repository.UserDeactivated)
}

// Reactivate vuelve una cuenta desactivada a active.
func (s *Service) Reactivate(ctx context.Context, userID string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Status == repository.UserScrubbed {
		return fmt.Errorf("%w: scrubbed account", repository.ErrInvalidInput)
	}
	return s.users.SetStatus(ctx, userID, repository.UserActive)
}

// Scrub es el borrado lógico: limpia los campos identificativos y deja la
// cuenta en estado scrubbed. La fila se conserva para que las referencias
// del resto del CRM no queden colgando. Irreversible.
func (s *Service) Scrub(ctx context.Context, userID string) error {
	return s.users.SetStatus(ctx, userID, repository.UserScrubbed)
}
