package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/security/password"
	"github.com/dropDatabas3/gestoria/internal/store/memory"
)

// parámetros bajos para que los tests no quemen CPU en argon2
var testParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func newTestService() *Service {
	return NewService(memory.NewUserStore(), WithParams(testParams))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		OfficeID: "office-1",
		Email:    "ana@example.com",
		Name:     "Ana",
		Role:     "agent",
		Password: "correcto-caballo",
	})
	require.NoError(t, err)
	assert.Equal(t, repository.UserActive, u.Status)
	assert.NotEqual(t, "correcto-caballo", u.PasswordHash)

	got, err := svc.Authenticate(ctx, "office-1", "ana@example.com", "correcto-caballo")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "office-1", "ana@example.com", "otra-cosa")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{OfficeID: "o", Email: "a@b.com", Role: "boss", Password: "doce-letras!"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{OfficeID: "o", Email: "sin-arroba", Role: "client", Password: "doce-letras!"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{OfficeID: "o", Email: "a@b.com", Role: "client", Password: "corta"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestSetPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{OfficeID: "o", Email: "a@b.com", Role: "client", Password: "password-vieja"})
	require.NoError(t, err)

	require.NoError(t, svc.SetPassword(ctx, u.ID, "password-nueva"))

	_, err = svc.Authenticate(ctx, "o", "a@b.com", "password-vieja")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.Authenticate(ctx, "o", "a@b.com", "password-nueva")
	assert.NoError(t, err)
}

func TestLifecycle_DeactivateReactivate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{OfficeID: "o", Email: "a@b.com", Role: "client", Password: "doce-letras!"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, u.ID))
	_, err = svc.Authenticate(ctx, "o", "a@b.com", "doce-letras!")
	assert.ErrorIs(t, err, repository.ErrNotFound, "cuenta desactivada no autentica")

	require.NoError(t, svc.Reactivate(ctx, u.ID))
	_, err = svc.Authenticate(ctx, "o", "a@b.com", "doce-letras!")
	assert.NoError(t, err)
}

func TestScrub_KeepsRowForeignRefsSafe(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{OfficeID: "o", Email: "a@b.com", Name: "Ana", Role: "client", Password: "doce-letras!"})
	require.NoError(t, err)

	require.NoError(t, svc.Scrub(ctx, u.ID))

	// la fila sigue resolviendo por ID: las FKs del CRM no cuelgan
	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.UserScrubbed, got.Status)
	assert.Empty(t, got.Email)
	assert.Empty(t, got.Name)
	assert.Empty(t, got.PasswordHash)

	// irreversible
	err = svc.Reactivate(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}
