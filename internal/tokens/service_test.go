package tokens

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/store/memory"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *repository.User) {
	t.Helper()
	users := memory.NewUserStore()
	u, err := users.Create(context.Background(), repository.CreateUserInput{
		OfficeID: "office-1",
		Email:    "ana@example.com",
		Name:     "Ana",
		Role:     "client",
	})
	require.NoError(t, err)
	return NewService(memory.NewEmailTokenStore(), users, opts...), u
}

func TestIssueAndConsumeOnce(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	issued, err := svc.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	assert.WithinDuration(t, time.Now().Add(DefaultVerifyTTL), issued.ExpiresAt, time.Minute)

	res, err := svc.Consume(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, StatusValid, res.Status)
	assert.Equal(t, u.ID, res.UserID)

	// segundo consumo: already_used, no un error genérico
	res, err = svc.Consume(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyUsed, res.Status)
}

func TestConsumeVerificationMarksUserVerified(t *testing.T) {
	users := memory.NewUserStore()
	ctx := context.Background()
	u, err := users.Create(ctx, repository.CreateUserInput{OfficeID: "o", Email: "x@example.com", Role: "client"})
	require.NoError(t, err)
	svc := NewService(memory.NewEmailTokenStore(), users)

	issued, err := svc.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)
	_, err = svc.Consume(ctx, issued.Token)
	require.NoError(t, err)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.VerifiedAt)
}

func TestValidate_Expired(t *testing.T) {
	// TTL negativo fuerza la expiración al pasado
	svc, u := newTestService(t, WithVerifyTTL(-time.Minute))
	ctx := context.Background()

	issued, err := svc.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)

	st, err := svc.Validate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, st)

	// el consumo también falla cerrado
	res, err := svc.Consume(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, res.Status)
}

func TestUsedWinsOverExpired(t *testing.T) {
	svc, u := newTestService(t, WithVerifyTTL(30*time.Millisecond))
	ctx := context.Background()

	issued, err := svc.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)
	res, err := svc.Consume(ctx, issued.Token)
	require.NoError(t, err)
	require.Equal(t, StatusValid, res.Status)

	time.Sleep(50 * time.Millisecond)

	// usado y expirado a la vez: reporta already_used
	st, err := svc.Validate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyUsed, st)
}

func TestValidate_NotFoundAndMalformed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// bien formado pero inexistente
	st, err := svc.Validate(ctx, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, st)

	// malformado: input inválido, rechazado antes de tocar estado
	_, err = svc.Validate(ctx, "not a token!!")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = svc.Consume(ctx, "")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestValidateNeverMutates(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	issued, err := svc.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		st, err := svc.Validate(ctx, issued.Token)
		require.NoError(t, err)
		assert.Equal(t, StatusValid, st)
	}
}

func TestConcurrentConsume_ExactlyOneWinner(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		issued, err := svc.IssueReset(ctx, u.ID)
		require.NoError(t, err)

		const goroutines = 8
		results := make([]Status, goroutines)
		errs := make([]error, goroutines)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				<-start
				res, err := svc.Consume(ctx, issued.Token)
				if err != nil {
					errs[g] = err
					return
				}
				results[g] = res.Status
			}(g)
		}
		close(start)
		wg.Wait()

		// los asserts se hacen aquí, nunca dentro de las goroutines
		for g, err := range errs {
			require.NoError(t, err, "goroutine %d", g)
		}

		wins := 0
		for _, st := range results {
			switch st {
			case StatusValid:
				wins++
			case StatusAlreadyUsed:
			default:
				t.Fatalf("status inesperado: %s", st)
			}
		}
		require.Equal(t, 1, wins, "exactamente un consumo debe ganar")
	}
}

func TestIncrementResend(t *testing.T) {
	svc, u := newTestService(t)
	ctx := context.Background()

	issued, err := svc.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)

	n, err := svc.IncrementResend(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = svc.IncrementResend(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// bookkeeping, no enforcement: el token sigue válido
	st, err := svc.Validate(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, StatusValid, st)
}

func TestPurgeExpired(t *testing.T) {
	users := memory.NewUserStore()
	ctx := context.Background()
	u, err := users.Create(ctx, repository.CreateUserInput{OfficeID: "o", Email: "p@example.com", Role: "client"})
	require.NoError(t, err)

	store := memory.NewEmailTokenStore()
	expired := NewService(store, users, WithVerifyTTL(-time.Minute))
	alive := NewService(store, users)

	_, err = expired.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)
	used, err := alive.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)
	_, err = alive.Consume(ctx, used.Token)
	require.NoError(t, err)
	keep, err := alive.IssueVerification(ctx, u.ID, u.Email)
	require.NoError(t, err)

	n, err := alive.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	st, err := alive.Validate(ctx, keep.Token)
	require.NoError(t, err)
	assert.Equal(t, StatusValid, st)
}

func TestIssueUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.IssueReset(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
