package pg

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

var tokenRowCols = []string{"token", "id", "user_id", "kind", "email", "expires_at", "used_at", "resend_count", "created_at"}

func tokenRow(usedAt *time.Time, expiresAt time.Time) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows(tokenRowCols).
		AddRow("hash-1", "tok-1", "user-1", "password_reset", "", expiresAt, usedAt, 0, now)
}

func TestConsume_WinnerFlipsRowInOneRoundTrip(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	used := time.Now().UTC()
	mock.ExpectQuery(`UPDATE tokens`).
		WithArgs("hash-1").
		WillReturnRows(tokenRow(&used, used.Add(time.Hour)))

	repo := &EmailTokenRepo{pool: mock}
	tok, err := repo.Consume(context.Background(), "hash-1")
	require.NoError(t, err)
	require.NotNil(t, tok.UsedAt)
	assert.Equal(t, repository.EmailTokenPasswordReset, tok.Type)
	assert.Equal(t, "user-1", tok.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsume_LoserClassifiedAsUsed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// el UPDATE condicional no toca fila; la relectura la muestra ya usada
	used := time.Now().UTC().Add(-time.Minute)
	mock.ExpectQuery(`UPDATE tokens`).WithArgs("hash-1").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT token, id`).WithArgs("hash-1").
		WillReturnRows(tokenRow(&used, used.Add(time.Hour)))

	repo := &EmailTokenRepo{pool: mock}
	_, err = repo.Consume(context.Background(), "hash-1")
	assert.ErrorIs(t, err, repository.ErrTokenUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsume_LoserClassifiedAsExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE tokens`).WithArgs("hash-1").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT token, id`).WithArgs("hash-1").
		WillReturnRows(tokenRow(nil, time.Now().UTC().Add(-time.Minute)))

	repo := &EmailTokenRepo{pool: mock}
	_, err = repo.Consume(context.Background(), "hash-1")
	assert.ErrorIs(t, err, repository.ErrTokenExpired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsume_UnknownHashIsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE tokens`).WithArgs("hash-x").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT token, id`).WithArgs("hash-x").WillReturnError(pgx.ErrNoRows)

	repo := &EmailTokenRepo{pool: mock}
	_, err = repo.Consume(context.Background(), "hash-x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
