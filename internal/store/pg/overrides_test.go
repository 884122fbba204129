package pg

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var overrideRowCols = []string{"role", "slug", "granted", "updated_at"}

func TestBulkUpsert_RunsInOneTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT role, slug, granted`).
		WithArgs("agent").
		WillReturnRows(pgxmock.NewRows(overrideRowCols).
			AddRow("agent", "billing.manage", false, now))
	mock.ExpectExec(`INSERT INTO role_permission_overrides`).
		WithArgs("agent", "billing.manage", true, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := &OverrideRepo{pool: mock}
	prev, err := repo.BulkUpsert(context.Background(), "agent", map[string]bool{"billing.manage": true})
	require.NoError(t, err)
	require.Contains(t, prev, "billing.manage")
	assert.False(t, prev["billing.manage"].Granted, "el valor previo es el anterior al bulk")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_RollsBackOnWriteError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT role, slug, granted`).
		WithArgs("agent").
		WillReturnRows(pgxmock.NewRows(overrideRowCols))
	mock.ExpectExec(`INSERT INTO role_permission_overrides`).
		WithArgs("agent", "billing.manage", true, pgxmock.AnyArg()).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := &OverrideRepo{pool: mock}
	_, err = repo.BulkUpsert(context.Background(), "agent", map[string]bool{"billing.manage": true})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
