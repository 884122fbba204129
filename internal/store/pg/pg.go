// Package pg implementa los repositorios del core sobre PostgreSQL (pgx).
//
// Las garantías de atomicidad del contrato se apoyan en el storage: el
// consumo de tokens es un UPDATE condicional (CAS en una sola vuelta), el
// bulk de overrides corre dentro de una transacción y el upsert de branding
// es un único INSERT ... ON CONFLICT DO UPDATE.
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier es el subconjunto del pool que usan los repositorios. Permite
// inyectar un mock en los tests de los caminos con garantías de atomicidad.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store agrupa los repositorios PostgreSQL sobre un pool compartido.
type Store struct {
	pool *pgxpool.Pool

	Overrides *OverrideRepo
	Tokens    *EmailTokenRepo
	Branding  *BrandingRepo
	Offices   *OfficeRepo
	Users     *UserRepo
	Audit     *AuditRepo
}

// Connect abre el pool y construye los repositorios.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return newStore(pool), nil
}

func newStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:      pool,
		Overrides: &OverrideRepo{pool: pool},
		Tokens:    &EmailTokenRepo{pool: pool},
		Branding:  &BrandingRepo{pool: pool},
		Offices:   &OfficeRepo{pool: pool},
		Users:     &UserRepo{pool: pool},
		Audit:     &AuditRepo{pool: pool},
	}
}

// Close cierra el pool.
func (s *Store) Close() { s.pool.Close() }

// Migrate aplica el DDL del core. Idempotente (IF NOT EXISTS).
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaDDL)
	return err
}
