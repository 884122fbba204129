package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// EmailTokenRepo implementa repository.EmailTokenRepository.
// El CAS del consumo es un UPDATE condicional en una sola vuelta: de dos
// redenciones concurrentes solo una afecta la fila.
type EmailTokenRepo struct {
	pool querier
}

func (r *EmailTokenRepo) Create(ctx context.Context, input repository.CreateEmailTokenInput) (*repository.EmailToken, error) {
	now := time.Now().UTC()
	t := &repository.EmailToken{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Email:     input.Email,
		Type:      input.Type,
		TokenHash: input.TokenHash,
		ExpiresAt: now.Add(input.TTL),
		CreatedAt: now,
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tokens (token, id, user_id, kind, email, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.TokenHash, t.ID, t.UserID, string(t.Type), t.Email, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *EmailTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*repository.EmailToken, error) {
	var t repository.EmailToken
	var kind string
	err := r.pool.QueryRow(ctx, `
		SELECT token, id, user_id, kind, email, expires_at, used_at, resend_count, created_at
		  FROM tokens
		 WHERE token = $1`, tokenHash).
		Scan(&t.TokenHash, &t.ID, &t.UserID, &kind, &t.Email, &t.ExpiresAt, &t.UsedAt, &t.ResendCount, &t.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Type = repository.EmailTokenType(kind)
	return &t, nil
}

func (r *EmailTokenRepo) Consume(ctx context.Context, tokenHash string) (*repository.EmailToken, error) {
	var t repository.EmailToken
	var kind string
	err := r.pool.QueryRow(ctx, `
		UPDATE tokens
		   SET used_at = now()
		 WHERE token = $1
		   AND used_at IS NULL
		   AND expires_at > now()
		RETURNING token, id, user_id, kind, email, expires_at, used_at, resend_count, created_at`,
		tokenHash).
		Scan(&t.TokenHash, &t.ID, &t.UserID, &kind, &t.Email, &t.ExpiresAt, &t.UsedAt, &t.ResendCount, &t.CreatedAt)
	if err == nil {
		t.Type = repository.EmailTokenType(kind)
		return &t, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	// perdió el CAS: clasificar por qué (usado gana sobre expirado)
	cur, err := r.GetByHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if cur.UsedAt != nil {
		return nil, repository.ErrTokenUsed
	}
	return nil, repository.ErrTokenExpired
}

func (r *EmailTokenRepo) IncrementResend(ctx context.Context, tokenHash string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		UPDATE tokens
		   SET resend_count = resend_count + 1
		 WHERE token = $1
		RETURNING resend_count`, tokenHash).Scan(&n)
	if err == pgx.ErrNoRows {
		return 0, repository.ErrNotFound
	}
	return n, err
}

func (r *EmailTokenRepo) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM tokens
		 WHERE expires_at < now() OR used_at IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
