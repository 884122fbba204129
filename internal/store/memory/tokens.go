package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// EmailTokenStore implementa repository.EmailTokenRepository en memoria.
// Consume es la sección crítica que hace compare-and-set: leer el estado y
// marcar usado es indivisible bajo el mutex, así dos redenciones
// concurrentes del mismo token nunca ganan las dos.
type EmailTokenStore struct {
	mu   sync.Mutex
	data map[string]*repository.EmailToken // key: token hash
}

func NewEmailTokenStore() *EmailTokenStore {
	return &EmailTokenStore{data: make(map[string]*repository.EmailToken)}
}

func (s *EmailTokenStore) Create(ctx context.Context, input repository.CreateEmailTokenInput) (*repository.EmailToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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
	s.data[input.TokenHash] = t
	cp := *t
	return &cp, nil
}

func (s *EmailTokenStore) GetByHash(ctx context.Context, tokenHash string) (*repository.EmailToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	if t.UsedAt != nil {
		u := *t.UsedAt
		cp.UsedAt = &u
	}
	return &cp, nil
}

func (s *EmailTokenStore) Consume(ctx context.Context, tokenHash string) (*repository.EmailToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// "usado" es permanente y gana sobre "expirado", que depende del reloj
	if t.UsedAt != nil {
		return nil, repository.ErrTokenUsed
	}
	now := time.Now().UTC()
	if now.After(t.ExpiresAt) {
		return nil, repository.ErrTokenExpired
	}
	t.UsedAt = &now
	cp := *t
	u := now
	cp.UsedAt = &u
	return &cp, nil
}

func (s *EmailTokenStore) IncrementResend(ctx context.Context, tokenHash string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data[tokenHash]
	if !ok {
		return 0, repository.ErrNotFound
	}
	t.ResendCount++
	return t.ResendCount, nil
}

func (s *EmailTokenStore) DeleteExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	n := 0
	for h, t := range s.data {
		if t.UsedAt != nil || now.After(t.ExpiresAt) {
			delete(s.data, h)
			n++
		}
	}
	return n, nil
}
