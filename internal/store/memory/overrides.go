package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

type overrideKey struct {
	role string
	slug string
}

// OverrideStore implementa repository.OverrideRepository en memoria.
// Un único RWMutex cubre también el BulkUpsert completo, así un ListAll
// concurrente nunca observa una aplicación parcial.
type OverrideStore struct {
	mu   sync.RWMutex
	data map[overrideKey]repository.Override
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{data: make(map[overrideKey]repository.Override)}
}

func (s *OverrideStore) ListForRole(ctx context.Context, role string) ([]repository.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Override
	for k, o := range s.data {
		if k.role == role {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OverrideStore) ListAll(ctx context.Context) ([]repository.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]repository.Override, 0, len(s.data))
	for _, o := range s.data {
		out = append(out, o)
	}
	return out, nil
}

func (s *OverrideStore) Upsert(ctx context.Context, o repository.Override) (*repository.Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := overrideKey{role: o.Role, slug: o.Slug}
	var prev *repository.Override
	if p, ok := s.data[k]; ok {
		p := p
		prev = &p
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now().UTC()
	}
	s.data[k] = o
	return prev, nil
}

func (s *OverrideStore) BulkUpsert(ctx context.Context, role string, grants map[string]bool) (map[string]repository.Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	prev := make(map[string]repository.Override)
	for slug, granted := range grants {
		k := overrideKey{role: role, slug: slug}
		if p, ok := s.data[k]; ok {
			prev[slug] = p
		}
		s.data[k] = repository.Override{Role: role, Slug: slug, Granted: granted, UpdatedAt: now}
	}
	return prev, nil
}
