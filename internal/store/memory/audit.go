package memory

import (
	"context"
	"sync"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// AuditStore implementa repository.AuditRepository en memoria (append-only).
type AuditStore struct {
	mu      sync.RWMutex
	entries []repository.AuditEntry
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Append(ctx context.Context, entry repository.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *AuditStore) List(ctx context.Context, filter repository.ListAuditFilter) ([]repository.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	// más reciente primero
	var out []repository.AuditEntry
	skipped := 0
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if filter.Role != "" && e.Role != filter.Role {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
