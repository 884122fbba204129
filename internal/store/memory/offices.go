package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// OfficeStore implementa repository.OfficeRepository en memoria.
type OfficeStore struct {
	mu     sync.RWMutex
	byID   map[string]repository.Office
	bySlug map[string]string // slug -> id
}

func NewOfficeStore() *OfficeStore {
	return &OfficeStore{
		byID:   make(map[string]repository.Office),
		bySlug: make(map[string]string),
	}
}

func (s *OfficeStore) Create(ctx context.Context, input repository.CreateOfficeInput) (*repository.Office, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if input.Slug != "" {
		if _, ok := s.bySlug[input.Slug]; ok {
			return nil, repository.ErrConflict
		}
	}
	now := time.Now().UTC()
	o := repository.Office{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Slug:           input.Slug,
		ContactEmail:   input.ContactEmail,
		ContactPhone:   input.ContactPhone,
		Address:        input.Address,
		DefaultTaxYear: input.DefaultTaxYear,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.byID[o.ID] = o
	if o.Slug != "" {
		s.bySlug[o.Slug] = o.ID
	}
	cp := o
	return &cp, nil
}

func (s *OfficeStore) GetByID(ctx context.Context, id string) (*repository.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (s *OfficeStore) GetBySlug(ctx context.Context, slug string) (*repository.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySlug[slug]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o := s.byID[id]
	cp := o
	return &cp, nil
}

func (s *OfficeStore) List(ctx context.Context) ([]repository.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]repository.Office, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *OfficeStore) Update(ctx context.Context, office *repository.Office) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[office.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if office.Slug != cur.Slug {
		if office.Slug != "" {
			if _, taken := s.bySlug[office.Slug]; taken {
				return repository.ErrConflict
			}
			s.bySlug[office.Slug] = office.ID
		}
		if cur.Slug != "" {
			delete(s.bySlug, cur.Slug)
		}
	}
	up := *office
	up.CreatedAt = cur.CreatedAt
	up.UpdatedAt = time.Now().UTC()
	s.byID[office.ID] = up
	return nil
}

func (s *OfficeStore) SetActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Active = active
	o.UpdatedAt = time.Now().UTC()
	s.byID[id] = o
	return nil
}
