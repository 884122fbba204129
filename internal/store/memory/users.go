package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

type emailKey struct {
	officeID string
	email    string
}

// UserStore implementa repository.UserRepository en memoria.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]repository.User
	byEmail map[emailKey]string // (office, email) -> id
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]repository.User),
		byEmail: make(map[emailKey]string),
	}
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *UserStore) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := emailKey{officeID: input.OfficeID, email: normEmail(input.Email)}
	if _, ok := s.byEmail[k]; ok {
		return nil, repository.ErrConflict
	}
	now := time.Now().UTC()
	u := repository.User{
		ID:           uuid.NewString(),
		OfficeID:     input.OfficeID,
		Email:        normEmail(input.Email),
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: input.PasswordHash,
		Status:       repository.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[u.ID] = u
	s.byEmail[k] = u.ID
	cp := u
	return &cp, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	if u.VerifiedAt != nil {
		v := *u.VerifiedAt
		cp.VerifiedAt = &v
	}
	return &cp, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, officeID, email string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[emailKey{officeID: officeID, email: normEmail(email)}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := s.byID[id]
	cp := u
	return &cp, nil
}

func (s *UserStore) SetVerified(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	at = at.UTC()
	u.VerifiedAt = &at
	u.UpdatedAt = time.Now().UTC()
	s.byID[id] = u
	return nil
}

func (s *UserStore) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = newHash
	u.UpdatedAt = time.Now().UTC()
	s.byID[id] = u
	return nil
}

func (s *UserStore) SetStatus(ctx context.Context, id string, status repository.UserStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if status == repository.UserScrubbed {
		// borrado lógico: limpiar identificadores, conservar la fila
		delete(s.byEmail, emailKey{officeID: u.OfficeID, email: u.Email})
		u.Email = ""
		u.Name = ""
		u.PasswordHash = ""
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	s.byID[id] = u
	return nil
}
