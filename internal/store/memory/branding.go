package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// BrandingStore implementa repository.BrandingRepository en memoria.
// El merge parcial ocurre bajo el mutex y Get devuelve copias: un Resolve
// concurrente nunca ve un registro con campos de dos versiones.
type BrandingStore struct {
	mu   sync.RWMutex
	data map[string]repository.Branding // key: office id
}

func NewBrandingStore() *BrandingStore {
	return &BrandingStore{data: make(map[string]repository.Branding)}
}

func (s *BrandingStore) Get(ctx context.Context, officeID string) (*repository.Branding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[officeID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := b
	return &cp, nil
}

func (s *BrandingStore) Upsert(ctx context.Context, officeID string, patch repository.BrandingPatch) (*repository.Branding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.data[officeID] // zero value en primera escritura
	b.OfficeID = officeID
	applyPatch(&b, patch)
	b.UpdatedAt = time.Now().UTC()
	s.data[officeID] = b
	cp := b
	return &cp, nil
}

func (s *BrandingStore) Delete(ctx context.Context, officeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[officeID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.data, officeID)
	return nil
}

func applyPatch(b *repository.Branding, p repository.BrandingPatch) {
	if p.CompanyName != nil {
		b.CompanyName = *p.CompanyName
	}
	if p.LogoRef != nil {
		b.LogoRef = *p.LogoRef
	}
	if p.PrimaryColor != nil {
		b.PrimaryColor = *p.PrimaryColor
	}
	if p.SecondaryColor != nil {
		b.SecondaryColor = *p.SecondaryColor
	}
	if p.AccentColor != nil {
		b.AccentColor = *p.AccentColor
	}
	if p.DefaultTheme != nil {
		b.DefaultTheme = *p.DefaultTheme
	}
	if p.ReplyToEmail != nil {
		b.ReplyToEmail = *p.ReplyToEmail
	}
	if p.ReplyToName != nil {
		b.ReplyToName = *p.ReplyToName
	}
}
