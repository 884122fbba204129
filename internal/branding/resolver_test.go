package branding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachemem "github.com/dropDatabas3/gestoria/internal/cache/memory"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/store/memory"
)

func str(s string) *string { return &s }

func TestResolve_NoOffice(t *testing.T) {
	r := NewResolver(memory.NewBrandingStore())

	v, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	d := PlatformDefaults()
	assert.Equal(t, d.CompanyName, v.CompanyName)
	assert.Equal(t, d.PrimaryColor, v.PrimaryColor)
	assert.Empty(t, v.LogoRef)
	assert.False(t, v.Custom)
}

func TestResolve_OfficeWithoutRecord(t *testing.T) {
	r := NewResolver(memory.NewBrandingStore())

	v, err := r.Resolve(context.Background(), "office-1")
	require.NoError(t, err)
	assert.Equal(t, PlatformDefaults().CompanyName, v.CompanyName)
	assert.Equal(t, PlatformDefaults().AccentColor, v.AccentColor)
	assert.False(t, v.Custom)
}

func TestResolve_FieldLevelFallback(t *testing.T) {
	r := NewResolver(memory.NewBrandingStore())
	ctx := context.Background()

	// nombre fijado, logo aún sin subir
	_, err := r.Upsert(ctx, "office-1", repository.BrandingPatch{
		CompanyName: str("Asesoría Pérez"),
	})
	require.NoError(t, err)

	v, err := r.Resolve(ctx, "office-1")
	require.NoError(t, err)
	assert.Equal(t, "Asesoría Pérez", v.CompanyName)
	assert.Empty(t, v.LogoRef, "logo cae al default de plataforma (asset embebido)")
	assert.Equal(t, PlatformDefaults().PrimaryColor, v.PrimaryColor)
	assert.True(t, v.Custom)
}

func TestUpsert_PartialMergeKeepsPrevious(t *testing.T) {
	r := NewResolver(memory.NewBrandingStore())
	ctx := context.Background()

	_, err := r.Upsert(ctx, "office-1", repository.BrandingPatch{
		CompanyName:  str("Asesoría Pérez"),
		PrimaryColor: str("#123456"),
	})
	require.NoError(t, err)

	// segundo write parcial: solo el logo; lo anterior se conserva
	v, err := r.Upsert(ctx, "office-1", repository.BrandingPatch{
		LogoRef: str("logos/perez.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asesoría Pérez", v.CompanyName)
	assert.Equal(t, "#123456", v.PrimaryColor)
	assert.Equal(t, "logos/perez.png", v.LogoRef)
}

func TestUpsert_ClearFieldFallsBack(t *testing.T) {
	r := NewResolver(memory.NewBrandingStore())
	ctx := context.Background()

	_, err := r.Upsert(ctx, "office-1", repository.BrandingPatch{PrimaryColor: str("#123456")})
	require.NoError(t, err)
	v, err := r.Upsert(ctx, "office-1", repository.BrandingPatch{PrimaryColor: str("")})
	require.NoError(t, err)
	assert.Equal(t, PlatformDefaults().PrimaryColor, v.PrimaryColor)
}

func TestReset_NoResidue(t *testing.T) {
	r := NewResolver(memory.NewBrandingStore())
	ctx := context.Background()

	_, err := r.Upsert(ctx, "office-1", repository.BrandingPatch{
		CompanyName: str("Asesoría Pérez"),
		LogoRef:     str("logos/perez.png"),
		AccentColor: str("#ff0000"),
	})
	require.NoError(t, err)

	require.NoError(t, r.Reset(ctx, "office-1"))

	v, err := r.Resolve(ctx, "office-1")
	require.NoError(t, err)
	d := PlatformDefaults()
	assert.Equal(t, d.CompanyName, v.CompanyName)
	assert.Equal(t, d.AccentColor, v.AccentColor)
	assert.Empty(t, v.LogoRef)
	assert.False(t, v.Custom)

	// reset de una oficina sin registro es no-op
	require.NoError(t, r.Reset(ctx, "office-2"))
}

func TestResolve_CacheInvalidation(t *testing.T) {
	r := NewResolver(memory.NewBrandingStore(), WithCache(cachemem.New(time.Minute), time.Minute))
	ctx := context.Background()

	_, err := r.Upsert(ctx, "office-1", repository.BrandingPatch{CompanyName: str("Asesoría Pérez")})
	require.NoError(t, err)

	v, err := r.Resolve(ctx, "office-1")
	require.NoError(t, err)
	assert.Equal(t, "Asesoría Pérez", v.CompanyName)

	// el upsert invalida: la siguiente lectura no sirve el valor viejo
	_, err = r.Upsert(ctx, "office-1", repository.BrandingPatch{CompanyName: str("Asesoría García")})
	require.NoError(t, err)
	v, err = r.Resolve(ctx, "office-1")
	require.NoError(t, err)
	assert.Equal(t, "Asesoría García", v.CompanyName)

	require.NoError(t, r.Reset(ctx, "office-1"))
	v, err = r.Resolve(ctx, "office-1")
	require.NoError(t, err)
	assert.False(t, v.Custom)
}
