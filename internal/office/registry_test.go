package office

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/store/memory"
)

func TestCreateAndLookup(t *testing.T) {
	r := NewRegistry(memory.NewOfficeStore())
	ctx := context.Background()

	o, err := r.Create(ctx, repository.CreateOfficeInput{
		Name:           "Asesoría Pérez",
		Slug:           "Perez",
		ContactEmail:   "info@perez.example",
		DefaultTaxYear: 2025,
	})
	require.NoError(t, err)
	assert.Equal(t, "perez", o.Slug, "slug normalizado a minúsculas")
	assert.True(t, o.Active)

	got, err := r.GetBySlug(ctx, "PEREZ")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	got, err = r.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asesoría Pérez", got.Name)
}

func TestCreate_SlugConflictAndValidation(t *testing.T) {
	r := NewRegistry(memory.NewOfficeStore())
	ctx := context.Background()

	_, err := r.Create(ctx, repository.CreateOfficeInput{Name: "Uno", Slug: "perez"})
	require.NoError(t, err)

	_, err = r.Create(ctx, repository.CreateOfficeInput{Name: "Dos", Slug: "perez"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = r.Create(ctx, repository.CreateOfficeInput{Name: "Tres", Slug: "-mal-"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = r.Create(ctx, repository.CreateOfficeInput{Name: ""})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	// slug opcional: dos oficinas sin slug no chocan
	_, err = r.Create(ctx, repository.CreateOfficeInput{Name: "Cuatro"})
	require.NoError(t, err)
	_, err = r.Create(ctx, repository.CreateOfficeInput{Name: "Cinco"})
	require.NoError(t, err)
}

func TestUpdateContactData(t *testing.T) {
	r := NewRegistry(memory.NewOfficeStore())
	ctx := context.Background()

	o, err := r.Create(ctx, repository.CreateOfficeInput{Name: "Asesoría Pérez", Slug: "perez"})
	require.NoError(t, err)

	got, err := r.Update(ctx, o.ID, repository.CreateOfficeInput{
		Name:           "Asesoría Pérez e Hijos",
		Slug:           "Perez-e-hijos",
		ContactEmail:   "info@perez.example",
		ContactPhone:   "+34 600 000 000",
		DefaultTaxYear: 2026,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asesoría Pérez e Hijos", got.Name)
	assert.Equal(t, "perez-e-hijos", got.Slug, "slug normalizado a minúsculas")
	assert.Equal(t, "info@perez.example", got.ContactEmail)
	assert.Equal(t, 2026, got.DefaultTaxYear)

	// el slug anterior queda libre y el nuevo resuelve
	_, err = r.GetBySlug(ctx, "perez")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	byNew, err := r.GetBySlug(ctx, "perez-e-hijos")
	require.NoError(t, err)
	assert.Equal(t, o.ID, byNew.ID)
}

func TestUpdate_Validation(t *testing.T) {
	r := NewRegistry(memory.NewOfficeStore())
	ctx := context.Background()

	a, err := r.Create(ctx, repository.CreateOfficeInput{Name: "Uno", Slug: "uno"})
	require.NoError(t, err)
	_, err = r.Create(ctx, repository.CreateOfficeInput{Name: "Dos", Slug: "dos"})
	require.NoError(t, err)

	_, err = r.Update(ctx, a.ID, repository.CreateOfficeInput{Name: ""})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	// robar el slug de otra oficina: conflicto
	_, err = r.Update(ctx, a.ID, repository.CreateOfficeInput{Name: "Uno", Slug: "dos"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = r.Update(ctx, "nope", repository.CreateOfficeInput{Name: "Uno"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSetActive(t *testing.T) {
	r := NewRegistry(memory.NewOfficeStore())
	ctx := context.Background()

	o, err := r.Create(ctx, repository.CreateOfficeInput{Name: "Asesoría Pérez"})
	require.NoError(t, err)

	require.NoError(t, r.SetActive(ctx, o.ID, false))
	got, err := r.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, r.SetActive(ctx, "nope", true), repository.ErrNotFound)
}
