package authz

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/store/memory"
)

func newTestEngine() (*Engine, *memory.AuditStore) {
	audit := memory.NewAuditStore()
	return NewEngine(DefaultCatalog(), memory.NewOverrideStore(), audit), audit
}

func TestEffectivePermissions_Defaults(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	perms, err := e.EffectivePermissions(ctx, "client")
	require.NoError(t, err)
	assert.Contains(t, perms, "documents.upload")
	assert.Contains(t, perms, "esign.sign")
	assert.NotContains(t, perms, "clients.manage")
	assert.NotContains(t, perms, "billing.view")
}

func TestEffectivePermissions_MatchesHasPermission(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	// algo de estado de overrides para que la propiedad no sea trivial
	require.NoError(t, e.SetOverride(ctx, "actor", "agent", "reports.view", true))
	require.NoError(t, e.SetOverride(ctx, "actor", "agent", "clients.view", false))

	for _, role := range AllRoles() {
		eff, err := e.EffectivePermissions(ctx, string(role))
		require.NoError(t, err)
		inEff := make(map[string]bool, len(eff))
		for _, s := range eff {
			inEff[s] = true
		}
		for _, slug := range e.Catalog().Slugs() {
			has, err := e.HasPermission(ctx, string(role), slug)
			require.NoError(t, err)
			assert.Equalf(t, inEff[slug], has, "role=%s slug=%s", role, slug)
		}
	}
}

func TestPrivilegedBypass(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	for _, role := range []string{"admin", "super_admin"} {
		for _, slug := range e.Catalog().Slugs() {
			has, err := e.HasPermission(ctx, role, slug)
			require.NoError(t, err)
			assert.True(t, has)
		}
		// open-world: incluso un slug que no existe
		has, err := e.HasPermission(ctx, role, "does.not.exist")
		require.NoError(t, err)
		assert.True(t, has)
	}

	// cerrado para el resto: slug desconocido deniega sin error
	has, err := e.HasPermission(ctx, "agent", "does.not.exist")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestUnknownRoleIsCallerError(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.HasPermission(ctx, "manager", "clients.view")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = e.EffectivePermissions(ctx, "")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestSetOverride_Idempotent(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.SetOverride(ctx, "actor", "client", "reports.view", true))
	once, err := e.EffectivePermissions(ctx, "client")
	require.NoError(t, err)

	require.NoError(t, e.SetOverride(ctx, "actor", "client", "reports.view", true))
	twice, err := e.EffectivePermissions(ctx, "client")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Contains(t, twice, "reports.view")
}

func TestSetOverride_PrivilegedRejected(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	err := e.SetOverride(ctx, "actor", "admin", "clients.view", false)
	assert.ErrorIs(t, err, repository.ErrPrivilegedRole)

	err = e.BulkSetOverrides(ctx, "actor", "super_admin", map[string]bool{"clients.view": false})
	assert.ErrorIs(t, err, repository.ErrPrivilegedRole)

	// el bypass sigue intacto
	has, err := e.HasPermission(ctx, "admin", "clients.view")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSetOverride_UnknownSlugRejected(t *testing.T) {
	e, _ := newTestEngine()
	err := e.SetOverride(context.Background(), "actor", "agent", "nope.nope", true)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestBulkSetOverrides_RoundTripInMatrix(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	// A: no está en defaults de client; B: sí está
	err := e.BulkSetOverrides(ctx, "actor", "client", map[string]bool{
		"reports.view":   true,  // grant fuera de defaults
		"documents.view": false, // revoke de un default
	})
	require.NoError(t, err)

	m, err := e.FullMatrix(ctx)
	require.NoError(t, err)
	assert.True(t, m.Cells["client"]["reports.view"])
	assert.False(t, m.Cells["client"]["documents.view"])
}

func TestFullMatrix_ConsistentWithPointQueries(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.SetOverride(ctx, "actor", "tax_office", "billing.manage", false))

	m, err := e.FullMatrix(ctx)
	require.NoError(t, err)
	for role, row := range m.Cells {
		for slug, cell := range row {
			has, err := e.HasPermission(ctx, role, slug)
			require.NoError(t, err)
			assert.Equalf(t, has, cell, "role=%s slug=%s", role, slug)
		}
	}
}

func TestFullMatrix_NoPartialBulkVisible(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	grants := map[string]bool{
		"clients.view":     true,
		"clients.manage":   true,
		"leads.view":       true,
		"leads.manage":     true,
		"billing.view":     true,
		"billing.manage":   true,
		"reports.view":     true,
		"tickets.manage":   true,
		"documents.upload": true,
	}
	revokes := make(map[string]bool, len(grants))
	for s := range grants {
		revokes[s] = false
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				_ = e.BulkSetOverrides(ctx, "actor", "client", grants)
			} else {
				_ = e.BulkSetOverrides(ctx, "actor", "client", revokes)
			}
		}
		close(stop)
	}()

	// cada lectura debe ver todos los slugs del bulk con el mismo valor
	for {
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
		m, err := e.FullMatrix(ctx)
		require.NoError(t, err)
		row := m.Cells["client"]
		first, seen := false, false
		for s := range grants {
			if !seen {
				first, seen = row[s], true
				continue
			}
			require.Equal(t, first, row[s], "bulk update observado a medias")
		}
	}
}

func TestMutationsAppendAudit(t *testing.T) {
	e, audit := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.SetOverride(ctx, "admin-1", "agent", "reports.view", true))
	require.NoError(t, e.SetOverride(ctx, "admin-1", "agent", "reports.view", false))

	entries, err := audit.List(ctx, repository.ListAuditFilter{Role: "agent"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// más reciente primero: el revoke con old=true
	assert.Equal(t, "admin-1", entries[0].ActorID)
	assert.Equal(t, "reports.view", entries[0].Slug)
	assert.False(t, entries[0].NewValue)
	require.NotNil(t, entries[0].OldValue)
	assert.True(t, *entries[0].OldValue)

	// el primer set no tenía override previo
	assert.Nil(t, entries[1].OldValue)
	assert.True(t, entries[1].NewValue)
}

func TestIsPrivilegedSingleSourceOfTruth(t *testing.T) {
	assert.True(t, IsPrivileged(RoleAdmin))
	assert.True(t, IsPrivileged(RoleSuperAdmin))
	assert.False(t, IsPrivileged(RoleClient))
	assert.False(t, IsPrivileged(RoleAgent))
	assert.False(t, IsPrivileged(RoleTaxOffice))
}
