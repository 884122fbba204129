package authz

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// Engine resuelve permisos efectivos por rol: defaults del catálogo más la
// capa de overrides. Es el único componente que muta la tabla de overrides;
// cada mutación exitosa deja una entrada en el audit trail.
//
// Semántica fija:
//
//	efectivo(R) = defaults(R) ∪ overrides granted(R) − overrides revoked(R)
//
// admin y super_admin no pasan por ese cálculo: IsPrivileged cortocircuita a
// "todo permitido", incluso para slugs desconocidos (open-world). Para el
// resto de roles un slug desconocido es default-deny, nunca un error: un typo
// en un slug falla cerrado.
type Engine struct {
	catalog   *Catalog
	overrides repository.OverrideRepository
	audit     repository.AuditRepository
}

// NewEngine crea el motor sobre un catálogo inmutable y los repositorios de
// overrides y auditoría.
func NewEngine(catalog *Catalog, overrides repository.OverrideRepository, audit repository.AuditRepository) *Engine {
	return &Engine{catalog: catalog, overrides: overrides, audit: audit}
}

// Catalog expone el catálogo para la capa de presentación.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// EffectivePermissions retorna los slugs efectivos de un rol, ordenados.
func (e *Engine) EffectivePermissions(ctx context.Context, role string) ([]string, error) {
	r, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	if IsPrivileged(r) {
		return e.catalog.Slugs(), nil
	}

	ovs, err := e.overrides.ListForRole(ctx, role)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for slug := range e.catalog.defaultsFor(r) {
		set[slug] = struct{}{}
	}
	for _, o := range ovs {
		if o.Granted {
			set[o.Slug] = struct{}{}
		} else {
			delete(set, o.Slug)
		}
	}

	out := make([]string, 0, len(set))
	for slug := range set {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out, nil
}

// HasPermission responde la consulta puntual "¿el rol R tiene el permiso P?".
func (e *Engine) HasPermission(ctx context.Context, role, slug string) (bool, error) {
	r, err := ParseRole(role)
	if err != nil {
		return false, err
	}
	if IsPrivileged(r) {
		return true, nil
	}
	if !e.catalog.Known(slug) {
		return false, nil
	}

	ovs, err := e.overrides.ListForRole(ctx, role)
	if err != nil {
		return false, err
	}
	for _, o := range ovs {
		if o.Slug == slug {
			return o.Granted, nil
		}
	}
	_, ok := e.catalog.defaultsFor(r)[slug]
	return ok, nil
}

// SetOverride hace upsert idempotente de un override y lo audita.
// Para roles privilegiados retorna ErrPrivilegedRole: su acceso no puede
// restringirse, y la UI necesita poder explicar por qué el control está
// deshabilitado en vez de un no-op silencioso.
func (e *Engine) SetOverride(ctx context.Context, actorID, role, slug string, granted bool) error {
	r, err := ParseRole(role)
	if err != nil {
		return err
	}
	if IsPrivileged(r) {
		return fmt.Errorf("%w: %s", repository.ErrPrivilegedRole, role)
	}
	if !e.catalog.Known(slug) {
		return fmt.Errorf("%w: unknown permission %q", repository.ErrInvalidInput, slug)
	}

	prev, err := e.overrides.Upsert(ctx, repository.Override{
		Role:      role,
		Slug:      slug,
		Granted:   granted,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return e.appendAudit(ctx, actorID, role, slug, prev, granted)
}

// BulkSetOverrides aplica varios overrides de un rol como unidad atómica:
// un FullMatrix concurrente ve todo lo anterior o todo lo nuevo, nunca una
// aplicación parcial. Valida todo antes de tocar estado.
func (e *Engine) BulkSetOverrides(ctx context.Context, actorID, role string, grants map[string]bool) error {
	r, err := ParseRole(role)
	if err != nil {
		return err
	}
	if IsPrivileged(r) {
		return fmt.Errorf("%w: %s", repository.ErrPrivilegedRole, role)
	}
	for slug := range grants {
		if !e.catalog.Known(slug) {
			return fmt.Errorf("%w: unknown permission %q", repository.ErrInvalidInput, slug)
		}
	}
	if len(grants) == 0 {
		return nil
	}

	prev, err := e.overrides.BulkUpsert(ctx, role, grants)
	if err != nil {
		return err
	}
	for slug, granted := range grants {
		var p *repository.Override
		if o, ok := prev[slug]; ok {
			o := o
			p = &o
		}
		if err := e.appendAudit(ctx, actorID, role, slug, p, granted); err != nil {
			return err
		}
	}
	return nil
}

// Matrix materializa la tabla completa roles × permisos para la UI de
// administración. Cells está indexada por rol y por slug.
type Matrix struct {
	Permissions []Permission
	Cells       map[string]map[string]bool
}

// FullMatrix computa la matriz sobre un snapshot consistente de overrides:
// cada celda coincide con lo que HasPermission respondería en el instante del
// cómputo.
func (e *Engine) FullMatrix(ctx context.Context) (*Matrix, error) {
	ovs, err := e.overrides.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byRole := make(map[string]map[string]bool)
	for _, o := range ovs {
		if byRole[o.Role] == nil {
			byRole[o.Role] = make(map[string]bool)
		}
		byRole[o.Role][o.Slug] = o.Granted
	}

	m := &Matrix{
		Permissions: e.catalog.Permissions(),
		Cells:       make(map[string]map[string]bool, len(AllRoles())),
	}
	for _, r := range AllRoles() {
		row := make(map[string]bool, len(m.Permissions))
		for _, p := range m.Permissions {
			switch {
			case IsPrivileged(r):
				row[p.Slug] = true
			default:
				if g, ok := byRole[string(r)][p.Slug]; ok {
					row[p.Slug] = g
				} else {
					_, def := e.catalog.defaultsFor(r)[p.Slug]
					row[p.Slug] = def
				}
			}
		}
		m.Cells[string(r)] = row
	}
	return m, nil
}

func (e *Engine) appendAudit(ctx context.Context, actorID, role, slug string, prev *repository.Override, granted bool) error {
	entry := repository.AuditEntry{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Role:      role,
		Slug:      slug,
		NewValue:  granted,
		CreatedAt: time.Now().UTC(),
	}
	if prev != nil {
		v := prev.Granted
		entry.OldValue = &v
	}
	return e.audit.Append(ctx, entry)
}
