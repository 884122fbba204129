package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/gestoria/internal/authz"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	httperrors "github.com/dropDatabas3/gestoria/internal/http/errors"
)

// PermissionHandlers expone la administración del grid de permisos: matriz
// completa, permisos efectivos por rol, overrides puntuales y en bloque, y
// el audit trail de cambios.
type PermissionHandlers struct {
	Engine *authz.Engine
	Audit  repository.AuditRepository
}

type permissionDTO struct {
	Slug        string `json:"slug"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group"`
}

func (h *PermissionHandlers) matrix(w http.ResponseWriter, r *http.Request) {
	m, err := h.Engine.FullMatrix(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	perms := make([]permissionDTO, 0, len(m.Permissions))
	for _, p := range m.Permissions {
		perms = append(perms, permissionDTO{
			Slug:        p.Slug,
			Label:       p.Label,
			Description: p.Description,
			Group:       p.Group,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"permissions": perms,
		"roles":       m.Cells,
	})
}

func (h *PermissionHandlers) rolePermissions(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	slugs, err := h.Engine.EffectivePermissions(r.Context(), role)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"role":        role,
		"permissions": slugs,
	})
}

type overrideIn struct {
	Granted *bool `json:"granted"`
}

func (h *PermissionHandlers) setOverride(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	slug := chi.URLParam(r, "slug")

	var in overrideIn
	if !ReadJSON(w, r, &in) {
		return
	}
	if in.Granted == nil {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("falta el campo granted"))
		return
	}

	sess, _ := SessionFrom(r.Context())
	if err := h.Engine.SetOverride(r.Context(), sess.UserID, role, slug, *in.Granted); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"role":    role,
		"slug":    slug,
		"granted": *in.Granted,
	})
}

type bulkOverridesIn struct {
	Grants map[string]bool `json:"grants"`
}

func (h *PermissionHandlers) bulkOverrides(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")

	var in bulkOverridesIn
	if !ReadJSON(w, r, &in) {
		return
	}
	if len(in.Grants) == 0 {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("grants vacío"))
		return
	}

	sess, _ := SessionFrom(r.Context())
	if err := h.Engine.BulkSetOverrides(r.Context(), sess.UserID, role, in.Grants); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	slugs, err := h.Engine.EffectivePermissions(r.Context(), role)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"role":        role,
		"permissions": slugs,
	})
}

type auditEntryDTO struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id"`
	Role      string `json:"role"`
	Slug      string `json:"slug"`
	OldValue  *bool  `json:"old_value"`
	NewValue  bool   `json:"new_value"`
	CreatedAt string `json:"created_at"`
}

func (h *PermissionHandlers) auditTrail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	entries, err := h.Audit.List(r.Context(), repository.ListAuditFilter{
		Role:   q.Get("role"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	out := make([]auditEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryDTO{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Role:      e.Role,
			Slug:      e.Slug,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"entries": out})
}
