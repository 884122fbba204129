package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/gestoria/internal/branding"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	httperrors "github.com/dropDatabas3/gestoria/internal/http/errors"
)

// BrandingHandlers expone la identidad visual efectiva y su administración.
type BrandingHandlers struct {
	Resolver *branding.Resolver
}

// current responde el branding de la oficina de la sesión; sin sesión (o
// cuenta de plataforma sin oficina) responde la identidad por defecto.
func (h *BrandingHandlers) current(w http.ResponseWriter, r *http.Request) {
	officeID := ""
	if sess, ok := SessionFrom(r.Context()); ok {
		officeID = sess.OfficeID
	}
	v, err := h.Resolver.Resolve(r.Context(), officeID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

func (h *BrandingHandlers) get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Resolver.Resolve(r.Context(), chi.URLParam(r, "officeID"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

type brandingPatchIn struct {
	CompanyName    *string `json:"company_name"`
	LogoRef        *string `json:"logo_ref"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	AccentColor    *string `json:"accent_color"`
	DefaultTheme   *string `json:"default_theme"`
	ReplyToEmail   *string `json:"reply_to_email"`
	ReplyToName    *string `json:"reply_to_name"`
}

// upsert aplica un merge parcial: los campos ausentes del body conservan su
// valor; un string vacío limpia el campo y vuelve al default de plataforma.
func (h *BrandingHandlers) upsert(w http.ResponseWriter, r *http.Request) {
	officeID := chi.URLParam(r, "officeID")

	var in brandingPatchIn
	if !ReadJSON(w, r, &in) {
		return
	}

	v, err := h.Resolver.Upsert(r.Context(), officeID, repository.BrandingPatch{
		CompanyName:    in.CompanyName,
		LogoRef:        in.LogoRef,
		PrimaryColor:   in.PrimaryColor,
		SecondaryColor: in.SecondaryColor,
		AccentColor:    in.AccentColor,
		DefaultTheme:   in.DefaultTheme,
		ReplyToEmail:   in.ReplyToEmail,
		ReplyToName:    in.ReplyToName,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

// reset elimina la personalización: la oficina vuelve a los defaults de
// plataforma completos, sin residuo. Resetear sin personalización es no-op.
func (h *BrandingHandlers) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Resolver.Reset(r.Context(), chi.URLParam(r, "officeID")); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
