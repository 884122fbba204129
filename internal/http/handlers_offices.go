package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/gestoria/internal/http/errors"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/office"
)

// OfficeHandlers expone el registro de oficinas (despachos).
type OfficeHandlers struct {
	Registry *office.Registry
}

type officeIn struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
	Address        string `json:"address"`
	DefaultTaxYear int    `json:"default_tax_year"`
}

type officeDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug,omitempty"`
	ContactEmail   string `json:"contact_email,omitempty"`
	ContactPhone   string `json:"contact_phone,omitempty"`
	Address        string `json:"address,omitempty"`
	DefaultTaxYear int    `json:"default_tax_year,omitempty"`
	Active         bool   `json:"active"`
}

func toOfficeDTO(o *repository.Office) officeDTO {
	return officeDTO{
		ID:             o.ID,
		Name:           o.Name,
		Slug:           o.Slug,
		ContactEmail:   o.ContactEmail,
		ContactPhone:   o.ContactPhone,
		Address:        o.Address,
		DefaultTaxYear: o.DefaultTaxYear,
		Active:         o.Active,
	}
}

func (h *OfficeHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in officeIn
	if !ReadJSON(w, r, &in) {
		return
	}
	o, err := h.Registry.Create(r.Context(), repository.CreateOfficeInput{
		Name:           in.Name,
		Slug:           in.Slug,
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
		Address:        in.Address,
		DefaultTaxYear: in.DefaultTaxYear,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toOfficeDTO(o))
}

func (h *OfficeHandlers) list(w http.ResponseWriter, r *http.Request) {
	offices, err := h.Registry.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	out := make([]officeDTO, 0, len(offices))
	for i := range offices {
		out = append(out, toOfficeDTO(&offices[i]))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"offices": out})
}

func (h *OfficeHandlers) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Registry.GetByID(r.Context(), chi.URLParam(r, "officeID"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toOfficeDTO(o))
}

func (h *OfficeHandlers) update(w http.ResponseWriter, r *http.Request) {
	var in officeIn
	if !ReadJSON(w, r, &in) {
		return
	}
	o, err := h.Registry.Update(r.Context(), chi.URLParam(r, "officeID"), repository.CreateOfficeInput{
		Name:           in.Name,
		Slug:           in.Slug,
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
		Address:        in.Address,
		DefaultTaxYear: in.DefaultTaxYear,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toOfficeDTO(o))
}

type officeActiveIn struct {
	Active *bool `json:"active"`
}

func (h *OfficeHandlers) setActive(w http.ResponseWriter, r *http.Request) {
	var in officeActiveIn
	if !ReadJSON(w, r, &in) {
		return
	}
	if in.Active == nil {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("falta el campo active"))
		return
	}
	if err := h.Registry.SetActive(r.Context(), chi.URLParam(r, "officeID"), *in.Active); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
