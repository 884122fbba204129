// Package branding resuelve la identidad visual efectiva de una oficina.
//
// El fallback es por campo, no por registro: una oficina puede fijar el
// nombre antes de subir el logo y nunca renderiza una identidad rota o
// vacía. Sin oficina, o sin registro custom, se responde la identidad de
// plataforma completa.
package branding

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dropDatabas3/gestoria/internal/cache"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// View es la identidad efectiva ya resuelta, lista para renderizar.
// Custom indica si algún campo proviene de un registro de la oficina.
type View struct {
	OfficeID       string `json:"office_id,omitempty"`
	CompanyName    string `json:"company_name"`
	LogoRef        string `json:"logo_ref,omitempty"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
	DefaultTheme   string `json:"default_theme"`
	ReplyToEmail   string `json:"reply_to_email"`
	ReplyToName    string `json:"reply_to_name"`
	Custom         bool   `json:"custom"`
}

// Defaults es la identidad de plataforma, inmutable y cargada al arrancar.
// Sin logo custom: LogoRef vacío significa que la UI usa el asset embebido.
type Defaults struct {
	CompanyName    string
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	DefaultTheme   string
	ReplyToEmail   string
	ReplyToName    string
}

// PlatformDefaults es la identidad por defecto del producto.
func PlatformDefaults() Defaults {
	return Defaults{
		CompanyName:    "Gestoría Online",
		PrimaryColor:   "#1f3a5f",
		SecondaryColor: "#f4f6f8",
		AccentColor:    "#e8871e",
		DefaultTheme:   "light",
		ReplyToEmail:   "no-reply@gestoria.app",
		ReplyToName:    "Gestoría Online",
	}
}

const cacheKeyPrefix = "branding:"

// Resolver calcula la View efectiva con cache de lectura opcional.
type Resolver struct {
	repo     repository.BrandingRepository
	defaults Defaults
	cache    cache.Cache // opcional
	cacheTTL time.Duration
}

// Option configura el Resolver.
type Option func(*Resolver)

// WithCache activa cache de lectura. Upsert y Reset invalidan la entrada.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// WithDefaults reemplaza la identidad de plataforma (tests).
func WithDefaults(d Defaults) Option {
	return func(r *Resolver) { r.defaults = d }
}

// NewResolver crea el resolver sobre el repositorio de branding.
func NewResolver(repo repository.BrandingRepository, opts ...Option) *Resolver {
	r := &Resolver{repo: repo, defaults: PlatformDefaults()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve retorna la identidad efectiva de una oficina. officeID vacío, o
// presente pero sin registro custom, responde los defaults de plataforma:
// ese fallback es comportamiento de primera clase, no un error.
func (r *Resolver) Resolve(ctx context.Context, officeID string) (View, error) {
	if officeID == "" {
		return r.defaultView(""), nil
	}

	if r.cache != nil {
		if b, ok := r.cache.Get(cacheKeyPrefix + officeID); ok {
			var v View
			if json.Unmarshal(b, &v) == nil {
				return v, nil
			}
		}
	}

	rec, err := r.repo.Get(ctx, officeID)
	if errors.Is(err, repository.ErrNotFound) {
		return r.defaultView(officeID), nil
	}
	if err != nil {
		return View{}, err
	}

	v := r.merge(rec)
	if r.cache != nil {
		if b, err := json.Marshal(v); err == nil {
			r.cache.Set(cacheKeyPrefix+officeID, b, r.cacheTTL)
		}
	}
	return v, nil
}

// Upsert crea o mergea parcialmente el registro de la oficina y retorna la
// View resultante. Los campos omitidos del patch conservan su valor.
func (r *Resolver) Upsert(ctx context.Context, officeID string, patch repository.BrandingPatch) (View, error) {
	rec, err := r.repo.Upsert(ctx, officeID, patch)
	if err != nil {
		return View{}, err
	}
	if r.cache != nil {
		r.cache.Delete(cacheKeyPrefix + officeID)
	}
	return r.merge(rec), nil
}

// Reset elimina el registro custom: Resolve vuelve a responder los defaults
// de plataforma completos, sin residuo. Resetear una oficina que nunca
// personalizó es un no-op.
func (r *Resolver) Reset(ctx context.Context, officeID string) error {
	err := r.repo.Delete(ctx, officeID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if r.cache != nil {
		r.cache.Delete(cacheKeyPrefix + officeID)
	}
	return nil
}

func (r *Resolver) defaultView(officeID string) View {
	d := r.defaults
	return View{
		OfficeID:       officeID,
		CompanyName:    d.CompanyName,
		PrimaryColor:   d.PrimaryColor,
		SecondaryColor: d.SecondaryColor,
		AccentColor:    d.AccentColor,
		DefaultTheme:   d.DefaultTheme,
		ReplyToEmail:   d.ReplyToEmail,
		ReplyToName:    d.ReplyToName,
	}
}

// merge aplica fallback campo a campo: cada campo vacío del registro custom
// cae al default de plataforma de ese campo, nunca el registro entero.
func (r *Resolver) merge(rec *repository.Branding) View {
	v := r.defaultView(rec.OfficeID)
	v.Custom = true
	if rec.CompanyName != "" {
		v.CompanyName = rec.CompanyName
	}
	if rec.LogoRef != "" {
		v.LogoRef = rec.LogoRef
	}
	if rec.PrimaryColor != "" {
		v.PrimaryColor = rec.PrimaryColor
	}
	if rec.SecondaryColor != "" {
		v.SecondaryColor = rec.SecondaryColor
	}
	if rec.AccentColor != "" {
		v.AccentColor = rec.AccentColor
	}
	if rec.DefaultTheme != "" {
		v.DefaultTheme = rec.DefaultTheme
	}
	if rec.ReplyToEmail != "" {
		v.ReplyToEmail = rec.ReplyToEmail
	}
	if rec.ReplyToName != "" {
		v.ReplyToName = rec.ReplyToName
	}
	return v
}
