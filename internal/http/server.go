// Package http es la superficie HTTP del sistema: deriva identidad de la
// sesión firmada, aplica permisos vía el motor de autorización y traduce
// los resultados del dominio a respuestas JSON. El dominio nunca ve
// cabeceras ni códigos de estado.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/gestoria/internal/http/errors"
	"github.com/dropDatabas3/gestoria/internal/observability/logger"
	"github.com/dropDatabas3/gestoria/internal/rate"
)

// Deps agrupa los colaboradores del servidor.
type Deps struct {
	Auth        *AuthHandlers
	Permissions *PermissionHandlers
	Branding    *BrandingHandlers
	Offices     *OfficeHandlers
	Sessions    *Sessions

	// Limiters por endpoint; nil desactiva el límite.
	ForgotLimiter rate.Limiter
	ResendLimiter rate.Limiter

	CORSAllowedOrigins []string
}

// Server envuelve el http.Server con el router cableado.
type Server struct {
	addr    string
	handler http.Handler
	srv     *http.Server
}

func NewServer(addr string, deps Deps) *Server {
	return &Server{addr: addr, handler: buildHandler(deps)}
}

// Handler expone el handler ya cableado (tests).
func (s *Server) Handler() http.Handler { return s.handler }

// Run sirve hasta que el ctx se cancele; entonces apaga con gracia.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening", logger.String("addr", s.addr))
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func buildHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", MetricsHandler())

	// públicos
	r.Group(func(r chi.Router) {
		r.Post("/v1/auth/register", deps.Auth.register)
		r.Post("/v1/auth/login", deps.Auth.login)
		r.Get("/v1/auth/verify-email", deps.Auth.verifyEmailConfirm)
		r.With(WithRateLimit(deps.ResendLimiter)).
			Post("/v1/auth/verify-email/resend", deps.Auth.verifyEmailResend)
		r.With(WithRateLimit(deps.ForgotLimiter)).
			Post("/v1/auth/forgot", deps.Auth.forgot)
		r.Post("/v1/auth/reset", deps.Auth.reset)
		r.Get("/v1/branding", deps.Branding.current)
	})

	// autenticados
	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.WithAuth)
		r.Get("/v1/me/branding", deps.Branding.current)
		r.Get("/v1/me/permissions", func(w http.ResponseWriter, req *http.Request) {
			sess, _ := SessionFrom(req.Context())
			slugs, err := deps.Permissions.Engine.EffectivePermissions(req.Context(), sess.Role)
			if err != nil {
				httperrors.WriteError(w, err)
				return
			}
			WriteJSON(w, http.StatusOK, map[string]any{"role": sess.Role, "permissions": slugs})
		})
	})

	// administración de permisos
	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.WithAuth)
		r.Use(RequirePermission(deps.Permissions.Engine, "permissions.manage"))

		r.Get("/v1/admin/permissions/matrix", deps.Permissions.matrix)
		r.Get("/v1/admin/roles/{role}/permissions", deps.Permissions.rolePermissions)
		r.Put("/v1/admin/roles/{role}/permissions/{slug}", deps.Permissions.setOverride)
		r.Put("/v1/admin/roles/{role}/permissions", deps.Permissions.bulkOverrides)
		r.Get("/v1/admin/roles/audit", deps.Permissions.auditTrail)
	})

	// administración de oficinas y branding
	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.WithAuth)
		r.Use(RequirePermission(deps.Permissions.Engine, "offices.manage"))

		r.Post("/v1/admin/offices", deps.Offices.create)
		r.Get("/v1/admin/offices", deps.Offices.list)
		r.Get("/v1/admin/offices/{officeID}", deps.Offices.get)
		r.Put("/v1/admin/offices/{officeID}", deps.Offices.update)
		r.Put("/v1/admin/offices/{officeID}/active", deps.Offices.setActive)

		r.Get("/v1/admin/offices/{officeID}/branding", deps.Branding.get)
		r.Put("/v1/admin/offices/{officeID}/branding", deps.Branding.upsert)
		r.Delete("/v1/admin/offices/{officeID}/branding", deps.Branding.reset)
	})

	var h http.Handler = r
	h = WithMetrics(h)
	h = WithLogging(h)
	h = WithRecover(h)
	if len(deps.CORSAllowedOrigins) > 0 {
		h = WithCORS(h, deps.CORSAllowedOrigins)
	}
	h = WithRequestID(h)
	return h
}
