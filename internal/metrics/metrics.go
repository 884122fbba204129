// Package metrics define los contadores Prometheus del ciclo de vida de
// tokens y de las decisiones de autorización. Paquete aparte para evitar
// ciclos de import entre los servicios y el HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TokensIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_tokens_issued_total",
		Help: "Tokens de email emitidos, por tipo",
	}, []string{"type"})

	TokensConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_tokens_consumed_total",
		Help: "Intentos de canje de tokens, por tipo y resultado",
	}, []string{"type", "status"})

	TokensPurged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "email_tokens_purged_total",
		Help: "Tokens eliminados por el barrido de expirados",
	})

	PermissionChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "permission_checks_total",
		Help: "Evaluaciones de permiso, por rol y resultado",
	}, []string{"role", "allowed"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Peticiones HTTP, por método, ruta y status",
	}, []string{"method", "path", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Register registra las métricas en el registry dado (o en el default si
// es nil). Tolera registros repetidos.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		TokensIssued, TokensConsumed, TokensPurged,
		PermissionChecks, HTTPRequests, HTTPDuration,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
