package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/gestoria/internal/authz"
	httperrors "github.com/dropDatabas3/gestoria/internal/http/errors"
	"github.com/dropDatabas3/gestoria/internal/metrics"
)

// Session es la identidad autenticada derivada del token firmado. La capa
// de dominio nunca ve cabeceras: recibe (rol, oficina) ya resueltos.
type Session struct {
	UserID   string
	OfficeID string
	Role     string
}

type sessionCtxKey struct{}

// SessionFrom recupera la sesión del contexto, si la hay.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	return s, ok
}

// Sessions firma y verifica tokens de sesión HS256.
type Sessions struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewSessions(secret, issuer string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Sessions{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue emite un token de sesión para la cuenta autenticada.
func (s *Sessions) Issue(sess Session) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(s.ttl)
	claims := jwtv5.MapClaims{
		"iss":       s.issuer,
		"sub":       sess.UserID,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
		"role":      sess.Role,
		"office_id": sess.OfficeID,
	}
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	return signed, exp, err
}

// Parse verifica firma y expiración y reconstruye la Session.
func (s *Sessions) Parse(raw string) (Session, error) {
	tok, err := jwtv5.Parse(raw, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, jwtv5.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwtv5.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Session{}, httperrors.ErrSessionInvalid.WithCause(err)
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return Session{}, httperrors.ErrSessionInvalid
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	officeID, _ := claims["office_id"].(string)
	if sub == "" || role == "" {
		return Session{}, httperrors.ErrSessionInvalid
	}
	return Session{UserID: sub, OfficeID: officeID, Role: role}, nil
}

// WithAuth exige un Bearer token válido e inyecta la Session en el ctx.
func (s *Sessions) WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httperrors.WriteError(w, httperrors.ErrUnauthorized)
			return
		}
		sess, err := s.Parse(raw)
		if err != nil {
			httperrors.WriteError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequirePermission corta con 403 si el rol de la sesión no tiene el
// permiso. La decisión es del engine, incluido el bypass de roles
// administrativos.
func RequirePermission(engine *authz.Engine, slug string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFrom(r.Context())
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			allowed, err := engine.HasPermission(r.Context(), sess.Role, slug)
			if err != nil {
				httperrors.WriteError(w, err)
				return
			}
			metrics.PermissionChecks.WithLabelValues(sess.Role, boolLabel(allowed)).Inc()
			if !allowed {
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
