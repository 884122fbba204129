package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/gestoria/internal/accounts"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/email"
	httperrors "github.com/dropDatabas3/gestoria/internal/http/errors"
	"github.com/dropDatabas3/gestoria/internal/metrics"
	"github.com/dropDatabas3/gestoria/internal/observability/logger"
	"github.com/dropDatabas3/gestoria/internal/tokens"
)

// AuthHandlers expone alta, login y los flujos de email (verificación y
// recuperación). Los flujos de email responden 202 tanto si la cuenta
// existe como si no, para no filtrar existencia.
type AuthHandlers struct {
	Accounts  *accounts.Service
	Tokens    *tokens.Service
	Mailer    *email.Mailer
	Sessions  *Sessions
	VerifyTTL time.Duration
	ResetTTL  time.Duration
}

type registerIn struct {
	OfficeID string `json:"office_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var in registerIn
	if !ReadJSON(w, r, &in) {
		return
	}
	if in.Email == "" || in.Password == "" || in.Role == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}

	u, err := h.Accounts.Register(r.Context(), accounts.RegisterInput{
		OfficeID: in.OfficeID,
		Email:    in.Email,
		Name:     in.Name,
		Role:     in.Role,
		Password: in.Password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("el email ya está registrado"))
			return
		}
		httperrors.WriteError(w, err)
		return
	}

	issued, err := h.Tokens.IssueVerification(r.Context(), u.ID, u.Email)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	metrics.TokensIssued.WithLabelValues(string(repository.EmailTokenVerification)).Inc()
	h.sendVerification(r, u.OfficeID, u.Email, issued.Token)

	WriteJSON(w, http.StatusCreated, map[string]any{
		"user_id":   u.ID,
		"office_id": u.OfficeID,
		"role":      u.Role,
	})
}

type loginIn struct {
	OfficeID string `json:"office_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var in loginIn
	if !ReadJSON(w, r, &in) {
		return
	}
	u, err := h.Accounts.Authenticate(r.Context(), in.OfficeID, in.Email, in.Password)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
		return
	}

	token, exp, err := h.Sessions.Issue(Session{UserID: u.ID, OfficeID: u.OfficeID, Role: u.Role})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_at":   exp.UTC().Format(time.RFC3339),
		"role":         u.Role,
		"office_id":    u.OfficeID,
		"verified":     u.VerifiedAt != nil,
	})
}

// verifyEmailConfirm canjea el token del link. El canje es de un solo uso:
// un segundo intento responde TOKEN_ALREADY_USED aunque además esté caducado.
func (h *AuthHandlers) verifyEmailConfirm(w http.ResponseWriter, r *http.Request) {
	plain := strings.TrimSpace(r.URL.Query().Get("token"))
	if plain == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("falta el parámetro token"))
		return
	}

	res, err := h.Tokens.Consume(r.Context(), plain)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	metrics.TokensConsumed.WithLabelValues(string(repository.EmailTokenVerification), string(res.Status)).Inc()
	if !h.writeConsumeStatus(w, res.Status) {
		return
	}
	if res.Type != repository.EmailTokenVerification {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"status": "verified", "user_id": res.UserID})
}

type resendIn struct {
	OfficeID string `json:"office_id"`
	Email    string `json:"email"`
	// Token previo opcional: si llega, se apunta el reenvío en su contador.
	Token string `json:"token,omitempty"`
}

func (h *AuthHandlers) verifyEmailResend(w http.ResponseWriter, r *http.Request) {
	var in resendIn
	if !ReadJSON(w, r, &in) {
		return
	}
	if in.Email == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}

	// respuesta uniforme pase lo que pase
	defer WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})

	u, err := h.Accounts.Lookup(r.Context(), in.OfficeID, in.Email)
	if err != nil || u.VerifiedAt != nil {
		return
	}

	if in.Token != "" {
		if _, err := h.Tokens.IncrementResend(r.Context(), in.Token); err != nil {
			logger.From(r.Context()).Debug("resend counter skip", logger.Err(err))
		}
	}

	issued, err := h.Tokens.IssueVerification(r.Context(), u.ID, u.Email)
	if err != nil {
		logger.From(r.Context()).Warn("resend issue failed", logger.Err(err))
		return
	}
	metrics.TokensIssued.WithLabelValues(string(repository.EmailTokenVerification)).Inc()
	h.sendVerification(r, u.OfficeID, u.Email, issued.Token)
}

type forgotIn struct {
	OfficeID string `json:"office_id"`
	Email    string `json:"email"`
}

func (h *AuthHandlers) forgot(w http.ResponseWriter, r *http.Request) {
	var in forgotIn
	if !ReadJSON(w, r, &in) {
		return
	}
	if in.Email == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}

	defer WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})

	u, err := h.Accounts.Lookup(r.Context(), in.OfficeID, in.Email)
	if err != nil || u.Status != repository.UserActive {
		return
	}

	issued, err := h.Tokens.IssueReset(r.Context(), u.ID)
	if err != nil {
		logger.From(r.Context()).Warn("reset issue failed", logger.Err(err))
		return
	}
	metrics.TokensIssued.WithLabelValues(string(repository.EmailTokenPasswordReset)).Inc()
	if err := h.Mailer.SendPasswordReset(r.Context(), u.OfficeID, u.Email, issued.Token, h.ResetTTL); err != nil {
		logger.From(r.Context()).Warn("reset email failed", logger.Err(err))
	}
}

type resetIn struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandlers) reset(w http.ResponseWriter, r *http.Request) {
	var in resetIn
	if !ReadJSON(w, r, &in) {
		return
	}
	if in.Token == "" || in.NewPassword == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}
	// la política se valida antes del canje: un password débil no debe
	// quemar el token de un solo uso
	if err := h.Accounts.CheckPassword(in.NewPassword); err != nil {
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak)
		return
	}

	res, err := h.Tokens.Consume(r.Context(), in.Token)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	metrics.TokensConsumed.WithLabelValues(string(repository.EmailTokenPasswordReset), string(res.Status)).Inc()
	if !h.writeConsumeStatus(w, res.Status) {
		return
	}
	if res.Type != repository.EmailTokenPasswordReset {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}

	if err := h.Accounts.SetPassword(r.Context(), res.UserID, in.NewPassword); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			httperrors.WriteError(w, httperrors.ErrPasswordTooWeak)
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "password_updated"})
}

// writeConsumeStatus traduce el desenlace del canje; true si el flujo puede
// continuar (status valid).
func (h *AuthHandlers) writeConsumeStatus(w http.ResponseWriter, st tokens.Status) bool {
	switch st {
	case tokens.StatusValid:
		return true
	case tokens.StatusAlreadyUsed:
		httperrors.WriteError(w, httperrors.ErrTokenUsed)
	case tokens.StatusExpired:
		httperrors.WriteError(w, httperrors.ErrTokenExpired)
	default:
		httperrors.WriteError(w, httperrors.ErrNotFound)
	}
	return false
}

func (h *AuthHandlers) sendVerification(r *http.Request, officeID, to, token string) {
	if err := h.Mailer.SendVerification(r.Context(), officeID, to, token, h.VerifyTTL); err != nil {
		logger.From(r.Context()).Warn("verification email failed", logger.Err(err))
	}
}
