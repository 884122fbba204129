package email

import (
	"bytes"
	"context"
	"fmt"
	htemplate "html/template"
	"net/url"
	ttemplate "text/template"
	"time"

	"github.com/dropDatabas3/gestoria/internal/branding"
	"github.com/dropDatabas3/gestoria/internal/observability/logger"
)

// Mailer renderiza los correos de verificación y de reset con la
// identidad del despacho del destinatario y los entrega al Sender.
type Mailer struct {
	sender   Sender
	branding *branding.Resolver
	baseURL  string

	verifyHTML *htemplate.Template
	verifyText *ttemplate.Template
	resetHTML  *htemplate.Template
	resetText  *ttemplate.Template
}

// templateVars alimenta los cuatro templates por igual.
type templateVars struct {
	CompanyName  string
	PrimaryColor string
	AccentColor  string
	Link         string
	TTL          string
}

func NewMailer(sender Sender, resolver *branding.Resolver, baseURL string) (*Mailer, error) {
	m := &Mailer{sender: sender, branding: resolver, baseURL: baseURL}

	var err error
	if m.verifyHTML, err = htemplate.New("verify_html").Parse(verifyHTMLTmpl); err != nil {
		return nil, fmt.Errorf("parse verify html template: %w", err)
	}
	if m.verifyText, err = ttemplate.New("verify_text").Parse(verifyTextTmpl); err != nil {
		return nil, fmt.Errorf("parse verify text template: %w", err)
	}
	if m.resetHTML, err = htemplate.New("reset_html").Parse(resetHTMLTmpl); err != nil {
		return nil, fmt.Errorf("parse reset html template: %w", err)
	}
	if m.resetText, err = ttemplate.New("reset_text").Parse(resetTextTmpl); err != nil {
		return nil, fmt.Errorf("parse reset text template: %w", err)
	}
	return m, nil
}

// SendVerification envía el correo de verificación de cuenta. El token va
// en claro en el link; aquí nunca se persiste.
func (m *Mailer) SendVerification(ctx context.Context, officeID, to, token string, ttl time.Duration) error {
	v, err := m.branding.Resolve(ctx, officeID)
	if err != nil {
		return err
	}
	vars := m.vars(v, "/verificar-email", token, ttl)
	subject := fmt.Sprintf("Verifica tu cuenta en %s", v.CompanyName)
	return m.render(ctx, v, to, subject, m.verifyHTML, m.verifyText, vars)
}

// SendPasswordReset envía el correo de recuperación de contraseña.
func (m *Mailer) SendPasswordReset(ctx context.Context, officeID, to, token string, ttl time.Duration) error {
	v, err := m.branding.Resolve(ctx, officeID)
	if err != nil {
		return err
	}
	vars := m.vars(v, "/restablecer-password", token, ttl)
	subject := fmt.Sprintf("Restablece tu contraseña de %s", v.CompanyName)
	return m.render(ctx, v, to, subject, m.resetHTML, m.resetText, vars)
}

func (m *Mailer) vars(v branding.View, path, token string, ttl time.Duration) templateVars {
	link := m.baseURL + path + "?token=" + url.QueryEscape(token)
	return templateVars{
		CompanyName:  v.CompanyName,
		PrimaryColor: v.PrimaryColor,
		AccentColor:  v.AccentColor,
		Link:         link,
		TTL:          humanTTL(ttl),
	}
}

func (m *Mailer) render(ctx context.Context, v branding.View, to, subject string, html *htemplate.Template, text *ttemplate.Template, vars templateVars) error {
	var hb, tb bytes.Buffer
	if err := html.Execute(&hb, vars); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if err := text.Execute(&tb, vars); err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	msg := Message{
		To:          to,
		Subject:     subject,
		HTMLBody:    hb.String(),
		TextBody:    tb.String(),
		ReplyTo:     v.ReplyToEmail,
		ReplyToName: v.ReplyToName,
	}
	if err := m.sender.Send(msg); err != nil {
		logger.From(ctx).Error("email send failed", logger.Email(to), logger.Err(err))
		return err
	}
	return nil
}

func humanTTL(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		if h == 1 {
			return "1 hora"
		}
		return fmt.Sprintf("%d horas", h)
	}
	min := int(d.Minutes())
	if min <= 1 {
		return "1 minuto"
	}
	return fmt.Sprintf("%d minutos", min)
}
