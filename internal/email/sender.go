// Package email renderiza y envía los correos transaccionales de la
// plataforma (verificación de cuenta y recuperación de contraseña),
// aplicando el branding del despacho al que pertenece el usuario.
package email

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/gestoria/internal/observability/logger"
)

// Message es un correo listo para enviar. ReplyTo sale del branding del
// despacho; vacío significa identidad de plataforma sin Reply-To propio.
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	TextBody    string
	ReplyTo     string
	ReplyToName string
}

// Sender abstrae el transporte; la implementación real es SMTP.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender implementa Sender usando SMTP.
type SMTPSender struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

func NewSMTPSender(host string, port int, from, user, pass string) *SMTPSender {
	return &SMTPSender{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		TLSMode: "auto",
	}
}

// Send envía un email con contenido HTML y texto plano. El From es siempre
// la cuenta SMTP de plataforma; la identidad del despacho va en Reply-To.
func (s *SMTPSender) Send(msg Message) error {
	log := logger.L().With(
		logger.String("component", "SMTPSender"),
		logger.String("host", s.Host),
		logger.Int("port", s.Port),
	)

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetAddressHeader("Reply-To", msg.ReplyTo, msg.ReplyToName)
	}

	// Preferimos multipart/alternative (txt + html)
	if msg.TextBody != "" {
		m.SetBody("text/plain", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		if msg.TextBody == "" {
			m.SetBody("text/html", msg.HTMLBody)
		} else {
			m.AddAlternative("text/html", msg.HTMLBody)
		}
	}

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // solo dev
	}

	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: s.InsecureSkipVerify}
	default:
		// "auto"/"starttls": go-mail negocia STARTTLS si corresponde
	}

	if err := d.DialAndSend(m); err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}

	log.Debug("email sent")
	return nil
}

// LogSender descarta los correos y deja constancia en el log. Útil en
// desarrollo cuando no hay SMTP configurado.
type LogSender struct{}

func (LogSender) Send(msg Message) error {
	logger.L().Info("email discarded (no SMTP configured)",
		logger.Email(msg.To),
		logger.String("subject", msg.Subject),
	)
	return nil
}
