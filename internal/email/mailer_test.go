package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gestoria/internal/branding"
	"github.com/dropDatabas3/gestoria/internal/domain/repository"
	"github.com/dropDatabas3/gestoria/internal/store/memory"
)

type recorderSender struct {
	msg Message
}

func (r *recorderSender) Send(msg Message) error {
	r.msg = msg
	return nil
}

func newTestMailer(t *testing.T) (*Mailer, *recorderSender, *branding.Resolver) {
	t.Helper()
	rec := &recorderSender{}
	resolver := branding.NewResolver(memory.NewBrandingStore())
	m, err := NewMailer(rec, resolver, "https://app.gestoria.test")
	require.NoError(t, err)
	return m, rec, resolver
}

func TestSendVerificationUsesPlatformDefaults(t *testing.T) {
	m, rec, _ := newTestMailer(t)

	err := m.SendVerification(context.Background(), "", "ana@acme.es", "tok-123", 24*time.Hour)
	require.NoError(t, err)

	d := branding.PlatformDefaults()
	assert.Equal(t, "ana@acme.es", rec.msg.To)
	assert.Contains(t, rec.msg.Subject, d.CompanyName)
	assert.Contains(t, rec.msg.HTMLBody, d.PrimaryColor)
	assert.Contains(t, rec.msg.HTMLBody, "token=tok-123")
	assert.Contains(t, rec.msg.TextBody, "token=tok-123")
	assert.Contains(t, rec.msg.TextBody, "24 horas")
}

func TestSendResetUsesOfficeBranding(t *testing.T) {
	m, rec, resolver := newTestMailer(t)

	name := "Asesoría Ruiz"
	accent := "#cc0044"
	_, err := resolver.Upsert(context.Background(), "of-1", repository.BrandingPatch{
		CompanyName: &name,
		AccentColor: &accent,
	})
	require.NoError(t, err)

	err = m.SendPasswordReset(context.Background(), "of-1", "ana@acme.es", "tok-abc", time.Hour)
	require.NoError(t, err)

	assert.Contains(t, rec.msg.Subject, "Asesoría Ruiz")
	assert.Contains(t, rec.msg.HTMLBody, "#cc0044")
	assert.Contains(t, rec.msg.TextBody, "1 hora")
	// el campo no personalizado cae al default de plataforma
	assert.Contains(t, rec.msg.HTMLBody, branding.PlatformDefaults().PrimaryColor)
}

func TestReplyToFollowsOfficeBranding(t *testing.T) {
	m, rec, resolver := newTestMailer(t)

	replyTo := "despacho@ruiz.es"
	replyName := "Asesoría Ruiz"
	_, err := resolver.Upsert(context.Background(), "of-1", repository.BrandingPatch{
		ReplyToEmail: &replyTo,
		ReplyToName:  &replyName,
	})
	require.NoError(t, err)

	require.NoError(t, m.SendVerification(context.Background(), "of-1", "ana@acme.es", "tok", time.Hour))
	assert.Equal(t, "despacho@ruiz.es", rec.msg.ReplyTo)
	assert.Equal(t, "Asesoría Ruiz", rec.msg.ReplyToName)

	// sin personalización: identidad de plataforma
	require.NoError(t, m.SendVerification(context.Background(), "", "ana@acme.es", "tok", time.Hour))
	assert.Equal(t, branding.PlatformDefaults().ReplyToEmail, rec.msg.ReplyTo)
	assert.Equal(t, branding.PlatformDefaults().ReplyToName, rec.msg.ReplyToName)
}

func TestLinkEscapesToken(t *testing.T) {
	m, rec, _ := newTestMailer(t)

	err := m.SendVerification(context.Background(), "", "ana@acme.es", "a+b/c", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.Contains(rec.msg.TextBody, "token=a%2Bb%2Fc"), "token sin escapar en %q", rec.msg.TextBody)
}
