package email

// Templates por defecto. Los colores y el nombre salen del branding
// resuelto del despacho, con fallback a los de plataforma.

const verifyHTMLTmpl = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background:#f4f6f8;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:8px;padding:32px;">
    <h1 style="color:{{.PrimaryColor}};font-size:20px;margin-top:0;">{{.CompanyName}}</h1>
    <p>Gracias por registrarte. Confirma tu dirección de correo para activar tu cuenta.</p>
    <p style="text-align:center;margin:32px 0;">
      <a href="{{.Link}}" style="background:{{.AccentColor}};color:#ffffff;text-decoration:none;padding:12px 28px;border-radius:4px;display:inline-block;">Verificar mi cuenta</a>
    </p>
    <p style="color:#667085;font-size:13px;">El enlace caduca en {{.TTL}} y solo puede usarse una vez. Si no creaste esta cuenta, ignora este mensaje.</p>
  </div>
</body>
</html>`

const verifyTextTmpl = `{{.CompanyName}}

Gracias por registrarte. Confirma tu dirección de correo para activar tu cuenta:

{{.Link}}

El enlace caduca en {{.TTL}} y solo puede usarse una vez.
Si no creaste esta cuenta, ignora este mensaje.`

const resetHTMLTmpl = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background:#f4f6f8;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:8px;padding:32px;">
    <h1 style="color:{{.PrimaryColor}};font-size:20px;margin-top:0;">{{.CompanyName}}</h1>
    <p>Recibimos una solicitud para restablecer tu contraseña.</p>
    <p style="text-align:center;margin:32px 0;">
      <a href="{{.Link}}" style="background:{{.AccentColor}};color:#ffffff;text-decoration:none;padding:12px 28px;border-radius:4px;display:inline-block;">Restablecer contraseña</a>
    </p>
    <p style="color:#667085;font-size:13px;">El enlace caduca en {{.TTL}} y solo puede usarse una vez. Si no solicitaste el cambio, ignora este mensaje; tu contraseña actual sigue siendo válida.</p>
  </div>
</body>
</html>`

const resetTextTmpl = `{{.CompanyName}}

Recibimos una solicitud para restablecer tu contraseña:

{{.Link}}

El enlace caduca en {{.TTL}} y solo puede usarse una vez.
Si no solicitaste el cambio, ignora este mensaje; tu contraseña actual sigue siendo válida.`
