package pg

// schemaDDL es el layout persistido del core: overrides únicos por
// (role, slug), tokens con el hash como clave de búsqueda, branding 1:1 con
// la oficina, más oficinas, cuentas y audit trail.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS office (
    id               UUID PRIMARY KEY,
    name             TEXT NOT NULL,
    slug             TEXT UNIQUE,
    contact_email    TEXT NOT NULL DEFAULT '',
    contact_phone    TEXT NOT NULL DEFAULT '',
    address          TEXT NOT NULL DEFAULT '',
    default_tax_year INT  NOT NULL DEFAULT 0,
    active           BOOLEAN NOT NULL DEFAULT TRUE,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS app_user (
    id            UUID PRIMARY KEY,
    office_id     UUID NOT NULL REFERENCES office(id),
    email         TEXT NOT NULL DEFAULT '',
    name          TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL,
    password_hash TEXT NOT NULL DEFAULT '',
    verified_at   TIMESTAMPTZ,
    status        TEXT NOT NULL DEFAULT 'active',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_app_user_office_email
    ON app_user (office_id, email) WHERE status <> 'scrubbed';

CREATE TABLE IF NOT EXISTS role_permission_overrides (
    role       TEXT NOT NULL,
    slug       TEXT NOT NULL,
    granted    BOOLEAN NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (role, slug)
);

CREATE TABLE IF NOT EXISTS tokens (
    token        TEXT PRIMARY KEY,
    id           UUID NOT NULL,
    user_id      UUID NOT NULL REFERENCES app_user(id),
    kind         TEXT NOT NULL,
    email        TEXT NOT NULL DEFAULT '',
    expires_at   TIMESTAMPTZ NOT NULL,
    used_at      TIMESTAMPTZ,
    resend_count INT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_tokens_expires ON tokens (expires_at);

CREATE TABLE IF NOT EXISTS office_branding (
    office_id       UUID PRIMARY KEY REFERENCES office(id),
    company_name    TEXT NOT NULL DEFAULT '',
    logo_ref        TEXT NOT NULL DEFAULT '',
    primary_color   TEXT NOT NULL DEFAULT '',
    secondary_color TEXT NOT NULL DEFAULT '',
    accent_color    TEXT NOT NULL DEFAULT '',
    default_theme   TEXT NOT NULL DEFAULT '',
    reply_to_email  TEXT NOT NULL DEFAULT '',
    reply_to_name   TEXT NOT NULL DEFAULT '',
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS role_audit_trail (
    id         UUID PRIMARY KEY,
    actor_id   TEXT NOT NULL,
    role       TEXT NOT NULL,
    slug       TEXT NOT NULL,
    old_value  BOOLEAN,
    new_value  BOOLEAN NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_role_audit_role ON role_audit_trail (role, created_at DESC);
`
