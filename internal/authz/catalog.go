package authz

import "sort"

// Permission es una capacidad nombrada del sistema. Los permisos son datos,
// no código: las pantallas declaran el slug que requieren sin tocar el motor.
// DefaultRoles es configuración estática, no mutable en runtime; la única
// capa mutable son los overrides.
type Permission struct {
	Slug         string
	Label        string
	Description  string
	Group        string // agrupación para la UI de administración
	SortOrder    int
	DefaultRoles []Role
}

// Catalog es el conjunto inmutable de permisos conocidos, cargado una vez al
// arrancar el proceso y tratado como configuración de solo lectura.
type Catalog struct {
	perms    []Permission
	bySlug   map[string]Permission
	defaults map[Role]map[string]struct{}
}

// NewCatalog construye un catálogo a partir de una lista de permisos.
// Ordena por (Group, SortOrder, Slug) para que la UI reciba orden estable.
func NewCatalog(perms []Permission) *Catalog {
	sorted := make([]Permission, len(perms))
	copy(sorted, perms)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Slug < b.Slug
	})

	c := &Catalog{
		perms:    sorted,
		bySlug:   make(map[string]Permission, len(sorted)),
		defaults: make(map[Role]map[string]struct{}),
	}
	for _, r := range AllRoles() {
		c.defaults[r] = make(map[string]struct{})
	}
	for _, p := range sorted {
		c.bySlug[p.Slug] = p
		for _, r := range p.DefaultRoles {
			c.defaults[r][p.Slug] = struct{}{}
		}
	}
	return c
}

// Permissions retorna los permisos en orden estable. El slice es una copia.
func (c *Catalog) Permissions() []Permission {
	out := make([]Permission, len(c.perms))
	copy(out, c.perms)
	return out
}

// Known indica si el slug existe en el catálogo.
func (c *Catalog) Known(slug string) bool {
	_, ok := c.bySlug[slug]
	return ok
}

// Slugs retorna todos los slugs conocidos en orden estable.
func (c *Catalog) Slugs() []string {
	out := make([]string, 0, len(c.perms))
	for _, p := range c.perms {
		out = append(out, p.Slug)
	}
	return out
}

// defaultsFor retorna el set por defecto de un rol. Solo lectura.
func (c *Catalog) defaultsFor(r Role) map[string]struct{} {
	return c.defaults[r]
}

// DefaultCatalog es el catálogo del CRM de gestoría. Los roles admin y
// super_admin no aparecen en DefaultRoles: su acceso total viene del bypass
// en el motor, no del catálogo.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Permission{
		{Slug: "clients.view", Label: "Ver clientes", Description: "Consultar fichas de clientes de la oficina", Group: "clients", SortOrder: 1, DefaultRoles: []Role{RoleAgent, RoleTaxOffice}},
		{Slug: "clients.manage", Label: "Gestionar clientes", Description: "Crear, editar y archivar fichas de clientes", Group: "clients", SortOrder: 2, DefaultRoles: []Role{RoleTaxOffice}},
		{Slug: "appointments.view", Label: "Ver citas", Description: "Consultar el calendario de citas", Group: "agenda", SortOrder: 1, DefaultRoles: []Role{RoleClient, RoleAgent, RoleTaxOffice}},
		{Slug: "appointments.manage", Label: "Gestionar citas", Description: "Crear, mover y cancelar citas", Group: "agenda", SortOrder: 2, DefaultRoles: []Role{RoleAgent, RoleTaxOffice}},
		{Slug: "documents.view", Label: "Ver documentos", Description: "Consultar documentos subidos", Group: "documents", SortOrder: 1, DefaultRoles: []Role{RoleClient, RoleAgent, RoleTaxOffice}},
		{Slug: "documents.upload", Label: "Subir documentos", Description: "Subir documentación fiscal", Group: "documents", SortOrder: 2, DefaultRoles: []Role{RoleClient, RoleAgent, RoleTaxOffice}},
		{Slug: "esign.request", Label: "Solicitar firma", Description: "Enviar documentos a firma electrónica", Group: "documents", SortOrder: 3, DefaultRoles: []Role{RoleAgent, RoleTaxOffice}},
		{Slug: "esign.sign", Label: "Firmar documentos", Description: "Firmar electrónicamente documentos recibidos", Group: "documents", SortOrder: 4, DefaultRoles: []Role{RoleClient}},
		{Slug: "leads.view", Label: "Ver leads", Description: "Consultar leads comerciales", Group: "sales", SortOrder: 1, DefaultRoles: []Role{RoleAgent, RoleTaxOffice}},
		{Slug: "leads.manage", Label: "Gestionar leads", Description: "Asignar y cerrar leads comerciales", Group: "sales", SortOrder: 2, DefaultRoles: []Role{RoleTaxOffice}},
		{Slug: "tickets.view", Label: "Ver tickets", Description: "Consultar tickets de soporte", Group: "support", SortOrder: 1, DefaultRoles: []Role{RoleClient, RoleAgent, RoleTaxOffice}},
		{Slug: "tickets.manage", Label: "Gestionar tickets", Description: "Responder y cerrar tickets de soporte", Group: "support", SortOrder: 2, DefaultRoles: []Role{RoleAgent, RoleTaxOffice}},
		{Slug: "reports.view", Label: "Ver informes", Description: "Consultar informes de actividad de la oficina", Group: "reports", SortOrder: 1, DefaultRoles: []Role{RoleTaxOffice}},
		{Slug: "billing.view", Label: "Ver facturación", Description: "Consultar facturas y pagos", Group: "billing", SortOrder: 1, DefaultRoles: []Role{RoleTaxOffice}},
		{Slug: "billing.manage", Label: "Gestionar facturación", Description: "Emitir facturas y registrar pagos", Group: "billing", SortOrder: 2, DefaultRoles: []Role{RoleTaxOffice}},
		{Slug: "users.manage", Label: "Gestionar usuarios", Description: "Dar de alta y baja usuarios de la oficina", Group: "administration", SortOrder: 1, DefaultRoles: []Role{RoleTaxOffice}},
		{Slug: "offices.manage", Label: "Gestionar oficinas", Description: "Alta, configuración y baja de oficinas", Group: "administration", SortOrder: 2},
		{Slug: "permissions.manage", Label: "Gestionar permisos", Description: "Modificar overrides de permisos por rol", Group: "administration", SortOrder: 3},
	})
}
