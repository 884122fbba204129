package authz

import (
	"fmt"

	"github.com/dropDatabas3/gestoria/internal/domain/repository"
)

// Role es una categoría fija de usuario. Enumeración cerrada: no es
// extensible en runtime ni por configuración.
type Role string

const (
	RoleClient     Role = "client"
	RoleAgent      Role = "agent"
	RoleTaxOffice  Role = "tax_office"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// AllRoles retorna los roles en orden estable (menos a más privilegiado).
func AllRoles() []Role {
	return []Role{RoleClient, RoleAgent, RoleTaxOffice, RoleAdmin, RoleSuperAdmin}
}

// ParseRole valida un rol recibido como string. Un rol desconocido es error
// del caller (input inválido), nunca se mapea silenciosamente a client.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleAgent, RoleTaxOffice, RoleAdmin, RoleSuperAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", repository.ErrInvalidInput, s)
}

// IsPrivileged es la única fuente de verdad del bypass de permisos:
// admin y super_admin tienen siempre todos los permisos, sin consultar
// overrides, y su acceso no puede restringirse.
func IsPrivileged(r Role) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) String() string { return string(r) }
