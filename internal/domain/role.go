package domain

// Role es la enumeración cerrada de roles del sistema. Se usa un tipo propio
// en lugar de strings sueltos para que el control de acceso sea comparación
// exacta de valores tipados y no lógica ad hoc sobre literales.
type Role string

// Roles válidos. Los valores son los mismos literales que emite el backend
// en el campo `role` del usuario.
const (
	RoleAdmin       Role = "Admin"
	RoleGerente     Role = "Gerente de Almacén"
	RoleVendedor    Role = "Personal de Ventas"
	RoleDesconocido Role = ""
)

// ParseRole convierte el literal del backend en un Role tipado.
// Cualquier valor fuera de la enumeración se trata como desconocido.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleGerente, RoleVendedor:
		return Role(s)
	default:
		return RoleDesconocido
	}
}

// Valid indica si el rol pertenece a la enumeración.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleGerente || r == RoleVendedor
}

// In indica si el rol es miembro exacto del conjunto permitido.
// No hay jerarquía de roles: Admin no implica los demás.
func (r Role) In(allowed []Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// String implementa fmt.Stringer.
func (r Role) String() string { return string(r) }

// AllRoles devuelve la enumeración completa en orden fijo.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleGerente, RoleVendedor}
}
