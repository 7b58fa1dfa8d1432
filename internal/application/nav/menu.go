package nav

import "github.com/gestrack/gestrack-web/internal/domain"

// Group es un grupo del menú de navegación: etiqueta visible, rutas que lo
// componen y roles que lo ven.
type Group struct {
	ID    string        `json:"id"`
	Label string        `json:"label"`
	Paths []string      `json:"paths"`
	Roles []domain.Role `json:"-"`
}

// Definición fija y ordenada del menú. El orden de render es este, nunca se
// reordena por rol.
var groups = []Group{
	{
		ID:    "dashboard",
		Label: "Inicio",
		Paths: []string{"/dashboard"},
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleGerente, domain.RoleVendedor},
	},
	{
		ID:    "inventario",
		Label: "Inventario",
		Paths: []string{"/products", "/inventory/movements", "/inventory/categories", "/inventory/adjustments"},
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleGerente},
	},
	{
		ID:    "ventas",
		Label: "Ventas",
		Paths: []string{"/customers", "/orders"},
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleVendedor},
	},
	{
		ID:    "administracion",
		Label: "Administración",
		Paths: []string{"/users", "/categories"},
		Roles: []domain.Role{domain.RoleAdmin},
	},
}

// View es el view-model del menú para el rol y path actuales.
type View struct {
	Groups   []Group  `json:"groups"`
	ActiveID []string `json:"active_group_ids"`
}

// ComputeNav es una función pura de (rol, path actual) a (grupos visibles,
// grupos activos). Un grupo es visible si el rol pertenece a su conjunto;
// es activo si el path actual es exactamente una de sus rutas o la extiende
// tras un "/". El estado de despliegue de los menús (hover, click) es estado
// transitorio de la vista y no entra aquí.
func ComputeNav(role domain.Role, currentPath string) View {
	out := View{Groups: []Group{}, ActiveID: []string{}}
	for _, g := range groups {
		if !role.In(g.Roles) {
			continue
		}
		out.Groups = append(out.Groups, g)
		for _, p := range g.Paths {
			if pathMatches(p, currentPath) {
				out.ActiveID = append(out.ActiveID, g.ID)
				break
			}
		}
	}
	return out
}
