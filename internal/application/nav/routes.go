// Package nav define la política de navegación del gateway: la tabla de
// rutas con su lista de roles permitidos, los grupos del menú y el despacho
// del dashboard por rol. Todo son datos y funciones puras; la aplicación de
// la política la hace el middleware HTTP.
package nav

import (
	"strings"

	"github.com/gestrack/gestrack-web/internal/domain"
)

// Route es el descriptor de una ruta navegable: patrón de path más la lista
// de roles permitidos. Roles nil significa "cualquier usuario autenticado".
// La pertenencia es exacta contra el conjunto, sin jerarquía entre roles.
type Route struct {
	Path  string
	Roles []domain.Role
}

// Rutas públicas: accesibles sin sesión. Todo lo que no esté aquí exige
// autenticación.
var publicPaths = []string{
	"/login",
	"/register",
	"/forgot-password",
	"/reset-password",
	"/password-strength",
	"/forbidden",
	"/health",
}

// Tabla de rutas protegidas en orden de especificidad: se evalúa la primera
// coincidencia (exacta o de prefijo con separador).
var routes = []Route{
	{Path: "/dashboard/admin", Roles: []domain.Role{domain.RoleAdmin}},
	{Path: "/dashboard/warehouse", Roles: []domain.Role{domain.RoleGerente}},
	{Path: "/dashboard/sales", Roles: []domain.Role{domain.RoleVendedor}},
	{Path: "/dashboard", Roles: nil},
	{Path: "/profile", Roles: nil},
	{Path: "/users", Roles: []domain.Role{domain.RoleAdmin}},
	{Path: "/products", Roles: nil},
	{Path: "/categories", Roles: []domain.Role{domain.RoleAdmin, domain.RoleGerente}},
	{Path: "/inventory", Roles: []domain.Role{domain.RoleAdmin, domain.RoleGerente}},
	{Path: "/customers", Roles: []domain.Role{domain.RoleAdmin, domain.RoleVendedor}},
	{Path: "/orders", Roles: []domain.Role{domain.RoleAdmin, domain.RoleVendedor}},
	{Path: "/views", Roles: nil}, // eventos de listados; el fetch ya viaja con el token de la sesión
}

// Decision resultado de evaluar una navegación.
type Decision int

// Decisiones posibles. Sin reintentos ni caché: se evalúa en cada
// navegación.
const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// IsPublic indica si el path no requiere sesión.
func IsPublic(path string) bool {
	for _, p := range publicPaths {
		if pathMatches(p, path) {
			return true
		}
	}
	return false
}

// Evaluate aplica la política de guardia a una navegación:
//
//  1. Sin autenticar → DenyUnauthenticated (redirigir a login con retorno).
//  2. Autenticado pero el rol no pertenece al conjunto requerido →
//     DenyForbidden (vista terminal, sin acceso parcial).
//  3. En otro caso → Allow.
//
// Un path sin entrada en la tabla exige solo autenticación.
func Evaluate(path string, authenticated bool, role domain.Role) Decision {
	if IsPublic(path) {
		return Allow
	}
	if !authenticated {
		return DenyUnauthenticated
	}
	for _, r := range routes {
		if !pathMatches(r.Path, path) {
			continue
		}
		if len(r.Roles) == 0 || role.In(r.Roles) {
			return Allow
		}
		return DenyForbidden
	}
	return Allow
}

// pathMatches acepta igualdad exacta o prefijo seguido de "/". El prefijo
// sin separador ("/products2" contra "/products") NO coincide.
func pathMatches(pattern, path string) bool {
	if path == pattern {
		return true
	}
	return strings.HasPrefix(path, pattern+"/")
}

// DashboardPath despacha el dashboard de aterrizaje según el rol.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/dashboard/admin"
	case domain.RoleGerente:
		return "/dashboard/warehouse"
	case domain.RoleVendedor:
		return "/dashboard/sales"
	default:
		return "/dashboard"
	}
}
