package nav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gestrack/gestrack-web/internal/application/nav"
	"github.com/gestrack/gestrack-web/internal/domain"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name string
		path string
		auth bool
		role domain.Role
		want nav.Decision
	}{
		{"pública sin sesión", "/login", false, domain.RoleDesconocido, nav.Allow},
		{"protegida sin sesión", "/products", false, domain.RoleDesconocido, nav.DenyUnauthenticated},
		{"dashboard genérico autenticado", "/dashboard", true, domain.RoleVendedor, nav.Allow},
		{"dashboard admin para admin", "/dashboard/admin", true, domain.RoleAdmin, nav.Allow},
		{"dashboard admin para vendedor", "/dashboard/admin", true, domain.RoleVendedor, nav.DenyForbidden},
		{"usuarios solo admin", "/users", true, domain.RoleGerente, nav.DenyForbidden},
		{"inventario para gerente", "/inventory/movements", true, domain.RoleGerente, nav.Allow},
		{"inventario para vendedor", "/inventory/movements", true, domain.RoleVendedor, nav.DenyForbidden},
		{"clientes para vendedor", "/customers", true, domain.RoleVendedor, nav.Allow},
		{"clientes para gerente", "/customers", true, domain.RoleGerente, nav.DenyForbidden},
		{"subruta hereda la regla", "/customers/abc/toggle-active", true, domain.RoleGerente, nav.DenyForbidden},
		{"ruta fuera de tabla solo pide sesión", "/profile/extra", true, domain.RoleVendedor, nav.Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nav.Evaluate(tc.path, tc.auth, tc.role))
		})
	}
}

// El prefijo sin separador no coincide: /products2 no es subruta de /products.
func TestEvaluatePrefijoSinSeparador(t *testing.T) {
	// /products permite cualquier rol; /products2 no está en la tabla, así que
	// si el matching fuera por prefijo crudo ambos darían lo mismo para un
	// gerente. La diferencia se ve con /customers.
	assert.Equal(t, nav.DenyForbidden, nav.Evaluate("/customers/1", true, domain.RoleGerente))
	assert.Equal(t, nav.Allow, nav.Evaluate("/customers2", true, domain.RoleGerente))
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/dashboard/admin", nav.DashboardPath(domain.RoleAdmin))
	assert.Equal(t, "/dashboard/warehouse", nav.DashboardPath(domain.RoleGerente))
	assert.Equal(t, "/dashboard/sales", nav.DashboardPath(domain.RoleVendedor))
	assert.Equal(t, "/dashboard", nav.DashboardPath(domain.RoleDesconocido))
}

func TestIsPublic(t *testing.T) {
	assert.True(t, nav.IsPublic("/login"))
	assert.True(t, nav.IsPublic("/health"))
	assert.False(t, nav.IsPublic("/loginx"))
	assert.False(t, nav.IsPublic("/products"))
}

func TestComputeNav(t *testing.T) {
	t.Run("el admin ve todos los grupos", func(t *testing.T) {
		v := nav.ComputeNav(domain.RoleAdmin, "/products")
		ids := groupIDs(v)
		assert.Contains(t, ids, "dashboard")
		assert.Contains(t, ids, "inventario")
		assert.Contains(t, ids, "ventas")
		assert.Contains(t, ids, "administracion")
		assert.Contains(t, v.ActiveID, "inventario")
	})

	t.Run("el vendedor no ve inventario ni administración", func(t *testing.T) {
		v := nav.ComputeNav(domain.RoleVendedor, "/customers")
		ids := groupIDs(v)
		assert.Contains(t, ids, "ventas")
		assert.NotContains(t, ids, "inventario")
		assert.NotContains(t, ids, "administracion")
		assert.Contains(t, v.ActiveID, "ventas")
	})

	t.Run("el gerente no ve ventas", func(t *testing.T) {
		v := nav.ComputeNav(domain.RoleGerente, "/dashboard/warehouse")
		ids := groupIDs(v)
		assert.Contains(t, ids, "inventario")
		assert.NotContains(t, ids, "ventas")
	})

	t.Run("una subruta activa su grupo", func(t *testing.T) {
		v := nav.ComputeNav(domain.RoleAdmin, "/products/42/edit")
		assert.Contains(t, v.ActiveID, "inventario")
	})

	t.Run("un prefijo sin separador no activa nada", func(t *testing.T) {
		v := nav.ComputeNav(domain.RoleAdmin, "/products2")
		assert.Empty(t, v.ActiveID)
	})
}

func groupIDs(v nav.View) []string {
	out := make([]string, 0, len(v.Groups))
	for _, g := range v.Groups {
		out = append(out, g.ID)
	}
	return out
}
