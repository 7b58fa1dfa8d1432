package entity

// User representa el perfil de usuario tal como lo entrega el backend.
// El gateway no conoce el hash de contraseña: solo el perfil público.
//
// Las fechas se mantienen como ISO-8601 en crudo: el gateway las reenvía a
// la vista sin interpretarlas.
type User struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Role      string `json:"role"` // Admin, Gerente de Almacén, Personal de Ventas
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at,omitempty"`
}
