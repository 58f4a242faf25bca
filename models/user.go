package models

// Role is the user role as stored by the platform.
type Role string

const (
	RoleCustomer Role = "cliente"
	RoleManager  Role = "gerente"
	RoleAdmin    Role = "administrador"
	RoleWaiter   Role = "mesero"
)

// ParseRole maps a raw role string to a known role. Unknown values
// fall back to the customer role instead of being rejected.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleCustomer, RoleManager, RoleAdmin, RoleWaiter:
		return Role(raw)
	default:
		return RoleCustomer
	}
}

// User is a row of the platform's user-profile store.
type User struct {
	ID        string `json:"id_usuario"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Role      Role   `json:"rol"`
	Active    bool   `json:"activo"`
	CreatedAt string `json:"created_at,omitempty"`
}
