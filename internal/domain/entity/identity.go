package entity

// Role rol de un usuario dentro de la cafetería.
type Role string

// Roles válidos para Identity.
const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleBarista  Role = "barista"
	RoleCashier  Role = "cashier"
	RoleKitchen  Role = "kitchen"
	RoleCustomer Role = "customer"
)

// Permission capacidad fina asignable a una identidad.
type Permission string

const (
	// Dashboard
	PermViewDashboard Permission = "view_dashboard"

	// Pedidos
	PermViewOrders   Permission = "view_orders"
	PermCreateOrders Permission = "create_orders"
	PermEditOrders   Permission = "edit_orders"
	PermDeleteOrders Permission = "delete_orders"
	PermManageOrders Permission = "manage_orders"

	// Menú
	PermViewMenu        Permission = "view_menu"
	PermCreateMenuItems Permission = "create_menu_items"
	PermEditMenuItems   Permission = "edit_menu_items"
	PermDeleteMenuItems Permission = "delete_menu_items"
	PermManageMenu      Permission = "manage_menu"

	// Inventario
	PermViewInventory   Permission = "view_inventory"
	PermEditInventory   Permission = "edit_inventory"
	PermManageInventory Permission = "manage_inventory"

	// Reportes
	PermViewReports   Permission = "view_reports"
	PermExportReports Permission = "export_reports"
	PermManageReports Permission = "manage_reports"

	// Configuración
	PermViewSettings   Permission = "view_settings"
	PermEditSettings   Permission = "edit_settings"
	PermManageSettings Permission = "manage_settings"

	// Usuarios
	PermViewUsers   Permission = "view_users"
	PermCreateUsers Permission = "create_users"
	PermEditUsers   Permission = "edit_users"
	PermDeleteUsers Permission = "delete_users"
	PermManageUsers Permission = "manage_users"

	// Sistema
	PermViewAuditLogs Permission = "view_audit_logs"
	PermManageSystem  Permission = "manage_system"
)

// AllPermissions lista completa, en el mismo orden de declaración.
var AllPermissions = []Permission{
	PermViewDashboard,
	PermViewOrders, PermCreateOrders, PermEditOrders, PermDeleteOrders, PermManageOrders,
	PermViewMenu, PermCreateMenuItems, PermEditMenuItems, PermDeleteMenuItems, PermManageMenu,
	PermViewInventory, PermEditInventory, PermManageInventory,
	PermViewReports, PermExportReports, PermManageReports,
	PermViewSettings, PermEditSettings, PermManageSettings,
	PermViewUsers, PermCreateUsers, PermEditUsers, PermDeleteUsers, PermManageUsers,
	PermViewAuditLogs, PermManageSystem,
}

// RolePermissions tabla estática rol → permisos por defecto.
// Es solo un fallback: la lista de permisos propia de la identidad, si
// existe, es la autoritativa.
var RolePermissions = map[Role][]Permission{
	RoleOwner: AllPermissions,
	RoleManager: {
		PermViewDashboard,
		PermViewOrders, PermCreateOrders, PermEditOrders, PermManageOrders,
		PermViewMenu, PermCreateMenuItems, PermEditMenuItems, PermManageMenu,
		PermViewInventory, PermEditInventory, PermManageInventory,
		PermViewReports, PermExportReports, PermManageReports,
		PermViewSettings, PermEditSettings,
		PermViewUsers, PermCreateUsers, PermEditUsers,
		PermViewAuditLogs,
	},
	RoleBarista: {
		PermViewDashboard,
		PermViewOrders, PermEditOrders,
		PermViewMenu,
		PermViewInventory, PermEditInventory,
	},
	RoleCashier: {
		PermViewDashboard,
		PermViewOrders, PermCreateOrders, PermEditOrders,
		PermViewMenu,
		PermViewInventory,
	},
	RoleKitchen: {
		PermViewDashboard,
		PermViewOrders, PermEditOrders,
		PermViewMenu,
		PermViewInventory, PermEditInventory,
	},
	RoleCustomer: {
		PermViewMenu,
	},
}

// Procedencia de una identidad almacenada.
const (
	IdentitySourceServer = "server" // hidratada con el objeto user devuelto por el backend
	IdentitySourceToken  = "token"  // placeholder sintetizado desde los claims del access token
)

// Identity usuario autenticado tal como lo conoce el cliente.
// Los timestamps se conservan como strings ISO-8601, igual que llegan
// del backend, porque se serializan sin transformación al almacén local.
type Identity struct {
	ID              string       `json:"id"`
	Email           string       `json:"email"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	Role            Role         `json:"role"`
	Permissions     []Permission `json:"permissions"`
	IsActive        bool         `json:"isActive"`
	IsEmailVerified bool         `json:"isEmailVerified"`
	IsMFAEnabled    bool         `json:"isMFAEnabled"`
	LastLoginAt     string       `json:"lastLoginAt,omitempty"`
	CreatedAt       string       `json:"createdAt"`
	UpdatedAt       string       `json:"updatedAt"`
	Source          string       `json:"source,omitempty"`
}

// Verified reporta si la identidad fue hidratada por el backend.
// Un placeholder derivado del token nunca es autoritativo para
// decisiones administrativas.
func (i *Identity) Verified() bool {
	return i.Source == IdentitySourceServer
}

// EffectivePermissions devuelve la lista autoritativa de permisos:
// la propia si no está vacía, si no la tabla estática del rol.
func (i *Identity) EffectivePermissions() []Permission {
	if len(i.Permissions) > 0 {
		return i.Permissions
	}
	return RolePermissions[i.Role]
}

// HasPermission reporta si la identidad posee el permiso.
func (i *Identity) HasPermission(p Permission) bool {
	for _, have := range i.EffectivePermissions() {
		if have == p {
			return true
		}
	}
	return false
}
