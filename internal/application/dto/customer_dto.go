package dto

// Customer cliente de la cafetería.
type Customer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

// CustomerInput alta/edición de cliente.
type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UserAccount cuenta de usuario administrada desde el back-office.
type UserAccount struct {
	ID          int64          `json:"id"`
	Username    string         `json:"username"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	DateJoined  string         `json:"date_joined"`
	Role        string         `json:"role,omitempty"` // customer | staff
	Permissions []string       `json:"permissions,omitempty"`
	Sidebar     []SidebarEntry `json:"sidebar,omitempty"`
}

// SidebarEntry entrada de navegación que el backend calcula por rol.
type SidebarEntry struct {
	Name string `json:"name"`
	Href string `json:"href"`
}
