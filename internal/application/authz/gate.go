// Package authz implementa la decisión declarativa de "¿puede esta
// identidad ver/hacer X?", usada igual para ocultar regiones de UI que
// para las guardas de ruta del terminal.
package authz

import (
	"github.com/jhoicas/Cafeteria-pos/internal/application/auth"
	"github.com/jhoicas/Cafeteria-pos/internal/domain/entity"
)

// Gate condición de acceso declarativa. Cada lista tiene su propio flag
// ALL/ANY independiente; si ambas listas están presentes, ambas deben
// pasar. Una denegación no es un error: simplemente no se muestra nada.
type Gate struct {
	Permissions           []entity.Permission
	Roles                 []entity.Role
	RequireAllPermissions bool
	RequireAllRoles       bool

	// Sensitive además exige una identidad hidratada por el backend:
	// un placeholder derivado del token nunca autoriza operaciones
	// administrativas.
	Sensitive bool
}

// Allows evalúa la condición contra la sesión actual. Es libre de
// efectos y relee la identidad almacenada en cada llamada, así que es
// seguro invocarla en cada refresco de pantalla sin arrastrar estado
// viejo.
func (g Gate) Allows(s *auth.Session) bool {
	if !s.IsAuthenticated() {
		return false
	}
	if g.Sensitive {
		user := s.CurrentUser()
		if user == nil || !user.Verified() {
			return false
		}
	}
	if len(g.Permissions) > 0 {
		if g.RequireAllPermissions {
			if !s.HasAllPermissions(g.Permissions...) {
				return false
			}
		} else if !s.HasAnyPermission(g.Permissions...) {
			return false
		}
	}
	if len(g.Roles) > 0 {
		if g.RequireAllRoles {
			// Una identidad tiene un único rol: exigir todos solo puede
			// pasar con una lista de un elemento.
			for _, r := range g.Roles {
				if !s.HasRole(r) {
					return false
				}
			}
		} else if !s.HasAnyRole(g.Roles...) {
			return false
		}
	}
	return true
}
