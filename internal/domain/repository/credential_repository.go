package repository

import "github.com/jhoicas/Cafeteria-pos/internal/domain/entity"

// CredentialRepository persiste las credenciales del cliente: access token,
// refresh token e identidad serializada, bajo claves con namespace fijo.
//
// Los getters devuelven el valor cero cuando la clave no existe o el
// almacén no es legible: es una guarda deliberada, no un error. El único
// escritor es el gestor de sesión.
type CredentialRepository interface {
	SetTokens(access, refresh string) error
	SetUser(u *entity.Identity) error
	AccessToken() string
	RefreshToken() string
	CurrentUser() *entity.Identity
	ClearAuth() error
}
