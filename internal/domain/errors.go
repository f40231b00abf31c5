package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrTokensMissing      = errors.New("login: tokens ausentes en la respuesta")
	ErrNoRefreshToken     = errors.New("no hay refresh token disponible")
	ErrRefreshFailed      = errors.New("renovación del token fallida")
	ErrSessionExpired     = errors.New("sesión expirada, inicie sesión de nuevo")
	ErrNetwork            = errors.New("error de red")
	ErrNotAuthenticated   = errors.New("no autenticado")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrUnverifiedIdentity = errors.New("identidad no verificada para una operación sensible")
)

// APIError error reportado por el backend en una respuesta no-2xx.
// Message proviene de los campos detail/error del cuerpo; Fields conserva
// el resto del cuerpo para que el llamador pueda inspeccionarlo.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.Status)
}

// IsStatus reporta si err es un APIError con el estado HTTP dado.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
