// Package token inspecciona bearer tokens JWT sin verificar su firma.
// La verificación criptográfica es responsabilidad del backend; el cliente
// solo necesita leer exp y los claims de identidad para decidir cuándo
// renovar. Cualquier token indescifrable se trata como expirado (fail
// closed).
package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtParts = 3

// Claims payload decodificado de un token. Envuelve el mapa crudo para
// tolerar claims con tipos variables (user_id numérico o string).
type Claims struct {
	raw jwt.MapClaims
}

// Decode decodifica el segmento central (base64url JSON) de un token de
// tres partes. Devuelve nil ante cualquier fallo de parseo; nunca entra
// en pánico.
func Decode(tokenString string) *Claims {
	if !IsValidFormat(tokenString) {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return &Claims{raw: claims}
}

// IsValidFormat reporta si el string tiene la estructura de tres partes
// separadas por punto.
func IsValidFormat(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	return len(strings.Split(tokenString, ".")) == jwtParts
}

// ExpiresAt devuelve el claim exp como instante, y false si no existe.
func (c *Claims) ExpiresAt() (time.Time, bool) {
	sec, ok := numericClaim(c.raw, "exp")
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

// IssuedAt devuelve el claim iat como instante, y false si no existe.
func (c *Claims) IssuedAt() (time.Time, bool) {
	sec, ok := numericClaim(c.raw, "iat")
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

// Subject devuelve el identificador de usuario: user_id si existe, si no
// sub. Los valores numéricos se convierten a string.
func (c *Claims) Subject() string {
	if s := stringClaim(c.raw, "user_id"); s != "" {
		return s
	}
	return stringClaim(c.raw, "sub")
}

// Email devuelve el claim email, si existe.
func (c *Claims) Email() string { return stringClaim(c.raw, "email") }

// Role devuelve el claim role, si existe.
func (c *Claims) Role() string { return stringClaim(c.raw, "role") }

// Get expone un claim arbitrario del payload.
func (c *Claims) Get(name string) (any, bool) {
	v, ok := c.raw[name]
	return v, ok
}

// IsExpired reporta si el token ya no debe enviarse: true cuando es
// indescifrable, cuando no trae exp, o cuando exp ya pasó.
func IsExpired(tokenString string) bool {
	claims := Decode(tokenString)
	if claims == nil {
		return true
	}
	exp, ok := claims.ExpiresAt()
	if !ok {
		return true
	}
	return exp.Unix() < time.Now().Unix()
}

// TimeRemaining devuelve cuánto falta para que el token expire; nunca
// negativo.
func TimeRemaining(tokenString string) time.Duration {
	claims := Decode(tokenString)
	if claims == nil {
		return 0
	}
	exp, ok := claims.ExpiresAt()
	if !ok {
		return 0
	}
	remaining := time.Until(exp).Truncate(time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatRemaining representa el tiempo restante como "3m 20s" o "45s";
// "Expired" cuando ya no queda nada.
func FormatRemaining(tokenString string) string {
	remaining := TimeRemaining(tokenString)
	if remaining == 0 {
		return "Expired"
	}
	total := int(remaining.Seconds())
	minutes := total / 60
	seconds := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

func numericClaim(m jwt.MapClaims, name string) (int64, bool) {
	v, ok := m[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func stringClaim(m jwt.MapClaims, name string) string {
	v, ok := m[name]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}
