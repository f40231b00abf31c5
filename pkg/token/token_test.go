package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-pos/pkg/token"
)

const testSecret = "secret-solo-para-tests"

// signedToken genera un JWT HS256 con los claims dados. El inspector no
// verifica la firma, pero usamos tokens reales para que el formato sea fiel.
func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err, "debe generarse un token de prueba válido")
	return tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Decode
// ──────────────────────────────────────────────────────────────────────────────

func TestDecode_TokenValido_DevuelveClaims(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Unix()
	tok := signedToken(t, jwtlib.MapClaims{
		"exp":     exp,
		"user_id": "42",
		"email":   "barista@cafeteria.co",
		"role":    "barista",
	})

	claims := token.Decode(tok)
	require.NotNil(t, claims, "un token bien formado debe decodificarse")

	assert.Equal(t, "42", claims.Subject())
	assert.Equal(t, "barista@cafeteria.co", claims.Email())
	assert.Equal(t, "barista", claims.Role())

	expAt, ok := claims.ExpiresAt()
	require.True(t, ok, "el claim exp debe estar presente")
	assert.Equal(t, exp, expAt.Unix())
}

func TestDecode_UserIDNumerico_SeConvierteAString(t *testing.T) {
	// SimpleJWT emite user_id numérico; el cliente siempre lo trata como string.
	tok := signedToken(t, jwtlib.MapClaims{
		"exp":     time.Now().Add(time.Minute).Unix(),
		"user_id": 42,
	})

	claims := token.Decode(tok)
	require.NotNil(t, claims)
	assert.Equal(t, "42", claims.Subject())
}

func TestDecode_SubComoFallback(t *testing.T) {
	tok := signedToken(t, jwtlib.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
		"sub": "usuario-7",
	})

	claims := token.Decode(tok)
	require.NotNil(t, claims)
	assert.Equal(t, "usuario-7", claims.Subject(), "sin user_id debe usarse sub")
}

func TestDecode_EntradaMalformada_DevuelveNil(t *testing.T) {
	cases := []string{
		"",
		"no-es-un-jwt",
		"solo.dos",
		"a.b.c.d",
		"cabecera.!!!no-base64!!!.firma",
	}
	for _, tc := range cases {
		assert.Nil(t, token.Decode(tc), "entrada %q debe devolver nil", tc)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// IsExpired — indescifrable se trata como expirado (fail closed)
// ──────────────────────────────────────────────────────────────────────────────

func TestIsExpired_ExpEnElPasado(t *testing.T) {
	tok := signedToken(t, jwtlib.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
	assert.True(t, token.IsExpired(tok), "exp pasado debe reportar expirado")
}

func TestIsExpired_ExpEnElFuturo(t *testing.T) {
	tok := signedToken(t, jwtlib.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	assert.False(t, token.IsExpired(tok), "exp futuro no debe reportar expirado")
}

func TestIsExpired_SinClaimExp(t *testing.T) {
	tok := signedToken(t, jwtlib.MapClaims{"user_id": "1"})
	assert.True(t, token.IsExpired(tok), "sin exp debe tratarse como expirado")
}

func TestIsExpired_TokenMalformado(t *testing.T) {
	assert.True(t, token.IsExpired("basura"), "token malformado debe tratarse como expirado")
	assert.True(t, token.IsExpired(""), "token vacío debe tratarse como expirado")
}

// ──────────────────────────────────────────────────────────────────────────────
// TimeRemaining / FormatRemaining
// ──────────────────────────────────────────────────────────────────────────────

func TestTimeRemaining_NuncaNegativo(t *testing.T) {
	expirado := signedToken(t, jwtlib.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	assert.Equal(t, time.Duration(0), token.TimeRemaining(expirado))
	assert.Equal(t, time.Duration(0), token.TimeRemaining("malformado"))
}

func TestTimeRemaining_TokenVigente(t *testing.T) {
	tok := signedToken(t, jwtlib.MapClaims{"exp": time.Now().Add(5 * time.Minute).Unix()})
	remaining := token.TimeRemaining(tok)
	assert.Greater(t, remaining, 4*time.Minute, "deben quedar casi 5 minutos")
	assert.LessOrEqual(t, remaining, 5*time.Minute)
}

func TestFormatRemaining(t *testing.T) {
	expirado := signedToken(t, jwtlib.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
	assert.Equal(t, "Expired", token.FormatRemaining(expirado))

	corto := signedToken(t, jwtlib.MapClaims{"exp": time.Now().Add(45 * time.Second).Unix()})
	assert.Regexp(t, `^\d+s$`, token.FormatRemaining(corto))

	largo := signedToken(t, jwtlib.MapClaims{"exp": time.Now().Add(3*time.Minute + 20*time.Second).Unix()})
	assert.Regexp(t, `^\d+m \d+s$`, token.FormatRemaining(largo))
}

// ──────────────────────────────────────────────────────────────────────────────
// IsValidFormat
// ──────────────────────────────────────────────────────────────────────────────

func TestIsValidFormat(t *testing.T) {
	tok := signedToken(t, jwtlib.MapClaims{"exp": time.Now().Unix()})
	assert.True(t, token.IsValidFormat(tok))
	assert.False(t, token.IsValidFormat(""))
	assert.False(t, token.IsValidFormat("uno.dos"))
	assert.False(t, token.IsValidFormat("uno.dos.tres.cuatro"))
}
