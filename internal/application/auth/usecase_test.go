package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-pos/internal/application/auth"
	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/domain"
	"github.com/jhoicas/Cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/api"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/localstore"
	"github.com/jhoicas/Cafeteria-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func accessTokenFor(t *testing.T, userID any, ttl time.Duration) string {
	t.Helper()
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"exp":     time.Now().Add(ttl).Unix(),
		"user_id": userID,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

type testEnv struct {
	store   *localstore.Store
	session *auth.Session
	srv     *httptest.Server
}

func newTestEnv(t *testing.T, mux *http.ServeMux) *testEnv {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store, err := localstore.New(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)

	client := api.New(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, store, logger.Nop())
	return &testEnv{
		store:   store,
		session: auth.NewSession(client, store, logger.Nop()),
		srv:     srv,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login — normalización de las dos formas de respuesta
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_FormaPropia_GuardaTokensEIdentidadVerificada(t *testing.T) {
	access := accessTokenFor(t, "7", time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc(api.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gerente", req["username"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  access,
			"refreshToken": "refresco-abc",
			"user": map[string]any{
				"id":          "7",
				"email":       "gerente@cafeteria.co",
				"role":        "manager",
				"permissions": []string{"view_dashboard", "manage_orders"},
				"isActive":    true,
			},
		})
	})
	env := newTestEnv(t, mux)

	ident, err := env.session.Login(context.Background(), "gerente", "clave", true)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleManager, ident.Role)
	assert.True(t, ident.Verified(), "con objeto user la identidad es verificada")
	assert.Equal(t, access, env.store.AccessToken())
	assert.Equal(t, "refresco-abc", env.store.RefreshToken())
}

func TestLogin_FormaSimpleJWT_SinUser_SintetizaPlaceholder(t *testing.T) {
	access := accessTokenFor(t, "42", time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc(api.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access":  access,
			"refresh": "refresco-xyz",
		})
	})
	env := newTestEnv(t, mux)

	ident, err := env.session.Login(context.Background(), "cliente", "clave", false)
	require.NoError(t, err)

	assert.Equal(t, "42", ident.ID, "el id se deriva del claim user_id")
	assert.Equal(t, entity.RoleCustomer, ident.Role, "rol de menor privilegio")
	assert.Equal(t, []entity.Permission{entity.PermViewMenu}, ident.Permissions)
	assert.False(t, ident.Verified(), "un placeholder nunca es verificado")

	almacenada := env.store.CurrentUser()
	require.NotNil(t, almacenada)
	assert.Equal(t, "42", almacenada.ID)
}

func TestLogin_TokenIndescifrableSinUser_PlaceholderConIDPorDefecto(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access":  "no-es.un-jwt", // dos partes: indescifrable
			"refresh": "refresco",
		})
	})
	env := newTestEnv(t, mux)

	ident, err := env.session.Login(context.Background(), "x", "y", false)
	require.NoError(t, err, "un token indescifrable no impide el login; las guardas siguen funcionando")
	assert.Equal(t, "me", ident.ID)
	assert.Equal(t, entity.RoleCustomer, ident.Role)
}

func TestLogin_RespuestaSinTokens_Falla(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access": "solo-access.x.y"})
	})
	env := newTestEnv(t, mux)

	_, err := env.session.Login(context.Background(), "x", "y", false)
	require.ErrorIs(t, err, domain.ErrTokensMissing)
	assert.Empty(t, env.store.AccessToken(), "ante tokens incompletos no se persiste nada")
}

func TestLogin_ErrorDelServidor_SePropaga(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"credenciales inválidas"}`))
	})
	env := newTestEnv(t, mux)

	_, err := env.session.Login(context.Background(), "x", "mala", false)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "credenciales inválidas", apiErr.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// IsAuthenticated
// ──────────────────────────────────────────────────────────────────────────────

func TestIsAuthenticated_SinTokenNiUsuario(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	assert.False(t, env.session.IsAuthenticated())
}

func TestIsAuthenticated_ConTokenVigenteEIdentidad(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	require.NoError(t, env.store.SetTokens(accessTokenFor(t, "1", time.Hour), "refresco"))
	require.NoError(t, env.store.SetUser(&entity.Identity{ID: "1", Role: entity.RoleBarista}))

	assert.True(t, env.session.IsAuthenticated())
}

func TestIsAuthenticated_TokenSinIdentidad(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	require.NoError(t, env.store.SetTokens(accessTokenFor(t, "1", time.Hour), "refresco"))

	assert.False(t, env.session.IsAuthenticated(), "token sin identidad no es sesión válida")
}

func TestIsAuthenticated_TokenVencido_LimpiaCredenciales(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	require.NoError(t, env.store.SetTokens(accessTokenFor(t, "1", -time.Minute), "refresco"))
	require.NoError(t, env.store.SetUser(&entity.Identity{ID: "1", Role: entity.RoleBarista}))

	assert.False(t, env.session.IsAuthenticated())
	assert.Empty(t, env.store.AccessToken(), "el token vencido se limpia como efecto secundario")
	assert.Nil(t, env.store.CurrentUser())
}

func TestIsAuthenticated_TokenMalformado_LimpiaCredenciales(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	require.NoError(t, env.store.SetTokens("no-es-un-jwt", "refresco"))
	require.NoError(t, env.store.SetUser(&entity.Identity{ID: "1"}))

	assert.False(t, env.session.IsAuthenticated())
	assert.Empty(t, env.store.AccessToken())
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles y permisos
// ──────────────────────────────────────────────────────────────────────────────

func sesionConRol(t *testing.T, role entity.Role, perms ...entity.Permission) *testEnv {
	t.Helper()
	env := newTestEnv(t, http.NewServeMux())
	require.NoError(t, env.store.SetTokens(accessTokenFor(t, "1", time.Hour), "refresco"))
	require.NoError(t, env.store.SetUser(&entity.Identity{
		ID:          "1",
		Role:        role,
		Permissions: perms,
		Source:      entity.IdentitySourceServer,
	}))
	return env
}

func TestHasAnyRole(t *testing.T) {
	gerente := sesionConRol(t, entity.RoleManager)
	assert.True(t, gerente.session.HasAnyRole(entity.RoleManager, entity.RoleOwner),
		"manager debe pasar un filtro manager-u-owner")

	cajero := sesionConRol(t, entity.RoleCashier)
	assert.False(t, cajero.session.HasAnyRole(entity.RoleManager, entity.RoleOwner),
		"cashier no debe pasar un filtro manager-u-owner")
}

func TestHasPermission_UsaLaListaPropia(t *testing.T) {
	// Identidad con rol owner pero lista explícita restringida: la lista manda.
	env := sesionConRol(t, entity.RoleOwner, entity.PermViewMenu)

	assert.True(t, env.session.HasPermission(entity.PermViewMenu))
	assert.False(t, env.session.HasPermission(entity.PermManageUsers),
		"la lista explícita es autoritativa aunque el rol implique más permisos")
}

func TestHasPermission_SinListaCaeALaTablaDeRol(t *testing.T) {
	env := sesionConRol(t, entity.RoleCashier)

	assert.True(t, env.session.HasPermission(entity.PermCreateOrders))
	assert.False(t, env.session.HasPermission(entity.PermManageUsers))
}

func TestHasAllPermissions(t *testing.T) {
	env := sesionConRol(t, entity.RoleBarista, entity.PermViewMenu, entity.PermViewOrders)

	assert.True(t, env.session.HasAllPermissions(entity.PermViewMenu, entity.PermViewOrders))
	assert.False(t, env.session.HasAllPermissions(entity.PermViewMenu, entity.PermManageSystem))
	assert.True(t, env.session.HasAnyPermission(entity.PermManageSystem, entity.PermViewMenu))
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresh y logout
// ──────────────────────────────────────────────────────────────────────────────

func TestRefreshToken_SinRefreshAlmacenado(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	err := env.session.RefreshToken(context.Background())
	require.ErrorIs(t, err, domain.ErrNoRefreshToken)
}

func TestLogout_FalloDelServidor_LimpiaIgual(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.LogoutPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	env := newTestEnv(t, mux)
	require.NoError(t, env.store.SetTokens(accessTokenFor(t, "1", time.Hour), "refresco"))
	require.NoError(t, env.store.SetUser(&entity.Identity{ID: "1"}))

	env.session.Logout(context.Background())

	assert.Empty(t, env.store.AccessToken(), "el logout limpia aunque el aviso al servidor falle")
	assert.Nil(t, env.store.CurrentUser())
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestSessions_ListaYRevocacion(t *testing.T) {
	var revokedID string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/sessions/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id":"s1","userId":"1","isActive":true}]`))
		case http.MethodDelete:
			revokedID = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}
	})
	env := newTestEnv(t, mux)
	require.NoError(t, env.store.SetTokens(accessTokenFor(t, "1", time.Hour), "refresco"))

	sessions, err := env.session.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)

	require.NoError(t, env.session.RevokeSession(context.Background(), "s1"))
	assert.Equal(t, "/api/auth/sessions/s1/", revokedID)
}

func TestAuditLogs_ConstruyeLaQueryYDecodificaLaPagina(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/audit-logs/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "login", q.Get("action"))
		_, _ = w.Write([]byte(`{"logs":[{"id":"a1","action":"login"}],"total":51,"page":2,"totalPages":3}`))
	})
	env := newTestEnv(t, mux)
	require.NoError(t, env.store.SetTokens(accessTokenFor(t, "1", time.Hour), "refresco"))

	pagina, err := env.session.AuditLogs(context.Background(), 2, 25, dto.AuditLogFilters{Action: "login"})
	require.NoError(t, err)
	assert.Equal(t, 51, pagina.Total)
	assert.Equal(t, 3, pagina.TotalPages)
	require.Len(t, pagina.Logs, 1)
	assert.Equal(t, "login", pagina.Logs[0].Action)
}
