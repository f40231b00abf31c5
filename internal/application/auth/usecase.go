// Package auth implementa el gestor de sesión del cliente: la única
// fuente de verdad de "quién está autenticado" y "qué puede hacer", y el
// único componente que muta el almacén de credenciales.
package auth

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/domain"
	"github.com/jhoicas/Cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/api"
	"github.com/jhoicas/Cafeteria-pos/pkg/logger"
	"github.com/jhoicas/Cafeteria-pos/pkg/token"
)

const (
	sessionsPath        = "/api/auth/sessions/"
	revokeAllOthersPath = "/api/auth/sessions/revoke-all-other/"
	auditLogsPath       = "/api/auth/audit-logs/"
	profilePath         = "/api/auth/profile/"
	changePasswordPath  = "/api/auth/change-password/"
	verifyMFAPath       = "/api/auth/verify-mfa/"
	setupMFAPath        = "/api/auth/setup-mfa/"
	toggleMFAPath       = "/api/auth/toggle-mfa/"
)

// Session gestor de sesión. Se construye explícitamente al arranque y se
// inyecta donde haga falta; no hay estado de sesión global a nivel de
// paquete.
type Session struct {
	client *api.Client
	creds  repository.CredentialRepository
	log    *logger.Logger
}

// NewSession construye el gestor de sesión.
func NewSession(client *api.Client, creds repository.CredentialRepository, log *logger.Logger) *Session {
	return &Session{client: client, creds: creds, log: log.Component("auth")}
}

// Login autentica contra el backend y persiste tokens e identidad.
// Acepta las dos formas de respuesta observadas ({accessToken,
// refreshToken} propia y {access, refresh} de SimpleJWT) y las normaliza.
// Si el backend no devolvió el objeto user, sintetiza un placeholder
// mínimo desde los claims del access token, marcado como no verificado:
// nunca es autoritativo para decisiones administrativas.
func (s *Session) Login(ctx context.Context, username, password string, rememberMe bool) (*entity.Identity, error) {
	var resp dto.LoginResponse
	req := dto.LoginRequest{Username: username, Password: password, RememberMe: rememberMe}
	if err := s.client.Post(ctx, api.LoginPath, req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	access, refresh := resp.NormalizedTokens()
	if access == "" || refresh == "" {
		return nil, domain.ErrTokensMissing
	}
	if err := s.creds.SetTokens(access, refresh); err != nil {
		return nil, err
	}

	ident := resp.User
	if ident != nil {
		ident.Source = entity.IdentitySourceServer
	} else {
		ident = placeholderIdentity(access)
		s.log.Warn().Str("user_id", ident.ID).
			Msg("login sin objeto user; identidad placeholder derivada del token")
	}
	if err := s.creds.SetUser(ident); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", ident.ID).Str("role", string(ident.Role)).Msg("sesión iniciada")
	return ident, nil
}

// placeholderIdentity identidad mínima derivada de los claims del access
// token: rol de menor privilegio y permiso view_menu solamente.
func placeholderIdentity(access string) *entity.Identity {
	id := "me"
	if claims := token.Decode(access); claims != nil {
		if sub := claims.Subject(); sub != "" {
			id = sub
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return &entity.Identity{
		ID:              id,
		Role:            entity.RoleCustomer,
		Permissions:     []entity.Permission{entity.PermViewMenu},
		IsActive:        true,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
		Source:          entity.IdentitySourceToken,
	}
}

// IsAuthenticated reporta si hay sesión válida: access token presente,
// identidad almacenada y exp del token aún vigente. Un token vencido o
// indescifrable limpia las credenciales como efecto secundario.
func (s *Session) IsAuthenticated() bool {
	tok := s.creds.AccessToken()
	user := s.creds.CurrentUser()
	if tok == "" || user == nil {
		return false
	}
	if token.IsExpired(tok) {
		_ = s.creds.ClearAuth()
		return false
	}
	return true
}

// CurrentUser devuelve la identidad almacenada, o nil.
func (s *Session) CurrentUser() *entity.Identity {
	return s.creds.CurrentUser()
}

// HasRole reporta si la identidad actual tiene exactamente el rol dado.
func (s *Session) HasRole(role entity.Role) bool {
	user := s.creds.CurrentUser()
	return user != nil && user.Role == role
}

// HasAnyRole reporta si la identidad tiene alguno de los roles dados.
func (s *Session) HasAnyRole(roles ...entity.Role) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// HasPermission consulta la lista de permisos de la identidad (no la
// tabla estática de roles).
func (s *Session) HasPermission(p entity.Permission) bool {
	user := s.creds.CurrentUser()
	return user != nil && user.HasPermission(p)
}

// HasAnyPermission reporta si la identidad tiene alguno de los permisos.
func (s *Session) HasAnyPermission(ps ...entity.Permission) bool {
	for _, p := range ps {
		if s.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reporta si la identidad tiene todos los permisos.
func (s *Session) HasAllPermissions(ps ...entity.Permission) bool {
	for _, p := range ps {
		if !s.HasPermission(p) {
			return false
		}
	}
	return true
}

// RefreshToken renueva el access token. Requiere refresh token
// almacenado; en fallo las credenciales quedan limpias.
func (s *Session) RefreshToken(ctx context.Context) error {
	return s.client.RefreshAccessToken(ctx)
}

// Logout avisa al servidor como mejor esfuerzo (el fallo se loguea, no se
// propaga) y limpia las credenciales incondicionalmente.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Post(ctx, api.LogoutPath, nil, nil); err != nil {
		s.log.Warn().Err(err).Msg("aviso de logout al servidor falló")
	}
	if err := s.creds.ClearAuth(); err != nil {
		s.log.Error().Err(err).Msg("no se pudo limpiar el almacén de credenciales")
	}
}

// Sessions lista las sesiones activas del usuario.
func (s *Session) Sessions(ctx context.Context) ([]dto.Session, error) {
	var out []dto.Session
	if err := s.client.Get(ctx, sessionsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RevokeSession revoca una sesión por id. Los errores del servidor se
// propagan tal cual.
func (s *Session) RevokeSession(ctx context.Context, id string) error {
	return s.client.Delete(ctx, sessionsPath+url.PathEscape(id)+"/", nil)
}

// RevokeAllOtherSessions revoca todas las sesiones salvo la actual.
func (s *Session) RevokeAllOtherSessions(ctx context.Context) error {
	return s.client.Post(ctx, revokeAllOthersPath, nil, nil)
}

// AuditLogs consulta el registro de auditoría paginado.
func (s *Session) AuditLogs(ctx context.Context, page, limit int, filters dto.AuditLogFilters) (*dto.AuditLogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if filters.UserID != "" {
		q.Set("userId", filters.UserID)
	}
	if filters.Action != "" {
		q.Set("action", filters.Action)
	}
	if filters.Resource != "" {
		q.Set("resource", filters.Resource)
	}
	if filters.StartDate != "" {
		q.Set("startDate", filters.StartDate)
	}
	if filters.EndDate != "" {
		q.Set("endDate", filters.EndDate)
	}

	var out dto.AuditLogPage
	if err := s.client.Get(ctx, auditLogsPath+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if out.Page == 0 {
		out.Page = page
	}
	return &out, nil
}

// UpdateProfile actualiza el perfil y refresca la identidad almacenada.
func (s *Session) UpdateProfile(ctx context.Context, update dto.ProfileUpdate) (*entity.Identity, error) {
	var out entity.Identity
	if err := s.client.Put(ctx, profilePath, update, &out); err != nil {
		return nil, err
	}
	out.Source = entity.IdentitySourceServer
	if err := s.creds.SetUser(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword cambia la contraseña del usuario actual.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	return s.client.Post(ctx, changePasswordPath, dto.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil)
}

// VerifyMFA completa la verificación de segundo factor y adopta los
// tokens e identidad que devuelva.
func (s *Session) VerifyMFA(ctx context.Context, verification dto.MFAVerification) (*entity.Identity, error) {
	var resp dto.LoginResponse
	if err := s.client.Post(ctx, verifyMFAPath, verification, &resp); err != nil {
		return nil, err
	}
	access, refresh := resp.NormalizedTokens()
	if access == "" || refresh == "" {
		return nil, domain.ErrTokensMissing
	}
	if err := s.creds.SetTokens(access, refresh); err != nil {
		return nil, err
	}
	ident := resp.User
	if ident == nil {
		ident = placeholderIdentity(access)
	} else {
		ident.Source = entity.IdentitySourceServer
	}
	if err := s.creds.SetUser(ident); err != nil {
		return nil, err
	}
	return ident, nil
}

// SetupMFA inicia el alta de MFA y devuelve el secreto y QR.
func (s *Session) SetupMFA(ctx context.Context) (*dto.MFASetup, error) {
	var out dto.MFASetup
	if err := s.client.Post(ctx, setupMFAPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleMFA habilita o deshabilita MFA y actualiza la identidad local.
func (s *Session) ToggleMFA(ctx context.Context, enabled bool) error {
	if err := s.client.Post(ctx, toggleMFAPath, map[string]bool{"enabled": enabled}, nil); err != nil {
		return err
	}
	if user := s.creds.CurrentUser(); user != nil {
		user.IsMFAEnabled = enabled
		if err := s.creds.SetUser(user); err != nil {
			return err
		}
	}
	return nil
}
