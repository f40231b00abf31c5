package dto

import "github.com/jhoicas/Cafeteria-pos/internal/domain/entity"

// LoginRequest credenciales enviadas al endpoint de login.
type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// LoginResponse respuesta cruda de login. El backend puede responder con
// la forma propia ({accessToken, refreshToken}) o con la forma SimpleJWT
// ({access, refresh}); ambas se aceptan aquí y se normalizan en el caso
// de uso de auth.
type LoginResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	Access       string           `json:"access"`
	Refresh      string           `json:"refresh"`
	User         *entity.Identity `json:"user"`
}

// NormalizedTokens devuelve el par (access, refresh) sea cual sea la
// forma con la que respondió el servidor.
func (r *LoginResponse) NormalizedTokens() (access, refresh string) {
	access = r.AccessToken
	if access == "" {
		access = r.Access
	}
	refresh = r.RefreshToken
	if refresh == "" {
		refresh = r.Refresh
	}
	return access, refresh
}

// RefreshRequest cuerpo del endpoint de renovación.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse respuesta de renovación. SimpleJWT devuelve solo
// access; algunos backends rotan también el refresh.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session sesión activa de un usuario en el backend.
type Session struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	DeviceInfo     DeviceInfo `json:"deviceInfo"`
	IPAddress      string     `json:"ipAddress"`
	UserAgent      string     `json:"userAgent"`
	IsActive       bool       `json:"isActive"`
	LastActivityAt string     `json:"lastActivityAt"`
	CreatedAt      string     `json:"createdAt"`
}

// DeviceInfo dispositivo asociado a una sesión.
type DeviceInfo struct {
	Type     string `json:"type"` // desktop, mobile, tablet
	Browser  string `json:"browser"`
	OS       string `json:"os"`
	DeviceID string `json:"deviceId"`
}

// AuditLog entrada del registro de auditoría.
type AuditLog struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resourceId,omitempty"`
	Details    map[string]any `json:"details"`
	IPAddress  string         `json:"ipAddress"`
	UserAgent  string         `json:"userAgent"`
	Timestamp  string         `json:"timestamp"`
}

// AuditLogPage página de resultados de auditoría.
type AuditLogPage struct {
	Logs       []AuditLog `json:"logs"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// AuditLogFilters filtros opcionales del listado de auditoría.
type AuditLogFilters struct {
	UserID    string
	Action    string
	Resource  string
	StartDate string
	EndDate   string
}

// ProfileUpdate campos editables del perfil del usuario.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// ChangePasswordRequest cuerpo de cambio de contraseña.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// MFAVerification verificación de segundo factor.
type MFAVerification struct {
	Code   string `json:"code"`
	Method string `json:"method"` // totp, sms, email
}

// MFASetup respuesta de alta de MFA.
type MFASetup struct {
	QRCode string `json:"qrCode"`
	Secret string `json:"secret"`
}
