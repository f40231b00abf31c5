// Package api implementa el wrapper HTTP del cliente POS: ejecución
// uniforme de peticiones REST con credencial Bearer adjunta, renovación
// proactiva del access token vencido y exactamente un ciclo
// renovar-y-reintentar ante un 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Cafeteria-pos/internal/domain"
	"github.com/jhoicas/Cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-pos/pkg/logger"
	"github.com/jhoicas/Cafeteria-pos/pkg/token"
)

// Rutas de autenticación que el wrapper trata de forma especial: nunca se
// intenta renovar el token antes de llamarlas ni al recibir 401 de ellas.
const (
	LoginPath   = "/api/auth/login/"
	RefreshPath = "/api/auth/refresh/"
	LogoutPath  = "/api/auth/logout/"
)

// Config parámetros del cliente HTTP.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int // reintentos de transporte; 0 mantiene la semántica "un error de red no se reintenta"
}

// Client ejecuta peticiones contra el backend. Lee las credenciales del
// repositorio en cada petición y es el único componente, junto con el
// gestor de sesión, que puede limpiarlas ante un fallo irrecuperable.
type Client struct {
	baseURL string
	http    *http.Client
	creds   repository.CredentialRepository
	log     *logger.Logger
	timeout time.Duration
	refresh singleflight.Group
}

// New construye el cliente sobre go-retryablehttp. El jar de cookies
// reproduce el `credentials: include` del cliente web para la
// cooperación CSRF/sesión del backend.
func New(cfg Config, creds repository.CredentialRepository, log *logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = cfg.Timeout
	if jar, err := cookiejar.New(nil); err == nil {
		rc.HTTPClient.Jar = jar
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    rc.StandardClient(),
		creds:   creds,
		log:     log.Component("api"),
		timeout: cfg.Timeout,
	}
}

// Get ejecuta un GET y decodifica la respuesta JSON en out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// Post ejecuta un POST con cuerpo JSON opcional.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

// Put ejecuta un PUT con cuerpo JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, true)
}

// Patch ejecuta un PATCH con cuerpo JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out, true)
}

// Delete ejecuta un DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, true)
}

func isAuthEndpoint(path string) bool {
	return path == LoginPath || path == RefreshPath
}

// do aplica las dos capas de renovación alrededor de send.
func (c *Client) do(ctx context.Context, method, path string, body, out any, firstAttempt bool) error {
	// Renovación proactiva: hay token pero ya venció. Si la renovación
	// falla se continúa sin Authorization, de modo que los endpoints
	// públicos sigan funcionando en vez de abortar.
	if tok := c.creds.AccessToken(); tok != "" && token.IsExpired(tok) && !isAuthEndpoint(path) {
		if err := c.RefreshAccessToken(ctx); err != nil {
			c.log.Warn().Err(err).Str("path", path).
				Msg("renovación proactiva fallida; la petición sale sin credenciales")
		}
	}

	err := c.send(ctx, method, path, body, out)
	if err == nil {
		return nil
	}

	// Reintento reactivo: exactamente una renovación por llamada lógica,
	// y nunca para el propio endpoint de refresh.
	if domain.IsStatus(err, http.StatusUnauthorized) && firstAttempt && path != RefreshPath {
		if rerr := c.RefreshAccessToken(ctx); rerr != nil {
			c.forceLogout(ctx)
			return domain.ErrSessionExpired
		}
		retryErr := c.do(ctx, method, path, body, out, false)
		if domain.IsStatus(retryErr, http.StatusUnauthorized) {
			c.forceLogout(ctx)
			return domain.ErrSessionExpired
		}
		return retryErr
	}
	return err
}

// send ejecuta una única petición, sin lógica de renovación.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("crear petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if tok := c.creds.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: leer cuerpo: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return parseAPIError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			// Cuerpo no-JSON en una respuesta 2xx: se tolera, out queda en cero.
			c.log.Debug().Err(err).Str("path", path).Msg("respuesta 2xx sin JSON decodificable")
		}
	}
	return nil
}

// RefreshAccessToken renueva el access token con el refresh token
// almacenado. Llamadas concurrentes comparten una única renovación en
// vuelo (singleflight). En éxito sobrescribe solo el access token y
// conserva el refresh existente, salvo que el servidor rote uno nuevo.
// En fallo limpia las credenciales.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		rt := c.creds.RefreshToken()
		if rt == "" {
			return nil, domain.ErrNoRefreshToken
		}

		var resp struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		}
		if err := c.send(ctx, http.MethodPost, RefreshPath, map[string]string{"refresh": rt}, &resp); err != nil {
			_ = c.creds.ClearAuth()
			return nil, fmt.Errorf("%w: %v", domain.ErrRefreshFailed, err)
		}
		if resp.Access == "" {
			_ = c.creds.ClearAuth()
			return nil, domain.ErrRefreshFailed
		}

		next := rt
		if resp.Refresh != "" {
			next = resp.Refresh
		}
		if err := c.creds.SetTokens(resp.Access, next); err != nil {
			return nil, err
		}
		c.log.Debug().Msg("access token renovado")
		return nil, nil
	})
	return err
}

// forceLogout notifica el cierre de sesión al servidor como mejor
// esfuerzo y borra las credenciales locales incondicionalmente.
func (c *Client) forceLogout(ctx context.Context) {
	if err := c.send(ctx, http.MethodPost, LogoutPath, nil, nil); err != nil {
		c.log.Warn().Err(err).Msg("aviso de logout al servidor falló")
	}
	if err := c.creds.ClearAuth(); err != nil {
		c.log.Error().Err(err).Msg("no se pudo limpiar el almacén de credenciales")
	}
}

func parseAPIError(status int, body []byte) *domain.APIError {
	apiErr := &domain.APIError{Status: status, Message: "API error"}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		apiErr.Fields = fields
		if msg, ok := fields["detail"].(string); ok && msg != "" {
			apiErr.Message = msg
		} else if msg, ok := fields["error"].(string); ok && msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}
