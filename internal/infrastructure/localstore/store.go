// Package localstore implementa el almacén local de credenciales del
// cliente POS: un único documento JSON en disco con las tres claves
// cafe_access_token, cafe_refresh_token y cafe_user, el equivalente del
// localStorage del navegador en la versión web.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/Cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-pos/internal/domain/repository"
)

// Claves con namespace fijo dentro del documento.
const (
	keyAccessToken  = "cafe_access_token"
	keyRefreshToken = "cafe_refresh_token"
	keyUser         = "cafe_user"
)

// Store almacén de credenciales respaldado por archivo. Las escrituras
// son atómicas (archivo temporal + rename) y el archivo queda con
// permisos 0600. Un archivo ausente o ilegible se comporta como almacén
// vacío: los getters devuelven el valor cero, nunca un error.
type Store struct {
	path string
	mu   sync.RWMutex
}

var _ repository.CredentialRepository = (*Store)(nil)

// New construye el almacén sobre la ruta dada, creando el directorio
// contenedor si hace falta.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// document forma en disco. El usuario se guarda como JSON crudo para no
// perder campos que versiones futuras del backend agreguen.
type document struct {
	AccessToken  string          `json:"cafe_access_token,omitempty"`
	RefreshToken string          `json:"cafe_refresh_token,omitempty"`
	User         json.RawMessage `json:"cafe_user,omitempty"`
}

// SetTokens sobrescribe ambos tokens en una sola escritura, de modo que
// ningún lector vea un par a medio actualizar.
func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.read()
	doc.AccessToken = access
	doc.RefreshToken = refresh
	return s.write(doc)
}

// SetUser sobrescribe la identidad serializada.
func (s *Store) SetUser(u *entity.Identity) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.read()
	doc.User = raw
	return s.write(doc)
}

// AccessToken devuelve el access token almacenado, o "" si no hay.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().AccessToken
}

// RefreshToken devuelve el refresh token almacenado, o "" si no hay.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().RefreshToken
}

// CurrentUser devuelve la identidad almacenada, o nil si no hay o no se
// puede deserializar.
func (s *Store) CurrentUser() *entity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := s.read()
	if len(doc.User) == 0 {
		return nil
	}
	var u entity.Identity
	if err := json.Unmarshal(doc.User, &u); err != nil {
		return nil
	}
	return &u
}

// ClearAuth elimina las tres entradas. Se usa en logout y en los caminos
// de error de autenticación irrecuperables.
func (s *Store) ClearAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// read carga el documento; ante cualquier problema devuelve uno vacío.
func (s *Store) read() document {
	var doc document
	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}
	}
	return doc
}

// write persiste con archivo temporal + rename para que un corte a mitad
// de escritura nunca deje un documento corrupto visible.
func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
