// Package customers administra clientes y cuentas de usuario desde el
// terminal.
package customers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/api"
)

const (
	customersPath = "/api/customers/"
	usersPath     = "/api/users/"
)

// Service caso de uso de clientes y usuarios.
type Service struct {
	client *api.Client
}

// NewService construye el caso de uso sobre el cliente HTTP dado.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Customers lista todos los clientes.
func (s *Service) Customers(ctx context.Context) ([]dto.Customer, error) {
	var out []dto.Customer
	if err := s.client.Get(ctx, customersPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Customer obtiene un cliente por id.
func (s *Service) Customer(ctx context.Context, id int64) (*dto.Customer, error) {
	var out dto.Customer
	if err := s.client.Get(ctx, fmt.Sprintf("%s%d/", customersPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCustomer registra un cliente nuevo.
func (s *Service) CreateCustomer(ctx context.Context, in dto.CustomerInput) (*dto.Customer, error) {
	var out dto.Customer
	if err := s.client.Post(ctx, customersPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCustomer actualiza los datos de un cliente.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, in dto.CustomerInput) (*dto.Customer, error) {
	var out dto.Customer
	if err := s.client.Put(ctx, fmt.Sprintf("%s%d/", customersPath, id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCustomer elimina un cliente.
func (s *Service) RemoveCustomer(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("%s%d/", customersPath, id), nil)
}

// Users lista las cuentas de usuario; role filtra por rol si no está
// vacío.
func (s *Service) Users(ctx context.Context, role string) ([]dto.UserAccount, error) {
	path := usersPath
	if role != "" {
		q := url.Values{"role": {role}}
		path += "?" + q.Encode()
	}
	var out []dto.UserAccount
	if err := s.client.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User obtiene una cuenta de usuario por id.
func (s *Service) User(ctx context.Context, id int64) (*dto.UserAccount, error) {
	var out dto.UserAccount
	if err := s.client.Get(ctx, fmt.Sprintf("%s%d/", usersPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
