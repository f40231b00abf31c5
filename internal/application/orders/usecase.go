// Package orders maneja el ciclo de vida de los pedidos contra el
// backend: CRUD, adjunto de líneas y transición de estado.
package orders

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/api"
)

const ordersPath = "/api/orders/"

// Service caso de uso de pedidos. Implementa el puerto OrderService del
// compositor de carrito.
type Service struct {
	client *api.Client
}

// NewService construye el caso de uso sobre el cliente HTTP dado.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// List lista los pedidos; con customerID > 0 filtra por cliente.
func (s *Service) List(ctx context.Context, customerID int64) ([]dto.Order, error) {
	path := ordersPath
	if customerID > 0 {
		q := url.Values{"customer_id": {strconv.FormatInt(customerID, 10)}}
		path += "?" + q.Encode()
	}
	var out []dto.Order
	if err := s.client.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Retrieve obtiene un pedido por id.
func (s *Service) Retrieve(ctx context.Context, id int64) (*dto.Order, error) {
	var out dto.Order
	if err := s.client.Get(ctx, fmt.Sprintf("%s%d/", ordersPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create crea la cabecera de un pedido.
func (s *Service) Create(ctx context.Context, in dto.CreateOrderInput) (*dto.Order, error) {
	var out dto.Order
	if err := s.client.Post(ctx, ordersPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update actualiza parcialmente un pedido.
func (s *Service) Update(ctx context.Context, id int64, in dto.UpdateOrderInput) (*dto.Order, error) {
	var out dto.Order
	if err := s.client.Patch(ctx, fmt.Sprintf("%s%d/", ordersPath, id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove elimina un pedido.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("%s%d/", ordersPath, id), nil)
}

// AddItem adjunta una línea a un pedido existente. El precio del input,
// si viene, es el snapshot capturado por el carrito y el backend lo toma
// como autoritativo.
func (s *Service) AddItem(ctx context.Context, orderID int64, item dto.OrderItemInput) (*dto.Order, error) {
	var out dto.Order
	path := fmt.Sprintf("%s%d/add_item/", ordersPath, orderID)
	if err := s.client.Post(ctx, path, item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStatus cambia el estado de un pedido. Rechaza estados desconocidos
// antes de tocar la red.
func (s *Service) SetStatus(ctx context.Context, orderID int64, status entity.OrderStatus) (*dto.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("estado de pedido desconocido: %q", status)
	}
	var out dto.Order
	path := fmt.Sprintf("%s%d/set_status/", ordersPath, orderID)
	if err := s.client.Post(ctx, path, dto.SetStatusInput{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
