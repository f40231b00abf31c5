// Package payments solicita sesiones de pago a la pasarela a través del
// backend.
package payments

import (
	"context"
	"errors"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/api"
)

const checkoutSessionPath = "/api/payments/create-checkout-session/"

// Service caso de uso de pagos.
type Service struct {
	client *api.Client
}

// NewService construye el caso de uso sobre el cliente HTTP dado.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// CreateCheckoutSession pide al backend una URL de pago para el pedido.
// Las URLs de retorno apuntan al listener local del terminal.
func (s *Service) CreateCheckoutSession(ctx context.Context, in dto.CheckoutSessionInput) (*dto.CheckoutSession, error) {
	var out dto.CheckoutSession
	if err := s.client.Post(ctx, checkoutSessionPath, in, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, errors.New("la pasarela no devolvió URL de pago")
	}
	return &out, nil
}
