package pos

import (
	"context"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
)

// OrderService puerto hacia el API de pedidos; lo implementa el caso de
// uso de orders sobre el cliente HTTP.
type OrderService interface {
	Create(ctx context.Context, in dto.CreateOrderInput) (*dto.Order, error)
	AddItem(ctx context.Context, orderID int64, item dto.OrderItemInput) (*dto.Order, error)
}

// ReceiptGenerator puerto del generador de recibos. La generación es
// mejor esfuerzo: su fallo nunca invalida la venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *dto.Order, lines []Line, totals Totals) ([]byte, error)
}
