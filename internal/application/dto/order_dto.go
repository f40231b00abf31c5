package dto

import "github.com/jhoicas/Cafeteria-pos/internal/domain/entity"

// Order pedido tal como lo devuelve el backend.
type Order struct {
	ID           int64              `json:"id"`
	OrderNumber  string             `json:"order_number"`
	Customer     *int64             `json:"customer,omitempty"`
	Cashier      *int64             `json:"cashier,omitempty"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    string             `json:"created_at"`
	CompletedAt  *string            `json:"completed_at,omitempty"`
	TableNumber  *string            `json:"table_number,omitempty"`
	CustomerName *string            `json:"customer_name,omitempty"`
	Contact      *string            `json:"contact,omitempty"`
	Items        []OrderLine        `json:"items"`
	TotalAmount  string             `json:"total_amount"`
}

// OrderLine línea ya adjuntada a un pedido.
type OrderLine struct {
	MenuItem     int64  `json:"menu_item"`
	MenuItemName string `json:"menu_item_name"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
	TotalPrice   string `json:"total_price"`
}

// CreateOrderInput cuerpo de creación de la cabecera del pedido.
type CreateOrderInput struct {
	OrderNumber string `json:"order_number"`
	Customer    *int64 `json:"customer"`
}

// OrderItemInput cuerpo para adjuntar una línea a un pedido existente.
// Price es el snapshot del precio unitario capturado al agregar al
// carrito; el backend lo toma como autoritativo.
type OrderItemInput struct {
	MenuItem int64  `json:"menu_item"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price,omitempty"`
}

// UpdateOrderInput actualización parcial de un pedido.
type UpdateOrderInput struct {
	Status   *entity.OrderStatus `json:"status,omitempty"`
	Customer *int64              `json:"customer,omitempty"`
	Cashier  *int64              `json:"cashier,omitempty"`
}

// SetStatusInput cuerpo de la acción set_status.
type SetStatusInput struct {
	Status entity.OrderStatus `json:"status"`
}

// CheckoutSessionInput cuerpo para solicitar una sesión de pago.
type CheckoutSessionInput struct {
	OrderID    int64  `json:"order_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CheckoutSession URL de pago devuelta por la pasarela.
type CheckoutSession struct {
	URL string `json:"url"`
}
