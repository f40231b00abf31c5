// Package pos implementa el compositor de carrito y pedido del punto de
// venta: acumula líneas con cantidad y precio unitario, calcula totales
// en aritmética decimal y envía el pedido en dos fases contra el API.
package pos

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/domain"
	"github.com/jhoicas/Cafeteria-pos/pkg/logger"
)

// El backend limita order_number a 20 caracteres.
const maxOrderNumberLen = 20

// Line línea del carrito. UnitPrice es el snapshot del precio tomado al
// agregar el ítem; no se vuelve a consultar al enviar.
type Line struct {
	Item      dto.MenuItem
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals totales del carrito ya calculados.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Cart borrador de pedido en memoria. A lo sumo una línea por ítem del
// menú: agregar un ítem ya presente incrementa su cantidad.
type Cart struct {
	orders  OrderService
	taxRate decimal.Decimal
	log     *logger.Logger
	lines   []Line
}

// NewCart construye un carrito vacío con la tasa de impuesto dada
// (cero = sin impuesto).
func NewCart(orders OrderService, taxRate decimal.Decimal, log *logger.Logger) *Cart {
	return &Cart{orders: orders, taxRate: taxRate, log: log.Component("pos")}
}

// AddLine agrega un ítem al carrito. Si ya está presente incrementa la
// cantidad en 1 en lugar de duplicar la línea. El precio se parsea una
// sola vez desde base_price; un precio ilegible cuenta como cero.
func (c *Cart) AddLine(item dto.MenuItem) {
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	price, err := decimal.NewFromString(item.BasePrice)
	if err != nil {
		c.log.Warn().Str("base_price", item.BasePrice).Int64("item", item.ID).
			Msg("base_price ilegible; se usa 0")
		price = decimal.Zero
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1, UnitPrice: price})
}

// SetQuantity fija la cantidad de una línea, acotada a un mínimo de 1.
// Para eliminar una línea se usa RemoveLine, nunca cantidad cero.
func (c *Cart) SetQuantity(itemID int64, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines[i].Quantity = qty
			return
		}
	}
}

// RemoveLine elimina la línea del ítem dado, si existe.
func (c *Cart) RemoveLine(itemID int64) {
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear vacía el carrito.
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reporta si el carrito no tiene líneas.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines devuelve una copia de las líneas actuales.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal suma precio unitario × cantidad de todas las líneas.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Tax impuesto sobre el subtotal según la tasa configurada.
func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(c.taxRate)
}

// Total subtotal más impuesto.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax())
}

// Totals devuelve los tres montos de una vez.
func (c *Cart) Totals() Totals {
	subtotal := c.Subtotal()
	tax := subtotal.Mul(c.taxRate)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// PartialSubmitError fallo a mitad del envío: la cabecera existe en el
// servidor con Attached ítems ya adjuntos y sin rollback compensatorio.
// El operador debe conciliar el pedido manualmente.
type PartialSubmitError struct {
	OrderID     int64
	OrderNumber string
	Attached    int
	Total       int
	Err         error
}

func (e *PartialSubmitError) Error() string {
	return fmt.Sprintf("pedido %s (id %d) creado pero falló el ítem %d de %d: %v",
		e.OrderNumber, e.OrderID, e.Attached+1, e.Total, e.Err)
}

func (e *PartialSubmitError) Unwrap() error { return e.Err }

// Submit envía el borrador en dos fases: crea la cabecera y luego
// adjunta cada línea secuencialmente, con el precio capturado al agregar
// como snapshot autoritativo. El adjunto es secuencial a propósito: ante
// un fallo parcial se sabe exactamente qué línea falló y el servidor no
// recibe adjuntos fuera de orden para el mismo pedido. En éxito el
// carrito queda vacío; en fallo se conserva intacto.
func (c *Cart) Submit(ctx context.Context) (*dto.Order, error) {
	if c.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	number := newOrderNumber()
	created, err := c.orders.Create(ctx, dto.CreateOrderInput{OrderNumber: number})
	if err != nil {
		return nil, fmt.Errorf("crear cabecera del pedido: %w", err)
	}

	for i, line := range c.lines {
		item := dto.OrderItemInput{
			MenuItem: line.Item.ID,
			Quantity: line.Quantity,
			Price:    line.UnitPrice.StringFixed(2),
		}
		if _, err := c.orders.AddItem(ctx, created.ID, item); err != nil {
			c.log.Error().Err(err).Int64("order", created.ID).Int64("item", line.Item.ID).
				Int("adjuntados", i).Msg("fallo parcial al adjuntar líneas")
			return created, &PartialSubmitError{
				OrderID:     created.ID,
				OrderNumber: created.OrderNumber,
				Attached:    i,
				Total:       len(c.lines),
				Err:         err,
			}
		}
	}

	c.log.Info().Int64("order", created.ID).Str("number", created.OrderNumber).
		Str("total", c.Total().StringFixed(2)).Msg("pedido enviado")
	c.Clear()
	return created, nil
}

// newOrderNumber genera un número local único derivado del timestamp,
// acotado al límite de columna del backend.
func newOrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := strings.ToUpper(strconv.FormatInt(int64(rand.Intn(36*36)), 36))
	for len(suffix) < 2 {
		suffix = "0" + suffix
	}
	number := "P-" + ts + "-" + suffix
	if len(number) > maxOrderNumberLen {
		number = number[:maxOrderNumberLen]
	}
	return number
}
