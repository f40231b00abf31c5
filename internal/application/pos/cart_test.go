package pos_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/application/pos"
	"github.com/jhoicas/Cafeteria-pos/internal/domain"
	"github.com/jhoicas/Cafeteria-pos/pkg/logger"
)

// ────────────────────────────────────────────────────────────────────────
// Doble del servicio de pedidos: registra las llamadas y puede fallar en
// la creación o en el adjunto número N.
// ────────────────────────────────────────────────────────────────────────

type servicioFalso struct {
	createErr    error
	failOnAttach int // 1-based; 0 = nunca falla

	created  []dto.CreateOrderInput
	attached []dto.OrderItemInput
}

func (s *servicioFalso) Create(_ context.Context, in dto.CreateOrderInput) (*dto.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, in)
	return &dto.Order{ID: 77, OrderNumber: in.OrderNumber, Status: "pending"}, nil
}

func (s *servicioFalso) AddItem(_ context.Context, orderID int64, item dto.OrderItemInput) (*dto.Order, error) {
	if s.failOnAttach != 0 && len(s.attached)+1 == s.failOnAttach {
		return nil, errors.New("item agotado")
	}
	s.attached = append(s.attached, item)
	return &dto.Order{ID: orderID}, nil
}

func itemDeMenu(id int64, name, price string) dto.MenuItem {
	return dto.MenuItem{ID: id, Name: name, BasePrice: price, IsAvailable: true}
}

func carritoDePrueba(svc *servicioFalso, taxRate string) *pos.Cart {
	rate, _ := decimal.NewFromString(taxRate)
	return pos.NewCart(svc, rate, logger.Nop())
}

// ────────────────────────────────────────────────────────────────────────
// Composición del carrito
// ────────────────────────────────────────────────────────────────────────

func TestCart_AgregarMismoItemDosVeces_UnaLineaConCantidadDos(t *testing.T) {
	cart := carritoDePrueba(&servicioFalso{}, "0")
	cafe := itemDeMenu(1, "Café americano", "2.50")

	cart.AddLine(cafe)
	cart.AddLine(cafe)

	lines := cart.Lines()
	require.Len(t, lines, 1, "el mismo ítem no duplica líneas")
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCart_SetQuantity_AcotaAlMinimoUno(t *testing.T) {
	cart := carritoDePrueba(&servicioFalso{}, "0")
	cart.AddLine(itemDeMenu(1, "Café americano", "2.50"))

	cart.SetQuantity(1, 0)
	assert.Equal(t, 1, cart.Lines()[0].Quantity, "cantidad 0 se acota a 1")

	cart.SetQuantity(1, -3)
	assert.Equal(t, 1, cart.Lines()[0].Quantity)

	cart.SetQuantity(1, 5)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)
}

func TestCart_RemoveLine_EliminaSoloEseItem(t *testing.T) {
	cart := carritoDePrueba(&servicioFalso{}, "0")
	cart.AddLine(itemDeMenu(1, "Café americano", "2.50"))
	cart.AddLine(itemDeMenu(2, "Croissant", "3.00"))

	cart.RemoveLine(1)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Item.ID)

	// Eliminar un ítem inexistente no hace nada.
	cart.RemoveLine(99)
	assert.Len(t, cart.Lines(), 1)
}

func TestCart_PrecioIlegible_CuentaComoCero(t *testing.T) {
	cart := carritoDePrueba(&servicioFalso{}, "0")
	cart.AddLine(itemDeMenu(1, "Misterio", "no-es-numero"))

	assert.Equal(t, "0.00", cart.Subtotal().StringFixed(2))
}

func TestCart_Totales_ConYSinImpuesto(t *testing.T) {
	cart := carritoDePrueba(&servicioFalso{}, "0.08")
	cart.AddLine(itemDeMenu(1, "Café americano", "2.50"))
	cart.SetQuantity(1, 2)
	cart.AddLine(itemDeMenu(2, "Croissant", "3.00"))

	totals := cart.Totals()
	assert.Equal(t, "8.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "0.64", totals.Tax.StringFixed(2))
	assert.Equal(t, "8.64", totals.Total.StringFixed(2))

	sinImpuesto := carritoDePrueba(&servicioFalso{}, "0")
	sinImpuesto.AddLine(itemDeMenu(1, "Café americano", "2.50"))
	assert.Equal(t, "2.50", sinImpuesto.Total().StringFixed(2))
}

// ────────────────────────────────────────────────────────────────────────
// Envío en dos fases
// ────────────────────────────────────────────────────────────────────────

func TestCart_Submit_CarritoVacio(t *testing.T) {
	cart := carritoDePrueba(&servicioFalso{}, "0")

	_, err := cart.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCart_Submit_Exitoso_AdjuntaEnOrdenYVacia(t *testing.T) {
	svc := &servicioFalso{}
	cart := carritoDePrueba(svc, "0")
	cart.AddLine(itemDeMenu(1, "Café americano", "2.50"))
	cart.SetQuantity(1, 2)
	cart.AddLine(itemDeMenu(2, "Croissant", "3.00"))

	order, err := cart.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, order)

	require.Len(t, svc.attached, 2, "una llamada de adjunto por línea")
	assert.Equal(t, int64(1), svc.attached[0].MenuItem)
	assert.Equal(t, 2, svc.attached[0].Quantity)
	assert.Equal(t, "2.50", svc.attached[0].Price, "el precio viaja como snapshot con dos decimales")
	assert.Equal(t, int64(2), svc.attached[1].MenuItem)

	assert.True(t, cart.IsEmpty(), "tras el éxito el carrito queda vacío")
}

func TestCart_Submit_FallaLaCabecera_ConservaElCarrito(t *testing.T) {
	svc := &servicioFalso{createErr: errors.New("backend caído")}
	cart := carritoDePrueba(svc, "0")
	cart.AddLine(itemDeMenu(1, "Café americano", "2.50"))

	order, err := cart.Submit(context.Background())
	require.Error(t, err)
	assert.Nil(t, order)
	assert.Empty(t, svc.attached, "sin cabecera no se adjunta nada")
	assert.False(t, cart.IsEmpty(), "el borrador sobrevive para reintentar")
}

func TestCart_Submit_FallaElSegundoAdjuntoDeTres(t *testing.T) {
	svc := &servicioFalso{failOnAttach: 2}
	cart := carritoDePrueba(svc, "0")
	cart.AddLine(itemDeMenu(1, "Café americano", "2.50"))
	cart.AddLine(itemDeMenu(2, "Croissant", "3.00"))
	cart.AddLine(itemDeMenu(3, "Té verde", "2.00"))

	order, err := cart.Submit(context.Background())
	require.Error(t, err)
	require.NotNil(t, order, "la cabecera existe aunque el envío quedó a medias")

	var partial *pos.PartialSubmitError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, int64(77), partial.OrderID)
	assert.Equal(t, 1, partial.Attached, "solo el primer ítem quedó adjunto")
	assert.Equal(t, 3, partial.Total)

	assert.Len(t, svc.attached, 1)
	assert.Len(t, cart.Lines(), 3, "el carrito no se vacía ante un fallo parcial")
}

func TestCart_Submit_NumeroDePedido(t *testing.T) {
	svc := &servicioFalso{}
	cart := carritoDePrueba(svc, "0")
	cart.AddLine(itemDeMenu(1, "Café americano", "2.50"))

	_, err := cart.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, svc.created, 1)
	number := svc.created[0].OrderNumber
	assert.LessOrEqual(t, len(number), 20, "el backend limita order_number a 20 caracteres")
	assert.Regexp(t, regexp.MustCompile(`^P-[0-9A-Z]+-[0-9A-Z]{2}$`), number)
}
