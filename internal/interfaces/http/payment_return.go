// Package http aloja el listener local de retorno de pago: la pasarela
// redirige el navegador del cliente a estas rutas y el terminal se
// entera del desenlace sin hacer polling al backend.
package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Cafeteria-pos/pkg/logger"
)

// PaymentResult desenlace de un retorno de pago.
type PaymentResult struct {
	Success bool
	// OrderNumber llega como query param en la URL de retorno.
	OrderNumber string
}

// PaymentReturnServer servidor fiber mínimo con dos rutas estáticas.
// Los desenlaces se publican por el canal de Results; el envío es no
// bloqueante para que un retorno duplicado del navegador no cuelgue el
// handler.
type PaymentReturnServer struct {
	app     *fiber.App
	port    int
	log     *logger.Logger
	results chan PaymentResult
}

// NewPaymentReturnServer construye el listener en el puerto dado.
func NewPaymentReturnServer(port int, log *logger.Logger) *PaymentReturnServer {
	s := &PaymentReturnServer{
		app: fiber.New(fiber.Config{
			AppName:               "pos-payment-return",
			DisableStartupMessage: true,
		}),
		port:    port,
		log:     log.Component("payment-return"),
		results: make(chan PaymentResult, 1),
	}
	s.app.Use(recover.New())

	s.app.Get("/payment/success", func(c *fiber.Ctx) error {
		s.publish(PaymentResult{Success: true, OrderNumber: c.Query("order")})
		return c.SendString("Pago confirmado. Ya puede cerrar esta ventana.")
	})
	s.app.Get("/payment/cancel", func(c *fiber.Ctx) error {
		s.publish(PaymentResult{Success: false, OrderNumber: c.Query("order")})
		return c.SendString("Pago cancelado. Ya puede cerrar esta ventana.")
	})

	return s
}

func (s *PaymentReturnServer) publish(r PaymentResult) {
	select {
	case s.results <- r:
	default:
		s.log.Debug().Str("order", r.OrderNumber).Msg("retorno de pago duplicado ignorado")
	}
}

// Results canal por el que llega el desenlace del pago en curso.
func (s *PaymentReturnServer) Results() <-chan PaymentResult {
	return s.results
}

// SuccessURL URL de retorno exitoso para la sesión de pago del pedido.
func (s *PaymentReturnServer) SuccessURL(orderNumber string) string {
	return fmt.Sprintf("http://127.0.0.1:%d/payment/success?order=%s", s.port, orderNumber)
}

// CancelURL URL de retorno cancelado para la sesión de pago del pedido.
func (s *PaymentReturnServer) CancelURL(orderNumber string) string {
	return fmt.Sprintf("http://127.0.0.1:%d/payment/cancel?order=%s", s.port, orderNumber)
}

// Start escucha en el puerto configurado. Bloquea hasta Shutdown; se
// invoca en su propia goroutine.
func (s *PaymentReturnServer) Start() error {
	s.log.Info().Int("port", s.port).Msg("listener de retorno de pago iniciado")
	return s.app.Listen(fmt.Sprintf("127.0.0.1:%d", s.port))
}

// Shutdown apaga el listener respetando el contexto.
func (s *PaymentReturnServer) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
