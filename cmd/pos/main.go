// Terminal de punto de venta de la cafetería. Cada invocación ejecuta un
// subcomando contra el backend remoto reutilizando las credenciales
// guardadas en el almacén local.
//
// Uso:
//
//	pos login <usuario> [contraseña]
//	pos logout
//	pos whoami
//	pos menu [categoríaID]
//	pos sell <itemID[xCant]>... [--pay]
//	pos orders [clienteID]
//	pos status <pedidoID> <estado>
//	pos sessions
//	pos revoke <sesiónID>
//	pos audit [página]
//	pos customers
//	pos stats
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-pos/internal/application/admin"
	"github.com/jhoicas/Cafeteria-pos/internal/application/auth"
	"github.com/jhoicas/Cafeteria-pos/internal/application/authz"
	"github.com/jhoicas/Cafeteria-pos/internal/application/customers"
	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/application/menu"
	"github.com/jhoicas/Cafeteria-pos/internal/application/orders"
	"github.com/jhoicas/Cafeteria-pos/internal/application/payments"
	"github.com/jhoicas/Cafeteria-pos/internal/application/pos"
	"github.com/jhoicas/Cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/api"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/localstore"
	"github.com/jhoicas/Cafeteria-pos/internal/infrastructure/pdf"
	poshttp "github.com/jhoicas/Cafeteria-pos/internal/interfaces/http"
	"github.com/jhoicas/Cafeteria-pos/pkg/config"
	"github.com/jhoicas/Cafeteria-pos/pkg/logger"
	"github.com/jhoicas/Cafeteria-pos/pkg/token"
)

// app agrupa las dependencias ya cableadas del terminal.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	store     *localstore.Store
	session   *auth.Session
	menu      *menu.Service
	orders    *orders.Service
	payments  *payments.Service
	customers *customers.Service
	admin     *admin.Service
	cart      *pos.Cart
	receipts  pos.ReceiptGenerator
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})

	store, err := localstore.New(cfg.Auth.StorePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Auth.StorePath).Msg("almacén de credenciales")
	}

	client := api.New(api.Config{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout(),
		RetryMax: cfg.API.RetryMax,
	}, store, log)

	taxRate, err := decimal.NewFromString(cfg.POS.TaxRate)
	if err != nil {
		log.Warn().Str("tax_rate", cfg.POS.TaxRate).Msg("POS_TAX_RATE ilegible; se usa 0")
		taxRate = decimal.Zero
	}

	ordersSvc := orders.NewService(client)
	a := &app{
		cfg:       cfg,
		log:       log,
		store:     store,
		session:   auth.NewSession(client, store, log),
		menu:      menu.NewService(client),
		orders:    ordersSvc,
		payments:  payments.NewService(client),
		customers: customers.NewService(client),
		admin:     admin.NewService(client),
		cart:      pos.NewCart(ordersSvc, taxRate, log),
		receipts:  pdf.NewReceiptGenerator(cfg.App.Name),
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "uso: pos <login|logout|whoami|menu|sell|orders|status|sessions|revoke|audit|customers|stats> [args]")
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("Sesión cerrada.")
		return nil
	case "whoami":
		return a.cmdWhoami()
	case "menu":
		return a.cmdMenu(ctx, args)
	case "sell":
		return a.cmdSell(ctx, args)
	case "orders":
		return a.cmdOrders(ctx, args)
	case "status":
		return a.cmdStatus(ctx, args)
	case "sessions":
		return a.cmdSessions(ctx)
	case "revoke":
		if len(args) < 1 {
			return errors.New("uso: pos revoke <sesiónID>")
		}
		return a.session.RevokeSession(ctx, args[0])
	case "audit":
		return a.cmdAudit(ctx, args)
	case "customers":
		return a.cmdCustomers(ctx)
	case "stats":
		return a.cmdStats(ctx)
	default:
		usage()
		return fmt.Errorf("subcomando desconocido: %q", cmd)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("uso: pos login <usuario> [contraseña]")
	}
	username := args[0]
	var password string
	if len(args) > 1 {
		password = args[1]
	} else {
		fmt.Print("Contraseña: ")
		sc := bufio.NewScanner(os.Stdin)
		if !sc.Scan() {
			return errors.New("no se leyó la contraseña")
		}
		password = strings.TrimSpace(sc.Text())
	}

	ident, err := a.session.Login(ctx, username, password, true)
	if err != nil {
		return err
	}
	fmt.Printf("Bienvenido %s %s (%s)\n", ident.FirstName, ident.LastName, ident.Role)
	if !ident.Verified() {
		fmt.Println("Aviso: identidad mínima derivada del token; las operaciones administrativas quedan bloqueadas.")
	}
	return nil
}

func (a *app) cmdWhoami() error {
	if !a.session.IsAuthenticated() {
		fmt.Println("Sin sesión activa.")
		return nil
	}
	user := a.session.CurrentUser()
	fmt.Printf("Usuario:  %s %s (id %s)\n", user.FirstName, user.LastName, user.ID)
	fmt.Printf("Rol:      %s\n", user.Role)
	fmt.Printf("Permisos: %d\n", len(user.EffectivePermissions()))
	fmt.Printf("Token:    %s\n", token.FormatRemaining(a.store.AccessToken()))
	return nil
}

func (a *app) cmdMenu(ctx context.Context, args []string) error {
	var items []dto.MenuItem
	var err error
	if len(args) > 0 {
		categoryID, convErr := strconv.ParseInt(args[0], 10, 64)
		if convErr != nil {
			return fmt.Errorf("categoría inválida: %q", args[0])
		}
		items, err = a.menu.ItemsByCategory(ctx, categoryID)
	} else {
		items, err = a.menu.Items(ctx)
	}
	if err != nil {
		return err
	}
	for _, it := range items {
		marker := " "
		if !it.IsAvailable {
			marker = "x"
		}
		fmt.Printf("[%s] %4d  %-30s  $%s\n", marker, it.ID, it.Name, it.BasePrice)
	}
	return nil
}

// cmdSell arma el carrito desde argumentos tipo "3" o "3x2" y lo envía.
// Con --pay además solicita la sesión de pago y espera el retorno.
func (a *app) cmdSell(ctx context.Context, args []string) error {
	gate := authz.Gate{Permissions: []entity.Permission{entity.PermCreateOrders}}
	if !gate.Allows(a.session) {
		return errors.New("la sesión actual no puede crear pedidos")
	}

	wantPay := false
	for _, arg := range args {
		if arg == "--pay" {
			wantPay = true
			continue
		}
		itemID, qty, err := parseSellArg(arg)
		if err != nil {
			return err
		}
		item, err := a.menu.Item(ctx, itemID)
		if err != nil {
			return fmt.Errorf("ítem %d: %w", itemID, err)
		}
		a.cart.AddLine(*item)
		if qty > 1 {
			a.cart.SetQuantity(item.ID, qty)
		}
	}

	totals := a.cart.Totals()
	order, err := a.cart.Submit(ctx)
	if err != nil {
		var partial *pos.PartialSubmitError
		if errors.As(err, &partial) {
			fmt.Fprintf(os.Stderr,
				"Pedido %s quedó incompleto en el servidor (%d/%d líneas); concíliela manualmente.\n",
				partial.OrderNumber, partial.Attached, partial.Total)
		}
		return err
	}
	fmt.Printf("Pedido %s creado. Total: $%s\n", order.OrderNumber, totals.Total.StringFixed(2))

	a.writeReceipt(ctx, order, totals)

	if wantPay {
		return a.collectPayment(ctx, order)
	}
	return nil
}

// writeReceipt genera el tique en PDF como mejor esfuerzo.
func (a *app) writeReceipt(ctx context.Context, order *dto.Order, totals pos.Totals) {
	lines := cartLinesFromOrder(order)
	data, err := a.receipts.GenerateReceipt(ctx, order, lines, totals)
	if err != nil {
		a.log.Warn().Err(err).Msg("no se pudo generar el tique")
		return
	}
	path := filepath.Join(a.cfg.POS.ReceiptDir, order.OrderNumber+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("no se pudo escribir el tique")
		return
	}
	fmt.Println("Tique:", path)
}

// cartLinesFromOrder reconstruye las líneas para el tique desde la
// respuesta del backend, que ya incluye los ítems adjuntados.
func cartLinesFromOrder(order *dto.Order) []pos.Line {
	lines := make([]pos.Line, 0, len(order.Items))
	for _, it := range order.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			price = decimal.Zero
		}
		lines = append(lines, pos.Line{
			Item:      dto.MenuItem{ID: it.MenuItem, Name: it.MenuItemName},
			Quantity:  it.Quantity,
			UnitPrice: price,
		})
	}
	return lines
}

// collectPayment solicita la sesión de pago y espera el retorno del
// navegador en el listener local.
func (a *app) collectPayment(ctx context.Context, order *dto.Order) error {
	listener := poshttp.NewPaymentReturnServer(a.cfg.Payment.ReturnPort, a.log)
	go func() {
		if err := listener.Start(); err != nil {
			a.log.Error().Err(err).Msg("listener de retorno de pago finalizado")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = listener.Shutdown(shutdownCtx)
	}()

	session, err := a.payments.CreateCheckoutSession(ctx, dto.CheckoutSessionInput{
		OrderID:    order.ID,
		SuccessURL: listener.SuccessURL(order.OrderNumber),
		CancelURL:  listener.CancelURL(order.OrderNumber),
	})
	if err != nil {
		return fmt.Errorf("sesión de pago: %w", err)
	}
	fmt.Println("Abra esta URL para pagar:", session.URL)

	select {
	case result := <-listener.Results():
		if result.Success {
			fmt.Println("Pago confirmado.")
		} else {
			fmt.Println("Pago cancelado por el cliente.")
		}
		return nil
	case <-time.After(10 * time.Minute):
		return errors.New("se agotó la espera del retorno de pago")
	}
}

// parseSellArg interpreta "3" como ítem 3 cantidad 1 y "3x2" como ítem 3
// cantidad 2.
func parseSellArg(arg string) (itemID int64, qty int, err error) {
	qty = 1
	idPart := arg
	if i := strings.IndexByte(arg, 'x'); i > 0 {
		idPart = arg[:i]
		qty, err = strconv.Atoi(arg[i+1:])
		if err != nil {
			return 0, 0, fmt.Errorf("cantidad inválida en %q", arg)
		}
	}
	itemID, err = strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("ítem inválido en %q", arg)
	}
	return itemID, qty, nil
}

func (a *app) cmdOrders(ctx context.Context, args []string) error {
	gate := authz.Gate{Permissions: []entity.Permission{entity.PermViewOrders}}
	if !gate.Allows(a.session) {
		return errors.New("la sesión actual no puede ver pedidos")
	}
	var customerID int64
	if len(args) > 0 {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("cliente inválido: %q", args[0])
		}
		customerID = n
	}
	list, err := a.orders.List(ctx, customerID)
	if err != nil {
		return err
	}
	for _, o := range list {
		fmt.Printf("%4d  %-20s  %-10s  $%s\n", o.ID, o.OrderNumber, o.Status, o.TotalAmount)
	}
	return nil
}

func (a *app) cmdStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("uso: pos status <pedidoID> <estado>")
	}
	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("pedido inválido: %q", args[0])
	}
	gate := authz.Gate{Permissions: []entity.Permission{entity.PermManageOrders}}
	if !gate.Allows(a.session) {
		return errors.New("la sesión actual no puede cambiar estados de pedido")
	}
	order, err := a.orders.SetStatus(ctx, orderID, entity.OrderStatus(args[1]))
	if err != nil {
		return err
	}
	fmt.Printf("Pedido %s ahora está %s\n", order.OrderNumber, order.Status)
	return nil
}

func (a *app) cmdSessions(ctx context.Context) error {
	sessions, err := a.session.Sessions(ctx)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		active := " "
		if s.IsActive {
			active = "*"
		}
		fmt.Printf("[%s] %s  %s  última actividad %s\n", active, s.ID, s.IPAddress, s.LastActivityAt)
	}
	return nil
}

func (a *app) cmdAudit(ctx context.Context, args []string) error {
	gate := authz.Gate{
		Permissions: []entity.Permission{entity.PermViewAuditLogs},
		Sensitive:   true,
	}
	if !gate.Allows(a.session) {
		return errors.New("la sesión actual no puede consultar la auditoría")
	}

	page := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			page = n
		}
	}
	logs, err := a.session.AuditLogs(ctx, page, 50, dto.AuditLogFilters{})
	if err != nil {
		return err
	}
	for _, l := range logs.Logs {
		fmt.Printf("%s  %-20s  %-15s  %s\n", l.Timestamp, l.Action, l.Resource, l.UserID)
	}
	fmt.Printf("página %d de %d (%d registros)\n", logs.Page, logs.TotalPages, logs.Total)
	return nil
}

func (a *app) cmdCustomers(ctx context.Context) error {
	gate := authz.Gate{Permissions: []entity.Permission{entity.PermViewUsers}}
	if !gate.Allows(a.session) {
		return errors.New("la sesión actual no puede ver clientes")
	}
	list, err := a.customers.Customers(ctx)
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Printf("%4d  %-30s  %s\n", c.ID, c.Name, c.Email)
	}
	return nil
}

func (a *app) cmdStats(ctx context.Context) error {
	gate := authz.Gate{
		Roles:     []entity.Role{entity.RoleOwner, entity.RoleManager},
		Sensitive: true,
	}
	if !gate.Allows(a.session) {
		return errors.New("las métricas requieren rol de dueño o gerente verificado")
	}
	stats, err := a.admin.DashboardStats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Pedidos hoy:     %d ($%.2f)\n", stats.TodayOrders, stats.TodayRevenue)
	fmt.Printf("Pedidos totales: %d ($%.2f)\n", stats.TotalOrders, stats.TotalRevenue)
	fmt.Printf("Pendientes:      %d   Completados: %d\n", stats.PendingOrders, stats.CompletedOrders)
	fmt.Printf("Usuarios:        %d   Stock bajo: %d\n", stats.TotalUsers, stats.LowStockItems)
	return nil
}
