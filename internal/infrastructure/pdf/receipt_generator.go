// Package pdf genera el tique de venta en PDF con formato de impresora
// térmica de 80mm.
//
// Layout del tique:
//
//	┌──────────────────────────────┐
//	│   CAFETERÍA (nombre)         │
//	│   Pedido N° + fecha          │
//	│  ──────────────────────────  │
//	│  Cant | Ítem | P.Unit | Tot  │
//	│  ──────────────────────────  │
//	│  Subtotal / Impuesto / TOTAL │
//	│  ¡Gracias por su compra!     │
//	└──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/Cafeteria-pos/internal/application/pos"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorInk  = &props.Color{Red: 30, Green: 30, Blue: 30}
	colorGray = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// Ancho de impresora térmica estándar; el alto crece con las líneas.
const (
	ticketWidthMM      = 80
	ticketBaseHeightMM = 90
	ticketLineHeightMM = 5
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa pos.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	cafeName string
}

// NewReceiptGenerator construye el generador con el nombre del local que
// encabeza cada tique.
func NewReceiptGenerator(cafeName string) *ReceiptGenerator {
	return &ReceiptGenerator{cafeName: cafeName}
}

// GenerateReceipt genera el tique del pedido y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(
	_ context.Context,
	order *dto.Order,
	lines []pos.Line,
	totals pos.Totals,
) ([]byte, error) {
	height := ticketBaseHeightMM + len(lines)*ticketLineHeightMM
	cfg := config.NewBuilder().
		WithDimensions(ticketWidthMM, float64(height)).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 8}).
		WithTitle("Tique de venta "+order.OrderNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(g.cafeName, order)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorInk, Thickness: 0.4}))
	m.AddRows(tableHeaderRow())
	for _, l := range lines {
		m.AddRows(lineRow(l))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorInk, Thickness: 0.4}))
	m.AddRows(totalsRows(totals)...)
	m.AddRows(footerRows()...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar tique: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRows: nombre del local + número de pedido y fecha.
func headerRows(cafeName string, order *dto.Order) []core.Row {
	fecha := order.CreatedAt
	if fecha == "" {
		fecha = time.Now().Format("02/01/2006 15:04")
	}
	return []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(cafeName, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center,
				Color: colorInk, Top: 1,
			}),
		)),
		row.New(9).Add(col.New(12).Add(
			text.New("Pedido "+order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 1,
			}),
			text.New(fecha, props.Text{
				Size: 7, Align: align.Center, Top: 6, Color: colorGray,
			}),
		)),
	}
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Top: 1,
		}))
	}
	return row.New(5).Add(
		h("Cant", 2, align.Left),
		h("Ítem", 5, align.Left),
		h("P.Unit", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// lineRow: una fila por línea del carrito.
func lineRow(l pos.Line) core.Row {
	lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return row.New(ticketLineHeightMM).Add(
		col.New(2).Add(text.New(
			fmt.Sprintf("%d", l.Quantity),
			props.Text{Size: 7, Align: align.Left, Top: 1},
		)),
		col.New(5).Add(text.New(
			l.Item.Name,
			props.Text{Size: 7, Align: align.Left, Top: 1},
		)),
		col.New(2).Add(text.New(
			l.UnitPrice.StringFixed(2),
			props.Text{Size: 7, Align: align.Right, Top: 1},
		)),
		col.New(3).Add(text.New(
			lineTotal.StringFixed(2),
			props.Text{Size: 7, Align: align.Right, Top: 1},
		)),
	)
}

// totalsRows: subtotal, impuesto y total a pagar.
func totalsRows(t pos.Totals) []core.Row {
	pair := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		size := 8.0
		if bold {
			style = fontstyle.Bold
			size = 10
		}
		return row.New(5).Add(
			col.New(7).Add(text.New(label, props.Text{
				Style: style, Size: size, Align: align.Right, Right: 2,
			})),
			col.New(5).Add(text.New(value, props.Text{
				Style: style, Size: size, Align: align.Right,
			})),
		)
	}
	return []core.Row{
		pair("Subtotal:", t.Subtotal.StringFixed(2), false),
		pair("Impuesto:", t.Tax.StringFixed(2), false),
		pair("TOTAL:", t.Total.StringFixed(2), true),
	}
}

// footerRows: despedida.
func footerRows() []core.Row {
	return []core.Row{
		row.New(4),
		row.New(6).Add(col.New(12).Add(
			text.New("¡Gracias por su compra!", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 1,
			}),
		)),
	}
}
