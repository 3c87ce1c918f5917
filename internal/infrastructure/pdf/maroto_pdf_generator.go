// Package pdf genera el PDF de las facturas del taller.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Taller + NIT         │  N° Factura + Fechas         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TALLER: Dirección / Tel / Email                             │
//	│  CLIENTE: Nombre + email                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IVA | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / Descuento / TOTAL           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + notas + condiciones de pago    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabels = map[string]string{
	entity.InvoiceStatusDraft:     "BORRADOR",
	entity.InvoiceStatusSent:      "PENDIENTE DE PAGO",
	entity.InvoiceStatusPaid:      "PAGADA",
	entity.InvoiceStatusOverdue:   "VENCIDA",
	entity.InvoiceStatusCancelled: "ANULADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	ctx context.Context,
	invoice *entity.Invoice,
	service *entity.Service,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.InvoiceNumber, true).
		WithAuthor(service.Name, true).
		Build()

	m := maroto.New(cfg)
	cur := service.Currency

	m.AddRows(headerRow(invoice, service))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(serviceRow(service))
	m.AddRows(customerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(invoice.Items, cur)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice, cur))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(invoice, service)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: taller + NIT (izq) y N° factura + fechas + estado (der).
func headerRow(invoice *entity.Invoice, service *entity.Service) core.Row {
	right := []core.Component{
		text.New("FACTURA DE VENTA", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
		}),
		text.New(invoice.InvoiceNumber, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
		}),
		text.New("Fecha: "+formatDate(invoice.IssueDate), props.Text{
			Size: 8, Align: align.Right, Top: 12, Color: colorGray,
		}),
	}
	if invoice.DueDate != nil {
		right = append(right, text.New("Vence: "+formatDate(*invoice.DueDate), props.Text{
			Size: 8, Align: align.Right, Top: 16, Color: colorGray,
		}))
	}
	right = append(right, text.New(statusLabels[invoice.Status], props.Text{
		Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 20, Color: colorPrimary,
	}))

	left := []core.Component{
		text.New(service.Name, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}),
	}
	if service.TaxID != nil {
		left = append(left, text.New("NIT: "+*service.TaxID, props.Text{
			Size: 9, Top: 9, Color: colorGray,
		}))
	}
	return row.New(25).Add(col.New(7).Add(left...), col.New(5).Add(right...))
}

// serviceRow: datos de contacto del taller.
func serviceRow(service *entity.Service) core.Row {
	addr := nonEmpty(service.Address, "—")
	if service.City != nil {
		addr += ", " + *service.City
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("TALLER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				addr,
				nonEmpty(service.Phone, "—"),
				nonEmpty(service.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// customerRow: datos del cliente.
func customerRow(invoice *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Email: "+nonEmpty(invoice.CustomerEmail, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea.
func tableDetailRows(items []entity.LineItem, cur string) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.UnitPrice, cur),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.TaxRate.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				formatMoney(it.Total, cur),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(invoice *entity.Invoice, cur string) core.Row {
	type entry struct {
		label, value string
		grand        bool
	}
	entries := []entry{
		{"Subtotal:", formatMoney(invoice.Subtotal, cur), false},
		{"Impuestos:", formatMoney(invoice.TaxAmount, cur), false},
	}
	if invoice.DiscountAmount.IsPositive() {
		entries = append(entries, entry{
			fmt.Sprintf("Descuento (%s%%):", invoice.DiscountRate.String()),
			"-" + formatMoney(invoice.DiscountAmount, cur), false,
		})
	}
	entries = append(entries, entry{"TOTAL A PAGAR:", formatMoney(invoice.Total, cur), true})

	labels := col.New(3)
	values := col.New(3)
	for i, e := range entries {
		style := props.Text{Size: 9, Align: align.Right, Top: float64(i * 5)}
		if e.grand {
			style.Style = fontstyle.Bold
			style.Size = 10
			style.Color = colorPrimary
		}
		ls := style
		ls.Style = fontstyle.Bold
		ls.Right = 2
		vs := style
		vs.Right = 1
		labels.Add(text.New(e.label, ls))
		values.Add(text.New(e.value, vs))
	}
	return row.New(float64(len(entries)*5 + 4)).Add(col.New(3), labels, values, col.New(3))
}

// footerRows: QR con los datos de verificación, notas y condiciones.
func footerRows(invoice *entity.Invoice, service *entity.Service) []core.Row {
	qr := strings.Join([]string{
		invoice.InvoiceNumber,
		service.Name,
		invoice.Total.StringFixed(2) + " " + service.Currency,
		formatDate(invoice.IssueDate),
	}, "|")

	legend := "Gracias por su confianza."
	if invoice.Status == entity.InvoiceStatusPaid && invoice.PaidAt != nil {
		legend = "Pagada el " + formatDate(*invoice.PaidAt)
		if invoice.PaymentMethod != nil {
			legend += " (" + *invoice.PaymentMethod + ")"
		}
	} else if service.InvoiceTerms > 0 {
		legend = fmt.Sprintf("Pago a %d días desde la fecha de envío.", service.InvoiceTerms)
	}

	rows := []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New(legend, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
				text.New(service.Name, props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 14, Left: 3, Color: colorPrimary,
				}),
			),
		),
	}
	if invoice.Notes != nil && *invoice.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+*invoice.Notes, props.Text{Size: 7, Color: colorGray, Top: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}

func formatDate(t time.Time) string {
	return t.UTC().Format("02/01/2006")
}

// formatMoney formatea con separador de miles "." y decimales ",".
// Ej: 1234567.5 → "$1.234.567,50 COP".
func formatMoney(d decimal.Decimal, cur string) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := "$" + string(buf) + "," + frac
	if d.IsNegative() {
		out = "-" + out
	}
	if cur != "" {
		out += " " + cur
	}
	return out
}
