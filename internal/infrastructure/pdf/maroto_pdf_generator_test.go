package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$36,90 USD", formatMoney(decimal.RequireFromString("36.9"), "USD"))
	assert.Equal(t, "$1.234.567,50 COP", formatMoney(decimal.RequireFromString("1234567.5"), "COP"))
	assert.Equal(t, "-$4,00", formatMoney(decimal.NewFromInt(-4), ""))
	assert.Equal(t, "$0,00", formatMoney(decimal.Zero, ""))
}

func TestGenerateInvoicePDF_DevuelvePDF(t *testing.T) {
	notes := "Cambio de aceite"
	taxID := "900123456-7"
	due := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		InvoiceNumber: "INV-1700000000000-ABCD",
		CustomerName:  "Jane Doe",
		Items: []entity.LineItem{{
			ItemType: entity.LineItemLabor, Description: "Mano de obra", Quantity: 2,
			UnitPrice: decimal.NewFromInt(20), TaxRate: decimal.NewFromInt(10),
			Subtotal: decimal.NewFromInt(40), TaxAmount: decimal.NewFromInt(4), Total: decimal.NewFromInt(44),
		}},
		Subtotal:       decimal.NewFromInt(40),
		TaxAmount:      decimal.NewFromInt(4),
		DiscountRate:   decimal.NewFromInt(10),
		DiscountAmount: decimal.RequireFromString("4.4"),
		Total:          decimal.RequireFromString("39.6"),
		Status:         entity.InvoiceStatusSent,
		IssueDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:        &due,
		Notes:          &notes,
	}
	service := &entity.Service{Name: "Taller Central", TaxID: &taxID, Currency: "USD", InvoiceTerms: 30}

	body, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, service)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestGenerateInvoicePDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(ctx, &entity.Invoice{}, &entity.Service{})
	assert.ErrorIs(t, err, context.Canceled)
}
