package billing

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InvoicePDFGenerator representación gráfica (PDF) de una factura con los datos del taller.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, service *entity.Service) ([]byte, error)
}

// ObjectStorage almacén de archivos (S3 o disco local).
// Put devuelve la URL pública del objeto guardado.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}
