package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

const pdfContentType = "application/pdf"

// PDFUseCase genera la representación gráfica (PDF) de una factura y la publica en el almacén de archivos.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	serviceRepo repository.ServiceRepository
	generator   InvoicePDFGenerator
	storage     ObjectStorage
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	serviceRepo repository.ServiceRepository,
	generator InvoicePDFGenerator,
	storage ObjectStorage,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		serviceRepo: serviceRepo,
		generator:   generator,
		storage:     storage,
	}
}

// Generate renderiza el PDF, lo sube y guarda la URL en la factura.
func (uc *PDFUseCase) Generate(ctx context.Context, sess auth.Session, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, service, err := uc.load(ctx, sess, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := uc.Publish(ctx, inv, service); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// Publish renderiza y sube el PDF de inv y actualiza su pdf_url.
func (uc *PDFUseCase) Publish(ctx context.Context, inv *entity.Invoice, service *entity.Service) error {
	body, err := uc.generator.GenerateInvoicePDF(ctx, inv, service)
	if err != nil {
		return fmt.Errorf("pdf: generación fallida: %w", err)
	}
	url, err := uc.storage.Put(ctx, ObjectKey(inv), body, pdfContentType)
	if err != nil {
		return fmt.Errorf("pdf: subir archivo: %w", err)
	}
	inv.PDFURL = &url
	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return fmt.Errorf("pdf: guardar url: %w", err)
	}
	return nil
}

// Download devuelve el PDF publicado o, si aún no existe, lo genera al vuelo.
func (uc *PDFUseCase) Download(ctx context.Context, sess auth.Session, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, service, err := uc.load(ctx, sess, invoiceID)
	if err != nil {
		return nil, "", err
	}
	filename = fmt.Sprintf("factura_%s.pdf", inv.InvoiceNumber)
	if inv.PDFURL != nil {
		if body, gErr := uc.storage.Get(ctx, ObjectKey(inv)); gErr == nil {
			return body, filename, nil
		}
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, service)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, filename, nil
}

func (uc *PDFUseCase) load(ctx context.Context, sess auth.Session, invoiceID string) (*entity.Invoice, *entity.Service, error) {
	inv, err := auth.Owned(ctx, sess, invoiceID, uc.invoiceRepo.GetByID, func(i *entity.Invoice) string { return i.ServiceID })
	if err != nil {
		return nil, nil, err
	}
	service, err := auth.Owned(ctx, sess, inv.ServiceID, uc.serviceRepo.GetByID, func(s *entity.Service) string { return s.ID })
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: obtener taller: %w", err)
	}
	return inv, service, nil
}

// ObjectKey ruta del PDF de la factura en el almacén: invoices/<taller>/<número>.pdf.
func ObjectKey(inv *entity.Invoice) string {
	return fmt.Sprintf("invoices/%s/%s.pdf", inv.ServiceID, inv.InvoiceNumber)
}
