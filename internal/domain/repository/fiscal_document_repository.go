package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// FiscalDocumentRepository puerto para documentos fiscales.
type FiscalDocumentRepository interface {
	Create(ctx context.Context, doc *entity.FiscalDocument) error
	CreateLine(ctx context.Context, line *entity.FiscalDocumentLine) error
	GetByID(ctx context.Context, id string) (*entity.FiscalDocument, error)
	GetBySale(ctx context.Context, saleID string) (*entity.FiscalDocument, error)
	ListLines(ctx context.Context, documentID string) ([]*entity.FiscalDocumentLine, error)
	// UpdateSubmission persiste estado, mensaje, id externo e intentos.
	UpdateSubmission(ctx context.Context, doc *entity.FiscalDocument) error
	// DetachSale deja los documentos de la venta sin referencia (sale_id NULL).
	DetachSale(ctx context.Context, saleID string) error
}
