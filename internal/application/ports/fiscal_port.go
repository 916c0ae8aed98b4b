package ports

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SubmitResult respuesta de la autoridad fiscal.
type SubmitResult struct {
	ExternalID string
	Accepted   bool
	Errors     []string
}

// FiscalSubmitter puerto de salida hacia la autoridad fiscal.
// Se invoca siempre después del commit; el contexto debe llevar timeout.
type FiscalSubmitter interface {
	Submit(ctx context.Context, doc *entity.FiscalDocument, lines []*entity.FiscalDocumentLine) (*SubmitResult, error)
}
