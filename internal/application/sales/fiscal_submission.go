package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// FiscalSubmissionUseCase envía documentos fiscales ya confirmados en la base.
// Corre siempre fuera de la transacción de la venta, con su propio timeout, y deja el
// documento en authorized o error. Un documento en error se reintenta con Retry.
type FiscalSubmissionUseCase struct {
	docs      repository.FiscalDocumentRepository
	submitter ports.FiscalSubmitter // nil = envío deshabilitado, el documento queda pending
	timeout   time.Duration
	metrics   ports.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewFiscalSubmissionUseCase construye el caso de uso. docs debe estar atado al pool.
func NewFiscalSubmissionUseCase(
	docs repository.FiscalDocumentRepository,
	submitter ports.FiscalSubmitter,
	timeout time.Duration,
	metrics ports.Metrics,
	log *logger.Logger,
) *FiscalSubmissionUseCase {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FiscalSubmissionUseCase{
		docs:      docs,
		submitter: submitter,
		timeout:   timeout,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Submit envía doc y persiste el resultado. Si la autoridad rechaza o no responde devuelve
// un *domain.SubmissionError junto con el documento actualizado.
func (uc *FiscalSubmissionUseCase) Submit(ctx context.Context, doc *entity.FiscalDocument, lines []*entity.FiscalDocumentLine) (*entity.FiscalDocument, error) {
	if uc.submitter == nil {
		return doc, nil
	}
	// El envío no depende de que el request siga vivo; la venta ya está confirmada.
	base := context.WithoutCancel(ctx)
	sctx, cancel := context.WithTimeout(base, uc.timeout)
	defer cancel()

	doc.Attempts++
	result, err := uc.submitter.Submit(sctx, doc, lines)

	var reason string
	switch {
	case err != nil:
		reason = err.Error()
	case result == nil:
		reason = "respuesta vacía de la autoridad fiscal"
	case !result.Accepted:
		reason = "rechazado"
		if len(result.Errors) > 0 {
			reason = "rechazado: " + strings.Join(result.Errors, "; ")
		}
	}

	doc.UpdatedAt = uc.now()
	if reason != "" {
		doc.Status = entity.FiscalStatusError
		doc.ErrorMessage = reason
		uc.metrics.FiscalSubmission(entity.FiscalStatusError)
	} else {
		doc.Status = entity.FiscalStatusAuthorized
		doc.ErrorMessage = ""
		doc.ExternalID = result.ExternalID
		uc.metrics.FiscalSubmission(entity.FiscalStatusAuthorized)
	}

	if uerr := uc.docs.UpdateSubmission(base, doc); uerr != nil {
		uc.log.Error().Err(uerr).Str("document_id", doc.ID).Msg("no se pudo persistir el estado del documento fiscal")
		return doc, fmt.Errorf("guardar estado del documento fiscal %s: %w", doc.ID, uerr)
	}
	if reason != "" {
		uc.log.Warn().
			Str("document_id", doc.ID).
			Str("company_id", doc.CompanyID).
			Int64("number", doc.Number).
			Int("attempts", doc.Attempts).
			Str("reason", reason).
			Msg("envío fiscal fallido")
		return doc, &domain.SubmissionError{DocumentID: doc.ID, Reason: reason}
	}
	uc.log.Info().
		Str("document_id", doc.ID).
		Int64("number", doc.Number).
		Str("external_id", doc.ExternalID).
		Msg("documento fiscal autorizado")
	return doc, nil
}

// Retry reenvía un documento pending o en error. Uno ya autorizado devuelve domain.ErrConflict.
func (uc *FiscalSubmissionUseCase) Retry(ctx context.Context, companyID, documentID string) (*dto.FiscalDocumentResponse, error) {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if doc.Status == entity.FiscalStatusAuthorized {
		return nil, domain.ErrConflict
	}
	if uc.submitter == nil {
		return nil, domain.NewValidationError("fiscal", "el envío de documentos fiscales está deshabilitado")
	}
	lines, err := uc.docs.ListLines(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc, err = uc.Submit(ctx, doc, lines)
	return toFiscalResponse(doc), err
}
