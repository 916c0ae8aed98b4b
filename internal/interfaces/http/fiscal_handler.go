package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// FiscalHandler reenvío de documentos fiscales.
type FiscalHandler struct {
	uc  *sales.FiscalSubmissionUseCase
	log *logger.Logger
}

// NewFiscalHandler construye el handler.
func NewFiscalHandler(uc *sales.FiscalSubmissionUseCase, log *logger.Logger) *FiscalHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &FiscalHandler{uc: uc, log: log}
}

// Retry godoc
// @Summary      Reintentar envío fiscal
// @Description  Reenvía un documento en estado pending o error. Si la autoridad vuelve a fallar
// @Description  responde 502 con el documento actualizado en details.
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento fiscal"
// @Success      200  {object}  dto.FiscalDocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya autorizado"
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/fiscal-documents/{id}/retry [post]
func (h *FiscalHandler) Retry(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	doc, err := h.uc.Retry(c.Context(), companyID, id)
	if err != nil {
		var submissionErr *domain.SubmissionError
		if errors.As(err, &submissionErr) && doc != nil {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Code:    "EXTERNAL_SUBMISSION",
				Message: submissionErr.Error(),
				Details: doc,
			})
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(doc)
}
