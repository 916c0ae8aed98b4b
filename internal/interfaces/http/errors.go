package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// shortageDetail faltante de un producto en la respuesta INSUFFICIENT_STOCK.
type shortageDetail struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Unit        string          `json:"unit"`
	Requested   decimal.Decimal `json:"requested"`
	Available   decimal.Decimal `json:"available"`
	Missing     decimal.Decimal `json:"missing"`
}

// validationDetail campo rechazado en la respuesta VALIDATION.
type validationDetail struct {
	Field string `json:"field,omitempty"`
}

// writeError traduce un error de aplicación a status HTTP + dto.ErrorResponse.
// Solo los 500 se registran en el log; el resto son respuestas esperadas.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		stockErr      *domain.InsufficientStockError
		validationErr *domain.ValidationError
		submissionErr *domain.SubmissionError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: validationErr.Error(),
			Details: validationDetail{Field: validationErr.Field},
		})
	case errors.As(err, &stockErr):
		details := make([]shortageDetail, 0, len(stockErr.Shortages))
		for _, s := range stockErr.Shortages {
			details = append(details, shortageDetail{
				ProductID:   s.ProductID,
				ProductName: s.ProductName,
				Unit:        s.Unit,
				Requested:   s.Requested,
				Available:   s.Available,
				Missing:     s.Missing(),
			})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Details: details})
	case errors.Is(err, domain.ErrTransactionConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT_RETRY", Message: "conflicto de concurrencia, intente de nuevo"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.As(err, &submissionErr):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "EXTERNAL_SUBMISSION", Message: submissionErr.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
