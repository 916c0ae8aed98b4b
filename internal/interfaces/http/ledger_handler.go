package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// LedgerHandler cuentas por cobrar y vista de conciliación.
type LedgerHandler struct {
	receivables    *ledger.ReceivableUseCase
	reconciliation *ledger.ReconciliationUseCase
	log            *logger.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(receivables *ledger.ReceivableUseCase, reconciliation *ledger.ReconciliationUseCase, log *logger.Logger) *LedgerHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerHandler{receivables: receivables, reconciliation: reconciliation, log: log}
}

// SettleReceivable godoc
// @Summary      Marcar cuenta por cobrar como pagada
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true   "ID de la cuenta por cobrar"
// @Param        body  body      dto.SettleReceivableRequest   false  "paid_date (YYYY-MM-DD). Default: hoy."
// @Success      200   {object}  dto.ReceivableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya pagada"
// @Router       /api/receivables/{id}/settle [patch]
func (h *LedgerHandler) SettleReceivable(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.SettleReceivableRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	var paidAt time.Time
	if in.PaidDate != "" {
		d, err := time.Parse(dto.DateLayout, in.PaidDate)
		if err != nil {
			return writeError(c, h.log, domain.NewValidationError("paid_date", "formato esperado YYYY-MM-DD"))
		}
		paidAt = d
	}
	r, err := h.receivables.Settle(c.Context(), companyID, id, paidAt)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(r)
}

// Reconciliation godoc
// @Summary      Conciliación de saldos
// @Description  Lo que le deben a la empresa y lo que la empresa debe en el período, con la porción
// @Description  vencida calculada a la fecha actual, más el efectivo que entró y salió.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        from  query     string  true  "Inicio del período (YYYY-MM-DD)"
// @Param        to    query     string  true  "Fin del período (YYYY-MM-DD), inclusive"
// @Success      200   {object}  dto.ReconciliationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/ledger/reconciliation [get]
func (h *LedgerHandler) Reconciliation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return writeError(c, h.log, err)
	}
	report, err := h.reconciliation.Execute(c.Context(), companyID, from, to)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(report)
}

func parseDateQuery(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, domain.NewValidationError(key, "parámetro requerido (YYYY-MM-DD)")
	}
	d, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(key, "formato esperado YYYY-MM-DD")
	}
	return d, nil
}
